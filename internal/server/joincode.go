package server

import "crypto/rand"

// Alphabet without 0/O/1/I: join codes are read aloud and typed on phones.
const joinCodeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const joinCodeLen = 6

func newJoinCode() string {
	buf := make([]byte, joinCodeLen)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf)
}
