package server

import (
	"encoding/json"
	"sync"
)

// ZoneEvent is the payload published to zone subscribers.
type ZoneEvent struct {
	Type            string `json:"type"`
	CollectibleID   string `json:"collectibleId,omitempty"`
	CollectibleType string `json:"collectibleType,omitempty"`
	Points          int    `json:"points,omitempty"`
	UserID          string `json:"userId,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by zone ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given zone.
func (b *Broker) Subscribe(zoneID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[zoneID] == nil {
		b.subs[zoneID] = make(map[chan []byte]struct{})
	}
	b.subs[zoneID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the zone's subscribers.
func (b *Broker) Unsubscribe(zoneID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[zoneID], ch)
	if len(b.subs[zoneID]) == 0 {
		delete(b.subs, zoneID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given zone.
func (b *Broker) Publish(zoneID string, event ZoneEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[zoneID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
