package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
)

type ClaimRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type ClaimResponse struct {
	OK bool `json:"ok"`
}

func handleClaim(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClaimRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.UserID = strings.TrimSpace(req.UserID)
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.TrimSpace(req.Email)
		if req.UserID == "" || req.Name == "" {
			writeError(w, http.StatusBadRequest, "userId and name are required")
			return
		}
		if req.Email != "" {
			if _, err := mail.ParseAddress(req.Email); err != nil {
				writeError(w, http.StatusBadRequest, "invalid email address")
				return
			}
		}

		err := store.ClaimUser(r.Context(), req.UserID, req.Name, req.Email)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		if err != nil {
			logger.Error("claiming user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, ClaimResponse{OK: true})
	}
}
