package server

import (
	"log/slog"
	"net/http"
	"strings"
)

type RegisterRequest struct {
	DeviceID string `json:"deviceId"`
}

type RegisterResponse struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	IsGuest bool   `json:"isGuest"`
	Points  int    `json:"points"`
}

func handleRegister(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.DeviceID = strings.TrimSpace(req.DeviceID)
		if req.DeviceID == "" {
			writeError(w, http.StatusBadRequest, "deviceId is required")
			return
		}

		user, err := store.RegisterUser(r.Context(), req.DeviceID)
		if err != nil {
			logger.Error("registering user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		points, err := store.UserPoints(r.Context(), user.ID, "")
		if err != nil {
			logger.Error("summing user points", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, RegisterResponse{
			UserID:  user.ID,
			Name:    user.Name,
			IsGuest: user.IsGuest,
			Points:  points,
		})
	}
}
