package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type PointsResponse struct {
	Points int `json:"points"`
}

func handlePoints(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		zoneID := r.URL.Query().Get("zoneId")

		if _, err := store.GetUser(r.Context(), userID); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		} else if err != nil {
			logger.Error("loading user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		points, err := store.UserPoints(r.Context(), userID, zoneID)
		if err != nil {
			logger.Error("summing user points", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, PointsResponse{Points: points})
	}
}
