package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const leaderboardMaxLimit = 50

func handleLeaderboard(logger *slog.Logger, store Store, cache *LeaderboardCache, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID := chi.URLParam(r, "zoneID")

		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		if limit > leaderboardMaxLimit {
			limit = leaderboardMaxLimit
		}

		if _, err := store.GetZone(r.Context(), zoneID); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "zone not found")
			return
		} else if err != nil {
			logger.Error("loading zone", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if entries, ok := cache.Get(r.Context(), zoneID, limit); ok {
			writeJSON(w, http.StatusOK, entries)
			return
		}

		entries, err := store.Leaderboard(r.Context(), zoneID, limit)
		if err != nil {
			logger.Error("building leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		cache.Set(r.Context(), zoneID, limit, entries)
		writeJSON(w, http.StatusOK, entries)
	}
}
