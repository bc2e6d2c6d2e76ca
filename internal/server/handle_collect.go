package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type CollectResponse struct {
	AwardedPoints int `json:"awardedPoints"`
	TotalPoints   int `json:"totalPoints"`
}

func handleCollect(logger *slog.Logger, store Store, cache *LeaderboardCache, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectibleID := chi.URLParam(r, "collectibleID")
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId query parameter required")
			return
		}

		if _, err := store.GetUser(r.Context(), userID); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		} else if err != nil {
			logger.Error("loading user", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		res, err := store.Collect(r.Context(), collectibleID, userID)
		if errors.Is(err, ErrAlreadyCollected) {
			writeError(w, http.StatusConflict, "already collected")
			return
		}
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "collectible not found")
			return
		}
		if err != nil {
			logger.Error("collecting", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		cache.Invalidate(r.Context(), res.ZoneID)
		broker.Publish(res.ZoneID, ZoneEvent{
			Type:          "collectible_collected",
			CollectibleID: collectibleID,
			Points:        res.Awarded,
			UserID:        userID,
		})

		writeJSON(w, http.StatusOK, CollectResponse{
			AwardedPoints: res.Awarded,
			TotalPoints:   res.Total,
		})
	}
}
