package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// matrixLen is the flattened 4x4 placement transform.
const matrixLen = 16

var collectibleTypes = map[string]bool{
	"GOLD":   true,
	"SILVER": true,
	"BRONZE": true,
}

type CollectibleCreateRequest struct {
	Type       string    `json:"type"`
	Points     int       `json:"points"`
	Matrix     []float64 `json:"matrix"`
	WorldMapID string    `json:"worldMapId,omitempty"`
}

type CollectibleDTO struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Points     int       `json:"points"`
	Matrix     []float64 `json:"matrix"`
	WorldMapID string    `json:"worldMapId,omitempty"`
}

func collectibleDTO(c Collectible) CollectibleDTO {
	return CollectibleDTO{
		ID:         c.ID,
		Type:       c.Type,
		Points:     c.Points,
		Matrix:     c.Matrix,
		WorldMapID: c.WorldMapID,
	}
}

func handleCollectibleCreate(logger *slog.Logger, store Store, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID := chi.URLParam(r, "zoneID")

		var req CollectibleCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if !collectibleTypes[req.Type] {
			writeError(w, http.StatusBadRequest, "type must be one of GOLD, SILVER, BRONZE")
			return
		}
		if req.Points <= 0 {
			writeError(w, http.StatusBadRequest, "points must be positive")
			return
		}
		if len(req.Matrix) != matrixLen {
			writeError(w, http.StatusBadRequest, "matrix must be 16 floats")
			return
		}

		if _, err := store.GetZone(r.Context(), zoneID); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "zone not found")
			return
		} else if err != nil {
			logger.Error("loading zone", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		created, err := store.CreateCollectible(r.Context(), Collectible{
			ZoneID:     zoneID,
			WorldMapID: req.WorldMapID,
			Type:       req.Type,
			Points:     req.Points,
			Matrix:     req.Matrix,
		})
		if err != nil {
			logger.Error("creating collectible", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		broker.Publish(zoneID, ZoneEvent{
			Type:            "collectible_placed",
			CollectibleID:   created.ID,
			CollectibleType: created.Type,
			Points:          created.Points,
		})

		writeJSON(w, http.StatusCreated, collectibleDTO(created))
	}
}

func handleCollectibleList(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID := chi.URLParam(r, "zoneID")
		worldMapID := r.URL.Query().Get("worldMapId")

		if _, err := store.GetZone(r.Context(), zoneID); errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "zone not found")
			return
		} else if err != nil {
			logger.Error("loading zone", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		items, err := store.ListCollectibles(r.Context(), zoneID, worldMapID)
		if err != nil {
			logger.Error("listing collectibles", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		dtos := make([]CollectibleDTO, 0, len(items))
		for _, c := range items {
			dtos = append(dtos, collectibleDTO(c))
		}
		writeJSON(w, http.StatusOK, dtos)
	}
}
