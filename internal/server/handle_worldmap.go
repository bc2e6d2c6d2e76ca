package server

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type WorldMapUploadRequest struct {
	MapBase64 string `json:"mapBase64"`
}

type WorldMapUploadResponse struct {
	WorldMapID string `json:"worldMapId"`
}

type WorldMapResponse struct {
	WorldMapID string `json:"worldMapId"`
	MapBase64  string `json:"mapBase64"`
}

func handleWorldMapUpload(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID := chi.URLParam(r, "zoneID")

		var req WorldMapUploadRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.MapBase64 == "" {
			writeError(w, http.StatusBadRequest, "mapBase64 is required")
			return
		}

		data, err := base64.StdEncoding.DecodeString(req.MapBase64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "mapBase64 is not valid base64")
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

		id, err := store.SaveWorldMap(r.Context(), zoneID, data)
		if err != nil {
			logger.Error("saving world map", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, WorldMapUploadResponse{WorldMapID: id})
	}
}

func handleWorldMapFetch(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneID := chi.URLParam(r, "zoneID")

		m, err := store.LatestWorldMap(r.Context(), zoneID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "no world map for zone")
			return
		}
		if err != nil {
			logger.Error("loading world map", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, WorldMapResponse{
			WorldMapID: m.ID,
			MapBase64:  base64.StdEncoding.EncodeToString(m.Data),
		})
	}
}
