package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type ZoneCreateRequest struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type ZoneAutoRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ZoneResponse struct {
	ZoneID   string   `json:"zoneId"`
	JoinCode string   `json:"joinCode"`
	Name     string   `json:"name,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	Created  bool     `json:"created,omitempty"`
}

func zoneResponse(z Zone, created bool) ZoneResponse {
	return ZoneResponse{
		ZoneID:   z.ID,
		JoinCode: z.JoinCode,
		Name:     z.Name,
		Lat:      z.Lat,
		Lng:      z.Lng,
		Created:  created,
	}
}

func handleZoneCreate(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ZoneCreateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if (req.Lat == nil) != (req.Lng == nil) {
			writeError(w, http.StatusBadRequest, "lat and lng must be given together")
			return
		}
		if req.Lat != nil && !validCoords(*req.Lat, *req.Lng) {
			writeError(w, http.StatusBadRequest, "coordinates out of range")
			return
		}

		zone, err := store.CreateZone(r.Context(), req.Name, newJoinCode(), req.Lat, req.Lng)
		if err != nil {
			logger.Error("creating zone", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, zoneResponse(zone, true))
	}
}

// handleZoneAuto resolves the caller's position to a zone: the nearest
// existing zone within radiusM is reused, otherwise a fresh zone is created
// at the given coordinates. The scan is linear over all geolocated zones,
// which stays cheap at the zone counts this service sees.
func handleZoneAuto(logger *slog.Logger, store Store, radiusM float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ZoneAutoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if !validCoords(req.Lat, req.Lng) {
			writeError(w, http.StatusBadRequest, "coordinates out of range")
			return
		}

		locs, err := store.ListZoneLocations(r.Context())
		if err != nil {
			logger.Error("listing zone locations", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if best, dist, ok := nearestZone(locs, req.Lat, req.Lng); ok && dist <= radiusM {
			zone, err := store.GetZone(r.Context(), best.ID)
			if err != nil {
				logger.Error("loading nearest zone", "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			writeJSON(w, http.StatusOK, zoneResponse(zone, false))
			return
		}

		zone, err := store.CreateZone(r.Context(), "", newJoinCode(), &req.Lat, &req.Lng)
		if err != nil {
			logger.Error("creating zone", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, zoneResponse(zone, true))
	}
}

func handleZoneGet(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zone, err := store.GetZone(r.Context(), chi.URLParam(r, "zoneID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "zone not found")
			return
		}
		if err != nil {
			logger.Error("loading zone", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, zoneResponse(zone, false))
	}
}

func handleZoneLookup(logger *slog.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))

		zone, err := store.ZoneByJoinCode(r.Context(), code)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "zone not found")
			return
		}
		if err != nil {
			logger.Error("looking up zone by join code", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, zoneResponse(zone, false))
	}
}
