package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps dependency names to their check status.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "UX GO API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the UX GO augmented-reality collection game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/echo
	getWSEcho, _ := r.NewOperationContext(http.MethodGet, "/ws/echo")
	getWSEcho.SetSummary("WebSocket echo")
	getWSEcho.SetDescription("Upgrades to a WebSocket connection that echoes messages back.")
	getWSEcho.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEcho)

	// POST /api/users/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/users/register")
	postRegister.SetSummary("Register device")
	postRegister.SetDescription("Returns the user for the device id, creating a guest account on first contact. Idempotent.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(RegisterResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRegister)

	// POST /api/users/claim
	postClaim, _ := r.NewOperationContext(http.MethodPost, "/api/users/claim")
	postClaim.SetSummary("Claim guest account")
	postClaim.SetDescription("Names a guest account, records an optional email, and clears the guest flag.")
	postClaim.AddReqStructure(ClaimRequest{})
	postClaim.AddRespStructure(ClaimResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postClaim.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postClaim.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postClaim)

	// GET /api/users/{userID}/points
	getPoints, _ := r.NewOperationContext(http.MethodGet, "/api/users/{userID}/points")
	getPoints.SetSummary("User points")
	getPoints.SetDescription("Returns the user's point total, scoped to zoneId when given.")
	getPoints.AddRespStructure(PointsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getPoints.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getPoints)

	// POST /api/zones
	postZone, _ := r.NewOperationContext(http.MethodPost, "/api/zones")
	postZone.SetSummary("Create zone")
	postZone.SetDescription("Creates a zone with a generated join code. Coordinates are optional.")
	postZone.AddReqStructure(ZoneCreateRequest{})
	postZone.AddRespStructure(ZoneResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postZone.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postZone)

	// POST /api/zones/auto
	postZoneAuto, _ := r.NewOperationContext(http.MethodPost, "/api/zones/auto")
	postZoneAuto.SetSummary("Resolve zone by position")
	postZoneAuto.SetDescription("Reuses the nearest zone within the configured radius, otherwise creates one at the given coordinates.")
	postZoneAuto.AddReqStructure(ZoneAutoRequest{})
	postZoneAuto.AddRespStructure(ZoneResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postZoneAuto.AddRespStructure(ZoneResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postZoneAuto.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postZoneAuto)

	// GET /api/zones/{zoneID}
	getZone, _ := r.NewOperationContext(http.MethodGet, "/api/zones/{zoneID}")
	getZone.SetSummary("Get zone")
	getZone.AddRespStructure(ZoneResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getZone.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getZone)

	// GET /api/zones/join/{code}
	getZoneByCode, _ := r.NewOperationContext(http.MethodGet, "/api/zones/join/{code}")
	getZoneByCode.SetSummary("Look up zone by join code")
	getZoneByCode.AddRespStructure(ZoneResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getZoneByCode.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getZoneByCode)

	// GET /api/zones/{zoneID}/collectibles
	listCollectibles, _ := r.NewOperationContext(http.MethodGet, "/api/zones/{zoneID}/collectibles")
	listCollectibles.SetSummary("List collectibles")
	listCollectibles.SetDescription("Returns the zone's uncollected collectibles, optionally filtered by worldMapId.")
	listCollectibles.AddRespStructure([]CollectibleDTO{}, openapi.WithHTTPStatus(http.StatusOK))
	listCollectibles.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(listCollectibles)

	// POST /api/zones/{zoneID}/collectibles
	createCollectible, _ := r.NewOperationContext(http.MethodPost, "/api/zones/{zoneID}/collectibles")
	createCollectible.SetSummary("Place collectible")
	createCollectible.SetDescription("Places a collectible in the zone. The matrix must be exactly 16 floats.")
	createCollectible.AddReqStructure(CollectibleCreateRequest{})
	createCollectible.AddRespStructure(CollectibleDTO{}, openapi.WithHTTPStatus(http.StatusCreated))
	createCollectible.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createCollectible.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(createCollectible)

	// POST /api/collectibles/{collectibleID}/collect
	postCollect, _ := r.NewOperationContext(http.MethodPost, "/api/collectibles/{collectibleID}/collect")
	postCollect.SetSummary("Collect")
	postCollect.SetDescription("Awards the collectible's points to userId exactly once and removes it from the zone.")
	postCollect.AddRespStructure(CollectResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postCollect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postCollect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postCollect.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postCollect)

	// GET /api/zones/{zoneID}/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/zones/{zoneID}/leaderboard")
	getLeaderboard.SetSummary("Zone leaderboard")
	getLeaderboard.SetDescription("Returns users ranked by points within the zone, capped by limit.")
	getLeaderboard.AddRespStructure([]LeaderboardEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	getLeaderboard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getLeaderboard)

	// GET /api/zones/{zoneID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/zones/{zoneID}/events")
	getEvents.SetSummary("Zone event stream")
	getEvents.SetDescription("Server-Sent Events stream of collectible placements and pickups in the zone.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// POST /api/zones/{zoneID}/worldmap
	postWorldMap, _ := r.NewOperationContext(http.MethodPost, "/api/zones/{zoneID}/worldmap")
	postWorldMap.SetSummary("Upload world map")
	postWorldMap.SetDescription("Stores a base64-encoded AR world map blob for the zone.")
	postWorldMap.AddReqStructure(WorldMapUploadRequest{})
	postWorldMap.AddRespStructure(WorldMapUploadResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postWorldMap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postWorldMap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postWorldMap)

	// GET /api/zones/{zoneID}/worldmap
	getWorldMap, _ := r.NewOperationContext(http.MethodGet, "/api/zones/{zoneID}/worldmap")
	getWorldMap.SetSummary("Fetch world map")
	getWorldMap.SetDescription("Returns the zone's most recent world map blob.")
	getWorldMap.AddRespStructure(WorldMapResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getWorldMap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getWorldMap)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
