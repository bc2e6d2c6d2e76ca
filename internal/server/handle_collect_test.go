package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/alialduaylijelm/uxgo/internal/config"
	"github.com/alialduaylijelm/uxgo/internal/database"
	"github.com/alialduaylijelm/uxgo/internal/migrations"
)

func testRouter(t *testing.T) *chi.Mux {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	cfg := &config.Config{ZoneRadiusM: 250, LeaderboardLimit: 25}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	addRoutes(r, cfg, logger, NewSQLiteStore(db), NewLeaderboardCache(nil), NewBroker(), db, nil)
	return r
}

// do runs a request against the router and returns the recorder. A nil body
// sends no payload, anything else is JSON-encoded.
func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func createZone(t *testing.T, r http.Handler) ZoneResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/zones", ZoneCreateRequest{Name: "Expo Hall"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create zone: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode[ZoneResponse](t, w)
}

func registerDevice(t *testing.T, r http.Handler, deviceID string) RegisterResponse {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/users/register", RegisterRequest{DeviceID: deviceID})
	if w.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return decode[RegisterResponse](t, w)
}

func placeCollectible(t *testing.T, r http.Handler, zoneID string, typ string, points int) CollectibleDTO {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/zones/"+zoneID+"/collectibles", CollectibleCreateRequest{
		Type:   typ,
		Points: points,
		Matrix: make([]float64, 16),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place collectible: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode[CollectibleDTO](t, w)
}

func TestCollectFlow(t *testing.T) {
	r := testRouter(t)

	zone := createZone(t, r)
	item := placeCollectible(t, r, zone.ZoneID, "GOLD", 100)
	user := registerDevice(t, r, "d1")

	// First collect awards the points.
	w := do(t, r, http.MethodPost, "/api/collectibles/"+item.ID+"/collect?userId="+user.UserID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("collect: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[CollectResponse](t, w)
	if resp.AwardedPoints != 100 {
		t.Errorf("awardedPoints = %d, want 100", resp.AwardedPoints)
	}
	if resp.TotalPoints != 100 {
		t.Errorf("totalPoints = %d, want 100", resp.TotalPoints)
	}

	// Second collect by the same user is a conflict, not a double award.
	w = do(t, r, http.MethodPost, "/api/collectibles/"+item.ID+"/collect?userId="+user.UserID, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("repeat collect: expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// Another user finds the collectible gone.
	other := registerDevice(t, r, "d2")
	w = do(t, r, http.MethodPost, "/api/collectibles/"+item.ID+"/collect?userId="+other.UserID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("collect gone: expected 404, got %d: %s", w.Code, w.Body.String())
	}

	// Points reflect exactly one award.
	w = do(t, r, http.MethodGet, "/api/users/"+user.UserID+"/points?zoneId="+zone.ZoneID, nil)
	if pts := decode[PointsResponse](t, w); pts.Points != 100 {
		t.Errorf("zone points = %d, want 100", pts.Points)
	}

	// The collectible no longer appears in the zone listing.
	w = do(t, r, http.MethodGet, "/api/zones/"+zone.ZoneID+"/collectibles", nil)
	if items := decode[[]CollectibleDTO](t, w); len(items) != 0 {
		t.Errorf("listing after collect: expected empty, got %d items", len(items))
	}

	// Leaderboard shows the guest with exactly one award.
	w = do(t, r, http.MethodGet, "/api/zones/"+zone.ZoneID+"/leaderboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	board := decode[[]LeaderboardEntry](t, w)
	if len(board) != 1 {
		t.Fatalf("leaderboard: expected 1 entry, got %d", len(board))
	}
	if board[0].Name != "Guest" || board[0].Points != 100 {
		t.Errorf("leaderboard[0] = %+v, want Guest with 100 points", board[0])
	}
}

func TestCollectUnknownUser(t *testing.T) {
	r := testRouter(t)

	zone := createZone(t, r)
	item := placeCollectible(t, r, zone.ZoneID, "SILVER", 50)

	w := do(t, r, http.MethodPost, "/api/collectibles/"+item.ID+"/collect?userId=nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// The collectible must survive the failed attempt.
	w = do(t, r, http.MethodGet, "/api/zones/"+zone.ZoneID+"/collectibles", nil)
	if items := decode[[]CollectibleDTO](t, w); len(items) != 1 {
		t.Errorf("expected collectible to remain, got %d items", len(items))
	}
}

func TestCollectMissingUserParam(t *testing.T) {
	r := testRouter(t)

	w := do(t, r, http.MethodPost, "/api/collectibles/whatever/collect", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestLeaderboardOrderingAndLimit(t *testing.T) {
	r := testRouter(t)
	zone := createZone(t, r)

	// Three users with distinct totals.
	for i, points := range []int{30, 10, 20} {
		user := registerDevice(t, r, fmt.Sprintf("dev-%d", i))
		item := placeCollectible(t, r, zone.ZoneID, "BRONZE", points)
		w := do(t, r, http.MethodPost, "/api/collectibles/"+item.ID+"/collect?userId="+user.UserID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("collect %d: expected 200, got %d", i, w.Code)
		}
	}

	w := do(t, r, http.MethodGet, "/api/zones/"+zone.ZoneID+"/leaderboard", nil)
	board := decode[[]LeaderboardEntry](t, w)
	if len(board) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board))
	}
	for i, want := range []int{30, 20, 10} {
		if board[i].Points != want {
			t.Errorf("board[%d].Points = %d, want %d", i, board[i].Points, want)
		}
	}

	w = do(t, r, http.MethodGet, "/api/zones/"+zone.ZoneID+"/leaderboard?limit=2", nil)
	if board := decode[[]LeaderboardEntry](t, w); len(board) != 2 {
		t.Errorf("limit=2: expected 2 entries, got %d", len(board))
	}

	w = do(t, r, http.MethodGet, "/api/zones/"+zone.ZoneID+"/leaderboard?limit=0", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("limit=0: expected 400, got %d", w.Code)
	}
}

func TestLeaderboardUnknownZone(t *testing.T) {
	r := testRouter(t)

	w := do(t, r, http.MethodGet, "/api/zones/nope/leaderboard", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
