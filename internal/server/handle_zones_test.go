package server

import (
	"net/http"
	"testing"
)

func TestZoneCreateAndLookup(t *testing.T) {
	r := testRouter(t)

	zone := createZone(t, r)
	if zone.ZoneID == "" {
		t.Fatal("expected a zone id")
	}
	if len(zone.JoinCode) != 6 {
		t.Fatalf("join code %q: expected 6 characters", zone.JoinCode)
	}

	w := do(t, r, http.MethodGet, "/api/zones/"+zone.ZoneID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get zone: expected 200, got %d", w.Code)
	}
	if got := decode[ZoneResponse](t, w); got.Name != "Expo Hall" {
		t.Errorf("name = %q, want Expo Hall", got.Name)
	}

	w = do(t, r, http.MethodGet, "/api/zones/join/"+zone.JoinCode, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lookup by code: expected 200, got %d", w.Code)
	}
	if got := decode[ZoneResponse](t, w); got.ZoneID != zone.ZoneID {
		t.Errorf("lookup by code resolved %q, want %q", got.ZoneID, zone.ZoneID)
	}

	w = do(t, r, http.MethodGet, "/api/zones/join/ZZZZZZ", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown code: expected 404, got %d", w.Code)
	}
}

func TestZoneGetNotFound(t *testing.T) {
	r := testRouter(t)

	w := do(t, r, http.MethodGet, "/api/zones/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestZoneCreateRejectsHalfCoordinates(t *testing.T) {
	r := testRouter(t)

	lat := 24.7136
	w := do(t, r, http.MethodPost, "/api/zones", ZoneCreateRequest{Name: "Riyadh", Lat: &lat})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestZoneAutoReusesNearbyZone(t *testing.T) {
	r := testRouter(t)

	// First call creates a zone at the caller's position.
	w := do(t, r, http.MethodPost, "/api/zones/auto", ZoneAutoRequest{Lat: 24.7136, Lng: 46.6753})
	if w.Code != http.StatusCreated {
		t.Fatalf("first auto: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	first := decode[ZoneResponse](t, w)
	if !first.Created {
		t.Error("first auto: expected created=true")
	}

	// ~100 m north: well inside the 250 m radius, must reuse.
	w = do(t, r, http.MethodPost, "/api/zones/auto", ZoneAutoRequest{Lat: 24.7145, Lng: 46.6753})
	if w.Code != http.StatusOK {
		t.Fatalf("nearby auto: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	nearby := decode[ZoneResponse](t, w)
	if nearby.ZoneID != first.ZoneID {
		t.Errorf("nearby auto resolved %q, want reuse of %q", nearby.ZoneID, first.ZoneID)
	}

	// A few km away: outside the radius, a fresh zone.
	w = do(t, r, http.MethodPost, "/api/zones/auto", ZoneAutoRequest{Lat: 24.76, Lng: 46.68})
	if w.Code != http.StatusCreated {
		t.Fatalf("far auto: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if far := decode[ZoneResponse](t, w); far.ZoneID == first.ZoneID {
		t.Error("far auto must not reuse the first zone")
	}
}

func TestZoneAutoRejectsBadCoordinates(t *testing.T) {
	r := testRouter(t)

	w := do(t, r, http.MethodPost, "/api/zones/auto", ZoneAutoRequest{Lat: 123.0, Lng: 46.0})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
