package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alialduaylijelm/uxgo/internal/database"
)

func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   0,
	})
}

func TestHandleHealth(t *testing.T) {
	// Real SQLite in-memory DB — lightweight, no mocks needed.
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer db.Close()

	t.Run("no redis configured", func(t *testing.T) {
		h := handleHealth(slog.Default(), db, nil)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var body map[string]struct{ Status string }
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if got := body["sqlite"].Status; got != "ok" {
			t.Errorf("sqlite = %q, want ok", got)
		}
		if _, present := body["redis"]; present {
			t.Error("redis check should be absent when not configured")
		}
	})

	t.Run("redis down", func(t *testing.T) {
		h := handleHealth(slog.Default(), db, deadRedis())

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
		}

		var body map[string]struct{ Status string }
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if got := body["sqlite"].Status; got != "ok" {
			t.Errorf("sqlite = %q, want ok", got)
		}
		if got := body["redis"].Status; got != "error" {
			t.Errorf("redis = %q, want error", got)
		}
	})
}
