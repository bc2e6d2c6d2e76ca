package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"

	"github.com/alialduaylijelm/uxgo/internal/config"
)

func addRoutes(r chi.Router, cfg *config.Config, logger *slog.Logger, store Store, cache *LeaderboardCache, broker *Broker, db *sql.DB, rdb *redis.Client) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("UX GO API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db, rdb))
	r.Get("/ws/echo", handleWSEcho(logger))

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", handleRegister(logger, store))
		r.Post("/users/claim", handleClaim(logger, store))
		r.Get("/users/{userID}/points", handlePoints(logger, store))

		r.Post("/zones", handleZoneCreate(logger, store))
		r.Post("/zones/auto", handleZoneAuto(logger, store, cfg.ZoneRadiusM))
		r.Get("/zones/join/{code}", handleZoneLookup(logger, store))
		r.Get("/zones/{zoneID}", handleZoneGet(logger, store))

		r.Get("/zones/{zoneID}/collectibles", handleCollectibleList(logger, store))
		r.Post("/zones/{zoneID}/collectibles", handleCollectibleCreate(logger, store, broker))
		r.Post("/collectibles/{collectibleID}/collect", handleCollect(logger, store, cache, broker))

		r.Get("/zones/{zoneID}/leaderboard", handleLeaderboard(logger, store, cache, cfg.LeaderboardLimit))
		r.Get("/zones/{zoneID}/events", handleEvents(store, broker))

		r.Post("/zones/{zoneID}/worldmap", handleWorldMapUpload(logger, store))
		r.Get("/zones/{zoneID}/worldmap", handleWorldMapFetch(logger, store))
	})
}
