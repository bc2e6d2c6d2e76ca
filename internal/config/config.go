package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/uxgo.db"`
	RedisURL string     `env:"REDIS_URL"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// ZoneRadiusM is the reuse radius for zone auto-resolution: a caller
	// within this many meters of an existing zone joins it instead of
	// getting a new one.
	ZoneRadiusM float64 `env:"ZONE_RADIUS_M" envDefault:"250"`

	// LeaderboardLimit is the default number of leaderboard entries
	// returned when the request does not specify one.
	LeaderboardLimit int `env:"LEADERBOARD_LIMIT" envDefault:"25"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
