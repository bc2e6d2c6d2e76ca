package server

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCollected = errors.New("already collected")
)

// User is a player account. Accounts start as anonymous guests keyed by
// device id and may later be claimed with a name and email.
type User struct {
	ID        string
	DeviceID  string
	Name      string
	Email     string
	IsGuest   bool
	CreatedAt string
}

// Zone is a play area. Coordinates are optional: zones created explicitly
// may omit them, auto-resolved zones always carry them.
type Zone struct {
	ID        string
	JoinCode  string
	Name      string
	Lat       *float64
	Lng       *float64
	CreatedAt string
}

// zoneLocation is the projection scanned by zone auto-resolution.
type zoneLocation struct {
	ID  string
	Lat float64
	Lng float64
}

// Collectible is a placed, pickable item. The matrix is the 4x4 placement
// transform, flattened to 16 values in column-major order.
type Collectible struct {
	ID         string
	ZoneID     string
	WorldMapID string
	Type       string
	Points     int
	Matrix     []float64
}

// CollectResult reports a successful pickup: the award for this collectible
// and the user's resulting total within the zone.
type CollectResult struct {
	ZoneID  string
	Awarded int
	Total   int
}

type LeaderboardEntry struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type WorldMap struct {
	ID     string
	ZoneID string
	Data   []byte
}

type Store interface {
	// RegisterUser returns the existing user for deviceID or creates a new
	// guest. Idempotent: registering the same device twice yields the same
	// user.
	RegisterUser(ctx context.Context, deviceID string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	// ClaimUser names a guest account and clears its guest flag.
	ClaimUser(ctx context.Context, id, name, email string) error
	// UserPoints sums a user's awards, scoped to zoneID or global when
	// zoneID is empty.
	UserPoints(ctx context.Context, userID, zoneID string) (int, error)

	CreateZone(ctx context.Context, name, joinCode string, lat, lng *float64) (Zone, error)
	GetZone(ctx context.Context, id string) (Zone, error)
	ZoneByJoinCode(ctx context.Context, code string) (Zone, error)
	ListZoneLocations(ctx context.Context) ([]zoneLocation, error)

	CreateCollectible(ctx context.Context, c Collectible) (Collectible, error)
	ListCollectibles(ctx context.Context, zoneID, worldMapID string) ([]Collectible, error)
	// Collect atomically records the pickup, bumps the user's zone total,
	// and removes the collectible. Returns ErrAlreadyCollected if this user
	// already has the collectible, ErrNotFound if it no longer exists.
	Collect(ctx context.Context, collectibleID, userID string) (CollectResult, error)

	Leaderboard(ctx context.Context, zoneID string, limit int) ([]LeaderboardEntry, error)

	SaveWorldMap(ctx context.Context, zoneID string, data []byte) (string, error)
	LatestWorldMap(ctx context.Context, zoneID string) (WorldMap, error)
}
