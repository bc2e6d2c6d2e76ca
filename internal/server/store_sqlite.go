package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) RegisterUser(ctx context.Context, deviceID string) (User, error) {
	// Write-then-read keeps registration idempotent even when two requests
	// race on the same device id: the loser of the unique constraint falls
	// through to reading the winner's row.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, device_id)
		VALUES (?, ?)
		ON CONFLICT (device_id) DO NOTHING
	`, uuid.NewString(), deviceID)
	if err != nil {
		return User{}, err
	}

	var u User
	var email sql.NullString
	err = s.db.QueryRowContext(ctx, `
		SELECT id, device_id, name, email, is_guest, created_at
		FROM users WHERE device_id = ?
	`, deviceID).Scan(&u.ID, &u.DeviceID, &u.Name, &email, &u.IsGuest, &u.CreatedAt)
	u.Email = email.String
	return u, err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	var email sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, device_id, name, email, is_guest, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.DeviceID, &u.Name, &email, &u.IsGuest, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	u.Email = email.String
	return u, err
}

func (s *SQLiteStore) ClaimUser(ctx context.Context, id, name, email string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, is_guest = 0
		WHERE id = ?
	`, name, email, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UserPoints(ctx context.Context, userID, zoneID string) (int, error) {
	var points int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(points), 0)
		FROM user_zone_points
		WHERE user_id = ? AND (? = '' OR zone_id = ?)
	`, userID, zoneID, zoneID).Scan(&points)
	return points, err
}

func (s *SQLiteStore) CreateZone(ctx context.Context, name, joinCode string, lat, lng *float64) (Zone, error) {
	z := Zone{ID: uuid.NewString(), JoinCode: joinCode, Name: name, Lat: lat, Lng: lng}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO zones (id, join_code, name, lat, lng)
		VALUES (?, ?, NULLIF(?, ''), ?, ?)
		RETURNING created_at
	`, z.ID, joinCode, name, lat, lng).Scan(&z.CreatedAt)
	return z, err
}

func (s *SQLiteStore) GetZone(ctx context.Context, id string) (Zone, error) {
	return s.zoneBy(ctx, "id", id)
}

func (s *SQLiteStore) ZoneByJoinCode(ctx context.Context, code string) (Zone, error) {
	return s.zoneBy(ctx, "join_code", code)
}

func (s *SQLiteStore) zoneBy(ctx context.Context, column, value string) (Zone, error) {
	var z Zone
	var name sql.NullString
	var lat, lng sql.NullFloat64
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, join_code, COALESCE(name, ''), lat, lng, created_at
		FROM zones WHERE %s = ?
	`, column), value).Scan(&z.ID, &z.JoinCode, &name, &lat, &lng, &z.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Zone{}, ErrNotFound
	}
	if err != nil {
		return Zone{}, err
	}
	z.Name = name.String
	if lat.Valid {
		z.Lat = &lat.Float64
	}
	if lng.Valid {
		z.Lng = &lng.Float64
	}
	return z, nil
}

func (s *SQLiteStore) ListZoneLocations(ctx context.Context) ([]zoneLocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lat, lng FROM zones
		WHERE lat IS NOT NULL AND lng IS NOT NULL
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locs []zoneLocation
	for rows.Next() {
		var l zoneLocation
		if err := rows.Scan(&l.ID, &l.Lat, &l.Lng); err != nil {
			return nil, err
		}
		locs = append(locs, l)
	}
	return locs, rows.Err()
}

func (s *SQLiteStore) CreateCollectible(ctx context.Context, c Collectible) (Collectible, error) {
	matrixJSON, err := json.Marshal(c.Matrix)
	if err != nil {
		return Collectible{}, err
	}

	c.ID = uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO collectibles (id, zone_id, world_map_id, type, points, matrix)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?)
	`, c.ID, c.ZoneID, c.WorldMapID, c.Type, c.Points, string(matrixJSON))
	if err != nil {
		return Collectible{}, err
	}
	return c, nil
}

func (s *SQLiteStore) ListCollectibles(ctx context.Context, zoneID, worldMapID string) ([]Collectible, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, zone_id, COALESCE(world_map_id, ''), type, points, matrix
		FROM collectibles
		WHERE zone_id = ? AND (? = '' OR world_map_id = ?)
		ORDER BY created_at
	`, zoneID, worldMapID, worldMapID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Collectible
	for rows.Next() {
		var c Collectible
		var matrixJSON string
		if err := rows.Scan(&c.ID, &c.ZoneID, &c.WorldMapID, &c.Type, &c.Points, &matrixJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(matrixJSON), &c.Matrix); err != nil {
			return nil, fmt.Errorf("decoding matrix for %s: %w", c.ID, err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Collect runs the single-pickup invariant in one transaction: the UNIQUE
// (user_id, collectible_id) index backs the explicit duplicate check, and
// deleting the collectible row makes the pickup globally exclusive.
func (s *SQLiteStore) Collect(ctx context.Context, collectibleID, userID string) (CollectResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CollectResult{}, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `
		SELECT 1 FROM collections WHERE user_id = ? AND collectible_id = ?
	`, userID, collectibleID).Scan(&exists)
	if err == nil {
		return CollectResult{}, ErrAlreadyCollected
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return CollectResult{}, err
	}

	var res CollectResult
	err = tx.QueryRowContext(ctx, `
		SELECT zone_id, points FROM collectibles WHERE id = ?
	`, collectibleID).Scan(&res.ZoneID, &res.Awarded)
	if errors.Is(err, sql.ErrNoRows) {
		return CollectResult{}, ErrNotFound
	}
	if err != nil {
		return CollectResult{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM collectibles WHERE id = ?
	`, collectibleID); err != nil {
		return CollectResult{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO collections (user_id, collectible_id, zone_id, points)
		VALUES (?, ?, ?, ?)
	`, userID, collectibleID, res.ZoneID, res.Awarded); err != nil {
		return CollectResult{}, err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_zone_points (user_id, zone_id, points)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, zone_id) DO UPDATE SET points = points + excluded.points
	`, userID, res.ZoneID, res.Awarded); err != nil {
		return CollectResult{}, err
	}

	if err := tx.QueryRowContext(ctx, `
		SELECT points FROM user_zone_points WHERE user_id = ? AND zone_id = ?
	`, userID, res.ZoneID).Scan(&res.Total); err != nil {
		return CollectResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return CollectResult{}, err
	}
	return res, nil
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, zoneID string, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, p.points
		FROM user_zone_points p
		JOIN users u ON u.id = p.user_id
		WHERE p.zone_id = ?
		ORDER BY p.points DESC, u.created_at ASC
		LIMIT ?
	`, zoneID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Points); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) SaveWorldMap(ctx context.Context, zoneID string, data []byte) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO worldmaps (id, zone_id, map_data)
		VALUES (?, ?, ?)
	`, id, zoneID, data)
	return id, err
}

func (s *SQLiteStore) LatestWorldMap(ctx context.Context, zoneID string) (WorldMap, error) {
	var m WorldMap
	err := s.db.QueryRowContext(ctx, `
		SELECT id, zone_id, map_data
		FROM worldmaps
		WHERE zone_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, zoneID).Scan(&m.ID, &m.ZoneID, &m.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return WorldMap{}, ErrNotFound
	}
	return m, err
}
