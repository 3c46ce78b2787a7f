package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// APIClient is a caller allowed to request planning tokens. The key is
// stored bcrypt-hashed; the plaintext exists only at seed time.
type APIClient struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	KeyHash   string    `db:"key_hash" json:"-"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Green is a built terrain field's metadata. The field itself lives in the
// Redis cache keyed by the token; this row is the durable record.
type Green struct {
	ID         int       `db:"id" json:"id"`
	Token      string    `db:"token" json:"token"`
	StartX     float64   `db:"start_x" json:"start_x"`
	StartY     float64   `db:"start_y" json:"start_y"`
	StartZ     float64   `db:"start_z" json:"start_z"`
	TargetX    float64   `db:"target_x" json:"target_x"`
	TargetY    float64   `db:"target_y" json:"target_y"`
	TargetZ    float64   `db:"target_z" json:"target_z"`
	Rows       int       `db:"rows" json:"rows"`
	Cols       int       `db:"cols" json:"cols"`
	Resolution float64   `db:"resolution" json:"resolution"`
	Coverage   float64   `db:"coverage" json:"coverage"` // measured/total cells, scan quality
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Session status values.
const (
	SessionPending  = "PENDING"
	SessionComplete = "COMPLETE"
	SessionExpired  = "EXPIRED"
)

// PlanSession is one planning run over a green.
type PlanSession struct {
	ID           int             `db:"id" json:"id"`
	Token        string          `db:"token" json:"token"`
	GreenID      int             `db:"green_id" json:"green_id"`
	GreenSpeed   string          `db:"green_speed" json:"green_speed"`
	MaxShots     int             `db:"max_shots" json:"max_shots"`
	Status       string          `db:"status" json:"status"`
	ShotCount    int             `db:"shot_count" json:"shot_count"`
	BoostCount   int             `db:"boost_count" json:"boost_count"`
	Success      bool            `db:"success" json:"success"`
	BestDistance sql.NullFloat64 `db:"best_distance" json:"best_distance,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	CompletedAt  sql.NullTime    `db:"completed_at" json:"completed_at,omitempty"`
	ExpiresAt    time.Time       `db:"expires_at" json:"expires_at"`
}

// ShotRecord is one persisted attempt of a session. The trajectory is
// stored as a JSON array of points.
type ShotRecord struct {
	ID              int             `db:"id" json:"id"`
	SessionID       int             `db:"session_id" json:"session_id"`
	Attempt         int             `db:"attempt" json:"attempt"`
	Angle           float64         `db:"angle" json:"angle"`
	Power           float64         `db:"power" json:"power"`
	Success         bool            `db:"success" json:"success"`
	ClosestDistance float64         `db:"closest_distance" json:"closest_distance"`
	Verdict         string          `db:"verdict" json:"verdict"`
	Trajectory      json.RawMessage `db:"trajectory" json:"trajectory"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
