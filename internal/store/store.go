package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/greenread/backend/internal/models"
	"github.com/greenread/backend/internal/putt"
)

// GetClientByName fetches an active API client for authentication.
func GetClientByName(db *sqlx.DB, name string) (*models.APIClient, error) {
	var c models.APIClient
	err := db.Get(&c, `SELECT id, name, key_hash, is_admin, is_active, created_at FROM api_clients WHERE name=$1 AND is_active=TRUE`, name)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// InsertGreen records a built field's metadata.
func InsertGreen(db *sqlx.DB, g *models.Green) error {
	return db.QueryRow(`
		INSERT INTO greens (token, start_x, start_y, start_z, target_x, target_y, target_z, rows, cols, resolution, coverage)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at
	`, g.Token, g.StartX, g.StartY, g.StartZ, g.TargetX, g.TargetY, g.TargetZ,
		g.Rows, g.Cols, g.Resolution, g.Coverage).Scan(&g.ID, &g.CreatedAt)
}

// GetGreenByToken fetches green metadata.
func GetGreenByToken(db *sqlx.DB, token string) (*models.Green, error) {
	var g models.Green
	err := db.Get(&g, `SELECT * FROM greens WHERE token=$1`, token)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateGreenCoverage refreshes the coverage ratio after a height refresh.
func UpdateGreenCoverage(db *sqlx.DB, token string, coverage float64) error {
	_, err := db.Exec(`UPDATE greens SET coverage=$1 WHERE token=$2`, coverage, token)
	return err
}

// InsertSession records a new planning session.
func InsertSession(db *sqlx.DB, s *models.PlanSession) error {
	return db.QueryRow(`
		INSERT INTO plan_sessions (token, green_id, green_speed, max_shots, status, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`, s.Token, s.GreenID, s.GreenSpeed, s.MaxShots, s.Status, s.ExpiresAt).Scan(&s.ID, &s.CreatedAt)
}

// CompleteSession stores the outcome of a finished planning run.
func CompleteSession(db *sqlx.DB, sessionID, shotCount, boostCount int, success bool, bestDistance float64) error {
	_, err := db.Exec(`
		UPDATE plan_sessions
		SET status=$1, shot_count=$2, boost_count=$3, success=$4, best_distance=$5, completed_at=NOW()
		WHERE id=$6
	`, models.SessionComplete, shotCount, boostCount, success, bestDistance, sessionID)
	return err
}

// ExpireSessions marks overdue pending sessions and returns their tokens.
func ExpireSessions(db *sqlx.DB, now time.Time) ([]string, error) {
	rows, err := db.Query(`
		UPDATE plan_sessions SET status=$1
		WHERE status=$2 AND expires_at < $3
		RETURNING token
	`, models.SessionExpired, models.SessionPending, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return tokens, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// GetSessionByToken fetches a session row.
func GetSessionByToken(db *sqlx.DB, token string) (*models.PlanSession, error) {
	var s models.PlanSession
	err := db.Get(&s, `SELECT * FROM plan_sessions WHERE token=$1`, token)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// InsertShots persists every attempt of a session in order.
func InsertShots(db *sqlx.DB, sessionID int, target putt.Vec3, shots []putt.Shot, start putt.Vec3) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, s := range shots {
		closest, _ := s.ClosestApproach()
		traj, err := json.Marshal(s.Trajectory)
		if err != nil {
			return fmt.Errorf("marshal trajectory %d: %w", i, err)
		}
		verdict := putt.Analyze(s, start, target).Verdict
		if _, err := tx.Exec(`
			INSERT INTO shots (session_id, attempt, angle, power, success, closest_distance, verdict, trajectory)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, sessionID, i+1, s.Angle, s.Power, s.Success, closest.PlanarDistance(target), string(verdict), traj); err != nil {
			return fmt.Errorf("insert shot %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// GetShotsBySession returns a session's attempts in order.
func GetShotsBySession(db *sqlx.DB, sessionID int) ([]models.ShotRecord, error) {
	var shots []models.ShotRecord
	err := db.Select(&shots, `SELECT * FROM shots WHERE session_id=$1 ORDER BY attempt`, sessionID)
	return shots, err
}
