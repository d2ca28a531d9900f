// Package postgres implements the persistence interfaces on PostgreSQL via
// sqlx.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/boadinoel/fsri/internal/persistence"
)

type scoreRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewScoreRepo creates the PostgreSQL daily-score repository.
func NewScoreRepo(db *sqlx.DB, timeout time.Duration) persistence.ScoreRepo {
	return &scoreRepo{db: db, timeout: timeout}
}

// UpsertDaily is idempotent: one row per (dt, crop, region).
func (r *scoreRepo) UpsertDaily(ctx context.Context, score persistence.DailyScore) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	driversJSON, err := json.Marshal(score.Drivers)
	if err != nil {
		return fmt.Errorf("failed to marshal drivers: %w", err)
	}

	query := `
		INSERT INTO scores_daily
		(dt, crop, region, production, movement, policy, biosecurity, fsri, drivers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (dt, crop, region) DO UPDATE SET
			production = EXCLUDED.production,
			movement = EXCLUDED.movement,
			policy = EXCLUDED.policy,
			biosecurity = EXCLUDED.biosecurity,
			fsri = EXCLUDED.fsri,
			drivers = EXCLUDED.drivers`

	if _, err := r.db.ExecContext(ctx, query,
		score.Date, score.Crop, score.Region,
		score.Production, score.Movement, score.Policy, score.Biosecurity,
		score.FSRI, driversJSON); err != nil {
		return fmt.Errorf("failed to upsert daily score: %w", err)
	}
	return nil
}

// RangeDaily returns up to days of recent scores for a market, oldest
// first.
func (r *scoreRepo) RangeDaily(ctx context.Context, crop, region string, days int) ([]persistence.DailyScore, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT dt, crop, region, production, movement, policy, biosecurity, fsri, drivers
		FROM scores_daily
		WHERE crop = $1 AND region = $2 AND dt >= (CURRENT_DATE - $3::int)
		ORDER BY dt ASC`

	rows, err := r.db.QueryxContext(ctx, query, crop, region, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily scores: %w", err)
	}
	defer rows.Close()

	var out []persistence.DailyScore
	for rows.Next() {
		var s persistence.DailyScore
		var driversJSON []byte
		if err := rows.Scan(&s.Date, &s.Crop, &s.Region,
			&s.Production, &s.Movement, &s.Policy, &s.Biosecurity,
			&s.FSRI, &driversJSON); err != nil {
			return nil, fmt.Errorf("failed to scan daily score: %w", err)
		}
		if len(driversJSON) > 0 {
			if err := json.Unmarshal(driversJSON, &s.Drivers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal drivers: %w", err)
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
