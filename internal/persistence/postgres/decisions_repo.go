package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/boadinoel/fsri/internal/persistence"
)

type decisionRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewDecisionRepo creates the PostgreSQL decision-log repository.
func NewDecisionRepo(db *sqlx.DB, timeout time.Duration) persistence.DecisionRepo {
	return &decisionRepo{db: db, timeout: timeout}
}

func (r *decisionRepo) Insert(ctx context.Context, decision persistence.Decision) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if decision.ID == "" {
		decision.ID = uuid.NewString()
	}
	if decision.CreatedAt.IsZero() {
		decision.CreatedAt = time.Now().UTC()
	}

	driversJSON, err := json.Marshal(decision.Drivers)
	if err != nil {
		return fmt.Errorf("failed to marshal drivers: %w", err)
	}

	query := `
		INSERT INTO decisions_log
		(id, crop, region, fsri, drivers, action, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.ExecContext(ctx, query,
		decision.ID, decision.Crop, decision.Region, decision.FSRI,
		driversJSON, decision.Action, decision.Notes, decision.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	return nil
}
