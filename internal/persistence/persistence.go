// Package persistence defines the storage interfaces for historical scores
// and decision logs. The engine treats these as write-through side effects;
// a nil repository disables them cleanly.
package persistence

import (
	"context"
	"time"
)

// DailyScore is one day's fused score for a commodity/region. Dates are
// "YYYY-MM-DD"; one row per (date, crop, region).
type DailyScore struct {
	Date        string   `db:"dt" json:"date"`
	Crop        string   `db:"crop" json:"crop"`
	Region      string   `db:"region" json:"region"`
	Production  float64  `db:"production" json:"production"`
	Movement    float64  `db:"movement" json:"movement"`
	Policy      float64  `db:"policy" json:"policy"`
	Biosecurity float64  `db:"biosecurity" json:"biosecurity"`
	FSRI        float64  `db:"fsri" json:"fsri"`
	Drivers     []string `json:"drivers"`
}

// Decision is a user decision logged with its FSRI context.
type Decision struct {
	ID        string    `db:"id" json:"id"`
	Crop      string    `db:"crop" json:"crop"`
	Region    string    `db:"region" json:"region"`
	FSRI      float64   `db:"fsri" json:"fsri"`
	Drivers   []string  `json:"drivers"`
	Action    string    `db:"action" json:"action"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ScoreRepo stores and queries daily scores.
type ScoreRepo interface {
	UpsertDaily(ctx context.Context, score DailyScore) error
	RangeDaily(ctx context.Context, crop, region string, days int) ([]DailyScore, error)
}

// DecisionRepo stores decision log entries.
type DecisionRepo interface {
	Insert(ctx context.Context, decision Decision) error
}

// Repository bundles the repos behind one handle. A nil Repository (or nil
// member) means persistence is disabled.
type Repository struct {
	Scores    ScoreRepo
	Decisions DecisionRepo
}
