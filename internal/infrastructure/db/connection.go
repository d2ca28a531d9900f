// Package db manages the PostgreSQL connection and wires the repository
// implementations.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/boadinoel/fsri/internal/persistence"
	"github.com/boadinoel/fsri/internal/persistence/postgres"
)

// Config holds database connection configuration.
type Config struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	QueryTimeout    time.Duration `yaml:"query_timeout"`
}

// DefaultConfig returns reasonable defaults for database connections.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		QueryTimeout:    10 * time.Second,
	}
}

// Manager owns the connection pool and repositories. A manager built from
// an empty DSN is disabled: Repository() returns nil and every write is a
// no-op upstream.
type Manager struct {
	db    *sqlx.DB
	repos *persistence.Repository
}

// NewManager connects to PostgreSQL and builds the repositories. An empty
// DSN yields a disabled manager, not an error.
func NewManager(ctx context.Context, config Config) (*Manager, error) {
	if config.DSN == "" {
		return &Manager{}, nil
	}

	db, err := sqlx.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return &Manager{
		db: db,
		repos: &persistence.Repository{
			Scores:    postgres.NewScoreRepo(db, config.QueryTimeout),
			Decisions: postgres.NewDecisionRepo(db, config.QueryTimeout),
		},
	}, nil
}

// Repository returns the wired repositories, or nil when disabled.
func (m *Manager) Repository() *persistence.Repository {
	return m.repos
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
