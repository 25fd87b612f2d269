package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"roamify/internal/logging"
)

const createRatingsTable = `
CREATE TABLE IF NOT EXISTS user_ratings (
	attraction TEXT NOT NULL,
	user_name  TEXT NOT NULL,
	rating     DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (attraction, user_name)
)`

const upsertRating = `
INSERT INTO user_ratings (attraction, user_name, rating, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (attraction, user_name)
DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at`

// pgExecutor is the part of *pgxpool.Pool the mirror uses.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PGMirror copies merged rating columns into Postgres, one row per
// (attraction, user). The CSV table stays the source of truth.
type PGMirror struct {
	db    pgExecutor
	pool  *pgxpool.Pool
	clock func() time.Time
}

// NewPGMirror connects to databaseURL and makes sure the ratings table exists.
func NewPGMirror(ctx context.Context, databaseURL string) (*PGMirror, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	m := &PGMirror{db: pool, pool: pool, clock: time.Now}
	if err := m.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return m, nil
}

func (m *PGMirror) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.Exec(ctx, createRatingsTable); err != nil {
		return fmt.Errorf("failed to create user_ratings table: %w", err)
	}
	return nil
}

// MirrorColumn upserts every rating of one user in a single batch.
func (m *PGMirror) MirrorColumn(ctx context.Context, user string, column map[string]float64) error {
	if len(column) == 0 {
		return nil
	}
	names := make([]string, 0, len(column))
	for name := range column {
		names = append(names, name)
	}
	sort.Strings(names)

	now := m.clock().UTC()
	batch := &pgx.Batch{}
	for _, name := range names {
		batch.Queue(upsertRating, name, user, column[name], now)
	}

	results := m.db.SendBatch(ctx, batch)
	for _, name := range names {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to upsert rating %q for %s: %w", name, user, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close rating batch: %w", err)
	}
	logging.Debug().Str("user", user).Int("rows", len(names)).Msg("Mirrored ratings to postgres")
	return nil
}

func (m *PGMirror) Close() {
	if m.pool != nil {
		m.pool.Close()
	}
}
