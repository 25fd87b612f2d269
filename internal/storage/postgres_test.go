package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatchResults struct {
	remaining int
	failAt    int
	calls     int
	closed    bool
}

func (r *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	r.calls++
	if r.failAt > 0 && r.calls == r.failAt {
		return pgconn.CommandTag{}, errors.New("duplicate key")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *fakeBatchResults) QueryRow() pgx.Row         { return nil }
func (r *fakeBatchResults) Close() error {
	r.closed = true
	return nil
}

type fakeExecutor struct {
	execs   []string
	batch   *pgx.Batch
	results *fakeBatchResults
}

func (f *fakeExecutor) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeExecutor) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batch = b
	return f.results
}

func TestPGMirror_MirrorColumn(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeExecutor{results: &fakeBatchResults{}}
	m := &PGMirror{db: db, clock: func() time.Time { return now }}

	require.NoError(t, m.EnsureSchema(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS user_ratings")

	err := m.MirrorColumn(context.Background(), "alice", map[string]float64{
		"Louvre":       3,
		"Eiffel Tower": 5,
	})
	require.NoError(t, err)
	require.Equal(t, 2, db.batch.Len())

	first := db.batch.QueuedQueries[0]
	assert.Contains(t, first.SQL, "ON CONFLICT")
	assert.Equal(t, []any{"Eiffel Tower", "alice", 5.0, now}, first.Arguments)
	assert.Equal(t, "Louvre", db.batch.QueuedQueries[1].Arguments[0])
	assert.True(t, db.results.closed)
}

func TestPGMirror_MirrorColumnError(t *testing.T) {
	db := &fakeExecutor{results: &fakeBatchResults{failAt: 2}}
	m := &PGMirror{db: db, clock: time.Now}

	err := m.MirrorColumn(context.Background(), "bob", map[string]float64{"A": 1, "B": 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"B"`)
	assert.True(t, db.results.closed)
}

func TestPGMirror_EmptyColumn(t *testing.T) {
	db := &fakeExecutor{results: &fakeBatchResults{}}
	m := &PGMirror{db: db, clock: time.Now}

	require.NoError(t, m.MirrorColumn(context.Background(), "bob", nil))
	assert.Nil(t, db.batch)
}
