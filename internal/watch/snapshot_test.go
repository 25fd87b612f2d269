package watch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamify/internal/catalog"
	"roamify/internal/models"
	"roamify/internal/ratings"
)

type recordingMirror struct {
	users []string
	err   error
}

func (m *recordingMirror) MirrorColumn(_ context.Context, user string, _ map[string]float64) error {
	if m.err != nil {
		return m.err
	}
	m.users = append(m.users, user)
	return nil
}

func testTable() *ratings.Table {
	t := ratings.NewTable("Eiffel Tower", "Old Pier")
	t.AddUser("alice")
	t.AddUser("bob")
	t.Set("alice", "Eiffel Tower", 5)
	t.Set("bob", "Old Pier", 2)
	t.Set("bob", "Eiffel Tower", 1)
	return t
}

func TestSnapshotPipeline(t *testing.T) {
	cat := catalog.New([]models.Attraction{
		{Name: "Eiffel Tower", State: "Paris"},
		{Name: "Louvre", State: "Paris"},
	})
	load := func(context.Context) (*catalog.Catalog, error) { return cat, nil }
	mirror := &recordingMirror{}

	p := NewPipeline(
		NewStage(CountStep, CoverageStep(load), MirrorStep(mirror)),
		NewStage(LogStep),
	)
	s := NewSnapshot("roamify", "datasets/user_ratings.csv", testTable())
	p.Run(context.Background(), s)

	assert.Equal(t, 2, s.Users)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 3, s.RatedCells)
	assert.Equal(t, []string{"Old Pier"}, s.Orphans)
	assert.Equal(t, []string{"Louvre"}, s.Unlisted)
	assert.Equal(t, 2, s.Mirrored)
	assert.Equal(t, []string{"alice", "bob"}, mirror.users)
}

func TestSnapshotSteps_Errors(t *testing.T) {
	s := NewSnapshot("b", "k", testTable())

	load := func(context.Context) (*catalog.Catalog, error) { return nil, errors.New("catalog missing") }
	require.Error(t, CoverageStep(load)(context.Background(), s))

	err := MirrorStep(&recordingMirror{err: errors.New("db down")})(context.Background(), s)
	require.Error(t, err)
	assert.Zero(t, s.Mirrored)
}
