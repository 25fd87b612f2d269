package watch

import (
	"context"
	"fmt"

	"roamify/internal/catalog"
	"roamify/internal/logging"
	"roamify/internal/ratings"
	"roamify/internal/service"
)

// Snapshot is one version of the rating table as announced by the bucket.
type Snapshot struct {
	Bucket string
	Key    string
	Table  *ratings.Table

	// Filled by CountStep.
	Users      int
	Rows       int
	RatedCells int

	// Filled by CoverageStep.
	Orphans  []string
	Unlisted []string

	// Filled by MirrorStep.
	Mirrored int
}

func NewSnapshot(bucket, key string, table *ratings.Table) *Snapshot {
	return &Snapshot{Bucket: bucket, Key: key, Table: table}
}

// CountStep records the table dimensions and how many cells carry a rating.
func CountStep(_ context.Context, s *Snapshot) error {
	s.Users = len(s.Table.Users())
	s.Rows = s.Table.Len()
	s.RatedCells = 0
	for _, user := range s.Table.Users() {
		for row := 0; row < s.Rows; row++ {
			if s.Table.Cell(user, row) > 0 {
				s.RatedCells++
			}
		}
	}
	return nil
}

// CoverageStep compares the table rows with the catalog: Orphans are rows
// the catalog no longer lists, Unlisted are catalog attractions with no row
// yet.
func CoverageStep(load func(ctx context.Context) (*catalog.Catalog, error)) Step[Snapshot] {
	return func(ctx context.Context, s *Snapshot) error {
		c, err := load(ctx)
		if err != nil {
			return fmt.Errorf("coverage check: %w", err)
		}
		s.Orphans, s.Unlisted = nil, nil
		for _, name := range s.Table.Attractions() {
			if _, ok := c.Get(name); !ok {
				s.Orphans = append(s.Orphans, name)
			}
		}
		for _, a := range c.All() {
			if !s.Table.HasAttraction(a.Name) {
				s.Unlisted = append(s.Unlisted, a.Name)
			}
		}
		return nil
	}
}

// MirrorStep copies every user column to the mirror.
func MirrorStep(mirror service.ColumnMirror) Step[Snapshot] {
	return func(ctx context.Context, s *Snapshot) error {
		s.Mirrored = 0
		for _, user := range s.Table.Users() {
			column, _ := s.Table.Column(user)
			if err := mirror.MirrorColumn(ctx, user, column); err != nil {
				return fmt.Errorf("mirror %s: %w", user, err)
			}
			s.Mirrored++
		}
		return nil
	}
}

// LogStep writes a one-line summary of the snapshot.
func LogStep(_ context.Context, s *Snapshot) error {
	logging.Info().
		Str("bucket", s.Bucket).
		Str("key", s.Key).
		Int("users", s.Users).
		Int("rows", s.Rows).
		Int("rated_cells", s.RatedCells).
		Int("orphans", len(s.Orphans)).
		Int("unlisted", len(s.Unlisted)).
		Int("mirrored", s.Mirrored).
		Msg("Rating table updated")
	return nil
}
