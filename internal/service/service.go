// Package service implements the Roamify operations on top of a storage
// backend. Every call reloads the tables it needs; submissions rewrite the
// whole rating table.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"roamify/internal/catalog"
	"roamify/internal/events"
	"roamify/internal/logging"
	"roamify/internal/metrics"
	"roamify/internal/models"
	"roamify/internal/ratings"
	"roamify/internal/recommend"
	"roamify/internal/storage"
	"roamify/internal/tabular"
)

// Table labels used in metrics.
const (
	tableCatalog = "catalog"
	tableRatings = "ratings"
)

// ColumnMirror receives each merged user column after the table was saved.
type ColumnMirror interface {
	MirrorColumn(ctx context.Context, user string, column map[string]float64) error
}

type Options struct {
	// CatalogName and RatingsName are the dataset file names in the backend.
	CatalogName string
	RatingsName string
	Policy      ratings.DefaultPolicy
	Publisher   events.Publisher
	Mirror      ColumnMirror
	Clock       func() time.Time
}

type Service struct {
	backend storage.Backend
	opts    Options
}

func New(backend storage.Backend, opts Options) *Service {
	if opts.Policy == nil {
		opts.Policy = ratings.ZeroPolicy{}
	}
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Service{backend: backend, opts: opts}
}

func (s *Service) readAll(ctx context.Context, name string) ([]byte, error) {
	rc, err := s.backend.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (s *Service) LoadCatalog(ctx context.Context) (c *catalog.Catalog, err error) {
	start := time.Now()
	defer func() { metrics.ObserveTableLoad(s.backend.Kind(), tableCatalog, start, err) }()

	data, err := s.readAll(ctx, s.opts.CatalogName)
	if err != nil {
		return nil, err
	}
	attractions, err := tabular.ReadCatalog(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.opts.CatalogName, err)
	}
	return catalog.New(attractions), nil
}

func (s *Service) LoadRatings(ctx context.Context) (t *ratings.Table, err error) {
	start := time.Now()
	defer func() { metrics.ObserveTableLoad(s.backend.Kind(), tableRatings, start, err) }()

	data, err := s.readAll(ctx, s.opts.RatingsName)
	if err != nil {
		return nil, err
	}
	t, err = tabular.ReadRatings(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.opts.RatingsName, err)
	}
	return t, nil
}

// SaveRatings overwrites the rating table in the backend.
func (s *Service) SaveRatings(ctx context.Context, t *ratings.Table) error {
	var buf bytes.Buffer
	if err := tabular.WriteRatings(&buf, t); err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.opts.RatingsName, err)
	}
	if err := s.backend.Write(ctx, s.opts.RatingsName, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.opts.RatingsName, err)
	}
	return nil
}

// LookupRating returns the user's rating of one attraction, 0 when either is
// unknown.
func (s *Service) LookupRating(ctx context.Context, user, attraction string) (float64, error) {
	t, err := s.LoadRatings(ctx)
	if err != nil {
		return 0, err
	}
	return t.Rating(user, attraction), nil
}

// Submit merges a submission into the user's column, persists the table and
// announces the change. It returns the merged column.
func (s *Service) Submit(ctx context.Context, user string, sub ratings.Submission) (column map[string]float64, err error) {
	defer func() { metrics.Submissions.WithLabelValues(metrics.Result(err)).Inc() }()

	user = ratings.CanonicalUser(user)

	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.LoadRatings(ctx)
	if err != nil {
		return nil, err
	}
	column, err = ratings.Merge(t, c.All(), user, sub, s.opts.Policy)
	if err != nil {
		return nil, err
	}
	if err := s.SaveRatings(ctx, t); err != nil {
		return nil, err
	}
	logging.Info().Str("user", user).Int("submitted", len(sub)).Int("rows", t.Len()).Msg("Saved ratings")

	if s.opts.Mirror != nil {
		if err := s.opts.Mirror.MirrorColumn(ctx, user, column); err != nil {
			logging.Warn().Err(err).Str("user", user).Msg("Failed to mirror ratings")
		}
	}

	normalized, _ := sub.Normalize()
	event := events.NewRatingEvent(user, normalized, s.opts.Clock())
	perr := s.opts.Publisher.Publish(ctx, event)
	metrics.EventsPublished.WithLabelValues(metrics.Result(perr)).Inc()
	if perr != nil {
		logging.Warn().Err(perr).Str("user", user).Str("event_id", event.ID).Msg("Failed to publish rating event")
	}
	return column, nil
}

func (s *Service) Recommend(ctx context.Context, region string, n int, user string) (res recommend.Result, err error) {
	defer func() { metrics.Recommendations.WithLabelValues(outcome(res, err)).Inc() }()

	if err := recommend.ValidateCount(n); err != nil {
		return recommend.Result{}, err
	}
	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return recommend.Result{}, err
	}
	t, err := s.LoadRatings(ctx)
	if err != nil {
		return recommend.Result{}, err
	}
	return recommend.Recommend(c, t, region, n, user)
}

func outcome(res recommend.Result, err error) string {
	switch {
	case err != nil:
		return metrics.OutcomeError
	case !res.UserFound:
		return metrics.OutcomeUserNotFound
	case res.Message != "":
		return metrics.OutcomePartial
	default:
		return metrics.OutcomeServed
	}
}

func (s *Service) Regions(ctx context.Context) ([]string, error) {
	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Regions(), nil
}

// FormEntry is one slider of the rating form.
type FormEntry struct {
	Attraction models.Attraction `json:"attraction"`
	Rating     float64           `json:"rating"`
}

// RegionForm lists the region's attractions with the user's current ratings.
func (s *Service) RegionForm(ctx context.Context, region, user string) ([]FormEntry, error) {
	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	t, err := s.LoadRatings(ctx)
	if err != nil {
		return nil, err
	}
	inRegion := c.InRegion(region)
	entries := make([]FormEntry, 0, len(inRegion))
	for _, a := range inRegion {
		entries = append(entries, FormEntry{Attraction: a, Rating: t.Rating(user, a.Name)})
	}
	return entries, nil
}

// UserView joins the catalog with the user's column. found is false when the
// user has never rated anything.
func (s *Service) UserView(ctx context.Context, user string) (rows []models.UserAttraction, found bool, err error) {
	c, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, false, err
	}
	t, err := s.LoadRatings(ctx)
	if err != nil {
		return nil, false, err
	}
	if !t.HasUser(user) {
		return nil, false, nil
	}
	for _, a := range c.All() {
		rows = append(rows, models.UserAttraction{
			Name:         a.Name,
			GoogleRating: a.Rating,
			UserRating:   t.Rating(user, a.Name),
			State:        a.State,
			City:         a.City,
			Country:      a.Country,
			OpeningHours: a.OpeningHours,
			Description:  a.Description,
		})
	}
	return rows, true, nil
}

// IsBadRequest reports whether err was caused by invalid input rather than a
// backend failure.
func IsBadRequest(err error) bool {
	return recommend.IsInvalidCount(err) ||
		errors.Is(err, ratings.ErrRatingOutOfRange) ||
		errors.Is(err, ratings.ErrEmptyUser)
}
