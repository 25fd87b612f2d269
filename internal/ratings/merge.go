package ratings

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"roamify/internal/models"
)

// MaxRating is the upper bound of a rating value.
const MaxRating = 5.0

var (
	ErrEmptyUser        = errors.New("user name is required")
	ErrRatingOutOfRange = errors.New("rating out of range")
)

// Submission maps attraction names to the ratings a user entered in one form.
type Submission map[string]float64

// Normalize drops entries that are not rated (<= 0) and rejects NaN and values
// above MaxRating.
func (s Submission) Normalize() (Submission, error) {
	out := make(Submission, len(s))
	for name, v := range s {
		if math.IsNaN(v) || v > MaxRating {
			return nil, fmt.Errorf("%w: %q rated %g, max is %g", ErrRatingOutOfRange, name, v, MaxRating)
		}
		if v <= 0 {
			continue
		}
		out[name] = v
	}
	return out, nil
}

// CanonicalUser trims a user name the same way column headers are trimmed
// when the rating file is read back.
func CanonicalUser(user string) string {
	return strings.TrimSpace(user)
}

// Merge builds the user's full rating column over the catalog and writes it
// into t, replacing any previous column for user. Submitted values win, then
// existing non-zero ratings, then the default policy.
//
// The returned map holds the merged value for every catalog attraction.
func Merge(t *Table, catalog []models.Attraction, user string, sub Submission, policy DefaultPolicy) (map[string]float64, error) {
	user = CanonicalUser(user)
	if user == "" {
		return nil, ErrEmptyUser
	}
	sub, err := sub.Normalize()
	if err != nil {
		return nil, err
	}
	if policy == nil {
		policy = ZeroPolicy{}
	}

	existing := t.HasUser(user)
	column := make(map[string]float64, len(catalog))
	for _, a := range catalog {
		if _, done := column[a.Name]; done {
			continue
		}
		if v, ok := sub[a.Name]; ok {
			column[a.Name] = v
			continue
		}
		if existing {
			if v := t.Rating(user, a.Name); v != 0 {
				column[a.Name] = v
				continue
			}
		}
		column[a.Name] = policy.DefaultRating(a)
	}

	// New rows follow catalog order.
	for _, a := range catalog {
		t.AddAttraction(a.Name)
	}
	t.SetColumn(user, column)
	return column, nil
}
