// Package recommend ranks a region's attractions by one user's ratings.
package recommend

import (
	"errors"
	"fmt"
	"sort"

	"roamify/internal/catalog"
	"roamify/internal/models"
	"roamify/internal/ratings"
)

// Bounds of the requested number of attractions.
const (
	MinCount = 1
	MaxCount = 20
)

var ErrInvalidCount = fmt.Errorf("number of attractions must be between %d and %d", MinCount, MaxCount)

// Result holds the ranked attractions and an optional message for the user.
type Result struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Message         string                  `json:"message,omitempty"`
	// UserFound is false when the user has no rating column.
	UserFound bool `json:"user_found"`
}

func NotFoundMessage(user string) string {
	return fmt.Sprintf("User %s not found in the database. Please add user first.", user)
}

func ShortageMessage(available int, region, user string) string {
	return fmt.Sprintf("Only %d attractions are available in %s for %s.", available, region, user)
}

// Heading is the title shown above a full result list.
func Heading(count int, region, user string) string {
	return fmt.Sprintf("Top %d attractions in %s for %s:", count, region, user)
}

// ValidateCount reports whether n is an acceptable result size.
func ValidateCount(n int) error {
	if n < MinCount || n > MaxCount {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	return nil
}

type ranked struct {
	attraction models.Attraction
	score      float64
}

// Recommend returns up to n attractions of region sorted by the user's rating,
// highest first. Attractions without a row in the table score 0. Ties keep
// catalog order.
func Recommend(c *catalog.Catalog, t *ratings.Table, region string, n int, user string) (Result, error) {
	if err := ValidateCount(n); err != nil {
		return Result{}, err
	}
	if !t.HasUser(user) {
		return Result{Recommendations: []models.Recommendation{}, Message: NotFoundMessage(user)}, nil
	}

	candidates := c.InRegion(region)
	list := make([]ranked, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, a := range candidates {
		// A name listed twice is ranked once, from its first catalog row.
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		list = append(list, ranked{attraction: a, score: t.Rating(user, a.Name)})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})

	res := Result{UserFound: true}
	if len(list) < n {
		res.Message = ShortageMessage(len(list), region, user)
		n = len(list)
	}
	res.Recommendations = make([]models.Recommendation, 0, n)
	for _, r := range list[:n] {
		res.Recommendations = append(res.Recommendations, r.attraction.Recommendation())
	}
	return res, nil
}

// IsInvalidCount reports whether err came from ValidateCount.
func IsInvalidCount(err error) bool {
	return errors.Is(err, ErrInvalidCount)
}
