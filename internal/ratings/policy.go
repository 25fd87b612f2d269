package ratings

import (
	"math/rand/v2"

	"roamify/internal/models"
)

// DefaultPolicy decides the rating stored for an attraction the user neither
// submitted nor rated before.
type DefaultPolicy interface {
	DefaultRating(a models.Attraction) float64
}

// ZeroPolicy leaves every unrated attraction at 0.
type ZeroPolicy struct{}

func (ZeroPolicy) DefaultRating(models.Attraction) float64 { return 0 }

// SeedOdds is the "one in N" chance used by SeedPolicy.
const SeedOdds = 6

// SeedPolicy seeds synthetic data: with a 1 in SeedOdds chance the attraction
// gets the catalog's aggregate rating, otherwise 0.
type SeedPolicy struct {
	rng *rand.Rand
}

// NewSeedPolicy returns a SeedPolicy drawing from rng. A nil rng uses the
// global source.
func NewSeedPolicy(rng *rand.Rand) *SeedPolicy {
	return &SeedPolicy{rng: rng}
}

func (p *SeedPolicy) DefaultRating(a models.Attraction) float64 {
	if p.roll() == 0 {
		return a.Rating
	}
	return 0
}

func (p *SeedPolicy) roll() int {
	if p.rng == nil {
		return rand.IntN(SeedOdds)
	}
	return p.rng.IntN(SeedOdds)
}
