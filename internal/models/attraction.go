package models

import "time"

// Attraction is one row of the attraction catalog.
type Attraction struct {
	Name         string  `json:"name"`
	State        string  `json:"state"`
	City         string  `json:"city"`
	Country      string  `json:"country"`
	OpeningHours string  `json:"opening_hours"`
	Description  string  `json:"description"`
	Rating       float64 `json:"rating"`
}

// Recommendation is what a user sees for a ranked attraction.
type Recommendation struct {
	Name         string `json:"name"`
	City         string `json:"city"`
	OpeningHours string `json:"opening_hours"`
	Description  string `json:"description"`
}

func (a Attraction) Recommendation() Recommendation {
	return Recommendation{
		Name:         a.Name,
		City:         a.City,
		OpeningHours: a.OpeningHours,
		Description:  a.Description,
	}
}

// UserAttraction is a catalog row joined with one user's rating.
type UserAttraction struct {
	Name         string  `json:"name"`
	GoogleRating float64 `json:"google_rating"`
	UserRating   float64 `json:"user_rating"`
	State        string  `json:"state"`
	City         string  `json:"city"`
	Country      string  `json:"country"`
	OpeningHours string  `json:"opening_hours"`
	Description  string  `json:"description"`
}

// RatingEvent is published after a rating submission was persisted.
type RatingEvent struct {
	ID          string             `json:"id"`
	User        string             `json:"user"`
	Ratings     map[string]float64 `json:"ratings"`
	SubmittedAt time.Time          `json:"submitted_at"`
}
