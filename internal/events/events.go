// Package events publishes rating submissions to Kafka.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"roamify/internal/models"
)

// Publisher delivers rating events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event models.RatingEvent) error
	Close() error
}

// NewRatingEvent stamps a submission with a fresh ID. The ratings map is
// copied.
func NewRatingEvent(user string, ratings map[string]float64, at time.Time) models.RatingEvent {
	copied := make(map[string]float64, len(ratings))
	for name, value := range ratings {
		copied[name] = value
	}
	return models.RatingEvent{
		ID:          uuid.NewString(),
		User:        user,
		Ratings:     copied,
		SubmittedAt: at.UTC(),
	}
}

func Encode(event models.RatingEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rating event %s: %w", event.ID, err)
	}
	return data, nil
}

func Decode(data []byte) (models.RatingEvent, error) {
	var event models.RatingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return models.RatingEvent{}, fmt.Errorf("failed to decode rating event: %w", err)
	}
	return event, nil
}

// NopPublisher drops every event. Used when Kafka is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.RatingEvent) error { return nil }
func (NopPublisher) Close() error                                       { return nil }
