package events

import (
	"context"

	"roamify/internal/logging"
	"roamify/internal/models"
)

// Sender is satisfied by *kafkaclient.KafkaProducer.
type Sender interface {
	Send(ctx context.Context, key, value []byte) error
	Close() error
}

// KafkaPublisher writes events keyed by user, so one user's submissions keep
// their order.
type KafkaPublisher struct {
	sender Sender
}

func NewKafkaPublisher(sender Sender) *KafkaPublisher {
	return &KafkaPublisher{sender: sender}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.RatingEvent) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	if err := p.sender.Send(ctx, []byte(event.User), data); err != nil {
		return err
	}
	logging.Debug().Str("event_id", event.ID).Str("user", event.User).Msg("Published rating event")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.sender.Close()
}
