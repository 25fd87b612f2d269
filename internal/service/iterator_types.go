package service

import (
	"context"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/segmentio/kafka-go"
)

// MessageIterator is the consumer side the Iterator reads from. The
// implementation owns the connection lifecycle and closes Messages when it
// stops.
type MessageIterator interface {
	Messages() <-chan kafka.Message
	CommitOffset(ctx context.Context, msg kafka.Message) error
}

// LoaderFunc loads and decodes the object a notification points at.
type LoaderFunc[T any] func(ctx context.Context, bucket, key string) (T, error)

// KeyFilter selects which object keys are loaded. Skipped messages are still
// committed.
type KeyFilter func(bucket, key string) bool

// FetchedObject pairs a decoded object with the notification record that
// announced it.
type FetchedObject[T any] struct {
	Data  T
	Event notification.Event
}
