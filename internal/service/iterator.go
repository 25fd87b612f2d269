package service

import (
	"context"
	"net/url"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/segmentio/kafka-go"

	"roamify/internal/logging"
)

// Iterator turns MinIO bucket notifications from a MessageIterator into
// loaded objects.
type Iterator[T any] struct {
	msgIterator MessageIterator
	loader      LoaderFunc[T]
	filter      KeyFilter
}

// NewIterator builds an Iterator. A nil filter accepts every key.
func NewIterator[T any](iterator MessageIterator, loader LoaderFunc[T], filter KeyFilter) *Iterator[T] {
	return &Iterator[T]{
		msgIterator: iterator,
		loader:      loader,
		filter:      filter,
	}
}

// Objects streams one FetchedObject per accepted notification record until
// the message channel closes or ctx is done. Undecodable messages and load
// failures are logged and skipped. The offset of a message is committed after
// all of its records were handled.
func (it *Iterator[T]) Objects(ctx context.Context) <-chan *FetchedObject[T] {
	out := make(chan *FetchedObject[T])
	go func() {
		defer close(out)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-it.msgIterator.Messages():
				if !ok {
					return
				}
				var info notification.Info
				if err := json.Unmarshal(msg.Value, &info); err != nil {
					logging.Warn().Err(err).Int64("offset", msg.Offset).Msg("Skipping undecodable notification")
					it.commit(ctx, msg)
					continue
				}

				for _, record := range info.Records {
					obj, ok := it.fetch(ctx, record)
					if !ok {
						continue
					}
					select {
					case out <- obj:
					case <-ctx.Done():
						return
					}
				}
				it.commit(ctx, msg)
			}
		}
	}()
	return out
}

func (it *Iterator[T]) fetch(ctx context.Context, record notification.Event) (*FetchedObject[T], bool) {
	bucket := record.S3.Bucket.Name
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		logging.Warn().Err(err).Str("key", record.S3.Object.Key).Msg("Skipping malformed object key")
		return nil, false
	}
	if it.filter != nil && !it.filter(bucket, key) {
		logging.Debug().Str("bucket", bucket).Str("key", key).Msg("Ignoring object")
		return nil, false
	}
	data, err := it.loader(ctx, bucket, key)
	if err != nil {
		logging.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("Error loading object")
		return nil, false
	}
	return &FetchedObject[T]{Data: data, Event: record}, true
}

func (it *Iterator[T]) commit(ctx context.Context, msg kafka.Message) {
	if ctx.Err() != nil {
		return
	}
	if err := it.msgIterator.CommitOffset(ctx, msg); err != nil {
		logging.Warn().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit offset")
	}
}
