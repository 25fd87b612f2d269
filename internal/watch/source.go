package watch

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"roamify/internal/ratings"
	"roamify/internal/service"
	"roamify/internal/tabular"
)

// ObjectGetter is satisfied by *storage.S3Service.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// TableLoader reads a rating table straight from the notified object.
func TableLoader(s3 ObjectGetter) service.LoaderFunc[*ratings.Table] {
	return func(ctx context.Context, bucket, key string) (*ratings.Table, error) {
		rc, err := s3.GetObject(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		t, err := tabular.ReadRatings(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse s3://%s/%s: %w", bucket, key, err)
		}
		return t, nil
	}
}

// OnlyKey accepts notifications for a single object of a bucket.
func OnlyKey(bucket, key string) service.KeyFilter {
	return func(b, k string) bool {
		return b == bucket && k == key
	}
}

// Snapshots adapts fetched tables to pipeline items.
func Snapshots(ctx context.Context, objects <-chan *service.FetchedObject[*ratings.Table]) <-chan *Snapshot {
	out := make(chan *Snapshot)
	go func() {
		defer close(out)
		for obj := range objects {
			key, err := url.QueryUnescape(obj.Event.S3.Object.Key)
			if err != nil {
				key = obj.Event.S3.Object.Key
			}
			s := NewSnapshot(obj.Event.S3.Bucket.Name, key, obj.Data)
			select {
			case out <- s:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
