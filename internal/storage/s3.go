package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"roamify/internal/logging"
)

// KeyFunc maps a dataset file name to its object key.
type KeyFunc func(name string) string

// S3Options configures the connection to an S3-compatible server.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// S3Service is a Backend on S3-compatible storage.
type S3Service struct {
	client *minio.Client
	bucket string
	region string
	key    KeyFunc
}

// NewS3Service initializes and returns a new S3 storage service.
func NewS3Service(opts S3Options, key KeyFunc) (*S3Service, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("missing one or more required settings: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	logging.Info().Str("endpoint", opts.Endpoint).Str("bucket", opts.Bucket).Msg("Connected to MinIO endpoint")
	return &S3Service{client: client, bucket: opts.Bucket, region: opts.Region, key: key}, nil
}

func (s *S3Service) Kind() string { return "s3" }

func (s *S3Service) Bucket() string { return s.bucket }

// Key returns the object key used for a dataset name.
func (s *S3Service) Key(name string) string {
	if s.key == nil {
		return name
	}
	return s.key(name)
}

// CreateBucket makes the configured bucket unless it already exists.
func (s *S3Service) CreateBucket(ctx context.Context) (bool, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return false, fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return false, fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	logging.Info().Str("bucket", s.bucket).Msg("Created bucket")
	return true, nil
}

func (s *S3Service) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return s.GetObject(ctx, s.bucket, s.Key(name))
}

// GetObject opens any object, for callers that receive bucket and key from a
// storage notification.
func (s *S3Service) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the first read.
	if _, err := object.Stat(); err != nil {
		object.Close()
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, bucket, key)
		}
		return nil, fmt.Errorf("failed to stat object s3://%s/%s: %w", bucket, key, err)
	}
	return object, nil
}

// Write replaces the object; S3 has no partial writes, so readers see either
// the old or the new table.
func (s *S3Service) Write(ctx context.Context, name string, data []byte) error {
	key := s.Key(name)
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"},
	)
	if err != nil {
		return fmt.Errorf("failed to store object in S3: %w", err)
	}
	logging.Debug().Str("bucket", s.bucket).Str("key", key).Int("bytes", len(data)).Msg("Stored object")
	return nil
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}
