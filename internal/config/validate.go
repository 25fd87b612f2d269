package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the application cannot run
// with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Data.Backend {
	case BackendFile:
		if c.Data.Dir == "" {
			errs = append(errs, errors.New("data.dir is required for the file backend"))
		}
	case BackendS3:
		if c.S3.Endpoint == "" || c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			errs = append(errs, errors.New("missing one or more required settings: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY"))
		}
		if c.S3.Bucket == "" {
			errs = append(errs, errors.New("s3.bucket is required for the s3 backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("data.backend must be %q or %q, got %q", BackendFile, BackendS3, c.Data.Backend))
	}

	if c.Data.Catalog == "" || c.Data.Ratings == "" {
		errs = append(errs, errors.New("data.catalog and data.ratings are required"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Kafka.Enabled() && c.Kafka.RatingsTopic == "" {
		errs = append(errs, errors.New("kafka.ratings_topic is required when brokers are set"))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or console, got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
