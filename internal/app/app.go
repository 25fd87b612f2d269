// Package app assembles the service and its optional sinks from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"roamify/internal/config"
	"roamify/internal/events"
	"roamify/internal/keys"
	"roamify/internal/logging"
	"roamify/internal/ratings"
	"roamify/internal/service"
	"roamify/internal/storage"
	"roamify/pkg/kafkaclient"
)

// App owns the service and everything that has to be closed with it.
type App struct {
	Config    *config.Config
	Service   *service.Service
	Backend   storage.Backend
	publisher events.Publisher
	mirror    *storage.PGMirror
}

// NewBackend returns the storage backend selected by cfg.Data.Backend.
func NewBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.Data.Backend {
	case config.BackendFile:
		return storage.NewFileStore(filepath.Clean(cfg.Data.Dir)), nil
	case config.BackendS3:
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.Data.Backend)
	}
}

func NewS3(cfg *config.Config) (*storage.S3Service, error) {
	return storage.NewS3Service(storage.S3Options{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
	}, keys.Dataset)
}

// Policy returns the default rating policy for unrated attractions.
func Policy(cfg *config.Config) ratings.DefaultPolicy {
	if cfg.Ratings.SeedDefaults {
		return ratings.NewSeedPolicy(nil)
	}
	return ratings.ZeroPolicy{}
}

// Build wires the service. Kafka and Postgres are only connected when
// configured.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	backend, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Backend: backend, publisher: events.NopPublisher{}}

	if cfg.Kafka.Enabled() {
		producer, err := kafkaclient.NewKafkaProducer(cfg.Kafka.RatingsTopic, cfg.Kafka.Brokers...)
		if err != nil {
			return nil, fmt.Errorf("failed to create rating event producer: %w", err)
		}
		a.publisher = events.NewKafkaPublisher(producer)
		logging.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.RatingsTopic).Msg("Publishing rating events")
	}

	opts := service.Options{
		CatalogName: cfg.Data.Catalog,
		RatingsName: cfg.Data.Ratings,
		Policy:      Policy(cfg),
		Publisher:   a.publisher,
	}

	if cfg.Postgres.URL != "" {
		mirror, err := storage.NewPGMirror(ctx, cfg.Postgres.URL)
		if err != nil {
			a.publisher.Close()
			return nil, err
		}
		a.mirror = mirror
		opts.Mirror = mirror
		logging.Info().Msg("Mirroring ratings to postgres")
	}

	a.Service = service.New(backend, opts)
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
		}
	}
	if a.mirror != nil {
		a.mirror.Close()
	}
	return errors.Join(errs...)
}
