package main

import (
	"context"

	"roamify/internal/app"
	"roamify/internal/config"
	"roamify/internal/env"
	"roamify/internal/logging"
	"roamify/internal/service"
	"roamify/internal/storage"
	"roamify/internal/watch"
	"roamify/pkg/graceful"
	"roamify/pkg/kafkaclient"
)

func main() {
	env.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	if !cfg.Kafka.Enabled() {
		logging.Fatal().Msg("KAFKA_BROKERS is not set")
	}
	logging.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.NotificationsTopic).
		Str("group", cfg.Kafka.GroupID).
		Msg("Connecting to Kafka")

	consumer, err := kafkaclient.NewKafkaConsumer(cfg.Kafka.NotificationsTopic, cfg.Kafka.GroupID, cfg.Kafka.Brokers...)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create kafka consumer")
	}

	s3, err := app.NewS3(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create S3 client")
	}
	catalogs := service.New(s3, service.Options{CatalogName: cfg.Data.Catalog, RatingsName: cfg.Data.Ratings})

	first := watch.NewStage(watch.CountStep, watch.CoverageStep(catalogs.LoadCatalog))
	if cfg.Postgres.URL != "" {
		mirror, err := storage.NewPGMirror(ctx, cfg.Postgres.URL)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to connect to postgres")
		}
		defer mirror.Close()
		first = watch.NewStage(watch.CountStep, watch.CoverageStep(catalogs.LoadCatalog), watch.MirrorStep(mirror))
	}
	pipeline := watch.NewPipeline(first, watch.NewStage(watch.LogStep))

	consumer.StartConsuming(ctx)
	iterator := service.NewIterator(consumer, watch.TableLoader(s3), watch.OnlyKey(s3.Bucket(), s3.Key(cfg.Data.Ratings)))
	n := pipeline.Process(ctx, watch.Snapshots(ctx, iterator.Objects(ctx)))

	consumer.Stop()
	logging.Info().Int("snapshots", n).Msg("Watcher finished, application exiting")
}
