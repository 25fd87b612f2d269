// Package config loads Roamify settings.
//
// Values are layered, later sources winning: built-in defaults, an optional
// YAML file (CONFIG_PATH or ./roamify.yaml), then environment variables. Call
// env.LoadEnv first so that a .env file feeds the environment layer.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Storage backends.
const (
	BackendFile = "file"
	BackendS3   = "s3"
)

type Config struct {
	Data     DataConfig     `koanf:"data"`
	S3       S3Config       `koanf:"s3"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Postgres PostgresConfig `koanf:"postgres"`
	Server   ServerConfig   `koanf:"server"`
	Ratings  RatingsConfig  `koanf:"ratings"`
	Logging  LoggingConfig  `koanf:"log"`
}

// DataConfig names the two tabular files and where they live.
type DataConfig struct {
	Backend string `koanf:"backend"`
	Dir     string `koanf:"dir"`
	Catalog string `koanf:"catalog"`
	Ratings string `koanf:"ratings"`
}

type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
}

// KafkaConfig is optional; without brokers no events are published.
type KafkaConfig struct {
	Brokers            []string `koanf:"brokers"`
	RatingsTopic       string   `koanf:"ratings_topic"`
	NotificationsTopic string   `koanf:"notifications_topic"`
	GroupID            string   `koanf:"group_id"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// PostgresConfig enables the row-level rating mirror when URL is set.
type PostgresConfig struct {
	URL string `koanf:"url"`
}

type ServerConfig struct {
	Host        string   `koanf:"host"`
	Port        int      `koanf:"port"`
	CORSOrigins []string `koanf:"cors_origins"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type RatingsConfig struct {
	// SeedDefaults gives unrated attractions a 1 in 6 chance of receiving the
	// catalog's aggregate rating on submission.
	SeedDefaults bool `koanf:"seed_defaults"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{"roamify.yaml", "roamify.yml"}

func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Backend: BackendFile,
			Dir:     "data",
			Catalog: "final_attractions.csv",
			Ratings: "user_ratings.csv",
		},
		S3: S3Config{
			Bucket: "roamify",
		},
		Kafka: KafkaConfig{
			RatingsTopic:       "ratings.submitted",
			NotificationsTopic: "roamify.bucket-events",
			GroupID:            "roamify-watcher",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Ratings: RatingsConfig{SeedDefaults: true},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Default returns the built-in configuration without reading any source.
func Default() *Config {
	return defaultConfig()
}

// Load builds the configuration from defaults, the optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envMappings maps environment variable names (lowercased) to config keys.
// Anything not listed is ignored.
var envMappings = map[string]string{
	"data_backend": "data.backend",
	"data_dir":     "data.dir",
	"catalog_file": "data.catalog",
	"ratings_file": "data.ratings",

	"minio_endpoint":    "s3.endpoint",
	"minio_access_key":  "s3.access_key",
	"minio_secret_key":  "s3.secret_key",
	"minio_use_ssl":     "s3.use_ssl",
	"minio_bucket_name": "s3.bucket",
	"minio_region":      "s3.region",

	"kafka_broker":        "kafka.brokers",
	"kafka_brokers":       "kafka.brokers",
	"kafka_ratings_topic": "kafka.ratings_topic",
	"kafka_topic":         "kafka.notifications_topic",
	"kafka_group_id":      "kafka.group_id",

	"database_url": "postgres.url",

	"http_host":    "server.host",
	"http_port":    "server.port",
	"cors_origins": "server.cors_origins",

	"seed_default_ratings": "ratings.seed_defaults",

	"log_level":  "log.level",
	"log_format": "log.format",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// sliceConfigPaths are read as comma-separated lists when they come from the
// environment.
var sliceConfigPaths = []string{
	"kafka.brokers",
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
