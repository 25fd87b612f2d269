package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Data.Backend)
	assert.Equal(t, "final_attractions.csv", cfg.Data.Catalog)
	assert.Equal(t, "user_ratings.csv", cfg.Data.Ratings)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Ratings.SeedDefaults)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roamify.yaml")
	yaml := []byte(`
data:
  dir: /srv/roamify
  ratings: ratings.csv
server:
  port: 9000
ratings:
  seed_defaults: false
log:
  format: console
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o644))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("KAFKA_BROKER", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/roamify", cfg.Data.Dir)
	assert.Equal(t, "ratings.csv", cfg.Data.Ratings)
	assert.Equal(t, 9100, cfg.Server.Port, "env wins over file")
	assert.False(t, cfg.Ratings.SeedDefaults)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Kafka.Enabled())
}

func TestLoad_S3RequiresCredentials(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("DATA_BACKEND", "s3")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MINIO_ACCESS_KEY")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Data.Backend = "ftp" }, true},
		{"s3 complete", func(c *Config) {
			c.Data.Backend = BackendS3
			c.S3.Endpoint, c.S3.AccessKey, c.S3.SecretKey = "minio:9000", "key", "secret"
		}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"missing ratings file", func(c *Config) { c.Data.Ratings = "" }, true},
		{"kafka without topic", func(c *Config) {
			c.Kafka.Brokers = []string{"kafka:9092"}
			c.Kafka.RatingsTopic = ""
		}, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "s3.endpoint", envTransformFunc("MINIO_ENDPOINT"))
	assert.Equal(t, "kafka.notifications_topic", envTransformFunc("KAFKA_TOPIC"))
	assert.Empty(t, envTransformFunc("PATH"))
}
