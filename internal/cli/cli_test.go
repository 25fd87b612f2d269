package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `Name,State,City,Country,Opening Hours,Description,Rating
Eiffel Tower,Paris,Paris,France,9am-11pm,Iron lattice tower,4.7
Louvre,Paris,Paris,France,9am-6pm,Art museum,4.8
Colosseum,Lazio,Rome,Italy,8:30am-7pm,Amphitheatre,4.6
`

const testRatings = `Attraction,alice
Eiffel Tower,5
Louvre,3
Colosseum,0
`

func setupData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "final_attractions.csv"), []byte(testCatalog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_ratings.csv"), []byte(testRatings), 0o644))

	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("SEED_DEFAULT_RATINGS", "false")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("LOG_LEVEL", "disabled")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRecommendCmd(t *testing.T) {
	setupData(t)

	out, err := run(t, "recommend", "--region", "Paris", "--count", "5", "--user", "alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Top 5 attractions in Paris for alice:\n"), out)
	assert.Less(t, strings.Index(out, "Eiffel Tower"), strings.Index(out, "Louvre"))
	assert.Contains(t, out, "Only 2 attractions are available in Paris for alice.")

	out, err = run(t, "recommend", "--region", "Paris", "--user", "zoe")
	require.NoError(t, err)
	assert.Equal(t, "User zoe not found in the database. Please add user first.\n", out)

	_, err = run(t, "recommend", "--region", "Paris", "--count", "0", "--user", "alice")
	require.Error(t, err)
}

func TestRateAndLookupCmd(t *testing.T) {
	dir := setupData(t)

	out, err := run(t, "rate", "--user", "bob", "--rating", "Louvre=4.5", "--rating", "Colosseum = 2")
	require.NoError(t, err)
	assert.Equal(t, "Ratings submitted successfully!\n", out)

	data, err := os.ReadFile(filepath.Join(dir, "user_ratings.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Attraction,alice,bob\nEiffel Tower,5,0\nLouvre,3,4.5\nColosseum,0,2\n", string(data))

	out, err = run(t, "lookup", "--user", "bob", "--attraction", "Louvre")
	require.NoError(t, err)
	assert.Equal(t, "4.5\n", out)

	out, err = run(t, "lookup", "--user", "nobody", "--attraction", "Louvre")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = run(t, "rate", "--user", "bob", "--rating", "Louvre")
	require.Error(t, err)
}

func TestShowAndRegionsCmd(t *testing.T) {
	setupData(t)

	out, err := run(t, "regions")
	require.NoError(t, err)
	assert.Equal(t, "Paris\nLazio\n", out)

	out, err = run(t, "show", "--user", "alice")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "Eiffel Tower")
	assert.Contains(t, lines[1], "5.0")

	out, err = run(t, "show", "--user", "zoe")
	require.NoError(t, err)
	assert.Contains(t, out, "User zoe not found")
}

func TestEventsTailRequiresKafka(t *testing.T) {
	setupData(t)

	_, err := run(t, "events", "tail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka is not configured")
}

func TestParseRatingFlag(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		value   float64
		wantErr bool
	}{
		{in: "Louvre=4.5", name: "Louvre", value: 4.5},
		{in: "A=B Museum=3", name: "A=B Museum", value: 3},
		{in: " Louvre = 1 ", name: "Louvre", value: 1},
		{in: "Louvre", wantErr: true},
		{in: "=3", wantErr: true},
		{in: "Louvre=high", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, value, err := parseRatingFlag(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, value)
		})
	}
}
