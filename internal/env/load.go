package env

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"roamify/internal/logging"
)

// LoadEnv loads variables from the given .env files (default ".env") into the
// process environment. Variables that are already set are not overridden.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug().Msg("No .env file found, assuming environment variables are set directly.")
			return
		}
		logging.Warn().Err(err).Msg("Failed to parse .env file")
	}
}
