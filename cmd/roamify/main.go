package main

import (
	"context"
	"os"

	"roamify/internal/cli"
	"roamify/internal/logging"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		logging.Error().Err(err).Msg("roamify failed")
		os.Exit(1)
	}
}
