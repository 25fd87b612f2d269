// Package cli implements the roamify command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"roamify/internal/app"
	"roamify/internal/config"
	"roamify/internal/env"
	"roamify/internal/logging"
)

// Version is set at build time.
var Version = "dev"

type rootOptions struct {
	envFiles []string
	cfg      *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "roamify",
		Short:         "Tourist attraction recommendations from user ratings",
		Long:          `Roamify ranks the attractions of a region by a user's own ratings and collects new ratings.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env.LoadEnv(opts.envFiles...)
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load before reading configuration (default .env)")

	root.AddCommand(
		newServeCmd(opts),
		newRecommendCmd(opts),
		newRateCmd(opts),
		newShowCmd(opts),
		newRegionsCmd(opts),
		newLookupCmd(opts),
		newBucketCmd(opts),
		newEventsCmd(opts),
	)
	return root
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// withApp builds the application for one command and closes it afterwards.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := app.Build(cmd.Context(), o.cfg)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close application")
		}
	}()
	return fn(a)
}
