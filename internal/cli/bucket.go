package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"roamify/internal/app"
	"roamify/internal/logging"
)

func newBucketCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bucket",
		Short: "Manage the S3 bucket holding the datasets",
	}

	var seedDir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the bucket and optionally upload the local datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s3, err := app.NewS3(opts.cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			created, err := s3.CreateBucket(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "Created bucket %s\n", s3.Bucket())
			} else {
				fmt.Fprintf(out, "Bucket %s already exists\n", s3.Bucket())
			}
			if seedDir == "" {
				return nil
			}

			for _, name := range []string{opts.cfg.Data.Catalog, opts.cfg.Data.Ratings} {
				data, err := os.ReadFile(filepath.Join(seedDir, name))
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						logging.Warn().Str("file", name).Str("dir", seedDir).Msg("Seed file missing, skipping")
						continue
					}
					return fmt.Errorf("failed to read seed file %s: %w", name, err)
				}
				if err := s3.Write(ctx, name, data); err != nil {
					return err
				}
				fmt.Fprintf(out, "Uploaded %s to s3://%s/%s\n", name, s3.Bucket(), s3.Key(name))
			}
			return nil
		},
	}
	initCmd.Flags().StringVar(&seedDir, "seed", "", "directory with the dataset files to upload")

	cmd.AddCommand(initCmd)
	return cmd
}
