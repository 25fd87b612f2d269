package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"roamify/internal/events"
	"roamify/internal/logging"
	"roamify/pkg/graceful"
	"roamify/pkg/kafkaclient"
)

func newEventsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the rating event stream",
	}

	var group string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print rating events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg.Kafka
			if !cfg.Enabled() {
				return errors.New("kafka is not configured; set KAFKA_BROKERS")
			}
			consumer, err := kafkaclient.NewKafkaConsumer(cfg.RatingsTopic, group, cfg.Brokers...)
			if err != nil {
				return err
			}
			ctx, cancel := graceful.Context(cmd.Context())
			defer cancel()

			consumer.StartConsuming(ctx)
			defer consumer.Stop()

			out := cmd.OutOrStdout()
			for msg := range consumer.Messages() {
				event, err := events.Decode(msg.Value)
				if err != nil {
					logging.Warn().Err(err).Int64("offset", msg.Offset).Msg("Skipping malformed rating event")
				} else {
					fmt.Fprintf(out, "%s %s %s %d ratings\n",
						event.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"), event.ID, event.User, len(event.Ratings))
				}
				if err := consumer.CommitOffset(ctx, msg); err != nil && ctx.Err() == nil {
					logging.Warn().Err(err).Msg("Failed to commit offset")
				}
			}
			return nil
		},
	}
	tail.Flags().StringVar(&group, "group", "roamify-events-tail", "consumer group")

	cmd.AddCommand(tail)
	return cmd
}
