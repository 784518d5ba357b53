package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/events"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print directory change events as they are published",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg.Pulsar
		if cfg.URL == "" || cfg.TopicConsumer == "" {
			return errors.New("pulsar url and topicConsumer must be configured")
		}

		consumer, err := events.NewEventConsumer(cfg.URL, cfg.TopicConsumer, cfg.Subscription)
		if err != nil {
			return err
		}
		defer consumer.Close()

		ctx := cmd.Context()
		log.Info().Str("topic", cfg.TopicConsumer).Str("subscription", cfg.Subscription).Msg("Watching for directory events")

		for {
			event, msg, err := consumer.Receive(ctx)
			if ctx.Err() != nil {
				log.Info().Msg("Stopped watching")
				return nil
			}
			if msg == nil {
				log.Error().Err(err).Msg("Error receiving message")
				continue
			}
			if err != nil {
				log.Error().Err(err).Msg("Discarding undecodable event")
				consumer.Nack(msg)
				continue
			}

			log.Info().
				Str("action", event.Action).
				Str("entity", event.Entity).
				Str("entity_id", event.EntityID).
				Msg("Directory event received")

			fmt.Fprintln(cmd.OutOrStdout(), formatEvent(event))

			consumer.Ack(msg)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// formatEvent renders an event as one line of watch output.
func formatEvent(event events.DirectoryEvent) string {
	line := fmt.Sprintf("%s %s %s %s", event.Timestamp.UTC().Format(time.RFC3339), event.Action, event.Entity, event.EntityID)
	if event.GroupID != 0 {
		line += fmt.Sprintf(" group=%d", event.GroupID)
	}
	return line
}
