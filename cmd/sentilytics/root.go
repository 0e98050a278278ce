package main

import (
	"github.com/spf13/cobra"

	"github.com/spacesedan/sentilytics/config"
	"github.com/spacesedan/sentilytics/internal/logging"
)

func newRootCmd() *cobra.Command {
	var cfg config.Config

	cmd := &cobra.Command{
		Use:           "sentilytics",
		Short:         "Sentiment analysis for single texts and CSV uploads",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.LoadEnv(config.AppEnv())
			cfg = config.Load()
			logging.InitLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
	}

	cmd.AddCommand(
		newServeCmd(&cfg),
		newAnalyzeCmd(&cfg),
	)

	return cmd
}
