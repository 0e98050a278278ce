package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/spacesedan/sentilytics/config"
	"github.com/spacesedan/sentilytics/internal/server"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if config.AppEnv() == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := buildAnalyzers(ctx, *cfg)
			defer a.close()

			srv := server.New(a.text, a.batch, server.Options{
				Addr:           cfg.Addr(),
				MaxUploadBytes: cfg.MaxUploadBytes,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", config.DEFAULT_HOST, "interface to bind (overrides HOST)")
	cmd.Flags().IntVar(&port, "port", config.DEFAULT_PORT, "port to bind (overrides PORT)")

	return cmd
}
