package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/boadinoel/fsri/internal/application"
	httpserver "github.com/boadinoel/fsri/internal/interfaces/http"
	"github.com/boadinoel/fsri/internal/interfaces/http/handlers"
)

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the FSRI scoring API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := application.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.HTTP.Host = host
			}
			if port != 0 {
				cfg.HTTP.Port = port
			}

			ctx := cmd.Context()
			metrics := httpserver.NewMetricsRegistry()
			pipeline, cleanup, err := buildPipeline(ctx, cfg, metrics)
			if err != nil {
				return err
			}
			defer cleanup()

			handlerSet := handlers.NewHandlers(handlers.Options{
				Service:   pipeline,
				Store:     pipeline.Rules(),
				Repo:      pipeline.Repository(),
				APIKey:    cfg.APIKey,
				RulesFile: cfg.RulesFile,
				Reloads:   metrics,
			})

			serverCfg := httpserver.DefaultServerConfig()
			serverCfg.Host = cfg.HTTP.Host
			serverCfg.Port = cfg.HTTP.Port
			serverCfg.AllowOrigins = cfg.HTTP.AllowOrigins

			server, err := httpserver.NewServer(serverCfg, handlerSet, metrics)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			log.Info().Str("addr", server.GetAddress()).Msg("FSRI API serving")

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Bind host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Bind port (overrides config)")
	return cmd
}
