package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/NamanSoni18/Finmate-Backend/internal/adapter"
	"github.com/NamanSoni18/Finmate-Backend/internal/config"
	"github.com/NamanSoni18/Finmate-Backend/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the FinMate HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		comps, err := buildComponents(cfg)
		if err != nil {
			return err
		}

		readTimeout, err := config.DurationOrDefault(cfg.Server.ReadTimeout, config.DefaultServerReadTimeout)
		if err != nil {
			return err
		}
		writeTimeout, err := config.DurationOrDefault(cfg.Server.WriteTimeout, config.DefaultServerWriteTimeout)
		if err != nil {
			return err
		}
		shutdownTimeout, err := config.DurationOrDefault(cfg.Server.ShutdownTimeout, config.DefaultShutdownTimeout)
		if err != nil {
			return err
		}
		sweepInterval, err := config.DurationOrDefault(cfg.Session.SweepInterval, config.DefaultSessionSweep)
		if err != nil {
			return err
		}

		handler := NewSignalHandler(cmd.Context())
		handler.Start()
		ctx := handler.Context()

		httpServer := server.NewHTTPServer(cfg.Server.Port, readTimeout, writeTimeout, comps.service)
		httpServer.Start()

		sweeper := cron.New()
		if _, err := sweeper.AddFunc(fmt.Sprintf("@every %s", sweepInterval), func() {
			comps.service.SweepSessions()
			comps.bureau.Prune()
		}); err != nil {
			return err
		}
		sweeper.Start()

		var telegram *adapter.TelegramAdapter
		if cfg.Adapters.Telegram.Enabled {
			telegram = adapter.NewTelegramAdapter(
				cfg.Adapters.Telegram.BotToken,
				cfg.Adapters.Telegram.UpdateTimeout,
				comps.service.HandleTurn,
			)
			if err := telegram.Start(ctx); err != nil {
				return err
			}
		}

		slog.Info("FinMate is ready", "port", cfg.Server.Port)
		<-ctx.Done()

		slog.Info("shutting down")
		sweeper.Stop()
		if telegram != nil {
			telegram.Stop(context.Background())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Stop(shutdownCtx); err != nil {
			slog.Error("HTTP shutdown failed", "error", err)
		}

		handler.Stop()
		handler.Wait()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
