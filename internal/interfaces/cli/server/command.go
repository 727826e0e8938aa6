// Package server starts the HTTP API and the Telegram bot transport as a
// cobra subcommand, grounded on the teacher's cli/server/command.go
// (adapted: no event dispatcher — C10's graph has no equivalent — and the
// bot transport starts alongside the HTTP server rather than standing
// alone).
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pedalworks/repairbay/internal/bootstrap"
	"github.com/pedalworks/repairbay/internal/infrastructure/config"
	"github.com/pedalworks/repairbay/internal/infrastructure/database"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP API and Telegram bot",
		Long:  "Serve /api/v1 and run the Telegram bot transport (polling or webhook, per telegram.mode).",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database, log); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	container, err := bootstrap.New(cfg, log, database.Get())
	if err != nil {
		return fmt.Errorf("failed to wire container: %w", err)
	}

	botCtx, cancelBot := context.WithCancel(context.Background())
	defer cancelBot()

	switch cfg.Telegram.Mode {
	case "webhook":
		if err := container.BotService.SetWebhook(cfg.Telegram.WebhookURL()); err != nil {
			log.Errorw("failed to register telegram webhook", "error", err)
		} else {
			log.Infow("telegram webhook registered", "url", cfg.Telegram.WebhookURL())
		}
	case "polling":
		poller := container.PollingService()
		go func() {
			if err := poller.Start(botCtx); err != nil {
				log.Errorw("polling service stopped", "error", err)
			}
		}()
		defer poller.Stop()
	default:
		log.Warnw("telegram.mode is neither \"polling\" nor \"webhook\", bot transport disabled", "mode", cfg.Telegram.Mode)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      container.Router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}
