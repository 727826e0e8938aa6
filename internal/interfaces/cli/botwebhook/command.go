// Package botwebhook registers or unregisters the Telegram webhook with
// the Bot API, grounded on the same cobra/bootstrap() shape as cli/migrate
// — spec.md's `botwebhook set|delete` is a one-shot operational command,
// not a long-running server.
package botwebhook

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedalworks/repairbay/internal/infrastructure/config"
	"github.com/pedalworks/repairbay/internal/infrastructure/telegram"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

var (
	env        string
	configPath string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "botwebhook",
		Short: "Register or unregister the Telegram webhook",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(newSetCommand(), newDeleteCommand())
	return cmd
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Register the webhook URL with Telegram",
		RunE:  runSet,
	}
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Unregister the webhook, reverting to long-polling",
		RunE:  runDelete,
	}
}

func bootstrap() (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.NewLogger(), nil
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	bot := telegram.NewBotService(cfg.Telegram)
	if err := bot.SetWebhook(cfg.Telegram.WebhookURL()); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	if err := bot.SetMyCommands(telegram.DefaultCommands()); err != nil {
		log.Warnw("failed to set bot command menu", "error", err)
	}
	log.Infow("webhook registered", "url", cfg.Telegram.WebhookURL())
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	bot := telegram.NewBotService(cfg.Telegram)
	if err := bot.DeleteWebhook(); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	log.Infow("webhook deleted")
	return nil
}
