package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pedalworks/repairbay/internal/interfaces/cli/botwebhook"
	"github.com/pedalworks/repairbay/internal/interfaces/cli/migrate"
	"github.com/pedalworks/repairbay/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "repairbay",
		Short: "repairbay - bike repair shop ticket workflow engine",
		Long:  "repairbay runs the ticket state engine, work-session timer, and Telegram bot for a bike repair shop's in-house workflow.",
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		botwebhook.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
