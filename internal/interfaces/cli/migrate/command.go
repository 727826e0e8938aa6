// Package migrate exposes the database migration tools as a cobra
// subcommand, grounded on the teacher's cli/migrate/command.go.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pedalworks/repairbay/internal/infrastructure/config"
	"github.com/pedalworks/repairbay/internal/infrastructure/database"
	"github.com/pedalworks/repairbay/internal/infrastructure/migration"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

var (
	env        string
	configPath string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  "Apply or roll back the repairbay schema and its constraints.",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(newUpCommand(), newDownCommand(), newStatusCommand())

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE:  runDown,
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE:  runStatus,
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
	log := logger.NewLogger()
	if err := database.Init(&cfg.Database, log); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	_, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	mgr := migration.NewManager(log)
	if err := mgr.Up(database.Get()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	_, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	mgr := migration.NewManager(log)
	if err := mgr.Down(database.Get(), steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}
	log.Infow("down migration completed successfully", "steps", steps)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	_, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	mgr := migration.NewManager(log)
	version, dirty, err := mgr.Version(database.Get())
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	fmt.Printf("Environment:     %s\n", env)
	fmt.Printf("Current version: %d\n", version)
	fmt.Printf("Dirty:           %t\n", dirty)
	return nil
}
