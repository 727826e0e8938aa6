// Package migration runs the version-controlled SQL scripts that carry
// schema and constraints gorm's AutoMigrate cannot express: partial unique
// indexes and the append-only triggers on the transition-log tables.
package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/shared/logger"
)

//go:embed scripts/*.sql
var scripts embed.FS

// Manager drives golang-migrate against the scripts embedded at build time,
// so a deployed binary never depends on a scripts directory existing on disk.
type Manager struct {
	log logger.Interface
}

func NewManager(log logger.Interface) *Manager {
	return &Manager{log: log}
}

func (m *Manager) newMigrate(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(scripts, "scripts")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migration source: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "postgres", driver)
}

// Up brings gorm's struct-derived tables up to date, then applies every
// pending SQL migration for the constraints AutoMigrate cannot express.
func (m *Manager) Up(db *gorm.DB) error {
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}

	mig, err := m.newMigrate(db)
	if err != nil {
		return err
	}
	defer mig.Close()

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", version)
	}

	m.log.Infow("running migrations", "from_version", version)

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	m.log.Infow("migrations up to date", "version", newVersion)
	return nil
}

// Down rolls back the given number of migrations.
func (m *Manager) Down(db *gorm.DB, steps int) error {
	mig, err := m.newMigrate(db)
	if err != nil {
		return err
	}
	defer mig.Close()

	if err := mig.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("down migration failed: %w", err)
	}
	return nil
}

// Version reports the currently applied migration version.
func (m *Manager) Version(db *gorm.DB) (uint, bool, error) {
	mig, err := m.newMigrate(db)
	if err != nil {
		return 0, false, err
	}
	defer mig.Close()

	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}
