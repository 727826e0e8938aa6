// Package permission is the casbin-backed adapter for
// internal/application/permission.Enforcer: every ticket/access-request
// capability check (spec.md §4.1) resolves through here.
package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	log      logger.Interface
}

func NewEnforcer(db *gorm.DB, modelPath string, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(modelPath, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{enforcer: enforcer, log: log}, nil
}

// Enforce satisfies application/permission.Enforcer: subject is a user's
// SID, capability is a string like "ticket.qc_pass" (spec.md §4.1's
// declarative capability, not a role name).
func (e *Enforcer) Enforce(subject, capability string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(subject, capability)
	if err != nil {
		e.log.Errorw("capability check failed", "error", err, "subject", subject, "capability", capability)
		return false, fmt.Errorf("capability check failed: %w", err)
	}
	return allowed, nil
}

func (e *Enforcer) AddRoleForUser(subject, role string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddRoleForUser(subject, role); err != nil {
		return fmt.Errorf("failed to add role for user: %w", err)
	}
	return e.enforcer.SavePolicy()
}

func (e *Enforcer) RemoveRoleForUser(subject, role string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.DeleteRoleForUser(subject, role); err != nil {
		return fmt.Errorf("failed to remove role for user: %w", err)
	}
	return e.enforcer.SavePolicy()
}

// Raw exposes the underlying casbin.Enforcer for one-time bootstrap tasks
// (policy seeding) that the application-layer Enforcer port doesn't need.
func (e *Enforcer) Raw() *casbin.Enforcer {
	return e.enforcer
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}
	e.log.Info("casbin policy reloaded")
	return nil
}
