// Package permission is the application-layer face of C1's `has()`
// capability check (spec.md §4.1): it combines a casbin role-policy
// lookup with the in-process object-state predicate from
// internal/shared/authorization, since casbin's policy store has no
// notion of a ticket's current status.
package permission

import (
	"context"
	"fmt"

	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// Enforcer is the casbin-backed role→capability policy store
// (internal/infrastructure/permission.CasbinEnforcer).
type Enforcer interface {
	Enforce(subject, capability string) (bool, error)
	AddRoleForUser(subject, role string) error
	RemoveRoleForUser(subject, role string) error
}

type Service struct {
	enforcer Enforcer
	log      logger.Interface
}

func NewService(enforcer Enforcer, log logger.Interface) *Service {
	return &Service{enforcer: enforcer, log: log}
}

// HasCapability implements C1's has(capability, user, object?) predicate.
func (s *Service) HasCapability(ctx context.Context, u *user.User, capability authorization.Capability, objCtx authorization.ObjectContext) (bool, error) {
	allowed, err := s.enforcer.Enforce(u.SID(), string(capability))
	if err != nil {
		return false, fmt.Errorf("enforce capability: %w", err)
	}
	if !allowed {
		return false, nil
	}
	return authorization.ObjectAllowed(capability, u.ActiveRoleSet(), objCtx), nil
}

// SyncRoles pushes a user's active role set into the casbin policy store —
// called on role assignment/revocation (internal/application/user) so the
// enforcer stays consistent with the domain's role_assignments table.
func (s *Service) SyncRoles(ctx context.Context, u *user.User) error {
	for _, role := range authorization.AllRoles {
		if u.HasActiveRole(role) {
			if err := s.enforcer.AddRoleForUser(u.SID(), string(role)); err != nil {
				s.log.Errorw("failed to sync role into enforcer", "user_sid", u.SID(), "role", role, "error", err)
			}
		} else {
			if err := s.enforcer.RemoveRoleForUser(u.SID(), string(role)); err != nil {
				s.log.Errorw("failed to remove role from enforcer", "user_sid", u.SID(), "role", role, "error", err)
			}
		}
	}
	return nil
}
