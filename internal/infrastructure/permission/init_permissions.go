package permission

import (
	"fmt"

	"github.com/casbin/casbin/v2"

	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// InitCapabilityPolicies seeds the casbin policy store with spec.md §4.1's
// capability table: for every capability, one (role, capability) policy
// row per role in its disjunction. Object-state predicates are evaluated
// separately by authorization.ObjectAllowed, not by casbin.
func InitCapabilityPolicies(enforcer *casbin.Enforcer, log logger.Interface) error {
	capabilities := []authorization.Capability{
		authorization.CapTicketCreate,
		authorization.CapTicketReviewApprove,
		authorization.CapTicketAssign,
		authorization.CapTicketManualMetrics,
		authorization.CapTicketWorkStart,
		authorization.CapTicketWorkPause,
		authorization.CapTicketWorkResume,
		authorization.CapTicketWorkStop,
		authorization.CapTicketToWaitingQC,
		authorization.CapTicketQCPass,
		authorization.CapTicketQCFail,
		authorization.CapAccessRequestMod,
		authorization.CapXPReadSelf,
		authorization.CapXPReadAny,
	}

	added := 0
	for _, cap := range capabilities {
		for _, role := range authorization.RequiredRoles(cap) {
			ok, err := enforcer.AddPolicy(string(role), string(cap))
			if err != nil {
				return fmt.Errorf("failed to add policy [%s, %s]: %w", role, cap, err)
			}
			if ok {
				added++
			}
		}
	}

	if err := enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("failed to save capability policies: %w", err)
	}
	log.Infow("capability policies initialized", "added", added)
	return nil
}
