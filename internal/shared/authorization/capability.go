package authorization

// Capability is a declarative right, evaluated from a user's active roles
// and — for some capabilities — the target object's current state. This is
// the authoritative table from spec.md §4.1.
type Capability string

const (
	CapTicketCreate        Capability = "ticket.create"
	CapTicketReviewApprove Capability = "ticket.review_approve"
	CapTicketAssign        Capability = "ticket.assign"
	CapTicketManualMetrics Capability = "ticket.manual_metrics"
	CapTicketWorkStart     Capability = "ticket.work.start"
	CapTicketWorkPause     Capability = "ticket.work.pause"
	CapTicketWorkResume    Capability = "ticket.work.resume"
	CapTicketWorkStop      Capability = "ticket.work.stop"
	CapTicketToWaitingQC   Capability = "ticket.to_waiting_qc"
	CapTicketQCPass        Capability = "ticket.qc_pass"
	CapTicketQCFail        Capability = "ticket.qc_fail"
	CapAccessRequestMod    Capability = "access_request.moderate"
	CapXPReadSelf          Capability = "xp.read_self"
	CapXPReadAny           Capability = "xp.read_any"
)

// roleRequirement lists the roles whose presence in the caller's active
// role set satisfies the capability's role check. This is the policy
// seeded into casbin at bootstrap (internal/infrastructure/permission).
var roleRequirement = map[Capability][]Role{
	CapTicketCreate:        {RoleMaster, RoleSuperAdmin},
	CapTicketReviewApprove: {RoleManager, RoleMaster, RoleSuperAdmin},
	CapTicketAssign:        {RoleManager, RoleMaster, RoleSuperAdmin},
	CapTicketManualMetrics: {RoleManager, RoleSuperAdmin},
	CapTicketWorkStart:     {RoleTechnician, RoleSuperAdmin},
	CapTicketWorkPause:     {RoleTechnician, RoleSuperAdmin},
	CapTicketWorkResume:    {RoleTechnician, RoleSuperAdmin},
	CapTicketWorkStop:      {RoleTechnician, RoleSuperAdmin},
	CapTicketToWaitingQC:   {RoleTechnician, RoleSuperAdmin},
	CapTicketQCPass:        {RoleQC, RoleSuperAdmin},
	CapTicketQCFail:        {RoleQC, RoleSuperAdmin},
	CapAccessRequestMod:    {RoleManager, RoleSuperAdmin},
	CapXPReadSelf:          AllRoles,
	CapXPReadAny:           {RoleManager, RoleSuperAdmin},
}

// RequiredRoles returns the role disjunction backing a capability, or nil
// for an unknown capability.
func RequiredRoles(c Capability) []Role {
	return roleRequirement[c]
}

// RoleCheck reports whether caller's active roles satisfy the capability's
// role requirement, ignoring any object-state predicate.
func RoleCheck(c Capability, caller RoleSet) bool {
	roles := roleRequirement[c]
	if roles == nil {
		return false
	}
	return caller.HasAny(roles...)
}

// ObjectContext carries the object-state facts a capability's predicate may
// need. Zero values mean "not applicable to this capability" — callers only
// need to populate the fields relevant to the capability being checked.
type ObjectContext struct {
	// TicketStatus is the ticket's current status string (e.g. "under_review").
	TicketStatus string
	// CallerIsAssignedTechnician is true when the caller is the ticket's
	// assigned technician.
	CallerIsAssignedTechnician bool
	// TargetHasTechnicianRole is true when ticket.assign's target user has
	// an active TECHNICIAN role assignment.
	TargetHasTechnicianRole bool
	// SessionIsStopped is true when the ticket's current (or most recent)
	// work session is STOPPED, as required before to_waiting_qc.
	SessionIsStopped bool
}

// ObjectAllowed evaluates the object-state predicate for a capability. It
// returns true when the capability carries no predicate (role check alone
// suffices) or when the predicate is satisfied.
func ObjectAllowed(c Capability, caller RoleSet, ctx ObjectContext) bool {
	if caller.Has(RoleSuperAdmin) {
		// SUPER_ADMIN bypasses object predicates for capabilities that
		// otherwise gate on "caller is the assigned technician" — spec.md
		// §4.1 lists SUPER_ADMIN in every role disjunction precisely so it
		// can act on any ticket/session.
		switch c {
		case CapTicketWorkStart, CapTicketWorkPause, CapTicketWorkResume, CapTicketWorkStop:
			return true
		}
	}

	switch c {
	case CapTicketReviewApprove:
		return ctx.TicketStatus == "under_review"
	case CapTicketAssign:
		return (ctx.TicketStatus == "under_review" || ctx.TicketStatus == "new") && ctx.TargetHasTechnicianRole
	case CapTicketManualMetrics:
		return ctx.TicketStatus != "done"
	case CapTicketWorkStart, CapTicketWorkPause, CapTicketWorkResume, CapTicketWorkStop:
		return ctx.CallerIsAssignedTechnician
	case CapTicketToWaitingQC:
		return ctx.TicketStatus == "in_progress" && ctx.CallerIsAssignedTechnician && ctx.SessionIsStopped
	case CapTicketQCPass, CapTicketQCFail:
		return ctx.TicketStatus == "waiting_qc"
	default:
		return true
	}
}
