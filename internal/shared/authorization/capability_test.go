package authorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCheck(t *testing.T) {
	technician := NewRoleSet(RoleTechnician)
	assert.True(t, RoleCheck(CapTicketWorkStart, technician))
	assert.False(t, RoleCheck(CapTicketQCPass, technician))
	assert.False(t, RoleCheck(Capability("not.a.capability"), technician))

	assert.True(t, RoleCheck(CapXPReadSelf, NewRoleSet(RoleMaster)), "xp.read_self is granted to every role")
}

func TestObjectAllowed_ReviewApprove(t *testing.T) {
	manager := NewRoleSet(RoleManager)
	assert.True(t, ObjectAllowed(CapTicketReviewApprove, manager, ObjectContext{TicketStatus: "under_review"}))
	assert.False(t, ObjectAllowed(CapTicketReviewApprove, manager, ObjectContext{TicketStatus: "assigned"}))
}

func TestObjectAllowed_Assign(t *testing.T) {
	manager := NewRoleSet(RoleManager)
	ctx := ObjectContext{TicketStatus: "new", TargetHasTechnicianRole: true}
	assert.True(t, ObjectAllowed(CapTicketAssign, manager, ctx))

	ctx.TargetHasTechnicianRole = false
	assert.False(t, ObjectAllowed(CapTicketAssign, manager, ctx), "target must hold an active TECHNICIAN role")
}

func TestObjectAllowed_WorkActionsRequireAssignedTechnician(t *testing.T) {
	technician := NewRoleSet(RoleTechnician)
	assert.False(t, ObjectAllowed(CapTicketWorkStart, technician, ObjectContext{CallerIsAssignedTechnician: false}))
	assert.True(t, ObjectAllowed(CapTicketWorkStart, technician, ObjectContext{CallerIsAssignedTechnician: true}))
}

func TestObjectAllowed_SuperAdminBypassesWorkPredicate(t *testing.T) {
	superAdmin := NewRoleSet(RoleSuperAdmin)
	assert.True(t, ObjectAllowed(CapTicketWorkStart, superAdmin, ObjectContext{CallerIsAssignedTechnician: false}))
	assert.True(t, ObjectAllowed(CapTicketWorkStop, superAdmin, ObjectContext{}))

	// The bypass is scoped to the work.* capabilities — review_approve still
	// evaluates its own predicate even for SUPER_ADMIN.
	assert.False(t, ObjectAllowed(CapTicketReviewApprove, superAdmin, ObjectContext{TicketStatus: "done"}))
}

func TestObjectAllowed_ToWaitingQCRequiresStoppedSession(t *testing.T) {
	technician := NewRoleSet(RoleTechnician)
	ctx := ObjectContext{TicketStatus: "in_progress", CallerIsAssignedTechnician: true, SessionIsStopped: false}
	assert.False(t, ObjectAllowed(CapTicketToWaitingQC, technician, ctx))

	ctx.SessionIsStopped = true
	assert.True(t, ObjectAllowed(CapTicketToWaitingQC, technician, ctx))
}

func TestObjectAllowed_QCCapabilitiesRequireWaitingQC(t *testing.T) {
	qc := NewRoleSet(RoleQC)
	assert.True(t, ObjectAllowed(CapTicketQCPass, qc, ObjectContext{TicketStatus: "waiting_qc"}))
	assert.False(t, ObjectAllowed(CapTicketQCFail, qc, ObjectContext{TicketStatus: "in_progress"}))
}

func TestRoleSet(t *testing.T) {
	s := NewRoleSet(RoleManager, RoleQC)
	assert.True(t, s.Has(RoleManager))
	assert.False(t, s.Has(RoleTechnician))
	assert.True(t, s.HasAny(RoleTechnician, RoleQC))
	assert.ElementsMatch(t, []string{"MANAGER", "QC"}, s.Slugs())
}
