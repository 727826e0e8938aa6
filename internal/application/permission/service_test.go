package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type fakeEnforcer struct {
	EnforceFunc func(subject, capability string) (bool, error)
	added       []string
	removed     []string
}

func (f *fakeEnforcer) Enforce(subject, capability string) (bool, error) {
	if f.EnforceFunc != nil {
		return f.EnforceFunc(subject, capability)
	}
	return true, nil
}

func (f *fakeEnforcer) AddRoleForUser(subject, role string) error {
	f.added = append(f.added, role)
	return nil
}

func (f *fakeEnforcer) RemoveRoleForUser(subject, role string) error {
	f.removed = append(f.removed, role)
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...zap.Field) {}
func (noopLogger) Info(msg string, fields ...zap.Field)  {}
func (noopLogger) Warn(msg string, fields ...zap.Field)  {}
func (noopLogger) Error(msg string, fields ...zap.Field) {}
func (noopLogger) Fatal(msg string, fields ...zap.Field) {}
func (n noopLogger) With(fields ...zap.Field) logger.Interface { return n }
func (n noopLogger) Named(name string) logger.Interface        { return n }
func (noopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

func newTechnicianUser(t *testing.T) *user.User {
	t.Helper()
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)
	_, err = u.AssignRole(authorization.RoleTechnician)
	require.NoError(t, err)
	return u
}

func TestService_HasCapability_DeniedByEnforcer(t *testing.T) {
	enforcer := &fakeEnforcer{EnforceFunc: func(subject, capability string) (bool, error) { return false, nil }}
	svc := NewService(enforcer, noopLogger{})

	allowed, err := svc.HasCapability(context.Background(), newTechnicianUser(t), authorization.CapTicketWorkStart, authorization.ObjectContext{CallerIsAssignedTechnician: true})
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestService_HasCapability_AllowedButObjectPredicateFails(t *testing.T) {
	enforcer := &fakeEnforcer{EnforceFunc: func(subject, capability string) (bool, error) { return true, nil }}
	svc := NewService(enforcer, noopLogger{})

	allowed, err := svc.HasCapability(context.Background(), newTechnicianUser(t), authorization.CapTicketWorkStart, authorization.ObjectContext{CallerIsAssignedTechnician: false})
	require.NoError(t, err)
	assert.False(t, allowed, "role policy allows it, but the caller isn't the assigned technician")
}

func TestService_HasCapability_EnforcerError(t *testing.T) {
	enforcer := &fakeEnforcer{EnforceFunc: func(subject, capability string) (bool, error) { return false, errors.New("casbin down") }}
	svc := NewService(enforcer, noopLogger{})

	_, err := svc.HasCapability(context.Background(), newTechnicianUser(t), authorization.CapTicketWorkStart, authorization.ObjectContext{})
	assert.Error(t, err)
}

func TestService_SyncRoles(t *testing.T) {
	enforcer := &fakeEnforcer{}
	svc := NewService(enforcer, noopLogger{})

	require.NoError(t, svc.SyncRoles(context.Background(), newTechnicianUser(t)))
	assert.Contains(t, enforcer.added, "TECHNICIAN")
	assert.Contains(t, enforcer.removed, "MANAGER")
}
