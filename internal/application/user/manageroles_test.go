package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalworks/repairbay/internal/domain/user"
)

func TestAssignRoleUseCase_Execute_RejectsUnknownRole(t *testing.T) {
	uc := NewAssignRoleUseCase(&fakeUserRepo{}, &fakeSyncer{}, noopLogger{})

	_, err := uc.Execute(context.Background(), AssignRoleCommand{UserID: 1, Role: "NOT_A_ROLE"})
	assert.Error(t, err)
}

func TestAssignRoleUseCase_Execute_Success(t *testing.T) {
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)
	repo := &fakeUserRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*user.User, error) { return u, nil },
	}
	syncer := &fakeSyncer{}
	uc := NewAssignRoleUseCase(repo, syncer, noopLogger{})

	got, err := uc.Execute(context.Background(), AssignRoleCommand{UserID: 1, Role: "TECHNICIAN"})
	require.NoError(t, err)
	assert.True(t, got.HasActiveRole("TECHNICIAN"))
	assert.True(t, syncer.called)
}

func TestRevokeRoleUseCase_Execute_Success(t *testing.T) {
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)
	_, err = u.AssignRole("TECHNICIAN")
	require.NoError(t, err)

	repo := &fakeUserRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*user.User, error) { return u, nil },
	}
	syncer := &fakeSyncer{}
	uc := NewRevokeRoleUseCase(repo, syncer, noopLogger{})

	got, err := uc.Execute(context.Background(), AssignRoleCommand{UserID: 1, Role: "TECHNICIAN"})
	require.NoError(t, err)
	assert.False(t, got.HasActiveRole("TECHNICIAN"))
}

func TestListUsersUseCase_Execute_ByRole(t *testing.T) {
	var gotRole string
	repo := &fakeUserRepo{
		ListByRoleFunc: func(ctx context.Context, role string, page, perPage int) ([]*user.User, int64, error) {
			gotRole = role
			return nil, 3, nil
		},
	}
	uc := NewListUsersUseCase(repo)

	result, err := uc.Execute(context.Background(), ListUsersCommand{Role: "QC"})
	require.NoError(t, err)
	assert.Equal(t, "QC", gotRole)
	assert.Equal(t, int64(3), result.Total)
}

func TestListUsersUseCase_Execute_AllUsers(t *testing.T) {
	called := false
	repo := &fakeUserRepo{
		ListFunc: func(ctx context.Context, page, perPage int) ([]*user.User, int64, error) {
			called = true
			return nil, 0, nil
		},
	}
	uc := NewListUsersUseCase(repo)

	_, err := uc.Execute(context.Background(), ListUsersCommand{})
	require.NoError(t, err)
	assert.True(t, called)
}
