package accessrequest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pedalworks/repairbay/internal/domain/accessrequest"
	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type fakeRequestRepo struct {
	CreateFunc                 func(ctx context.Context, r *accessrequest.AccessRequest) error
	UpdateFunc                 func(ctx context.Context, r *accessrequest.AccessRequest) error
	FindByIDFunc               func(ctx context.Context, id uint) (*accessrequest.AccessRequest, error)
	FindPendingByTelegramIDFunc func(ctx context.Context, telegramID int64) (*accessrequest.AccessRequest, error)
	ListFunc                   func(ctx context.Context, status accessrequest.Status, page, perPage int) ([]*accessrequest.AccessRequest, int64, error)
}

func (f *fakeRequestRepo) Create(ctx context.Context, r *accessrequest.AccessRequest) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, r)
	}
	return nil
}

func (f *fakeRequestRepo) Update(ctx context.Context, r *accessrequest.AccessRequest) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, r)
	}
	return nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id uint) (*accessrequest.AccessRequest, error) {
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (f *fakeRequestRepo) FindPendingByTelegramID(ctx context.Context, telegramID int64) (*accessrequest.AccessRequest, error) {
	if f.FindPendingByTelegramIDFunc != nil {
		return f.FindPendingByTelegramIDFunc(ctx, telegramID)
	}
	return nil, errors.New("not found")
}

func (f *fakeRequestRepo) List(ctx context.Context, status accessrequest.Status, page, perPage int) ([]*accessrequest.AccessRequest, int64, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, status, page, perPage)
	}
	return nil, 0, nil
}

type fakeUserRepo struct {
	CreateFunc          func(ctx context.Context, u *user.User) error
	UpdateFunc          func(ctx context.Context, u *user.User) error
	FindByPhoneFunc     func(ctx context.Context, phone string) (*user.User, error)
	FindByTelegramIDFunc func(ctx context.Context, telegramID int64) (*user.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, u)
	}
	return nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, u)
	}
	return nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) { return nil, nil }
func (f *fakeUserRepo) FindBySID(ctx context.Context, sid string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*user.User, error) {
	if f.FindByPhoneFunc != nil {
		return f.FindByPhoneFunc(ctx, phone)
	}
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	if f.FindByTelegramIDFunc != nil {
		return f.FindByTelegramIDFunc(ctx, telegramID)
	}
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) List(ctx context.Context, page, perPage int) ([]*user.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepo) ListByRole(ctx context.Context, role string, page, perPage int) ([]*user.User, int64, error) {
	return nil, 0, nil
}
func (f *fakeUserRepo) SoftDelete(ctx context.Context, id uint) error { return nil }

type fakeSyncer struct {
	called bool
	err    error
}

func (s *fakeSyncer) SyncRoles(ctx context.Context, u *user.User) error {
	s.called = true
	return s.err
}

type fakeNotifier struct {
	calls []bool
}

func (n *fakeNotifier) NotifyAccessResolved(ctx context.Context, telegramID int64, approved bool) error {
	n.calls = append(n.calls, approved)
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

func TestCreateUseCase_Execute_RejectsDuplicatePending(t *testing.T) {
	existing, err := accessrequest.New("req_1", 100, "biker", "Ana", "Lee", "+15550001111")
	require.NoError(t, err)
	repo := &fakeRequestRepo{
		FindPendingByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*accessrequest.AccessRequest, error) {
			return existing, nil
		},
	}
	uc := NewCreateUseCase(repo, noopLogger{})

	_, err = uc.Execute(context.Background(), CreateCommand{
		TelegramID: 100, FirstName: "Ana", LastName: "Lee", Phone: "+15550001111",
	})
	assert.Error(t, err)
}

func TestCreateUseCase_Execute_Success(t *testing.T) {
	var created *accessrequest.AccessRequest
	repo := &fakeRequestRepo{
		CreateFunc: func(ctx context.Context, r *accessrequest.AccessRequest) error {
			created = r
			return nil
		},
	}
	uc := NewCreateUseCase(repo, noopLogger{})

	req, err := uc.Execute(context.Background(), CreateCommand{
		TelegramID: 200, FirstName: "Bo", Phone: "+15550002222",
	})
	require.NoError(t, err)
	assert.Same(t, created, req)
	assert.True(t, req.IsPending())
}

func TestApproveUseCase_Execute_ProvisionsNewUser(t *testing.T) {
	req, err := accessrequest.New("req_1", 300, "cy", "Cy", "Clist", "+15550003333")
	require.NoError(t, err)

	var createdUser *user.User
	userRepo := &fakeUserRepo{
		CreateFunc: func(ctx context.Context, u *user.User) error {
			createdUser = u
			return nil
		},
	}
	requestRepo := &fakeRequestRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*accessrequest.AccessRequest, error) { return req, nil },
	}
	syncer := &fakeSyncer{}
	notifier := &fakeNotifier{}

	uc := NewApproveUseCase(requestRepo, userRepo, syncer, notifier, noopLogger{})

	got, err := uc.Execute(context.Background(), ResolveCommand{RequestID: 1, ResolvedBy: 9})
	require.NoError(t, err)
	assert.Equal(t, accessrequest.StatusApproved, got.Status())
	require.NotNil(t, createdUser)
	assert.True(t, syncer.called)
	require.Len(t, notifier.calls, 1)
	assert.True(t, notifier.calls[0])
}

func TestApproveUseCase_Execute_RejectsWhenNotPending(t *testing.T) {
	req, err := accessrequest.New("req_1", 300, "cy", "Cy", "Clist", "+15550003333")
	require.NoError(t, err)
	require.NoError(t, req.Reject(1))

	requestRepo := &fakeRequestRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*accessrequest.AccessRequest, error) { return req, nil },
	}
	uc := NewApproveUseCase(requestRepo, &fakeUserRepo{}, &fakeSyncer{}, &fakeNotifier{}, noopLogger{})

	_, err = uc.Execute(context.Background(), ResolveCommand{RequestID: 1, ResolvedBy: 9})
	assert.Error(t, err)
}

func TestRejectUseCase_Execute(t *testing.T) {
	req, err := accessrequest.New("req_1", 400, "dee", "Dee", "", "+15550004444")
	require.NoError(t, err)
	requestRepo := &fakeRequestRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*accessrequest.AccessRequest, error) { return req, nil },
	}
	notifier := &fakeNotifier{}
	uc := NewRejectUseCase(requestRepo, notifier, noopLogger{})

	got, err := uc.Execute(context.Background(), ResolveCommand{RequestID: 1, ResolvedBy: 9})
	require.NoError(t, err)
	assert.Equal(t, accessrequest.StatusRejected, got.Status())
	require.Len(t, notifier.calls, 1)
	assert.False(t, notifier.calls[0])
}

func TestListUseCase_Execute_ClampsPaging(t *testing.T) {
	var gotPage, gotPerPage int
	repo := &fakeRequestRepo{
		ListFunc: func(ctx context.Context, status accessrequest.Status, page, perPage int) ([]*accessrequest.AccessRequest, int64, error) {
			gotPage, gotPerPage = page, perPage
			return nil, 0, nil
		},
	}
	uc := NewListUseCase(repo)

	_, err := uc.Execute(context.Background(), ListCommand{PerPage: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 20, gotPerPage)
}
