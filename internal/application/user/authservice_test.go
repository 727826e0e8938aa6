package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type fakeUserRepo struct {
	CreateFunc      func(ctx context.Context, u *user.User) error
	UpdateFunc      func(ctx context.Context, u *user.User) error
	FindByIDFunc    func(ctx context.Context, id uint) (*user.User, error)
	FindByPhoneFunc func(ctx context.Context, phone string) (*user.User, error)
	FindBySIDFunc   func(ctx context.Context, sid string) (*user.User, error)
	ListFunc        func(ctx context.Context, page, perPage int) ([]*user.User, int64, error)
	ListByRoleFunc  func(ctx context.Context, role string, page, perPage int) ([]*user.User, int64, error)
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
func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) FindBySID(ctx context.Context, sid string) (*user.User, error) {
	if f.FindBySIDFunc != nil {
		return f.FindBySIDFunc(ctx, sid)
	}
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*user.User, error) {
	if f.FindByPhoneFunc != nil {
		return f.FindByPhoneFunc(ctx, phone)
	}
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) List(ctx context.Context, page, perPage int) ([]*user.User, int64, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, page, perPage)
	}
	return nil, 0, nil
}
func (f *fakeUserRepo) ListByRole(ctx context.Context, role string, page, perPage int) ([]*user.User, int64, error) {
	if f.ListByRoleFunc != nil {
		return f.ListByRoleFunc(ctx, role, page, perPage)
	}
	return nil, 0, nil
}
func (f *fakeUserRepo) SoftDelete(ctx context.Context, id uint) error { return nil }

type fakeTokenIssuer struct {
	GenerateFunc func(userSID string, roles []string) (*TokenPair, error)
	VerifyFunc   func(tokenString string) (*Claims, error)
	RefreshFunc  func(refreshTokenString string) (*TokenPair, error)
}

func (f *fakeTokenIssuer) Generate(userSID string, roles []string) (*TokenPair, error) {
	if f.GenerateFunc != nil {
		return f.GenerateFunc(userSID, roles)
	}
	return &TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600}, nil
}

func (f *fakeTokenIssuer) Verify(tokenString string) (*Claims, error) {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(tokenString)
	}
	return nil, errors.New("invalid token")
}

func (f *fakeTokenIssuer) Refresh(refreshTokenString string) (*TokenPair, error) {
	if f.RefreshFunc != nil {
		return f.RefreshFunc(refreshTokenString)
	}
	return nil, errors.New("invalid refresh token")
}

type fakeHasher struct {
	VerifyFunc func(password, hash string) error
}

func (f *fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (f *fakeHasher) Verify(password, hash string) error {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(password, hash)
	}
	return nil
}

type fakeSyncer struct {
	called bool
}

func (s *fakeSyncer) SyncRoles(ctx context.Context, u *user.User) error {
	s.called = true
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

func newActiveUser(t *testing.T, phone, passwordHash string) *user.User {
	t.Helper()
	u, err := user.NewUser("usr_1", phone)
	require.NoError(t, err)
	u.SetPasswordHash(passwordHash)
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	u := newActiveUser(t, "15550001111", "hashed:secret")
	repo := &fakeUserRepo{
		FindByPhoneFunc: func(ctx context.Context, phone string) (*user.User, error) { return u, nil },
	}
	tokens := &fakeTokenIssuer{}
	svc := NewAuthService(repo, tokens, &fakeHasher{}, noopLogger{})

	result, err := svc.Login(context.Background(), LoginCommand{Phone: "+1 (555) 000-1111", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "access", result.AccessToken)
	assert.Equal(t, "usr_1", result.UserSID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	u := newActiveUser(t, "15550001111", "hashed:secret")
	repo := &fakeUserRepo{
		FindByPhoneFunc: func(ctx context.Context, phone string) (*user.User, error) { return u, nil },
	}
	hasher := &fakeHasher{VerifyFunc: func(password, hash string) error { return errors.New("mismatch") }}
	svc := NewAuthService(repo, &fakeTokenIssuer{}, hasher, noopLogger{})

	_, err := svc.Login(context.Background(), LoginCommand{Phone: "15550001111", Password: "wrong"})
	assert.Error(t, err)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	u := newActiveUser(t, "15550001111", "hashed:secret")
	u.Deactivate()
	repo := &fakeUserRepo{
		FindByPhoneFunc: func(ctx context.Context, phone string) (*user.User, error) { return u, nil },
	}
	svc := NewAuthService(repo, &fakeTokenIssuer{}, &fakeHasher{}, noopLogger{})

	_, err := svc.Login(context.Background(), LoginCommand{Phone: "15550001111", Password: "secret"})
	assert.Error(t, err)
}

func TestAuthService_Login_NoPasswordSet(t *testing.T) {
	u, err := user.NewUser("usr_2", "15550002222")
	require.NoError(t, err)
	repo := &fakeUserRepo{
		FindByPhoneFunc: func(ctx context.Context, phone string) (*user.User, error) { return u, nil },
	}
	svc := NewAuthService(repo, &fakeTokenIssuer{}, &fakeHasher{}, noopLogger{})

	_, err = svc.Login(context.Background(), LoginCommand{Phone: "15550002222", Password: "anything"})
	assert.Error(t, err)
}

func TestAuthService_Verify_RejectsNonAccessToken(t *testing.T) {
	tokens := &fakeTokenIssuer{
		VerifyFunc: func(tokenString string) (*Claims, error) {
			return &Claims{UserSID: "usr_1", TokenType: "refresh"}, nil
		},
	}
	svc := NewAuthService(&fakeUserRepo{}, tokens, &fakeHasher{}, noopLogger{})

	_, err := svc.Verify(context.Background(), "sometoken")
	assert.Error(t, err)
}

func TestAuthService_Verify_Success(t *testing.T) {
	u := newActiveUser(t, "15550003333", "hashed:secret")
	tokens := &fakeTokenIssuer{
		VerifyFunc: func(tokenString string) (*Claims, error) {
			return &Claims{UserSID: "usr_1", TokenType: "access"}, nil
		},
	}
	repo := &fakeUserRepo{
		FindBySIDFunc: func(ctx context.Context, sid string) (*user.User, error) { return u, nil },
	}
	svc := NewAuthService(repo, tokens, &fakeHasher{}, noopLogger{})

	got, err := svc.Verify(context.Background(), "sometoken")
	require.NoError(t, err)
	assert.Same(t, u, got)
}
