package telegram

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pedalworks/repairbay/internal/domain/telegramverify"
	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

const testBotToken = "1234567890:TESTTOKEN"

// fakeReplayGuard always reports a payload as fresh (unlike the stateful
// fake in domain/telegramverify), since LoginUseCase's own tests only care that
// Verify's result is threaded through correctly, not the replay mechanics
// already covered in domain/telegramverify/verifier_test.go.
type fakeReplayGuard struct{}

func (fakeReplayGuard) CheckAndRemember(ctx context.Context, hash string, ttl time.Duration) (bool, error) {
	return true, nil
}

// sign and signedInitData replicate telegramverify's private signing chain
// so this package's tests can build payloads a real Verifier accepts
// without importing telegramverify's unexported helpers.
func sign(botToken, dataCheckStr string) string {
	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckStr))
	return hex.EncodeToString(mac.Sum(nil))
}

func signedInitData(botToken string, authDate time.Time, userJSON string) string {
	fields := map[string]string{
		"auth_date": strconv.FormatInt(authDate.Unix(), 10),
		"user":      userJSON,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}
	dcs := strings.Join(pairs, "\n")

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", sign(botToken, dcs))
	return values.Encode()
}

type fakeUserRepo struct {
	FindByTelegramIDFunc func(ctx context.Context, telegramID int64) (*user.User, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) FindBySID(ctx context.Context, sid string) (*user.User, error) {
	return nil, errors.New("not found")
}
func (f *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*user.User, error) {
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

type fakeTokenIssuer struct {
	GenerateFunc func(userSID string, roles []string) (*TokenPair, error)
}

func (f *fakeTokenIssuer) Generate(userSID string, roles []string) (*TokenPair, error) {
	if f.GenerateFunc != nil {
		return f.GenerateFunc(userSID, roles)
	}
	return &TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600}, nil
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

func newVerifier() *telegramverify.Verifier {
	return telegramverify.NewVerifier(testBotToken, telegramverify.DefaultConfig(), fakeReplayGuard{})
}

func TestLoginUseCase_Execute_UnknownTelegramID(t *testing.T) {
	raw := signedInitData(testBotToken, time.Now(), `{"id":99,"first_name":"Cy","username":"cy"}`)
	repo := &fakeUserRepo{}
	uc := NewLoginUseCase(newVerifier(), repo, &fakeTokenIssuer{}, noopLogger{})

	result, err := uc.Execute(context.Background(), raw)
	require.NoError(t, err)
	assert.False(t, result.UserExists)
	assert.Equal(t, int64(99), result.TelegramID)
	assert.Empty(t, result.AccessToken)
}

func TestLoginUseCase_Execute_LinkedActiveUser(t *testing.T) {
	raw := signedInitData(testBotToken, time.Now(), `{"id":42,"first_name":"Ana"}`)
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)
	_, err = u.AssignRole(authorization.RoleTechnician)
	require.NoError(t, err)

	repo := &fakeUserRepo{
		FindByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*user.User, error) { return u, nil },
	}
	uc := NewLoginUseCase(newVerifier(), repo, &fakeTokenIssuer{}, noopLogger{})

	result, err := uc.Execute(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, result.UserExists)
	assert.Equal(t, "access", result.AccessToken)
	assert.Contains(t, result.Roles, "TECHNICIAN")
}

func TestLoginUseCase_Execute_InactiveLinkedUser(t *testing.T) {
	raw := signedInitData(testBotToken, time.Now(), `{"id":42}`)
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)
	u.Deactivate()

	repo := &fakeUserRepo{
		FindByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*user.User, error) { return u, nil },
	}
	uc := NewLoginUseCase(newVerifier(), repo, &fakeTokenIssuer{}, noopLogger{})

	_, err = uc.Execute(context.Background(), raw)
	assert.Error(t, err)
}

func TestLoginUseCase_Execute_InvalidInitData(t *testing.T) {
	uc := NewLoginUseCase(newVerifier(), &fakeUserRepo{}, &fakeTokenIssuer{}, noopLogger{})

	_, err := uc.Execute(context.Background(), "not-a-valid-payload=%zz")
	assert.Error(t, err)
}

func TestLoginUseCase_Execute_TokenIssuerError(t *testing.T) {
	raw := signedInitData(testBotToken, time.Now(), `{"id":42}`)
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)

	repo := &fakeUserRepo{
		FindByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*user.User, error) { return u, nil },
	}
	tokens := &fakeTokenIssuer{GenerateFunc: func(userSID string, roles []string) (*TokenPair, error) {
		return nil, errors.New("signing key unavailable")
	}}
	uc := NewLoginUseCase(newVerifier(), repo, tokens, noopLogger{})

	_, err = uc.Execute(context.Background(), raw)
	assert.Error(t, err)
}
