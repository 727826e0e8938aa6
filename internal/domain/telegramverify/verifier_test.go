package telegramverify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "1234567890:TESTTOKEN"

type fakeReplayGuard struct {
	seen map[string]bool
	err  error
}

func newFakeReplayGuard() *fakeReplayGuard {
	return &fakeReplayGuard{seen: make(map[string]bool)}
}

func (g *fakeReplayGuard) CheckAndRemember(ctx context.Context, hash string, ttl time.Duration) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	if g.seen[hash] {
		return false, nil
	}
	g.seen[hash] = true
	return true, nil
}

// sign replicates VerifySignature's HMAC chain bit-for-bit: the secret key
// is the raw HMAC-SHA256 digest of botToken (not its hex encoding).
func sign(botToken, dataCheckStr string) string {
	secret := hmac.New(sha256.New, []byte(webAppDataKey))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckStr))
	return hex.EncodeToString(mac.Sum(nil))
}

// signedInitData builds a raw initData query string the way Telegram's
// client SDK would, reusing the package's own dataCheckString so the test
// stays in lockstep with whatever fields VerifySignature actually covers.
func signedInitData(botToken string, authDate time.Time, userJSON string) string {
	fields := Fields{
		"auth_date": strconv.FormatInt(authDate.Unix(), 10),
		"query_id":  "AAH1234567890",
		"user":      userJSON,
	}
	hash := sign(botToken, dataCheckString(fields))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func TestVerifier_Verify_Success(t *testing.T) {
	now := time.Unix(1700000100, 0)
	raw := signedInitData(testBotToken, time.Unix(1700000000, 0), `{"id":42,"first_name":"Ana","last_name":"Lee","username":"ana"}`)

	v := NewVerifier(testBotToken, DefaultConfig(), newFakeReplayGuard())
	got, err := v.Verify(context.Background(), raw, now)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "Ana", got.FirstName)
}

func TestVerifier_Verify_RejectsBadSignature(t *testing.T) {
	raw := signedInitData("a-different-token", time.Unix(1700000000, 0), `{"id":42}`)
	now := time.Unix(1700000100, 0)

	v := NewVerifier(testBotToken, DefaultConfig(), newFakeReplayGuard())
	_, err := v.Verify(context.Background(), raw, now)
	assert.Error(t, err)
}

func TestVerifier_Verify_RejectsStalePayload(t *testing.T) {
	raw := signedInitData(testBotToken, time.Unix(1700000000, 0), `{"id":42}`)
	now := time.Unix(1700000000, 0).Add(DefaultConfig().MaxAge + time.Minute)

	v := NewVerifier(testBotToken, DefaultConfig(), newFakeReplayGuard())
	_, err := v.Verify(context.Background(), raw, now)
	assert.Error(t, err)
}

func TestVerifier_Verify_RejectsReplay(t *testing.T) {
	raw := signedInitData(testBotToken, time.Unix(1700000000, 0), `{"id":42}`)
	now := time.Unix(1700000100, 0)
	guard := newFakeReplayGuard()
	v := NewVerifier(testBotToken, DefaultConfig(), guard)

	_, err := v.Verify(context.Background(), raw, now)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), raw, now)
	require.Error(t, err)
	_, ok := err.(ErrReplay)
	assert.True(t, ok)
}

func TestVerifySignature_RejectsWrongToken(t *testing.T) {
	fields := Fields{"auth_date": "1700000000", "user": `{"id":1}`}
	fields["hash"] = sign(testBotToken, dataCheckString(fields))

	assert.True(t, VerifySignature(fields, testBotToken))
	assert.False(t, VerifySignature(fields, "wrong-token"))
}
