package telegramverify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TelegramUser is the subset of Telegram's embedded "user" JSON object
// relevant to onboarding and identity binding.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// Config bundles the tunables spec.md §6 names for initData verification.
type Config struct {
	MaxAge   time.Duration
	ReplayTTL time.Duration
}

func DefaultConfig() Config {
	return Config{MaxAge: 600 * time.Second, ReplayTTL: 3600 * time.Second}
}

// Verifier runs the full spec.md §4.8 pipeline.
type Verifier struct {
	botToken string
	cfg      Config
	guard    ReplayGuard
}

func NewVerifier(botToken string, cfg Config, guard ReplayGuard) *Verifier {
	return &Verifier{botToken: botToken, cfg: cfg, guard: guard}
}

// Verify runs parse → signature → freshness → replay, in that order, and
// extracts the embedded Telegram user on success.
func (v *Verifier) Verify(ctx context.Context, raw string, now time.Time) (*TelegramUser, error) {
	fields, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if !VerifySignature(fields, v.botToken) {
		return nil, fmt.Errorf("initData signature is invalid")
	}
	if err := VerifyFreshness(fields, now, v.cfg.MaxAge); err != nil {
		return nil, err
	}

	fresh, err := v.guard.CheckAndRemember(ctx, Hash(fields), v.cfg.ReplayTTL)
	if err != nil {
		return nil, fmt.Errorf("replay guard check failed: %w", err)
	}
	if !fresh {
		return nil, ErrReplay{}
	}

	userJSON, ok := fields["user"]
	if !ok {
		return nil, fmt.Errorf("initData missing user field")
	}
	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("invalid user field: %w", err)
	}
	return &user, nil
}
