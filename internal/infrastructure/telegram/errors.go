package telegram

import (
	"errors"
	"fmt"
)

// ErrCircuitOpen is returned when the breaker around the Bot API is open.
var ErrCircuitOpen = errors.New("telegram: circuit breaker is open")

func IsCircuitOpen(err error) bool { return errors.Is(err, ErrCircuitOpen) }

// APIError is a structured Telegram Bot API error response.
type APIError struct {
	ErrorCode   int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram API error %d: %s (retry_after=%ds)", e.ErrorCode, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram API error %d: %s", e.ErrorCode, e.Description)
}

// IsMessageNotModified matches Telegram's "message is not modified" error,
// which the bot-side callback handlers must treat as non-fatal (spec.md §5).
func IsMessageNotModified(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 400 && containsFold(apiErr.Description, "message is not modified")
	}
	return false
}

func IsRetryAfter(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 429 && apiErr.RetryAfter > 0
	}
	return false
}

func GetRetryAfter(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RetryAfter
	}
	return 0
}

func isNonRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == 400 || apiErr.ErrorCode == 403
	}
	return false
}

func containsFold(s, substr string) bool {
	sl, subl := len(s), len(substr)
	if subl == 0 || subl > sl {
		return subl == 0
	}
	lower := func(b byte) byte {
		if b >= 'A' && b <= 'Z' {
			return b + 32
		}
		return b
	}
	for i := 0; i+subl <= sl; i++ {
		match := true
		for j := 0; j < subl; j++ {
			if lower(s[i+j]) != lower(substr[j]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
