// Package constants centralizes gin-context keys and other cross-cutting
// string constants shared between middleware and handlers.
package constants

const (
	ContextKeyUserID      = "user_id"
	ContextKeyUserPhone   = "user_phone"
	ContextKeySessionID   = "session_id"
	ContextKeyRequestID   = "request_id"
	ContextKeyTelegramID  = "telegram_id"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	BotPageSize     = 5
)

// MinSearchQueryLength is the minimum length a free-text `q` filter must
// reach before list endpoints apply it as a case-insensitive substring
// match on the title (spec.md §6).
const MinSearchQueryLength = 2
