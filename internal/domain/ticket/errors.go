package ticket

import "errors"

var (
	ErrNotFound            = errors.New("ticket not found")
	ErrItemHasActiveTicket = errors.New("inventory item already has an active ticket")
	ErrInvalidTransition   = errors.New("invalid ticket transition")
	ErrSessionNotStopped   = errors.New("current work session is not stopped")
)
