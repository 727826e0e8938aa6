package attendance

import "errors"

var (
	// ErrAlreadyCheckedIn is returned when a user attempts a second
	// check-in on the same local calendar day.
	ErrAlreadyCheckedIn = errors.New("user has already checked in today")
	ErrNotFound         = errors.New("check-in not found")
)
