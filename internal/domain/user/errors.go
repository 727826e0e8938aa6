package user

import "errors"

var (
	ErrNotFound             = errors.New("user not found")
	ErrPhoneAlreadyExists   = errors.New("phone number already registered")
	ErrTelegramAlreadyBound = errors.New("telegram identity already bound to another user")
	ErrInactive             = errors.New("user is inactive")
)
