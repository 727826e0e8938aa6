package accessrequest

import "errors"

var (
	ErrNotFound          = errors.New("access request not found")
	ErrAlreadyPending    = errors.New("a pending access request already exists for this telegram identity")
	ErrNotPending        = errors.New("access request is not pending")
)
