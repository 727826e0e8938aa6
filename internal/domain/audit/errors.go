package audit

import "errors"

// ErrAppendOnly is returned by any repository implementation asked to
// mutate or delete a transition row that has already been written.
var ErrAppendOnly = errors.New("transition records are append-only")
