package worksession

import "errors"

var (
	ErrNotFound             = errors.New("work session not found")
	ErrTicketAlreadyActive  = errors.New("ticket already has a non-stopped work session")
	ErrTechnicianAlreadyActive = errors.New("technician already has a non-stopped work session")
)
