package usecases

import "strconv"

// ticketReferenceID formats a ticket's numeric id as the XP ledger's
// reference_id string (spec.md §3's idempotency key is typed as a string
// reference regardless of the referenced table's primary key type).
func ticketReferenceID(ticketID uint) string {
	return strconv.FormatUint(uint64(ticketID), 10)
}
