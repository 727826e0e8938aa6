package ticket

import "fmt"

// NumberGenerator formats a human-readable ticket number ("RM-000123") from
// the sequential database id, for display on receipts and bot menus. It
// carries no state of its own — formatting is pure — but is kept as a type
// so callers depend on an interface rather than a bare function, matching
// the teacher's number-generator shape.
type NumberGenerator struct {
	prefix string
}

func NewNumberGenerator(prefix string) *NumberGenerator {
	if prefix == "" {
		prefix = "RM"
	}
	return &NumberGenerator{prefix: prefix}
}

func (g *NumberGenerator) Format(id uint) string {
	return fmt.Sprintf("%s-%06d", g.prefix, id)
}
