package ticket

import "fmt"

// TicketPart is one line item of a ticket's part specification: a part
// applied with a severity color, an estimated/actual minutes figure, and an
// optional comment (spec.md §3).
type TicketPart struct {
	id      uint
	partID  uint
	color   FlagColor
	minutes int
	comment string
}

func NewTicketPart(partID uint, color FlagColor, minutes int, comment string) (*TicketPart, error) {
	if !color.IsValid() {
		return nil, fmt.Errorf("invalid flag color %q", color)
	}
	if minutes < 1 {
		return nil, fmt.Errorf("minutes must be >= 1")
	}
	return &TicketPart{partID: partID, color: color, minutes: minutes, comment: comment}, nil
}

func ReconstructTicketPart(id, partID uint, color FlagColor, minutes int, comment string) *TicketPart {
	return &TicketPart{id: id, partID: partID, color: color, minutes: minutes, comment: comment}
}

func (p *TicketPart) ID() uint          { return p.id }
func (p *TicketPart) PartID() uint      { return p.partID }
func (p *TicketPart) Color() FlagColor  { return p.color }
func (p *TicketPart) Minutes() int      { return p.minutes }
func (p *TicketPart) Comment() string   { return p.comment }
func (p *TicketPart) SetID(id uint)     { p.id = id }
