// Package inventory models the shop's physical catalog: categories, the
// items (bikes/units) that tickets are opened against, and the parts that
// apply to a category or a specific item (spec.md §4.3).
package inventory

import (
	"fmt"
	"sync"
	"time"
)

type ItemStatus string

const (
	ItemStatusReady     ItemStatus = "READY"
	ItemStatusInService ItemStatus = "IN_SERVICE"
	ItemStatusRented    ItemStatus = "RENTED"
	ItemStatusBlocked   ItemStatus = "BLOCKED"
	ItemStatusWriteOff  ItemStatus = "WRITE_OFF"
)

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusReady, ItemStatusInService, ItemStatusRented, ItemStatusBlocked, ItemStatusWriteOff:
		return true
	}
	return false
}

type Category struct {
	mu   sync.RWMutex
	id   uint
	sid  string
	name string
}

func NewCategory(sid, name string) (*Category, error) {
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	return &Category{sid: sid, name: name}, nil
}

func ReconstructCategory(id uint, sid, name string) *Category {
	return &Category{id: id, sid: sid, name: name}
}

func (c *Category) ID() uint    { c.mu.RLock(); defer c.mu.RUnlock(); return c.id }
func (c *Category) SID() string { c.mu.RLock(); defer c.mu.RUnlock(); return c.sid }
func (c *Category) Name() string { c.mu.RLock(); defer c.mu.RUnlock(); return c.name }
func (c *Category) SetID(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = id
}
func (c *Category) Rename(name string) error {
	if name == "" {
		return fmt.Errorf("category name is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
	return nil
}

// Item is a physical unit — the object a ticket is opened against. Its
// status is mutated exclusively by the ticket state engine (C4); inventory
// operators never set it directly (spec.md §4.3).
type Item struct {
	mu           sync.RWMutex
	id           uint
	sid          string
	serialNumber string
	name         string
	categoryID   uint
	status       ItemStatus
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

func NewItem(sid, serialNumber, name string, categoryID uint) (*Item, error) {
	if serialNumber == "" {
		return nil, fmt.Errorf("serial number is required")
	}
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	now := time.Now()
	return &Item{
		sid: sid, serialNumber: serialNumber, name: name, categoryID: categoryID,
		status: ItemStatusReady, isActive: true, createdAt: now, updatedAt: now,
	}, nil
}

func ReconstructItem(
	id uint, sid, serialNumber, name string, categoryID uint, status ItemStatus, isActive bool,
	createdAt, updatedAt time.Time, deletedAt *time.Time,
) *Item {
	return &Item{
		id: id, sid: sid, serialNumber: serialNumber, name: name, categoryID: categoryID,
		status: status, isActive: isActive, createdAt: createdAt, updatedAt: updatedAt, deletedAt: deletedAt,
	}
}

func (i *Item) ID() uint               { i.mu.RLock(); defer i.mu.RUnlock(); return i.id }
func (i *Item) SID() string            { i.mu.RLock(); defer i.mu.RUnlock(); return i.sid }
func (i *Item) SerialNumber() string   { i.mu.RLock(); defer i.mu.RUnlock(); return i.serialNumber }
func (i *Item) Name() string           { i.mu.RLock(); defer i.mu.RUnlock(); return i.name }
func (i *Item) CategoryID() uint       { i.mu.RLock(); defer i.mu.RUnlock(); return i.categoryID }
func (i *Item) Status() ItemStatus     { i.mu.RLock(); defer i.mu.RUnlock(); return i.status }
func (i *Item) IsActive() bool         { i.mu.RLock(); defer i.mu.RUnlock(); return i.isActive }
func (i *Item) CreatedAt() time.Time   { i.mu.RLock(); defer i.mu.RUnlock(); return i.createdAt }
func (i *Item) UpdatedAt() time.Time   { i.mu.RLock(); defer i.mu.RUnlock(); return i.updatedAt }
func (i *Item) DeletedAt() *time.Time  { i.mu.RLock(); defer i.mu.RUnlock(); return i.deletedAt }

func (i *Item) SetID(id uint) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.id = id
}

// IsAvailableForNewTicket reports whether the item is READY and active. It
// does not look for an existing active ticket — Item holds no
// back-reference, so callers check that separately (spec.md §3 invariant:
// at most one active ticket per item).
func (i *Item) IsAvailableForNewTicket() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.status == ItemStatusReady && i.isActive
}

// MarkInService is the only caller-facing mutation on status besides
// MarkReady — both are invoked exclusively from the ticket engine.
func (i *Item) MarkInService() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = ItemStatusInService
	i.updatedAt = time.Now()
}

func (i *Item) MarkReady() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = ItemStatusReady
	i.updatedAt = time.Now()
}

func (i *Item) Deactivate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.isActive = false
	i.updatedAt = time.Now()
}

func (i *Item) SoftDelete(at time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.deletedAt = &at
	i.updatedAt = at
}

// Part is a catalog entry scoped to a category and, optionally, to one
// specific item within it.
type Part struct {
	mu         sync.RWMutex
	id         uint
	sid        string
	name       string
	categoryID uint
	itemID     *uint
}

func NewPart(sid, name string, categoryID uint, itemID *uint) (*Part, error) {
	if name == "" {
		return nil, fmt.Errorf("part name is required")
	}
	return &Part{sid: sid, name: name, categoryID: categoryID, itemID: itemID}, nil
}

func ReconstructPart(id uint, sid, name string, categoryID uint, itemID *uint) *Part {
	return &Part{id: id, sid: sid, name: name, categoryID: categoryID, itemID: itemID}
}

func (p *Part) ID() uint         { p.mu.RLock(); defer p.mu.RUnlock(); return p.id }
func (p *Part) SID() string      { p.mu.RLock(); defer p.mu.RUnlock(); return p.sid }
func (p *Part) Name() string     { p.mu.RLock(); defer p.mu.RUnlock(); return p.name }
func (p *Part) CategoryID() uint { p.mu.RLock(); defer p.mu.RUnlock(); return p.categoryID }
func (p *Part) ItemID() *uint    { p.mu.RLock(); defer p.mu.RUnlock(); return p.itemID }
func (p *Part) SetID(id uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = id
}

// AppliesToItem reports whether this part can be used on a ticket for the
// given category/item combination — either category-wide or item-specific.
func (p *Part) AppliesToItem(categoryID uint, itemID uint) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.categoryID != categoryID {
		return false
	}
	if p.itemID == nil {
		return true
	}
	return *p.itemID == itemID
}
