// Package user models the shop's identity record: a phone-keyed account
// optionally bound to a Telegram identity, carrying a set of role
// assignments (spec.md §3 "User").
package user

import (
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/pedalworks/repairbay/internal/shared/authorization"
)

var phonePattern = regexp.MustCompile(`^\d{9,15}$`)

// NormalizePhone collapses a human-entered phone number to the
// E.164-like digit string spec.md §3 uses as the account key.
func NormalizePhone(raw string) (string, error) {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	normalized := string(digits)
	if !phonePattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
	return normalized, nil
}

// RoleAssignment is a many-to-many link between a user and a role, gated by
// IsActive so deactivating a role never requires deleting history.
type RoleAssignment struct {
	id         uint
	role       authorization.Role
	isActive   bool
	assignedAt time.Time
}

func NewRoleAssignment(role authorization.Role) (*RoleAssignment, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	return &RoleAssignment{role: role, isActive: true, assignedAt: time.Now()}, nil
}

func ReconstructRoleAssignment(id uint, role authorization.Role, isActive bool, assignedAt time.Time) *RoleAssignment {
	return &RoleAssignment{id: id, role: role, isActive: isActive, assignedAt: assignedAt}
}

func (a *RoleAssignment) ID() uint                      { return a.id }
func (a *RoleAssignment) Role() authorization.Role      { return a.role }
func (a *RoleAssignment) IsActive() bool                { return a.isActive }
func (a *RoleAssignment) AssignedAt() time.Time         { return a.assignedAt }
func (a *RoleAssignment) Deactivate()                   { a.isActive = false }
func (a *RoleAssignment) Activate()                     { a.isActive = true }

// User is the identity record. Identity is the phone; Telegram is a
// binding, not a key (spec.md §3).
type User struct {
	mu               sync.RWMutex
	id               uint
	sid              string
	phone            string
	telegramID       *int64
	telegramUsername string
	passwordHash     string
	isActive         bool
	roles            []*RoleAssignment
	createdAt        time.Time
	updatedAt        time.Time
	deletedAt        *time.Time
}

func NewUser(sid, phone string) (*User, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &User{
		sid:       sid,
		phone:     normalized,
		isActive:  true,
		roles:     []*RoleAssignment{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructUser(
	id uint, sid, phone string, telegramID *int64, telegramUsername, passwordHash string,
	isActive bool, roles []*RoleAssignment, createdAt, updatedAt time.Time, deletedAt *time.Time,
) *User {
	if roles == nil {
		roles = []*RoleAssignment{}
	}
	return &User{
		id: id, sid: sid, phone: phone, telegramID: telegramID, telegramUsername: telegramUsername,
		passwordHash: passwordHash,
		isActive: isActive, roles: roles, createdAt: createdAt, updatedAt: updatedAt, deletedAt: deletedAt,
	}
}

func (u *User) PasswordHash() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.passwordHash
}

func (u *User) HasPassword() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.passwordHash != ""
}

// SetPasswordHash stores a pre-computed hash (bcrypt, via
// infrastructure/auth.PasswordHasher); the domain layer never hashes
// directly so it stays free of the bcrypt dependency.
func (u *User) SetPasswordHash(hash string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.passwordHash = hash
	u.updatedAt = time.Now()
}

func (u *User) ID() uint      { u.mu.RLock(); defer u.mu.RUnlock(); return u.id }
func (u *User) SID() string   { u.mu.RLock(); defer u.mu.RUnlock(); return u.sid }
func (u *User) Phone() string { u.mu.RLock(); defer u.mu.RUnlock(); return u.phone }

func (u *User) TelegramID() *int64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.telegramID
}

func (u *User) TelegramUsername() string { u.mu.RLock(); defer u.mu.RUnlock(); return u.telegramUsername }
func (u *User) IsActive() bool           { u.mu.RLock(); defer u.mu.RUnlock(); return u.isActive }
func (u *User) CreatedAt() time.Time     { u.mu.RLock(); defer u.mu.RUnlock(); return u.createdAt }
func (u *User) UpdatedAt() time.Time     { u.mu.RLock(); defer u.mu.RUnlock(); return u.updatedAt }
func (u *User) DeletedAt() *time.Time    { u.mu.RLock(); defer u.mu.RUnlock(); return u.deletedAt }

func (u *User) SetID(id uint) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.id = id
}

func (u *User) Roles() []*RoleAssignment {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]*RoleAssignment, len(u.roles))
	copy(out, u.roles)
	return out
}

// ActiveRoleSet returns the caller's active roles for capability
// evaluation (spec.md §4.1).
func (u *User) ActiveRoleSet() authorization.RoleSet {
	u.mu.RLock()
	defer u.mu.RUnlock()
	roles := make([]authorization.Role, 0, len(u.roles))
	for _, ra := range u.roles {
		if ra.IsActive() {
			roles = append(roles, ra.Role())
		}
	}
	return authorization.NewRoleSet(roles...)
}

func (u *User) HasActiveRole(role authorization.Role) bool {
	return u.ActiveRoleSet().Has(role)
}

// AssignRole activates role for the user, reactivating a previously
// deactivated assignment rather than duplicating it.
func (u *User) AssignRole(role authorization.Role) (*RoleAssignment, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, ra := range u.roles {
		if ra.Role() == role {
			ra.Activate()
			u.updatedAt = time.Now()
			return ra, nil
		}
	}

	ra, err := NewRoleAssignment(role)
	if err != nil {
		return nil, err
	}
	u.roles = append(u.roles, ra)
	u.updatedAt = time.Now()
	return ra, nil
}

func (u *User) RevokeRole(role authorization.Role) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, ra := range u.roles {
		if ra.Role() == role {
			ra.Deactivate()
			u.updatedAt = time.Now()
			return
		}
	}
}

// BindTelegram links a Telegram identity. Returns an error if the user is
// already bound to a different telegram_id (spec.md §4.2 invariant).
func (u *User) BindTelegram(telegramID int64, username string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.telegramID != nil && *u.telegramID != telegramID {
		return fmt.Errorf("user already bound to a different telegram identity")
	}
	u.telegramID = &telegramID
	u.telegramUsername = username
	u.updatedAt = time.Now()
	return nil
}

func (u *User) Deactivate() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.isActive = false
	u.updatedAt = time.Now()
}

func (u *User) SoftDelete(at time.Time) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.deletedAt = &at
	u.updatedAt = at
}
