// Package accessrequest models onboarding requests originated from
// Telegram (spec.md §4.2): a pending request that moderation turns into
// an approved or rejected terminal record.
package accessrequest

import (
	"fmt"
	"sync"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type AccessRequest struct {
	mu               sync.RWMutex
	id               uint
	sid              string
	telegramID       int64
	telegramUsername string
	firstName        string
	lastName         string
	phone            string
	status           Status
	resolvedByUserID *uint
	resolvedAt       *time.Time
	linkedUserID     *uint
	createdAt        time.Time
	updatedAt        time.Time
}

func New(sid string, telegramID int64, telegramUsername, firstName, lastName, phone string) (*AccessRequest, error) {
	if firstName == "" {
		return nil, fmt.Errorf("first name is required")
	}
	if phone == "" {
		return nil, fmt.Errorf("phone is required")
	}
	now := time.Now()
	return &AccessRequest{
		sid:              sid,
		telegramID:       telegramID,
		telegramUsername: telegramUsername,
		firstName:        firstName,
		lastName:         lastName,
		phone:            phone,
		status:           StatusPending,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

func Reconstruct(
	id uint, sid string, telegramID int64, telegramUsername, firstName, lastName, phone string,
	status Status, resolvedByUserID *uint, resolvedAt *time.Time, linkedUserID *uint,
	createdAt, updatedAt time.Time,
) *AccessRequest {
	return &AccessRequest{
		id: id, sid: sid, telegramID: telegramID, telegramUsername: telegramUsername,
		firstName: firstName, lastName: lastName, phone: phone, status: status,
		resolvedByUserID: resolvedByUserID, resolvedAt: resolvedAt, linkedUserID: linkedUserID,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (r *AccessRequest) ID() uint                { r.mu.RLock(); defer r.mu.RUnlock(); return r.id }
func (r *AccessRequest) SID() string             { r.mu.RLock(); defer r.mu.RUnlock(); return r.sid }
func (r *AccessRequest) TelegramID() int64       { r.mu.RLock(); defer r.mu.RUnlock(); return r.telegramID }
func (r *AccessRequest) TelegramUsername() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.telegramUsername
}
func (r *AccessRequest) FirstName() string { r.mu.RLock(); defer r.mu.RUnlock(); return r.firstName }
func (r *AccessRequest) LastName() string  { r.mu.RLock(); defer r.mu.RUnlock(); return r.lastName }
func (r *AccessRequest) Phone() string     { r.mu.RLock(); defer r.mu.RUnlock(); return r.phone }
func (r *AccessRequest) Status() Status    { r.mu.RLock(); defer r.mu.RUnlock(); return r.status }
func (r *AccessRequest) LinkedUserID() *uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.linkedUserID
}
func (r *AccessRequest) ResolvedAt() *time.Time { r.mu.RLock(); defer r.mu.RUnlock(); return r.resolvedAt }
func (r *AccessRequest) ResolvedByUserID() *uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolvedByUserID
}
func (r *AccessRequest) CreatedAt() time.Time   { r.mu.RLock(); defer r.mu.RUnlock(); return r.createdAt }
func (r *AccessRequest) UpdatedAt() time.Time   { r.mu.RLock(); defer r.mu.RUnlock(); return r.updatedAt }

func (r *AccessRequest) SetID(id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = id
}

func (r *AccessRequest) IsPending() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status == StatusPending
}

// Approve resolves the request to APPROVED, linking it to the user that
// moderation located or created. Idempotent: approving an already-approved
// request linked to the same user is a no-op; approving a resolved request
// linked to a different user is a conflict (spec.md §4.2/§7).
func (r *AccessRequest) Approve(resolvedBy, linkedUser uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusApproved {
		if r.linkedUserID != nil && *r.linkedUserID == linkedUser {
			return nil
		}
		return fmt.Errorf("access request already approved and linked to a different user")
	}
	if r.status != StatusPending {
		return fmt.Errorf("access request is not pending")
	}

	now := time.Now()
	r.status = StatusApproved
	r.resolvedByUserID = &resolvedBy
	r.resolvedAt = &now
	r.linkedUserID = &linkedUser
	r.updatedAt = now
	return nil
}

func (r *AccessRequest) Reject(resolvedBy uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusRejected {
		return nil
	}
	if r.status != StatusPending {
		return fmt.Errorf("access request is not pending")
	}

	now := time.Now()
	r.status = StatusRejected
	r.resolvedByUserID = &resolvedBy
	r.resolvedAt = &now
	r.updatedAt = now
	return nil
}
