package user

import "context"

// Repository persists and retrieves User aggregates.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindBySID(ctx context.Context, sid string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	List(ctx context.Context, page, perPage int) ([]*User, int64, error)
	ListByRole(ctx context.Context, role string, page, perPage int) ([]*User, int64, error)
	SoftDelete(ctx context.Context, id uint) error
}
