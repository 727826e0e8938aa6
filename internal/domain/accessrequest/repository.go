package accessrequest

import "context"

type Repository interface {
	Create(ctx context.Context, r *AccessRequest) error
	Update(ctx context.Context, r *AccessRequest) error
	FindByID(ctx context.Context, id uint) (*AccessRequest, error)
	FindPendingByTelegramID(ctx context.Context, telegramID int64) (*AccessRequest, error)
	List(ctx context.Context, status Status, page, perPage int) ([]*AccessRequest, int64, error)
}
