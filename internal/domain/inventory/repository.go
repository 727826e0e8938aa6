package inventory

import "context"

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

type ItemRepository interface {
	Create(ctx context.Context, i *Item) error
	Update(ctx context.Context, i *Item) error
	FindByID(ctx context.Context, id uint) (*Item, error)
	FindBySerialNumber(ctx context.Context, serialNumber string) (*Item, error)
	List(ctx context.Context, categoryID *uint, status *ItemStatus, query string, page, perPage int) ([]*Item, int64, error)
	SoftDelete(ctx context.Context, id uint) error
}

type PartRepository interface {
	Create(ctx context.Context, p *Part) error
	FindByID(ctx context.Context, id uint) (*Part, error)
	ListByCategory(ctx context.Context, categoryID uint, itemID *uint) ([]*Part, error)
	List(ctx context.Context, page, perPage int) ([]*Part, int64, error)
}
