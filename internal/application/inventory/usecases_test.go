package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalworks/repairbay/internal/domain/inventory"
)

type fakeCategoryRepo struct {
	CreateFunc   func(ctx context.Context, c *inventory.Category) error
	UpdateFunc   func(ctx context.Context, c *inventory.Category) error
	FindByIDFunc func(ctx context.Context, id uint) (*inventory.Category, error)
	ListFunc     func(ctx context.Context) ([]*inventory.Category, error)
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *inventory.Category) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, c)
	}
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *inventory.Category) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, c)
	}
	return nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id uint) (*inventory.Category, error) {
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*inventory.Category, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return nil, nil
}

type fakeItemRepo struct {
	CreateFunc           func(ctx context.Context, i *inventory.Item) error
	UpdateFunc           func(ctx context.Context, i *inventory.Item) error
	FindByIDFunc         func(ctx context.Context, id uint) (*inventory.Item, error)
	FindBySerialNumberFunc func(ctx context.Context, serialNumber string) (*inventory.Item, error)
	ListFunc             func(ctx context.Context, categoryID *uint, status *inventory.ItemStatus, query string, page, perPage int) ([]*inventory.Item, int64, error)
}

func (f *fakeItemRepo) Create(ctx context.Context, i *inventory.Item) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, i)
	}
	return nil
}

func (f *fakeItemRepo) Update(ctx context.Context, i *inventory.Item) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, i)
	}
	return nil
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id uint) (*inventory.Item, error) {
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (f *fakeItemRepo) FindBySerialNumber(ctx context.Context, serialNumber string) (*inventory.Item, error) {
	if f.FindBySerialNumberFunc != nil {
		return f.FindBySerialNumberFunc(ctx, serialNumber)
	}
	return nil, errors.New("not found")
}

func (f *fakeItemRepo) List(ctx context.Context, categoryID *uint, status *inventory.ItemStatus, query string, page, perPage int) ([]*inventory.Item, int64, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, categoryID, status, query, page, perPage)
	}
	return nil, 0, nil
}

func (f *fakeItemRepo) SoftDelete(ctx context.Context, id uint) error { return nil }

func TestCategoryUseCase_Create(t *testing.T) {
	var created *inventory.Category
	repo := &fakeCategoryRepo{
		CreateFunc: func(ctx context.Context, c *inventory.Category) error {
			created = c
			return nil
		},
	}
	uc := NewCategoryUseCase(repo)

	c, err := uc.Create(context.Background(), CreateCategoryCommand{Name: "Brakes"})
	require.NoError(t, err)
	assert.Equal(t, "Brakes", c.Name())
	assert.Same(t, created, c)

	_, err = uc.Create(context.Background(), CreateCategoryCommand{Name: ""})
	assert.Error(t, err)
}

func TestCategoryUseCase_Rename_NotFound(t *testing.T) {
	repo := &fakeCategoryRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*inventory.Category, error) {
			return nil, errors.New("missing")
		},
	}
	uc := NewCategoryUseCase(repo)

	_, err := uc.Rename(context.Background(), 1, "Wheels")
	assert.Error(t, err)
}

func TestItemUseCase_Create_RequiresKnownCategory(t *testing.T) {
	catRepo := &fakeCategoryRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*inventory.Category, error) {
			return nil, errors.New("missing")
		},
	}
	uc := NewItemUseCase(&fakeItemRepo{}, catRepo)

	_, err := uc.Create(context.Background(), CreateItemCommand{SerialNumber: "SN1", Name: "Trek 520", CategoryID: 1})
	assert.Error(t, err)
}

func TestItemUseCase_Create_RejectsDuplicateSerialNumber(t *testing.T) {
	catRepo := &fakeCategoryRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*inventory.Category, error) {
			c, _ := inventory.NewCategory("cat_1", "Bikes")
			return c, nil
		},
	}
	existing, _ := inventory.NewItem("itm_1", "SN1", "Trek 520", 1)
	itemRepo := &fakeItemRepo{
		FindBySerialNumberFunc: func(ctx context.Context, serialNumber string) (*inventory.Item, error) {
			return existing, nil
		},
	}
	uc := NewItemUseCase(itemRepo, catRepo)

	_, err := uc.Create(context.Background(), CreateItemCommand{SerialNumber: "SN1", Name: "Trek 520", CategoryID: 1})
	assert.Error(t, err)
}

func TestItemUseCase_List_ClampsPaging(t *testing.T) {
	var gotPage, gotPerPage int
	itemRepo := &fakeItemRepo{
		ListFunc: func(ctx context.Context, categoryID *uint, status *inventory.ItemStatus, query string, page, perPage int) ([]*inventory.Item, int64, error) {
			gotPage, gotPerPage = page, perPage
			return nil, 0, nil
		},
	}
	uc := NewItemUseCase(itemRepo, &fakeCategoryRepo{})

	_, err := uc.List(context.Background(), ListItemsCommand{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 100, gotPerPage)
}

func TestItemUseCase_Deactivate(t *testing.T) {
	item, err := inventory.NewItem("itm_1", "SN1", "Trek 520", 1)
	require.NoError(t, err)
	var updated *inventory.Item
	itemRepo := &fakeItemRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*inventory.Item, error) { return item, nil },
		UpdateFunc: func(ctx context.Context, i *inventory.Item) error {
			updated = i
			return nil
		},
	}
	uc := NewItemUseCase(itemRepo, &fakeCategoryRepo{})

	require.NoError(t, uc.Deactivate(context.Background(), 1))
	assert.False(t, updated.IsActive())
}
