package xpledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalworks/repairbay/internal/domain/xpledger"
)

type fakeLedgerRepo struct {
	AppendFunc       func(ctx context.Context, e *xpledger.Entry) error
	ExistsForKeyFunc func(ctx context.Context, userID uint, source xpledger.Source, referenceType xpledger.ReferenceType, referenceID string) (bool, error)
	ListByUserFunc   func(ctx context.Context, userID uint, page, perPage int) ([]*xpledger.Entry, int64, error)
	ListFunc         func(ctx context.Context, userID *uint, page, perPage int) ([]*xpledger.Entry, int64, error)
	SumByUserFunc    func(ctx context.Context, userID uint) (int, error)
}

func (f *fakeLedgerRepo) Append(ctx context.Context, e *xpledger.Entry) error {
	if f.AppendFunc != nil {
		return f.AppendFunc(ctx, e)
	}
	return nil
}

func (f *fakeLedgerRepo) ExistsForKey(ctx context.Context, userID uint, source xpledger.Source, referenceType xpledger.ReferenceType, referenceID string) (bool, error) {
	if f.ExistsForKeyFunc != nil {
		return f.ExistsForKeyFunc(ctx, userID, source, referenceType, referenceID)
	}
	return false, nil
}

func (f *fakeLedgerRepo) ListByUser(ctx context.Context, userID uint, page, perPage int) ([]*xpledger.Entry, int64, error) {
	if f.ListByUserFunc != nil {
		return f.ListByUserFunc(ctx, userID, page, perPage)
	}
	return nil, 0, nil
}

func (f *fakeLedgerRepo) List(ctx context.Context, userID *uint, page, perPage int) ([]*xpledger.Entry, int64, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, userID, page, perPage)
	}
	return nil, 0, nil
}

func (f *fakeLedgerRepo) SumByUser(ctx context.Context, userID uint) (int, error) {
	if f.SumByUserFunc != nil {
		return f.SumByUserFunc(ctx, userID)
	}
	return 0, nil
}

func TestListUseCase_Execute_ScopesByUserWhenSet(t *testing.T) {
	var gotUserID uint
	repo := &fakeLedgerRepo{
		ListByUserFunc: func(ctx context.Context, userID uint, page, perPage int) ([]*xpledger.Entry, int64, error) {
			gotUserID = userID
			return []*xpledger.Entry{}, 0, nil
		},
		ListFunc: func(ctx context.Context, userID *uint, page, perPage int) ([]*xpledger.Entry, int64, error) {
			t.Fatal("List should not be called when UserID is set")
			return nil, 0, nil
		},
	}
	uc := NewListUseCase(repo)

	uid := uint(42)
	result, err := uc.Execute(context.Background(), ListCommand{UserID: &uid})
	require.NoError(t, err)
	assert.Equal(t, uint(42), gotUserID)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PerPage)
}

func TestListUseCase_Execute_AllUsersWhenNil(t *testing.T) {
	called := false
	repo := &fakeLedgerRepo{
		ListFunc: func(ctx context.Context, userID *uint, page, perPage int) ([]*xpledger.Entry, int64, error) {
			called = true
			assert.Nil(t, userID)
			return nil, 5, nil
		},
	}
	uc := NewListUseCase(repo)

	result, err := uc.Execute(context.Background(), ListCommand{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, int64(5), result.Total)
}

func TestSummaryUseCase_Execute(t *testing.T) {
	repo := &fakeLedgerRepo{
		SumByUserFunc: func(ctx context.Context, userID uint) (int, error) {
			return 120, nil
		},
	}
	uc := NewSummaryUseCase(repo)

	result, err := uc.Execute(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 9, int(result.UserID))
	assert.Equal(t, 120, result.Total)
}

func TestSummaryUseCase_Execute_Error(t *testing.T) {
	repo := &fakeLedgerRepo{
		SumByUserFunc: func(ctx context.Context, userID uint) (int, error) {
			return 0, errors.New("db down")
		},
	}
	uc := NewSummaryUseCase(repo)

	_, err := uc.Execute(context.Background(), 9)
	assert.Error(t, err)
}
