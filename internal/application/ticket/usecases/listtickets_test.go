package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalworks/repairbay/internal/domain/ticket"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
)

func newTestTicket(t *testing.T) *ticket.Ticket {
	t.Helper()
	part, err := ticket.NewTicketPart(1, ticket.FlagRed, 30, "")
	require.NoError(t, err)
	tk, err := ticket.NewTicket("TCK-1", 1, "Fix brakes", 1, []*ticket.TicketPart{part})
	require.NoError(t, err)
	return tk
}

func TestListTicketsUseCase_Execute_DefaultsPaging(t *testing.T) {
	var captured ticket.ListFilter
	repo := &fakeTicketRepo{
		ListFunc: func(ctx context.Context, f ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
			captured = f
			return []*ticket.Ticket{newTestTicket(t)}, 1, nil
		},
	}
	uc := NewListTicketsUseCase(repo, noopLogger{})

	result, err := uc.Execute(context.Background(), ListTicketsCommand{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.Len(t, result.Tickets, 1)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 20, captured.PerPage)
}

func TestListTicketsUseCase_Execute_ClampsPerPage(t *testing.T) {
	var captured ticket.ListFilter
	repo := &fakeTicketRepo{
		ListFunc: func(ctx context.Context, f ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
			captured = f
			return nil, 0, nil
		},
	}
	uc := NewListTicketsUseCase(repo, noopLogger{})

	_, err := uc.Execute(context.Background(), ListTicketsCommand{Filter: ticket.ListFilter{PerPage: 500}})
	require.NoError(t, err)
	assert.Equal(t, 100, captured.PerPage)
}

func TestListTicketsUseCase_Execute_RepositoryError(t *testing.T) {
	repo := &fakeTicketRepo{
		ListFunc: func(ctx context.Context, f ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
			return nil, 0, errors.New("db down")
		},
	}
	uc := NewListTicketsUseCase(repo, noopLogger{})

	result, err := uc.Execute(context.Background(), ListTicketsCommand{})
	assert.Nil(t, result)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeInternal, appErr.Type)
}

func TestGetTicketUseCase_Execute(t *testing.T) {
	want := newTestTicket(t)
	repo := &fakeTicketRepo{
		FindByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			if id == 7 {
				return want, nil
			}
			return nil, errors.New("not found")
		},
	}
	uc := NewGetTicketUseCase(repo, noopLogger{})

	got, err := uc.Execute(context.Background(), 7)
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = uc.Execute(context.Background(), 404)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}
