package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/worksession"
)

func TestListTicketTransitionsUseCase_Execute_NormalizesPaging(t *testing.T) {
	var gotPage, gotPerPage int
	repo := &fakeTicketTransitionRepo{
		ListByTicketFunc: func(ctx context.Context, ticketID uint, page, perPage int) ([]*audit.TicketTransition, int64, error) {
			gotPage, gotPerPage = page, perPage
			return []*audit.TicketTransition{}, 0, nil
		},
	}
	uc := NewListTicketTransitionsUseCase(repo, noopLogger{})

	_, total, err := uc.Execute(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Equal(t, 1, gotPage)
	assert.Equal(t, 20, gotPerPage)
}

func TestListTicketTransitionsUseCase_Execute_RepositoryError(t *testing.T) {
	repo := &fakeTicketTransitionRepo{
		ListByTicketFunc: func(ctx context.Context, ticketID uint, page, perPage int) ([]*audit.TicketTransition, int64, error) {
			return nil, 0, errors.New("db down")
		},
	}
	uc := NewListTicketTransitionsUseCase(repo, noopLogger{})

	_, _, err := uc.Execute(context.Background(), 1, 1, 20)
	assert.Error(t, err)
}

func TestListWorkSessionsUseCase_Execute(t *testing.T) {
	sessions := []*worksession.WorkSession{worksession.NewWorkSession("WS-1", 1, 2)}
	repo := &fakeWorkSessionRepo{
		ListByTicketFunc: func(ctx context.Context, ticketID uint) ([]*worksession.WorkSession, error) {
			return sessions, nil
		},
	}
	uc := NewListWorkSessionsUseCase(repo, noopLogger{})

	got, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, sessions, got)
}
