package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/shared/db"
)

// newTestTxManager wires a *db.TransactionManager against an in-memory
// sqlite handle, the same technique the teacher's repository integration
// tests use (infrastructure/persistence/ticket_repository_integration_test.go)
// to exercise real transaction semantics without a Postgres instance.
// ManualMetricsUseCase only calls RunInTransaction, which issues no
// Postgres-specific SQL, so sqlite is a faithful enough stand-in here.
func newTestTxManager(t *testing.T) *db.TransactionManager {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db.NewTransactionManager(gormDB)
}

func TestManualMetricsUseCase_Execute_UpdatesFlagAndXP(t *testing.T) {
	tk := newTestTicket(t)
	var updated *ticket.Ticket
	repo := &fakeTicketRepo{
		FindByIDForUpdateFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
		UpdateFunc: func(ctx context.Context, t *ticket.Ticket) error {
			updated = t
			return nil
		},
	}
	transitionRepo := &fakeTicketTransitionRepo{}

	uc := NewManualMetricsUseCase(repo, transitionRepo, newTestTxManager(t), noopLogger{})

	result, err := uc.Execute(context.Background(), ManualMetricsCommand{
		TicketID: 1, CallerID: 9, FlagColor: "yellow", XPAmount: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "yellow", result.FlagColor)
	assert.Equal(t, 15, result.XPAmount)
	require.NotNil(t, updated)
	assert.Equal(t, ticket.FlagYellow, updated.FlagColor())
	require.Len(t, transitionRepo.appended, 1)
	assert.Equal(t, string(ticket.ActionManualMetrics), transitionRepo.appended[0].Action())
}

func TestManualMetricsUseCase_Execute_ValidationErrors(t *testing.T) {
	uc := NewManualMetricsUseCase(&fakeTicketRepo{}, &fakeTicketTransitionRepo{}, newTestTxManager(t), noopLogger{})

	_, err := uc.Execute(context.Background(), ManualMetricsCommand{TicketID: 0, CallerID: 1, FlagColor: "red"})
	assert.Error(t, err)

	_, err = uc.Execute(context.Background(), ManualMetricsCommand{TicketID: 1, CallerID: 1, FlagColor: "not-a-color"})
	assert.Error(t, err)

	_, err = uc.Execute(context.Background(), ManualMetricsCommand{TicketID: 1, CallerID: 1, FlagColor: "red", XPAmount: -1})
	assert.Error(t, err)
}

func TestManualMetricsUseCase_Execute_RejectsDoneTicket(t *testing.T) {
	tk := newTestTicket(t)
	now := tk.CreatedAt()
	require.NoError(t, tk.ReviewApprove(1, now))
	require.NoError(t, tk.Assign(2, now))
	require.NoError(t, tk.StartWork(now))
	require.NoError(t, tk.ToWaitingQC(now))
	require.NoError(t, tk.QCPass(30, now))

	repo := &fakeTicketRepo{
		FindByIDForUpdateFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) { return tk, nil },
	}
	uc := NewManualMetricsUseCase(repo, &fakeTicketTransitionRepo{}, newTestTxManager(t), noopLogger{})

	_, err := uc.Execute(context.Background(), ManualMetricsCommand{TicketID: 1, CallerID: 1, FlagColor: "green", XPAmount: 5})
	assert.Error(t, err)
}
