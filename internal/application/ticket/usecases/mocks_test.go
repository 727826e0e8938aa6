package usecases

import (
	"context"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/domain/worksession"
	"go.uber.org/zap"

	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// fakeTicketRepo is a hand-rolled Func-field fake, grounded on the
// teacher's mockTicketRepository (application/ticket/usecases/mocks_test.go):
// every method delegates to an optional override func, falling back to a
// zero-value response so only the fields a test cares about need setting.
type fakeTicketRepo struct {
	CreateFunc                 func(ctx context.Context, t *ticket.Ticket) error
	UpdateFunc                 func(ctx context.Context, t *ticket.Ticket) error
	FindByIDForUpdateFunc      func(ctx context.Context, id uint) (*ticket.Ticket, error)
	FindByIDFunc               func(ctx context.Context, id uint) (*ticket.Ticket, error)
	HasActiveTicketForItemFunc func(ctx context.Context, itemID uint) (bool, error)
	ListFunc                   func(ctx context.Context, f ticket.ListFilter) ([]*ticket.Ticket, int64, error)
}

func (f *fakeTicketRepo) Create(ctx context.Context, t *ticket.Ticket) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, t)
	}
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, t *ticket.Ticket) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, t)
	}
	return nil
}

func (f *fakeTicketRepo) FindByIDForUpdate(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if f.FindByIDForUpdateFunc != nil {
		return f.FindByIDForUpdateFunc(ctx, id)
	}
	return nil, nil
}

func (f *fakeTicketRepo) FindByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (f *fakeTicketRepo) HasActiveTicketForItem(ctx context.Context, itemID uint) (bool, error) {
	if f.HasActiveTicketForItemFunc != nil {
		return f.HasActiveTicketForItemFunc(ctx, itemID)
	}
	return false, nil
}

func (f *fakeTicketRepo) List(ctx context.Context, filter ticket.ListFilter) ([]*ticket.Ticket, int64, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type fakeTicketTransitionRepo struct {
	AppendFunc       func(ctx context.Context, t *audit.TicketTransition) error
	ListByTicketFunc func(ctx context.Context, ticketID uint, page, perPage int) ([]*audit.TicketTransition, int64, error)
	EverReworkedFunc func(ctx context.Context, ticketID uint) (bool, error)
	appended         []*audit.TicketTransition
}

func (f *fakeTicketTransitionRepo) Append(ctx context.Context, t *audit.TicketTransition) error {
	f.appended = append(f.appended, t)
	if f.AppendFunc != nil {
		return f.AppendFunc(ctx, t)
	}
	return nil
}

func (f *fakeTicketTransitionRepo) ListByTicket(ctx context.Context, ticketID uint, page, perPage int) ([]*audit.TicketTransition, int64, error) {
	if f.ListByTicketFunc != nil {
		return f.ListByTicketFunc(ctx, ticketID, page, perPage)
	}
	return nil, 0, nil
}

func (f *fakeTicketTransitionRepo) EverReworked(ctx context.Context, ticketID uint) (bool, error) {
	if f.EverReworkedFunc != nil {
		return f.EverReworkedFunc(ctx, ticketID)
	}
	return false, nil
}

type fakeWorkSessionRepo struct {
	CreateFunc                        func(ctx context.Context, w *worksession.WorkSession) error
	UpdateFunc                        func(ctx context.Context, w *worksession.WorkSession) error
	FindByIDForUpdateFunc              func(ctx context.Context, id uint) (*worksession.WorkSession, error)
	FindByIDFunc                       func(ctx context.Context, id uint) (*worksession.WorkSession, error)
	FindActiveByTicketFunc             func(ctx context.Context, ticketID uint) (*worksession.WorkSession, error)
	FindActiveByTechnicianFunc         func(ctx context.Context, technicianID uint) (*worksession.WorkSession, error)
	ListByTicketFunc                   func(ctx context.Context, ticketID uint) ([]*worksession.WorkSession, error)
	SumStoppedAccumulatedSecondsFunc   func(ctx context.Context, ticketID uint) (int64, error)
}

func (f *fakeWorkSessionRepo) Create(ctx context.Context, w *worksession.WorkSession) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, w)
	}
	return nil
}

func (f *fakeWorkSessionRepo) Update(ctx context.Context, w *worksession.WorkSession) error {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, w)
	}
	return nil
}

func (f *fakeWorkSessionRepo) FindByIDForUpdate(ctx context.Context, id uint) (*worksession.WorkSession, error) {
	if f.FindByIDForUpdateFunc != nil {
		return f.FindByIDForUpdateFunc(ctx, id)
	}
	return nil, nil
}

func (f *fakeWorkSessionRepo) FindByID(ctx context.Context, id uint) (*worksession.WorkSession, error) {
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (f *fakeWorkSessionRepo) FindActiveByTicket(ctx context.Context, ticketID uint) (*worksession.WorkSession, error) {
	if f.FindActiveByTicketFunc != nil {
		return f.FindActiveByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

func (f *fakeWorkSessionRepo) FindActiveByTechnician(ctx context.Context, technicianID uint) (*worksession.WorkSession, error) {
	if f.FindActiveByTechnicianFunc != nil {
		return f.FindActiveByTechnicianFunc(ctx, technicianID)
	}
	return nil, nil
}

func (f *fakeWorkSessionRepo) ListByTicket(ctx context.Context, ticketID uint) ([]*worksession.WorkSession, error) {
	if f.ListByTicketFunc != nil {
		return f.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

func (f *fakeWorkSessionRepo) SumStoppedAccumulatedSeconds(ctx context.Context, ticketID uint) (int64, error) {
	if f.SumStoppedAccumulatedSecondsFunc != nil {
		return f.SumStoppedAccumulatedSecondsFunc(ctx, ticketID)
	}
	return 0, nil
}

type fakeWorkSessionTransitionRepo struct {
	AppendFunc func(ctx context.Context, t *audit.WorkSessionTransition) error
}

func (f *fakeWorkSessionTransitionRepo) Append(ctx context.Context, t *audit.WorkSessionTransition) error {
	if f.AppendFunc != nil {
		return f.AppendFunc(ctx, t)
	}
	return nil
}

func (f *fakeWorkSessionTransitionRepo) ListBySession(ctx context.Context, sessionID uint, page, perPage int) ([]*audit.WorkSessionTransition, int64, error) {
	return nil, 0, nil
}

func (f *fakeWorkSessionTransitionRepo) ListByTicket(ctx context.Context, ticketID uint, page, perPage int) ([]*audit.WorkSessionTransition, int64, error) {
	return nil, 0, nil
}

// noopLogger discards everything; tests assert on return values, not on
// what got logged, so there is nothing to stub per-call like the teacher's
// mockLogger does.
type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...zap.Field) {}
func (noopLogger) Info(msg string, fields ...zap.Field)  {}
func (noopLogger) Warn(msg string, fields ...zap.Field)  {}
func (noopLogger) Error(msg string, fields ...zap.Field) {}
func (noopLogger) Fatal(msg string, fields ...zap.Field) {}
func (n noopLogger) With(fields ...zap.Field) logger.Interface { return n }
func (n noopLogger) Named(name string) logger.Interface        { return n }
func (noopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (noopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (noopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}
