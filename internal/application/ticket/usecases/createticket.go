// Package usecases implements the Ticket State Engine's transitions
// (spec.md §4.4) as one Command/Result/UseCase per action, grounded on the
// teacher's ticket usecase shape.
package usecases

import (
	"context"
	"time"

	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/inventory"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/shared/db"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/id"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

type PartSpec struct {
	PartID  uint
	Color   string
	Minutes int
	Comment string
}

type CreateTicketCommand struct {
	SerialNumber string
	Title        string
	MasterID     uint
	Parts        []PartSpec
}

type CreateTicketResult struct {
	TicketID  uint
	SID       string
	Status    string
	CreatedAt time.Time
}

type CreateTicketUseCase struct {
	ticketRepo     ticket.Repository
	itemRepo       inventory.ItemRepository
	partRepo       inventory.PartRepository
	transitionRepo audit.TicketTransitionRepository
	txManager      *db.TransactionManager
	log            logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.Repository,
	itemRepo inventory.ItemRepository,
	partRepo inventory.PartRepository,
	transitionRepo audit.TicketTransitionRepository,
	txManager *db.TransactionManager,
	log logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo: ticketRepo, itemRepo: itemRepo, partRepo: partRepo,
		transitionRepo: transitionRepo, txManager: txManager, log: log,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	uc.log.Infow("executing create ticket use case", "serial_number", cmd.SerialNumber, "master_id", cmd.MasterID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.log.Errorw("invalid create ticket command", "error", err)
		return nil, err
	}

	var result *CreateTicketResult
	err := uc.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		item, err := uc.itemRepo.FindBySerialNumber(ctx, cmd.SerialNumber)
		if err != nil {
			return apperrors.NewNotFoundError("inventory item not found", cmd.SerialNumber)
		}
		if !item.IsAvailableForNewTicket() {
			return apperrors.NewConflictError("item is not available for a new ticket")
		}
		hasActive, err := uc.ticketRepo.HasActiveTicketForItem(ctx, item.ID())
		if err != nil {
			return apperrors.NewInternalError("failed to check active tickets", err.Error())
		}
		if hasActive {
			return apperrors.NewConflictError("item already has an active ticket")
		}

		parts := make([]*ticket.TicketPart, 0, len(cmd.Parts))
		for _, spec := range cmd.Parts {
			part, err := uc.partRepo.FindByID(ctx, spec.PartID)
			if err != nil {
				return apperrors.NewNotFoundError("part not found", spec.Comment)
			}
			if !part.AppliesToItem(item.CategoryID(), item.ID()) {
				return apperrors.NewValidationError("part does not apply to this item")
			}
			color, err := ticket.ParseFlagColor(spec.Color)
			if err != nil {
				return apperrors.NewValidationError(err.Error())
			}
			tp, err := ticket.NewTicketPart(spec.PartID, color, spec.Minutes, spec.Comment)
			if err != nil {
				return apperrors.NewValidationError(err.Error())
			}
			parts = append(parts, tp)
		}

		sid, err := id.NewSID(id.PrefixTicket)
		if err != nil {
			return apperrors.NewInternalError("failed to generate ticket id", err.Error())
		}

		newTicket, err := ticket.NewTicket(sid, item.ID(), cmd.Title, cmd.MasterID, parts)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}

		if err := uc.ticketRepo.Create(ctx, newTicket); err != nil {
			return apperrors.NewInternalError("failed to save ticket", err.Error())
		}

		item.MarkInService()
		if err := uc.itemRepo.Update(ctx, item); err != nil {
			return apperrors.NewInternalError("failed to update item status", err.Error())
		}

		transition := audit.NewTicketTransition(
			newTicket.ID(), &cmd.MasterID, string(ticket.ActionCreate), "", string(ticket.StatusUnderReview),
			"", map[string]any{"source": "api"},
		)
		if err := uc.transitionRepo.Append(ctx, transition); err != nil {
			return apperrors.NewInternalError("failed to append ticket transition", err.Error())
		}

		result = &CreateTicketResult{
			TicketID:  newTicket.ID(),
			SID:       newTicket.SID(),
			Status:    string(newTicket.Status()),
			CreatedAt: newTicket.CreatedAt(),
		}
		return nil
	})
	if err != nil {
		uc.log.Errorw("create ticket failed", "error", err)
		return nil, err
	}

	uc.log.Infow("ticket created successfully", "ticket_id", result.TicketID)
	return result, nil
}

func (uc *CreateTicketUseCase) validateCommand(cmd CreateTicketCommand) error {
	if cmd.SerialNumber == "" {
		return apperrors.NewValidationError("serial_number is required")
	}
	if cmd.Title == "" {
		return apperrors.NewValidationError("title is required")
	}
	if cmd.MasterID == 0 {
		return apperrors.NewValidationError("master_id is required")
	}
	if len(cmd.Parts) == 0 {
		return apperrors.NewValidationError("at least one part is required")
	}
	for _, p := range cmd.Parts {
		if p.PartID == 0 {
			return apperrors.NewValidationError("part_id is required")
		}
		if p.Minutes < 1 {
			return apperrors.NewValidationError("minutes must be >= 1")
		}
	}
	return nil
}
