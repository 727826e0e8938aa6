package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/application/xpledger"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/constants"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
)

// XPLedgerHandler implements C7's read surface: xp.read_self lets a caller
// read their own history, xp.read_any lets MANAGER/SUPER_ADMIN read anyone's
// (spec.md §4.1, §4.7). The distinction is enforced here, not in the use
// case, per ListUseCase's own doc comment.
type XPLedgerHandler struct {
	listUC      *xpledger.ListUseCase
	summaryUC   *xpledger.SummaryUseCase
	permissions CapabilityService
}

func NewXPLedgerHandler(listUC *xpledger.ListUseCase, summaryUC *xpledger.SummaryUseCase, permissions CapabilityService) *XPLedgerHandler {
	return &XPLedgerHandler{listUC: listUC, summaryUC: summaryUC, permissions: permissions}
}

// List handles GET /xp/ledger. A `user_id` query param requests another
// user's ledger and requires xp.read_any; its absence defaults to the
// caller's own, which only requires xp.read_self.
func (h *XPLedgerHandler) List(c *gin.Context) {
	caller, ok := requireAuthenticated(c)
	if !ok {
		return
	}

	targetUserID := caller.ID()
	readingOther := false
	if requested := parseUintQuery(c, "user_id"); requested != nil && *requested != caller.ID() {
		targetUserID = *requested
		readingOther = true
	}

	capability := authorization.CapXPReadSelf
	if readingOther {
		capability = authorization.CapXPReadAny
	}
	allowed, err := h.permissions.HasCapability(c.Request.Context(), caller, capability, authorization.ObjectContext{})
	if err != nil {
		httpresponse.FromError(c, apperrors.NewInternalError("capability check failed", err.Error()))
		return
	}
	if !allowed {
		httpresponse.FromError(c, apperrors.NewForbiddenError("caller lacks required capability"))
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), xpledger.ListCommand{
		UserID: &targetUserID, Page: parseIntQuery(c, "page", 1), PerPage: parseIntQuery(c, "per_page", constants.DefaultPageSize),
	})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.List(c, result.Entries, result.Total, result.Page, result.PerPage)
}

// Summary handles GET /xp/ledger/summary, same read-self/read-any split as List.
func (h *XPLedgerHandler) Summary(c *gin.Context) {
	caller, ok := requireAuthenticated(c)
	if !ok {
		return
	}

	targetUserID := caller.ID()
	readingOther := false
	if requested := parseUintQuery(c, "user_id"); requested != nil && *requested != caller.ID() {
		targetUserID = *requested
		readingOther = true
	}

	capability := authorization.CapXPReadSelf
	if readingOther {
		capability = authorization.CapXPReadAny
	}
	allowed, err := h.permissions.HasCapability(c.Request.Context(), caller, capability, authorization.ObjectContext{})
	if err != nil {
		httpresponse.FromError(c, apperrors.NewInternalError("capability check failed", err.Error()))
		return
	}
	if !allowed {
		httpresponse.FromError(c, apperrors.NewForbiddenError("caller lacks required capability"))
		return
	}

	result, err := h.summaryUC.Execute(c.Request.Context(), targetUserID)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}
