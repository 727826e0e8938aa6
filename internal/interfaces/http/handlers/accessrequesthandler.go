package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pedalworks/repairbay/internal/application/accessrequest"
	"github.com/pedalworks/repairbay/internal/domain/user"
	domainaccessrequest "github.com/pedalworks/repairbay/internal/domain/accessrequest"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/constants"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
)

// AccessRequestHandler implements spec.md §4.2's onboarding flow HTTP
// surface: a caller submits a request via the bot (see bot handlers, not
// here), a MANAGER or SUPER_ADMIN resolves it over /api/v1.
type AccessRequestHandler struct {
	createUC    *accessrequest.CreateUseCase
	approveUC   *accessrequest.ApproveUseCase
	rejectUC    *accessrequest.RejectUseCase
	listUC      *accessrequest.ListUseCase
	permissions CapabilityService
}

func NewAccessRequestHandler(
	createUC *accessrequest.CreateUseCase,
	approveUC *accessrequest.ApproveUseCase,
	rejectUC *accessrequest.RejectUseCase,
	listUC *accessrequest.ListUseCase,
	permissions CapabilityService,
) *AccessRequestHandler {
	return &AccessRequestHandler{createUC: createUC, approveUC: approveUC, rejectUC: rejectUC, listUC: listUC, permissions: permissions}
}

type createAccessRequestRequest struct {
	TelegramID       int64  `json:"telegram_id" binding:"required"`
	TelegramUsername string `json:"telegram_username"`
	FirstName        string `json:"first_name" binding:"required"`
	LastName         string `json:"last_name"`
	Phone            string `json:"phone" binding:"required"`
}

// Create handles POST /access-requests. Reachable without a linked
// account — spec.md §4.2 lets an unrecognized Telegram user submit a
// request before any User row exists for them.
func (h *AccessRequestHandler) Create(c *gin.Context) {
	var req createAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	result, err := h.createUC.Execute(c.Request.Context(), accessrequest.CreateCommand{
		TelegramID: req.TelegramID, TelegramUsername: req.TelegramUsername,
		FirstName: req.FirstName, LastName: req.LastName, Phone: req.Phone,
	})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.Created(c, result)
}

// List handles GET /access-requests.
func (h *AccessRequestHandler) List(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	if !h.authorize(c, caller, authorization.CapAccessRequestMod) {
		return
	}
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", constants.DefaultPageSize)
	result, err := h.listUC.Execute(c.Request.Context(), accessrequest.ListCommand{
		Status: domainaccessrequest.Status(c.Query("status")), Page: page, PerPage: perPage,
	})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.List(c, result.Requests, result.Total, result.Page, result.PerPage)
}

// Approve handles POST /access-requests/:id/approve.
func (h *AccessRequestHandler) Approve(c *gin.Context) {
	requestID, caller, ok := h.loadForResolve(c)
	if !ok {
		return
	}
	result, err := h.approveUC.Execute(c.Request.Context(), accessrequest.ResolveCommand{RequestID: requestID, ResolvedBy: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// Reject handles POST /access-requests/:id/reject.
func (h *AccessRequestHandler) Reject(c *gin.Context) {
	requestID, caller, ok := h.loadForResolve(c)
	if !ok {
		return
	}
	result, err := h.rejectUC.Execute(c.Request.Context(), accessrequest.ResolveCommand{RequestID: requestID, ResolvedBy: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

func (h *AccessRequestHandler) loadForResolve(c *gin.Context) (uint, *user.User, bool) {
	requestID, err := parseRequestID(c)
	if err != nil {
		httpresponse.FromError(c, err)
		return 0, nil, false
	}
	caller, ok := h.requireCaller(c)
	if !ok {
		return 0, nil, false
	}
	if !h.authorize(c, caller, authorization.CapAccessRequestMod) {
		return 0, nil, false
	}
	return requestID, caller, true
}

func (h *AccessRequestHandler) requireCaller(c *gin.Context) (*user.User, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		httpresponse.FromError(c, apperrors.NewUnauthenticatedError("authentication required"))
		return nil, false
	}
	return caller, true
}

func (h *AccessRequestHandler) authorize(c *gin.Context, caller *user.User, capability authorization.Capability) bool {
	allowed, err := h.permissions.HasCapability(c.Request.Context(), caller, capability, authorization.ObjectContext{})
	if err != nil {
		httpresponse.FromError(c, apperrors.NewInternalError("capability check failed", err.Error()))
		return false
	}
	if !allowed {
		httpresponse.FromError(c, apperrors.NewForbiddenError("caller lacks required capability"))
		return false
	}
	return true
}

func parseRequestID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid access request id")
	}
	return uint(id), nil
}
