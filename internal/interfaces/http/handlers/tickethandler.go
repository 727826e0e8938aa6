// Package handlers implements the gin handlers backing /api/v1, one file
// per resource, grounded on the teacher's
// internal/interfaces/http/handlers/ticket package shape.
package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	ticketusecases "github.com/pedalworks/repairbay/internal/application/ticket/usecases"
	worksessionusecases "github.com/pedalworks/repairbay/internal/application/worksession/usecases"
	"github.com/pedalworks/repairbay/internal/domain/audit"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/domain/worksession"
	"github.com/pedalworks/repairbay/internal/interfaces/http/middleware"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/constants"
	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
	"github.com/pedalworks/repairbay/internal/shared/httpresponse"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

// CapabilityService is the port onto application/permission.Service, used
// directly by handlers whose object context depends on a loaded ticket.
type CapabilityService interface {
	HasCapability(ctx context.Context, u *user.User, capability authorization.Capability, objCtx authorization.ObjectContext) (bool, error)
}

// TicketHandler implements C4's HTTP surface for /tickets*, dispatching
// every status-mutating action through application/permission before
// calling the corresponding use case (spec.md §4.4, §6).
type TicketHandler struct {
	createUC          *ticketusecases.CreateTicketUseCase
	listUC            *ticketusecases.ListTicketsUseCase
	getUC             *ticketusecases.GetTicketUseCase
	reviewApproveUC   *ticketusecases.ReviewApproveUseCase
	assignUC          *ticketusecases.AssignTicketUseCase
	startWorkUC       *ticketusecases.StartWorkUseCase
	pauseUC           *worksessionusecases.PauseSessionUseCase
	resumeUC          *worksessionusecases.ResumeSessionUseCase
	stopUC            *worksessionusecases.StopSessionUseCase
	toWaitingQCUC     *ticketusecases.ToWaitingQCUseCase
	qcPassUC          *ticketusecases.QCPassUseCase
	qcFailUC          *ticketusecases.QCFailUseCase
	manualMetricsUC   *ticketusecases.ManualMetricsUseCase
	listTransitionsUC *ticketusecases.ListTicketTransitionsUseCase
	listSessionsUC    *ticketusecases.ListWorkSessionsUseCase
	permissions       CapabilityService
	log               logger.Interface
}

func NewTicketHandler(
	createUC *ticketusecases.CreateTicketUseCase,
	listUC *ticketusecases.ListTicketsUseCase,
	getUC *ticketusecases.GetTicketUseCase,
	reviewApproveUC *ticketusecases.ReviewApproveUseCase,
	assignUC *ticketusecases.AssignTicketUseCase,
	startWorkUC *ticketusecases.StartWorkUseCase,
	pauseUC *worksessionusecases.PauseSessionUseCase,
	resumeUC *worksessionusecases.ResumeSessionUseCase,
	stopUC *worksessionusecases.StopSessionUseCase,
	toWaitingQCUC *ticketusecases.ToWaitingQCUseCase,
	qcPassUC *ticketusecases.QCPassUseCase,
	qcFailUC *ticketusecases.QCFailUseCase,
	manualMetricsUC *ticketusecases.ManualMetricsUseCase,
	listTransitionsUC *ticketusecases.ListTicketTransitionsUseCase,
	listSessionsUC *ticketusecases.ListWorkSessionsUseCase,
	permissions CapabilityService,
	log logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createUC: createUC, listUC: listUC, getUC: getUC, reviewApproveUC: reviewApproveUC,
		assignUC: assignUC, startWorkUC: startWorkUC, pauseUC: pauseUC, resumeUC: resumeUC, stopUC: stopUC,
		toWaitingQCUC: toWaitingQCUC, qcPassUC: qcPassUC, qcFailUC: qcFailUC, manualMetricsUC: manualMetricsUC,
		listTransitionsUC: listTransitionsUC, listSessionsUC: listSessionsUC, permissions: permissions, log: log,
	}
}

type createTicketPartRequest struct {
	PartID  uint   `json:"part_id" binding:"required"`
	Color   string `json:"color" binding:"required"`
	Minutes int    `json:"minutes" binding:"required"`
	Comment string `json:"comment"`
}

type createTicketRequest struct {
	SerialNumber string                    `json:"serial_number" binding:"required"`
	Title        string                    `json:"title" binding:"required"`
	Parts        []createTicketPartRequest `json:"parts" binding:"required,min=1"`
}

// CreateTicket handles POST /tickets (spec.md §4.4's `create`).
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketCreate, authorization.ObjectContext{}) {
		return
	}

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	parts := make([]ticketusecases.PartSpec, 0, len(req.Parts))
	for _, p := range req.Parts {
		parts = append(parts, ticketusecases.PartSpec{PartID: p.PartID, Color: p.Color, Minutes: p.Minutes, Comment: p.Comment})
	}

	result, err := h.createUC.Execute(c.Request.Context(), ticketusecases.CreateTicketCommand{
		SerialNumber: req.SerialNumber, Title: req.Title, MasterID: caller.ID(), Parts: parts,
	})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.Created(c, result)
}

// ListTickets handles GET /tickets.
func (h *TicketHandler) ListTickets(c *gin.Context) {
	filter := ticket.ListFilter{
		Page:    parseIntQuery(c, "page", 1),
		PerPage: parseIntQuery(c, "per_page", constants.DefaultPageSize),
		Query:   c.Query("q"),
	}
	if status := c.Query("status"); status != "" {
		s := ticket.Status(status)
		filter.Status = &s
	}
	if itemID := parseUintQuery(c, "item_id"); itemID != nil {
		filter.ItemID = itemID
	}
	if masterID := parseUintQuery(c, "master_id"); masterID != nil {
		filter.MasterID = masterID
	}
	if technician := parseUintQuery(c, "technician_id"); technician != nil {
		filter.Technician = technician
	}

	result, err := h.listUC.Execute(c.Request.Context(), ticketusecases.ListTicketsCommand{Filter: filter})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.List(c, result.Tickets, result.TotalCount, filter.Page, filter.PerPage)
}

// GetTicket handles GET /tickets/:id.
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	t, err := h.getUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, t)
}

// ReviewApprove handles POST /tickets/:id/review_approve.
func (h *TicketHandler) ReviewApprove(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketReviewApprove, authorization.ObjectContext{TicketStatus: string(t.Status())}) {
		return
	}

	result, err := h.reviewApproveUC.Execute(c.Request.Context(), ticketusecases.ReviewApproveCommand{TicketID: ticketID, CallerID: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

type assignRequest struct {
	TechnicianID uint `json:"technician_id" binding:"required"`
}

// Assign handles POST /tickets/:id/assign.
func (h *TicketHandler) Assign(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketAssign, authorization.ObjectContext{
		TicketStatus: string(t.Status()), TargetHasTechnicianRole: true,
	}) {
		return
	}

	result, err := h.assignUC.Execute(c.Request.Context(), ticketusecases.AssignTicketCommand{
		TicketID: ticketID, TechnicianID: req.TechnicianID, CallerID: caller.ID(),
	})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// StartWork handles POST /tickets/:id/start_work.
func (h *TicketHandler) StartWork(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketWorkStart, authorization.ObjectContext{
		TicketStatus: string(t.Status()), CallerIsAssignedTechnician: t.IsAssignedTechnician(caller.ID()),
	}) {
		return
	}
	result, err := h.startWorkUC.Execute(c.Request.Context(), ticketusecases.StartWorkCommand{TicketID: ticketID, TechnicianID: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// Pause handles POST /tickets/:id/pause.
func (h *TicketHandler) Pause(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketWorkPause, authorization.ObjectContext{
		TicketStatus: string(t.Status()), CallerIsAssignedTechnician: t.IsAssignedTechnician(caller.ID()),
	}) {
		return
	}
	result, err := h.pauseUC.Execute(c.Request.Context(), worksessionusecases.SessionCommand{TicketID: ticketID, TechnicianID: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// Resume handles POST /tickets/:id/resume.
func (h *TicketHandler) Resume(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketWorkResume, authorization.ObjectContext{
		TicketStatus: string(t.Status()), CallerIsAssignedTechnician: t.IsAssignedTechnician(caller.ID()),
	}) {
		return
	}
	result, err := h.resumeUC.Execute(c.Request.Context(), worksessionusecases.SessionCommand{TicketID: ticketID, TechnicianID: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// Stop handles POST /tickets/:id/stop.
func (h *TicketHandler) Stop(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketWorkStop, authorization.ObjectContext{
		TicketStatus: string(t.Status()), CallerIsAssignedTechnician: t.IsAssignedTechnician(caller.ID()),
	}) {
		return
	}
	result, err := h.stopUC.Execute(c.Request.Context(), worksessionusecases.SessionCommand{TicketID: ticketID, TechnicianID: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// ToWaitingQC handles POST /tickets/:id/to_waiting_qc.
func (h *TicketHandler) ToWaitingQC(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	sessionStopped := true
	sessions, err := h.listSessionsUC.Execute(c.Request.Context(), ticketID)
	if err == nil {
		for _, s := range sessions {
			if s.IsNonStopped() {
				sessionStopped = false
			}
		}
	}
	if !h.authorize(c, caller, authorization.CapTicketToWaitingQC, authorization.ObjectContext{
		TicketStatus: string(t.Status()), CallerIsAssignedTechnician: t.IsAssignedTechnician(caller.ID()), SessionIsStopped: sessionStopped,
	}) {
		return
	}

	result, err := h.toWaitingQCUC.Execute(c.Request.Context(), ticketusecases.ToWaitingQCCommand{TicketID: ticketID, TechnicianID: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// QCPass handles POST /tickets/:id/qc_pass.
func (h *TicketHandler) QCPass(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketQCPass, authorization.ObjectContext{TicketStatus: string(t.Status())}) {
		return
	}

	result, err := h.qcPassUC.Execute(c.Request.Context(), ticketusecases.QCPassCommand{TicketID: ticketID, CallerID: caller.ID()})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

type qcFailRequest struct {
	Note string `json:"note"`
}

// QCFail handles POST /tickets/:id/qc_fail.
func (h *TicketHandler) QCFail(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	var req qcFailRequest
	_ = c.ShouldBindJSON(&req)

	if !h.authorize(c, caller, authorization.CapTicketQCFail, authorization.ObjectContext{TicketStatus: string(t.Status())}) {
		return
	}

	result, err := h.qcFailUC.Execute(c.Request.Context(), ticketusecases.QCFailCommand{TicketID: ticketID, CallerID: caller.ID(), Note: req.Note})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

type manualMetricsRequest struct {
	FlagColor string `json:"flag_color" binding:"required"`
	XPAmount  int    `json:"xp_amount"`
}

// ManualMetrics handles POST /tickets/:id/manual_metrics.
func (h *TicketHandler) ManualMetrics(c *gin.Context) {
	ticketID, caller, t, ok := h.loadForAction(c)
	if !ok {
		return
	}
	var req manualMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpresponse.FromError(c, apperrors.NewValidationError(err.Error()))
		return
	}
	if !h.authorize(c, caller, authorization.CapTicketManualMetrics, authorization.ObjectContext{TicketStatus: string(t.Status())}) {
		return
	}

	result, err := h.manualMetricsUC.Execute(c.Request.Context(), ticketusecases.ManualMetricsCommand{
		TicketID: ticketID, CallerID: caller.ID(), FlagColor: req.FlagColor, XPAmount: req.XPAmount,
	})
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, result)
}

// ListTransitions handles GET /tickets/:id/transitions.
func (h *TicketHandler) ListTransitions(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", constants.DefaultPageSize)

	rows, total, err := h.listTransitionsUC.Execute(c.Request.Context(), ticketID, page, perPage)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.List(c, toTransitionDTOs(rows), total, page, perPage)
}

// ListWorkSessions handles GET /tickets/:id/work_sessions.
func (h *TicketHandler) ListWorkSessions(c *gin.Context) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	sessions, err := h.listSessionsUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		httpresponse.FromError(c, err)
		return
	}
	httpresponse.OK(c, toSessionDTOs(sessions))
}

func (h *TicketHandler) requireCaller(c *gin.Context) (*user.User, bool) {
	caller, ok := middleware.CallerFromContext(c)
	if !ok {
		httpresponse.FromError(c, apperrors.NewUnauthenticatedError("authentication required"))
		return nil, false
	}
	return caller, true
}

// loadForAction resolves the path's ticket id, the caller, and the current
// ticket in one step — the shape every status-mutating handler needs
// before it can populate an authorization.ObjectContext.
func (h *TicketHandler) loadForAction(c *gin.Context) (uint, *user.User, *ticket.Ticket, bool) {
	ticketID, err := parseTicketID(c)
	if err != nil {
		httpresponse.FromError(c, err)
		return 0, nil, nil, false
	}
	caller, ok := h.requireCaller(c)
	if !ok {
		return 0, nil, nil, false
	}
	t, err := h.getUC.Execute(c.Request.Context(), ticketID)
	if err != nil {
		httpresponse.FromError(c, err)
		return 0, nil, nil, false
	}
	return ticketID, caller, t, true
}

func (h *TicketHandler) authorize(c *gin.Context, caller *user.User, capability authorization.Capability, objCtx authorization.ObjectContext) bool {
	allowed, err := h.permissions.HasCapability(c.Request.Context(), caller, capability, objCtx)
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

func parseTicketID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid ticket id")
	}
	return uint(id), nil
}

func parseIntQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func parseUintQuery(c *gin.Context, key string) *uint {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	out := uint(v)
	return &out
}

type transitionDTO struct {
	ID         uint           `json:"id"`
	Action     string         `json:"action"`
	FromStatus string         `json:"from_status"`
	ToStatus   string         `json:"to_status"`
	Note       string         `json:"note"`
	Metadata   map[string]any `json:"metadata"`
	ActorID    *uint          `json:"actor_id,omitempty"`
}

func toTransitionDTOs(rows []*audit.TicketTransition) []transitionDTO {
	out := make([]transitionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, transitionDTO{
			ID: r.ID(), Action: r.Action(), FromStatus: r.FromStatus(), ToStatus: r.ToStatus(),
			Note: r.Note(), Metadata: r.Metadata(), ActorID: r.ActorID(),
		})
	}
	return out
}

type sessionDTO struct {
	ID                 uint   `json:"id"`
	TicketID           uint   `json:"ticket_id"`
	TechnicianID       uint   `json:"technician_id"`
	Status             string `json:"status"`
	AccumulatedMinutes int    `json:"accumulated_minutes"`
}

func toSessionDTOs(sessions []*worksession.WorkSession) []sessionDTO {
	out := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionDTO{
			ID: s.ID(), TicketID: s.TicketID(), TechnicianID: s.TechnicianID(),
			Status: string(s.Status()), AccumulatedMinutes: s.AccumulatedMinutes(),
		})
	}
	return out
}
