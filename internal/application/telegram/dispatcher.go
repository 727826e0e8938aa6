// Dispatcher implements the callback-payload contract of C9, the bot
// workflow surface (spec.md §4.9): tc:/trq:/tra:/tqq:/tqc:/tt:/xph: each map
// to the same use cases the HTTP edge calls, behind the same C1 capability
// check, mirroring LoginUseCase's "one engine, many edges" design.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	inventoryapp "github.com/pedalworks/repairbay/internal/application/inventory"
	permissionapp "github.com/pedalworks/repairbay/internal/application/permission"
	ticketuc "github.com/pedalworks/repairbay/internal/application/ticket/usecases"
	worksessionuc "github.com/pedalworks/repairbay/internal/application/worksession/usecases"
	xpledgerapp "github.com/pedalworks/repairbay/internal/application/xpledger"
	"github.com/pedalworks/repairbay/internal/domain/inventory"
	"github.com/pedalworks/repairbay/internal/domain/ticket"
	"github.com/pedalworks/repairbay/internal/domain/user"
	"github.com/pedalworks/repairbay/internal/shared/authorization"
	"github.com/pedalworks/repairbay/internal/shared/logger"
)

const pageSize = 5

// BotSender is everything the dispatcher needs from the Bot API transport.
// infrastructure/telegram.BotService satisfies this; the dispatcher never
// imports the infrastructure package directly (interfaces/bot wires the
// two together, same port/adapter shape as the JWT issuer in
// application/user).
type BotSender interface {
	SendMessage(chatID int64, text string) error
	SendMessageWithInlineKeyboard(chatID int64, text string, keyboard any) error
	EditMessageText(chatID, messageID int64, text string) error
	EditMessageWithInlineKeyboard(chatID, messageID int64, text string, keyboard any) error
	EditMessageReplyMarkup(chatID, messageID int64, keyboard any) error
	AnswerCallbackQuery(callbackQueryID, text string, showAlert bool) error
	SendChatAction(chatID int64, action string) error
}

// Keyboard is a minimal stand-in for infrastructure/telegram's
// InlineKeyboardMarkup so this package stays free of that import; the
// interfaces/bot adapter passes the real type through as `any`.
type Keyboard = [][]KeyboardButton

type KeyboardButton struct {
	Text string
	Data string
}

type IncomingMessage struct {
	ChatID   int64
	FromID   int64
	Username string
	Text     string
}

type IncomingCallback struct {
	ID        string
	FromID    int64
	ChatID    int64
	MessageID int64
	Data      string
}

// ticketDraft tracks one in-flight /newticket wizard. Kept in-process per
// chat; a restart loses in-flight drafts, which is acceptable since nothing
// has been persisted yet.
type ticketDraft struct {
	itemID  uint
	parts   map[uint]*draftPart // keyed by PartID
	partIDs []uint              // preserves selection order for rendering
}

type draftPart struct {
	color   ticket.FlagColor
	minutes int
}

type Dispatcher struct {
	userRepo    user.Repository
	permissions *permissionapp.Service
	bot         BotSender
	log         logger.Interface

	items      *inventoryapp.ItemUseCase
	parts      *inventoryapp.PartUseCase
	categories *inventoryapp.CategoryUseCase

	createTicket  *ticketuc.CreateTicketUseCase
	listTickets   *ticketuc.ListTicketsUseCase
	getTicket     *ticketuc.GetTicketUseCase
	reviewApprove *ticketuc.ReviewApproveUseCase
	assignTicket  *ticketuc.AssignTicketUseCase
	manualMetrics *ticketuc.ManualMetricsUseCase
	startWork     *ticketuc.StartWorkUseCase
	toWaitingQC   *ticketuc.ToWaitingQCUseCase
	qcPass        *ticketuc.QCPassUseCase
	qcFail        *ticketuc.QCFailUseCase

	pauseSession *worksessionuc.PauseSessionUseCase
	resumeSession *worksessionuc.ResumeSessionUseCase
	stopSession  *worksessionuc.StopSessionUseCase

	xpList *xpledgerapp.ListUseCase

	draftsMu sync.Mutex
	drafts   map[int64]*ticketDraft
}

type Deps struct {
	UserRepo    user.Repository
	Permissions *permissionapp.Service
	Bot         BotSender
	Log         logger.Interface

	Items      *inventoryapp.ItemUseCase
	Parts      *inventoryapp.PartUseCase
	Categories *inventoryapp.CategoryUseCase

	CreateTicket  *ticketuc.CreateTicketUseCase
	ListTickets   *ticketuc.ListTicketsUseCase
	GetTicket     *ticketuc.GetTicketUseCase
	ReviewApprove *ticketuc.ReviewApproveUseCase
	AssignTicket  *ticketuc.AssignTicketUseCase
	ManualMetrics *ticketuc.ManualMetricsUseCase
	StartWork     *ticketuc.StartWorkUseCase
	ToWaitingQC   *ticketuc.ToWaitingQCUseCase
	QCPass        *ticketuc.QCPassUseCase
	QCFail        *ticketuc.QCFailUseCase

	PauseSession  *worksessionuc.PauseSessionUseCase
	ResumeSession *worksessionuc.ResumeSessionUseCase
	StopSession   *worksessionuc.StopSessionUseCase

	XPList *xpledgerapp.ListUseCase
}

func NewDispatcher(d Deps) *Dispatcher {
	return &Dispatcher{
		userRepo: d.UserRepo, permissions: d.Permissions, bot: d.Bot, log: d.Log,
		items: d.Items, parts: d.Parts, categories: d.Categories,
		createTicket: d.CreateTicket, listTickets: d.ListTickets, getTicket: d.GetTicket,
		reviewApprove: d.ReviewApprove, assignTicket: d.AssignTicket, manualMetrics: d.ManualMetrics,
		startWork: d.StartWork, toWaitingQC: d.ToWaitingQC, qcPass: d.QCPass, qcFail: d.QCFail,
		pauseSession: d.PauseSession, resumeSession: d.ResumeSession, stopSession: d.StopSession,
		xpList: d.XPList,
		drafts: make(map[int64]*ticketDraft),
	}
}

func (d *Dispatcher) callerFromTelegram(ctx context.Context, telegramID int64) (*user.User, error) {
	u, err := d.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, fmt.Errorf("account is inactive")
	}
	return u, nil
}

func (d *Dispatcher) authorize(ctx context.Context, u *user.User, cap authorization.Capability, objCtx authorization.ObjectContext) (bool, error) {
	return d.permissions.HasCapability(ctx, u, cap, objCtx)
}

// HandleMessage routes a plain text/command message.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg IncomingMessage) error {
	caller, err := d.callerFromTelegram(ctx, msg.FromID)
	if err != nil {
		return d.bot.SendMessage(msg.ChatID, "Link your account first from the Mini App before using bot commands.")
	}

	text := strings.TrimSpace(msg.Text)
	switch {
	case text == "/start" || text == "/help":
		return d.bot.SendMessage(msg.ChatID, helpText())
	case text == "/newticket":
		return d.startTicketDraft(ctx, caller, msg.ChatID)
	case text == "/queue":
		return d.renderReviewQueue(ctx, caller, msg.ChatID, 0, 1)
	case text == "/qc":
		return d.renderQCQueue(ctx, caller, msg.ChatID, 0, 1)
	case text == "/myxp":
		return d.renderXPHistory(ctx, caller, msg.ChatID, 0, 1)
	case strings.HasPrefix(text, "/minutes "):
		return d.handleMinutesCommand(ctx, caller, msg.ChatID, strings.TrimPrefix(text, "/minutes "))
	default:
		return d.bot.SendMessage(msg.ChatID, helpText())
	}
}

func helpText() string {
	return "Commands:\n/newticket - create a repair ticket\n/queue - review queue\n/qc - QC queue\n/myxp - your XP history"
}

// HandleCallback routes an inline-keyboard callback by its fixed prefix
// (spec.md §4.9's closed payload-format table).
func (d *Dispatcher) HandleCallback(ctx context.Context, cb IncomingCallback) error {
	caller, err := d.callerFromTelegram(ctx, cb.FromID)
	if err != nil {
		_ = d.bot.AnswerCallbackQuery(cb.ID, "account not linked", true)
		return nil
	}

	parts := strings.SplitN(cb.Data, ":", 3)
	if len(parts) == 0 {
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return nil
	}
	if cb.Data == "noop" {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}

	prefix := parts[0]
	var err2 error
	switch prefix {
	case "tc":
		err2 = d.handleTicketCreateCallback(ctx, caller, cb, parts)
	case "trq":
		err2 = d.handleReviewQueueCallback(ctx, caller, cb, parts)
	case "tra":
		err2 = d.handleReviewActionCallback(ctx, caller, cb, parts)
	case "tqq":
		err2 = d.handleQCQueueCallback(ctx, caller, cb, parts)
	case "tqc":
		err2 = d.handleQCDecisionCallback(ctx, caller, cb, parts)
	case "tt":
		err2 = d.handleTechnicianActionCallback(ctx, caller, cb, parts)
	case "xph":
		err2 = d.handleXPHistoryCallback(ctx, caller, cb, parts)
	default:
		_ = d.bot.AnswerCallbackQuery(cb.ID, "unknown action", true)
		return nil
	}
	if err2 != nil {
		d.log.Errorw("bot callback failed", "prefix", prefix, "data", cb.Data, "error", err2)
		_ = d.bot.AnswerCallbackQuery(cb.ID, "action failed", true)
	}
	return nil
}

// ---- tc: ticket create flow ----

func (d *Dispatcher) startTicketDraft(ctx context.Context, caller *user.User, chatID int64) error {
	ok, err := d.authorize(ctx, caller, authorization.CapTicketCreate, authorization.ObjectContext{})
	if err != nil || !ok {
		return d.bot.SendMessage(chatID, "You don't have permission to create tickets.")
	}
	return d.renderItemPage(ctx, chatID, 0, 1)
}

func (d *Dispatcher) renderItemPage(ctx context.Context, chatID int64, messageID int64, page int) error {
	status := inventory.ItemStatusReady
	res, err := d.items.List(ctx, inventoryapp.ListItemsCommand{Status: &status, Page: page, PerPage: pageSize})
	if err != nil {
		return err
	}
	pageCount := pageCountOf(res.Total, pageSize)

	var rows [][]KeyboardButton
	for _, it := range res.Items {
		rows = append(rows, []KeyboardButton{{
			Text: fmt.Sprintf("%s (%s)", it.Name(), it.SerialNumber()),
			Data: fmt.Sprintf("tc:item:%d", it.ID()),
		}})
	}
	rows = append(rows, paginationRow("tc:items", page, pageCount))

	text := "Select an item for the new ticket:"
	return d.sendOrEdit(chatID, messageID, text, rows)
}

func (d *Dispatcher) handleTicketCreateCallback(ctx context.Context, caller *user.User, cb IncomingCallback, parts []string) error {
	ok, err := d.authorize(ctx, caller, authorization.CapTicketCreate, authorization.ObjectContext{})
	if err != nil || !ok {
		return d.bot.AnswerCallbackQuery(cb.ID, "permission denied", true)
	}
	if len(parts) < 2 {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}

	sub := strings.SplitN(parts[1], ":", 2)
	action := sub[0]

	switch action {
	case "items":
		page, _ := strconv.Atoi(lastSegment(cb.Data))
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.renderItemPage(ctx, cb.ChatID, cb.MessageID, page)

	case "item":
		itemID, _ := strconv.Atoi(lastSegment(cb.Data))
		d.draftsMu.Lock()
		d.drafts[cb.ChatID] = &ticketDraft{itemID: uint(itemID), parts: map[uint]*draftPart{}}
		d.draftsMu.Unlock()
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.renderPartPage(ctx, caller, cb.ChatID, cb.MessageID, uint(itemID))

	case "part":
		fields := strings.Split(cb.Data, ":")
		if len(fields) != 4 {
			return d.bot.AnswerCallbackQuery(cb.ID, "", false)
		}
		itemID, _ := strconv.Atoi(fields[2])
		partID, _ := strconv.Atoi(fields[3])
		d.toggleDraftPart(cb.ChatID, uint(partID))
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.renderPartPage(ctx, caller, cb.ChatID, cb.MessageID, uint(itemID))

	case "color":
		fields := strings.Split(cb.Data, ":")
		if len(fields) != 4 {
			return d.bot.AnswerCallbackQuery(cb.ID, "", false)
		}
		partID, _ := strconv.Atoi(fields[2])
		color := ticket.FlagColor(fields[3])
		d.cycleDraftPartColor(cb.ChatID, uint(partID), color)
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.renderDraftSummary(ctx, cb.ChatID, cb.MessageID)

	case "save":
		itemID, _ := strconv.Atoi(lastSegment(cb.Data))
		return d.saveDraft(ctx, caller, cb, uint(itemID))

	case "cancel":
		d.draftsMu.Lock()
		delete(d.drafts, cb.ChatID)
		d.draftsMu.Unlock()
		_ = d.bot.AnswerCallbackQuery(cb.ID, "cancelled", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, "Ticket creation cancelled.", nil)

	default:
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
}

func (d *Dispatcher) toggleDraftPart(chatID int64, partID uint) {
	d.draftsMu.Lock()
	defer d.draftsMu.Unlock()
	draft := d.drafts[chatID]
	if draft == nil {
		return
	}
	if _, ok := draft.parts[partID]; ok {
		delete(draft.parts, partID)
		for i, id := range draft.partIDs {
			if id == partID {
				draft.partIDs = append(draft.partIDs[:i], draft.partIDs[i+1:]...)
				break
			}
		}
		return
	}
	draft.parts[partID] = &draftPart{color: ticket.FlagGreen, minutes: 0}
	draft.partIDs = append(draft.partIDs, partID)
}

func (d *Dispatcher) cycleDraftPartColor(chatID int64, partID uint, next ticket.FlagColor) {
	d.draftsMu.Lock()
	defer d.draftsMu.Unlock()
	draft := d.drafts[chatID]
	if draft == nil {
		return
	}
	if dp, ok := draft.parts[partID]; ok {
		dp.color = next
	}
}

func (d *Dispatcher) handleMinutesCommand(ctx context.Context, caller *user.User, chatID int64, arg string) error {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		return d.bot.SendMessage(chatID, "Usage: /minutes <part_id> <minutes>")
	}
	partID, err1 := strconv.Atoi(fields[0])
	minutes, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || minutes < 0 {
		return d.bot.SendMessage(chatID, "Usage: /minutes <part_id> <minutes>")
	}

	d.draftsMu.Lock()
	draft := d.drafts[chatID]
	if draft != nil {
		if dp, ok := draft.parts[uint(partID)]; ok {
			dp.minutes = minutes
		}
	}
	d.draftsMu.Unlock()

	if draft == nil {
		return d.bot.SendMessage(chatID, "No ticket draft in progress — start one with /newticket.")
	}
	return d.bot.SendMessage(chatID, "Updated.")
}

func (d *Dispatcher) renderPartPage(ctx context.Context, caller *user.User, chatID, messageID int64, itemID uint) error {
	item, err := d.items.Get(ctx, itemID)
	if err != nil {
		return err
	}
	allParts, err := d.parts.ListByCategory(ctx, item.CategoryID(), &itemID)
	if err != nil {
		return err
	}

	d.draftsMu.Lock()
	draft := d.drafts[chatID]
	d.draftsMu.Unlock()

	var rows [][]KeyboardButton
	for _, p := range allParts {
		label := p.Name()
		if draft != nil {
			if _, selected := draft.parts[p.ID()]; selected {
				label = "✓ " + label
			}
		}
		rows = append(rows, []KeyboardButton{{
			Text: label,
			Data: fmt.Sprintf("tc:part:%d:%d", itemID, p.ID()),
		}})
	}
	rows = append(rows, []KeyboardButton{
		{Text: "Save ticket", Data: fmt.Sprintf("tc:save:%d", itemID)},
		{Text: "Cancel", Data: "tc:cancel:0"},
	})

	text := "Toggle the parts this ticket covers, then save. Use /minutes <part_id> <n> to set work minutes per part before saving."
	return d.sendOrEdit(chatID, messageID, text, rows)
}

func (d *Dispatcher) renderDraftSummary(ctx context.Context, chatID, messageID int64) error {
	d.draftsMu.Lock()
	draft := d.drafts[chatID]
	d.draftsMu.Unlock()
	if draft == nil {
		return d.bot.EditMessageText(chatID, messageID, "Draft expired — start again with /newticket.")
	}
	return nil
}

func (d *Dispatcher) saveDraft(ctx context.Context, caller *user.User, cb IncomingCallback, itemID uint) error {
	d.draftsMu.Lock()
	draft := d.drafts[cb.ChatID]
	d.draftsMu.Unlock()
	if draft == nil {
		return d.bot.AnswerCallbackQuery(cb.ID, "draft expired", true)
	}
	if len(draft.partIDs) == 0 {
		return d.bot.AnswerCallbackQuery(cb.ID, "select at least one part", true)
	}

	specs := make([]ticketuc.PartSpec, 0, len(draft.partIDs))
	for _, partID := range draft.partIDs {
		dp := draft.parts[partID]
		specs = append(specs, ticketuc.PartSpec{PartID: partID, Color: string(dp.color), Minutes: dp.minutes})
	}

	item, err := d.items.Get(ctx, itemID)
	if err != nil {
		return err
	}
	res, err := d.createTicket.Execute(ctx, ticketuc.CreateTicketCommand{
		SerialNumber: item.SerialNumber(), Title: "Bot-created ticket", MasterID: caller.ID(), Parts: specs,
	})
	if err != nil {
		return err
	}

	d.draftsMu.Lock()
	delete(d.drafts, cb.ChatID)
	d.draftsMu.Unlock()

	_ = d.bot.AnswerCallbackQuery(cb.ID, "ticket created", false)
	return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, fmt.Sprintf("Ticket %s created (status: %s).", res.SID, res.Status), nil)
}

// ---- trq: review queue ----

func (d *Dispatcher) renderReviewQueue(ctx context.Context, caller *user.User, chatID int64, messageID int64, page int) error {
	ok, err := d.authorize(ctx, caller, authorization.CapTicketReviewApprove, authorization.ObjectContext{})
	if err != nil || !ok {
		return d.bot.SendMessage(chatID, "You don't have permission to review tickets.")
	}
	status := ticket.StatusUnderReview
	res, err := d.listTickets.Execute(ctx, ticketuc.ListTicketsCommand{Filter: ticket.ListFilter{Status: &status, Page: page, PerPage: pageSize}})
	if err != nil {
		return err
	}
	pageCount := pageCountOf(res.TotalCount, pageSize)

	var rows [][]KeyboardButton
	for _, t := range res.Tickets {
		rows = append(rows, []KeyboardButton{{
			Text: fmt.Sprintf("%s — %s", t.SID(), t.Title()),
			Data: fmt.Sprintf("trq:open:%d", t.ID()),
		}})
	}
	rows = append(rows, paginationRow("trq:page", page, pageCount))
	return d.sendOrEdit(chatID, messageID, "Tickets awaiting review:", rows)
}

func (d *Dispatcher) handleReviewQueueCallback(ctx context.Context, caller *user.User, cb IncomingCallback, parts []string) error {
	if len(parts) < 2 {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
	sub := strings.SplitN(parts[1], ":", 2)
	switch sub[0] {
	case "page":
		page, _ := strconv.Atoi(lastSegment(cb.Data))
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.renderReviewQueue(ctx, caller, cb.ChatID, cb.MessageID, page)
	case "open":
		ticketID, _ := strconv.Atoi(lastSegment(cb.Data))
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.renderTicketReviewDetail(ctx, caller, cb.ChatID, cb.MessageID, uint(ticketID))
	default:
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
}

func (d *Dispatcher) renderTicketReviewDetail(ctx context.Context, caller *user.User, chatID, messageID int64, ticketID uint) error {
	t, err := d.getTicket.Execute(ctx, ticketID)
	if err != nil {
		return err
	}
	rows := [][]KeyboardButton{
		{{Text: "Approve", Data: fmt.Sprintf("tra:approve:%d", ticketID)}},
		{{Text: "Assign technician", Data: fmt.Sprintf("tra:assignlist:%d", ticketID)}},
		{{Text: "Manual metrics", Data: fmt.Sprintf("tra:metrics:%d", ticketID)}},
	}
	return d.sendOrEdit(chatID, messageID, fmt.Sprintf("%s — %s\nStatus: %s", t.SID(), t.Title(), t.Status()), rows)
}

// ---- tra: review actions ----

func (d *Dispatcher) handleReviewActionCallback(ctx context.Context, caller *user.User, cb IncomingCallback, parts []string) error {
	if len(parts) < 2 {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
	sub := strings.SplitN(parts[1], ":", 2)

	switch sub[0] {
	case "approve":
		ok, err := d.authorize(ctx, caller, authorization.CapTicketReviewApprove, authorization.ObjectContext{})
		if err != nil || !ok {
			return d.bot.AnswerCallbackQuery(cb.ID, "permission denied", true)
		}
		ticketID, _ := strconv.Atoi(lastSegment(cb.Data))
		if _, err := d.reviewApprove.Execute(ctx, ticketuc.ReviewApproveCommand{TicketID: uint(ticketID), CallerID: caller.ID()}); err != nil {
			return err
		}
		_ = d.bot.AnswerCallbackQuery(cb.ID, "approved", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, "Ticket approved and queued.", nil)

	case "assignlist":
		ok, err := d.authorize(ctx, caller, authorization.CapTicketAssign, authorization.ObjectContext{})
		if err != nil || !ok {
			return d.bot.AnswerCallbackQuery(cb.ID, "permission denied", true)
		}
		ticketID, _ := strconv.Atoi(lastSegment(cb.Data))
		techs, _, err := d.userRepo.ListByRole(ctx, string(authorization.RoleTechnician), 1, 20)
		if err != nil {
			return err
		}
		var rows [][]KeyboardButton
		for _, tech := range techs {
			label := tech.Phone()
			if uname := tech.TelegramUsername(); uname != "" {
				label = "@" + uname
			}
			rows = append(rows, []KeyboardButton{{
				Text: label,
				Data: fmt.Sprintf("tra:assign:%d:%d", ticketID, tech.ID()),
			}})
		}
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, "Choose a technician:", rows)

	case "assign":
		ok, err := d.authorize(ctx, caller, authorization.CapTicketAssign, authorization.ObjectContext{})
		if err != nil || !ok {
			return d.bot.AnswerCallbackQuery(cb.ID, "permission denied", true)
		}
		fields := strings.Split(cb.Data, ":")
		if len(fields) != 4 {
			return d.bot.AnswerCallbackQuery(cb.ID, "", false)
		}
		ticketID, _ := strconv.Atoi(fields[2])
		techID, _ := strconv.Atoi(fields[3])
		if _, err := d.assignTicket.Execute(ctx, ticketuc.AssignTicketCommand{TicketID: uint(ticketID), TechnicianID: uint(techID), CallerID: caller.ID()}); err != nil {
			return err
		}
		_ = d.bot.AnswerCallbackQuery(cb.ID, "assigned", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, "Ticket assigned.", nil)

	case "metrics":
		ok, err := d.authorize(ctx, caller, authorization.CapTicketManualMetrics, authorization.ObjectContext{})
		if err != nil || !ok {
			return d.bot.AnswerCallbackQuery(cb.ID, "permission denied", true)
		}
		ticketID, _ := strconv.Atoi(lastSegment(cb.Data))
		rows := [][]KeyboardButton{
			{{Text: "Green", Data: fmt.Sprintf("tra:metricsset:%d:green", ticketID)}},
			{{Text: "Yellow", Data: fmt.Sprintf("tra:metricsset:%d:yellow", ticketID)}},
			{{Text: "Red", Data: fmt.Sprintf("tra:metricsset:%d:red", ticketID)}},
		}
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, "Choose the manual flag color (XP amount is set by policy):", rows)

	case "metricsset":
		fields := strings.Split(cb.Data, ":")
		if len(fields) != 4 {
			return d.bot.AnswerCallbackQuery(cb.ID, "", false)
		}
		ticketID, _ := strconv.Atoi(fields[2])
		color := fields[3]
		if _, err := d.manualMetrics.Execute(ctx, ticketuc.ManualMetricsCommand{TicketID: uint(ticketID), CallerID: caller.ID(), FlagColor: color, XPAmount: 0}); err != nil {
			return err
		}
		_ = d.bot.AnswerCallbackQuery(cb.ID, "saved", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, "Manual metrics saved.", nil)

	default:
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
}

// ---- tqq: QC queue / tqc: QC decision ----

func (d *Dispatcher) renderQCQueue(ctx context.Context, caller *user.User, chatID int64, messageID int64, page int) error {
	ok, err := d.authorize(ctx, caller, authorization.CapTicketQCPass, authorization.ObjectContext{})
	if err != nil || !ok {
		return d.bot.SendMessage(chatID, "You don't have permission to QC tickets.")
	}
	status := ticket.StatusWaitingQC
	res, err := d.listTickets.Execute(ctx, ticketuc.ListTicketsCommand{Filter: ticket.ListFilter{Status: &status, Page: page, PerPage: pageSize}})
	if err != nil {
		return err
	}
	pageCount := pageCountOf(res.TotalCount, pageSize)

	var rows [][]KeyboardButton
	for _, t := range res.Tickets {
		rows = append(rows, []KeyboardButton{{Text: fmt.Sprintf("%s — %s", t.SID(), t.Title()), Data: fmt.Sprintf("tqq:open:%d", t.ID())}})
	}
	rows = append(rows, paginationRow("tqq:page", page, pageCount))
	return d.sendOrEdit(chatID, messageID, "Tickets awaiting QC:", rows)
}

func (d *Dispatcher) handleQCQueueCallback(ctx context.Context, caller *user.User, cb IncomingCallback, parts []string) error {
	if len(parts) < 2 {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
	sub := strings.SplitN(parts[1], ":", 2)
	switch sub[0] {
	case "page":
		page, _ := strconv.Atoi(lastSegment(cb.Data))
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.renderQCQueue(ctx, caller, cb.ChatID, cb.MessageID, page)
	case "open":
		ticketID, _ := strconv.Atoi(lastSegment(cb.Data))
		rows := [][]KeyboardButton{
			{{Text: "Pass", Data: fmt.Sprintf("tqc:pass:%d", ticketID)}, {Text: "Fail", Data: fmt.Sprintf("tqc:fail:%d", ticketID)}},
			{{Text: "Refresh", Data: fmt.Sprintf("tqc:refresh:%d", ticketID)}},
		}
		_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, fmt.Sprintf("Ticket #%d QC decision:", ticketID), rows)
	default:
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
}

func (d *Dispatcher) handleQCDecisionCallback(ctx context.Context, caller *user.User, cb IncomingCallback, parts []string) error {
	if len(parts) < 2 {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
	sub := strings.SplitN(parts[1], ":", 2)
	ticketID, _ := strconv.Atoi(lastSegment(cb.Data))

	switch sub[0] {
	case "pass":
		ok, err := d.authorize(ctx, caller, authorization.CapTicketQCPass, authorization.ObjectContext{})
		if err != nil || !ok {
			return d.bot.AnswerCallbackQuery(cb.ID, "permission denied", true)
		}
		if _, err := d.qcPass.Execute(ctx, ticketuc.QCPassCommand{TicketID: uint(ticketID), CallerID: caller.ID()}); err != nil {
			return err
		}
		_ = d.bot.AnswerCallbackQuery(cb.ID, "passed", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, "QC passed, XP awarded.", nil)

	case "fail":
		ok, err := d.authorize(ctx, caller, authorization.CapTicketQCFail, authorization.ObjectContext{})
		if err != nil || !ok {
			return d.bot.AnswerCallbackQuery(cb.ID, "permission denied", true)
		}
		if _, err := d.qcFail.Execute(ctx, ticketuc.QCFailCommand{TicketID: uint(ticketID), CallerID: caller.ID(), Note: "failed via bot"}); err != nil {
			return err
		}
		_ = d.bot.AnswerCallbackQuery(cb.ID, "sent back for rework", false)
		return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, "Ticket sent back for rework.", nil)

	case "refresh":
		_ = d.bot.AnswerCallbackQuery(cb.ID, "refreshed", false)
		return d.renderQCQueue(ctx, caller, cb.ChatID, cb.MessageID, 1)

	default:
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
}

// ---- tt: technician ticket action ----

func (d *Dispatcher) handleTechnicianActionCallback(ctx context.Context, caller *user.User, cb IncomingCallback, parts []string) error {
	if len(parts) < 2 {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
	sub := strings.SplitN(parts[1], ":", 2)
	ticketID, _ := strconv.Atoi(lastSegment(cb.Data))

	var cap authorization.Capability
	switch sub[0] {
	case "start":
		cap = authorization.CapTicketWorkStart
	case "pause":
		cap = authorization.CapTicketWorkPause
	case "resume":
		cap = authorization.CapTicketWorkResume
	case "stop":
		cap = authorization.CapTicketWorkStop
	case "to_waiting_qc":
		cap = authorization.CapTicketToWaitingQC
	default:
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}

	ok, err := d.authorize(ctx, caller, cap, authorization.ObjectContext{})
	if err != nil || !ok {
		return d.bot.AnswerCallbackQuery(cb.ID, "permission denied", true)
	}

	switch sub[0] {
	case "start":
		if _, err := d.startWork.Execute(ctx, ticketuc.StartWorkCommand{TicketID: uint(ticketID), TechnicianID: caller.ID()}); err != nil {
			return err
		}
	case "pause":
		if _, err := d.pauseSession.Execute(ctx, worksessionuc.SessionCommand{TicketID: uint(ticketID), TechnicianID: caller.ID()}); err != nil {
			return err
		}
	case "resume":
		if _, err := d.resumeSession.Execute(ctx, worksessionuc.SessionCommand{TicketID: uint(ticketID), TechnicianID: caller.ID()}); err != nil {
			return err
		}
	case "stop":
		if _, err := d.stopSession.Execute(ctx, worksessionuc.SessionCommand{TicketID: uint(ticketID), TechnicianID: caller.ID()}); err != nil {
			return err
		}
	case "to_waiting_qc":
		if _, err := d.toWaitingQC.Execute(ctx, ticketuc.ToWaitingQCCommand{TicketID: uint(ticketID), TechnicianID: caller.ID()}); err != nil {
			return err
		}
	}

	_ = d.bot.AnswerCallbackQuery(cb.ID, "done", false)
	return d.bot.EditMessageWithInlineKeyboard(cb.ChatID, cb.MessageID, fmt.Sprintf("Ticket #%d: %s applied.", ticketID, sub[0]), nil)
}

// ---- xph: XP history ----

func (d *Dispatcher) renderXPHistory(ctx context.Context, caller *user.User, chatID int64, messageID int64, page int) error {
	ok, err := d.authorize(ctx, caller, authorization.CapXPReadSelf, authorization.ObjectContext{})
	if err != nil || !ok {
		return d.bot.SendMessage(chatID, "You don't have permission to view XP history.")
	}
	callerID := caller.ID()
	res, err := d.xpList.Execute(ctx, xpledgerapp.ListCommand{UserID: &callerID, Page: page, PerPage: pageSize})
	if err != nil {
		return err
	}
	pageCount := pageCountOf(res.Total, pageSize)

	var sb strings.Builder
	sb.WriteString("Your XP history:\n")
	for _, e := range res.Entries {
		sb.WriteString(fmt.Sprintf("%+d — %s\n", e.Amount(), e.ReasonLabel()))
	}
	rows := [][]KeyboardButton{paginationRow("xph:page", page, pageCount)}
	return d.sendOrEdit(chatID, messageID, sb.String(), rows)
}

func (d *Dispatcher) handleXPHistoryCallback(ctx context.Context, caller *user.User, cb IncomingCallback, parts []string) error {
	if len(parts) < 2 {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
	sub := strings.SplitN(parts[1], ":", 2)
	if sub[0] != "page" {
		return d.bot.AnswerCallbackQuery(cb.ID, "", false)
	}
	page, _ := strconv.Atoi(lastSegment(cb.Data))
	_ = d.bot.AnswerCallbackQuery(cb.ID, "", false)
	return d.renderXPHistory(ctx, caller, cb.ChatID, cb.MessageID, page)
}

// ---- shared rendering helpers ----

func (d *Dispatcher) sendOrEdit(chatID, messageID int64, text string, rows [][]KeyboardButton) error {
	keyboard := toInlineKeyboard(rows)
	if messageID == 0 {
		return d.bot.SendMessageWithInlineKeyboard(chatID, text, keyboard)
	}
	return d.bot.EditMessageWithInlineKeyboard(chatID, messageID, text, keyboard)
}

// toInlineKeyboard hands the raw [][]KeyboardButton through as `any` — the
// interfaces/bot adapter owns the concrete infrastructure/telegram type and
// converts it on the way out, so this package never imports infrastructure.
func toInlineKeyboard(rows [][]KeyboardButton) any {
	if len(rows) == 0 {
		return nil
	}
	return rows
}

func paginationRow(prefix string, page, pageCount int) []KeyboardButton {
	if pageCount < 1 {
		pageCount = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}
	prev, next := page-1, page+1
	if prev < 1 {
		prev = page
	}
	if next > pageCount {
		next = page
	}
	return []KeyboardButton{
		{Text: "<", Data: fmt.Sprintf("%s:%d", prefix, prev)},
		{Text: fmt.Sprintf("%d/%d", page, pageCount), Data: "noop"},
		{Text: ">", Data: fmt.Sprintf("%s:%d", prefix, next)},
	}
}

func pageCountOf(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = pageSize
	}
	count := int((total + int64(perPage) - 1) / int64(perPage))
	if count < 1 {
		count = 1
	}
	return count
}

func lastSegment(data string) string {
	idx := strings.LastIndex(data, ":")
	if idx < 0 {
		return data
	}
	return data[idx+1:]
}
