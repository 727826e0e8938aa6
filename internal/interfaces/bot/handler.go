// Package bot bridges the long-polling/webhook transport in
// infrastructure/telegram to the C9 dispatcher in application/telegram,
// translating wire types both ways so application stays free of any
// infrastructure import.
package bot

import (
	"context"
	"fmt"

	apptelegram "github.com/pedalworks/repairbay/internal/application/telegram"
	infratelegram "github.com/pedalworks/repairbay/internal/infrastructure/telegram"
)

// Handler adapts infrastructure/telegram.UpdateHandler to the dispatcher.
type Handler struct {
	dispatcher *apptelegram.Dispatcher
}

func NewHandler(dispatcher *apptelegram.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

func (h *Handler) HandleUpdate(ctx context.Context, update *infratelegram.Update) error {
	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		cb := apptelegram.IncomingCallback{ID: cq.ID, Data: cq.Data}
		if cq.From != nil {
			cb.FromID = cq.From.ID
		}
		if cq.Message != nil {
			cb.MessageID = cq.Message.MessageID
			if cq.Message.Chat != nil {
				cb.ChatID = cq.Message.Chat.ID
			}
		}
		return h.dispatcher.HandleCallback(ctx, cb)

	case update.Message != nil:
		msg := update.Message
		im := apptelegram.IncomingMessage{Text: msg.Text}
		if msg.From != nil {
			im.FromID = msg.From.ID
			im.Username = msg.From.Username
		}
		if msg.Chat != nil {
			im.ChatID = msg.Chat.ID
		}
		return h.dispatcher.HandleMessage(ctx, im)

	default:
		return nil
	}
}

// sender adapts *infrastructure/telegram.BotService to the dispatcher's
// BotSender port, translating the dispatcher's plain [][]KeyboardButton
// into the wire InlineKeyboardMarkup the Bot API expects.
type sender struct {
	bot *infratelegram.BotService
}

// NewSender wraps a bot service as an application/telegram.BotSender.
func NewSender(botService *infratelegram.BotService) apptelegram.BotSender {
	return &sender{bot: botService}
}

func (s *sender) SendMessage(chatID int64, text string) error {
	return s.bot.SendMessage(chatID, text)
}

func (s *sender) SendMessageWithInlineKeyboard(chatID int64, text string, keyboard any) error {
	return s.bot.SendMessageWithInlineKeyboard(chatID, text, toMarkup(keyboard))
}

func (s *sender) EditMessageText(chatID, messageID int64, text string) error {
	err := s.bot.EditMessageText(chatID, messageID, text)
	if infratelegram.IsMessageNotModified(err) {
		return nil
	}
	return err
}

func (s *sender) EditMessageWithInlineKeyboard(chatID, messageID int64, text string, keyboard any) error {
	err := s.bot.EditMessageWithInlineKeyboard(chatID, messageID, text, toMarkup(keyboard))
	if infratelegram.IsMessageNotModified(err) {
		return nil
	}
	return err
}

func (s *sender) EditMessageReplyMarkup(chatID, messageID int64, keyboard any) error {
	err := s.bot.EditMessageReplyMarkup(chatID, messageID, toMarkup(keyboard))
	if infratelegram.IsMessageNotModified(err) {
		return nil
	}
	return err
}

func (s *sender) AnswerCallbackQuery(callbackQueryID, text string, showAlert bool) error {
	return s.bot.AnswerCallbackQuery(callbackQueryID, text, showAlert)
}

func (s *sender) SendChatAction(chatID int64, action string) error {
	return s.bot.SendChatAction(chatID, action)
}

// AccessRequestNotifier adapts *infrastructure/telegram.BotService to
// application/accessrequest.Notifier: a best-effort DM telling a requester
// whether moderation approved or rejected their access request.
type AccessRequestNotifier struct {
	bot *infratelegram.BotService
}

func NewAccessRequestNotifier(botService *infratelegram.BotService) *AccessRequestNotifier {
	return &AccessRequestNotifier{bot: botService}
}

func (n *AccessRequestNotifier) NotifyAccessResolved(ctx context.Context, telegramID int64, approved bool) error {
	text := "Your access request was rejected."
	if approved {
		text = "Your access request was approved. Welcome aboard!"
	}
	return n.bot.SendMessage(telegramID, text)
}

func toMarkup(keyboard any) any {
	if keyboard == nil {
		return nil
	}
	rows, ok := keyboard.([][]apptelegram.KeyboardButton)
	if !ok {
		panic(fmt.Sprintf("bot: unexpected keyboard type %T", keyboard))
	}
	wireRows := make([][]infratelegram.InlineKeyboardButton, len(rows))
	for i, row := range rows {
		wireRow := make([]infratelegram.InlineKeyboardButton, len(row))
		for j, btn := range row {
			wireRow[j] = infratelegram.NewCallbackButton(btn.Text, btn.Data)
		}
		wireRows[i] = wireRow
	}
	return infratelegram.NewInlineKeyboard(wireRows...)
}
