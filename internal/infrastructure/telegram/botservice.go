// Package telegram is the Bot API client and long-poll loop behind C9, the
// bot workflow surface (spec.md §4.9). It is a thin, generic Telegram
// transport; repairbay-specific command and callback routing lives in
// application/telegram.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	sharedConfig "github.com/pedalworks/repairbay/internal/shared/config"
)

const (
	maxRetryAfterSeconds = 30
	maxNetworkRetries    = 2
)

var allowedUpdates = []string{"message", "callback_query"}

// BotService wraps the Telegram Bot HTTP API behind a circuit breaker, so a
// Telegram outage degrades the bot surface without starving the rest of the
// process of goroutines stuck on slow HTTP calls.
type BotService struct {
	config         sharedConfig.TelegramConfig
	httpClient     *http.Client
	longPollClient *http.Client
	baseURL        string
	botUsername    string
	cb             *gobreaker.CircuitBreaker[struct{}]
}

func NewBotService(cfg sharedConfig.TelegramConfig) *BotService {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "telegram-bot-api",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if IsRetryAfter(err) {
				return false
			}
			var apiErr *APIError
			return errors.As(err, &apiErr)
		},
	})

	s := &BotService{
		config:         cfg,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		longPollClient: &http.Client{Timeout: 40 * time.Second},
		baseURL:        fmt.Sprintf("https://api.telegram.org/bot%s", cfg.BotToken),
		cb:             cb,
	}
	if cfg.BotToken != "" {
		_ = s.fetchBotUsername()
	}
	return s
}

func (s *BotService) SetWebhook(webhookURL string) error {
	url := fmt.Sprintf("%s/setWebhook", s.baseURL)
	body := map[string]any{
		"url":             webhookURL,
		"allowed_updates": allowedUpdates,
	}
	if s.config.WebhookSecret != "" {
		body["secret_token"] = s.config.WebhookSecret
	}
	return s.makeRequest(url, body)
}

func (s *BotService) DeleteWebhook() error {
	return s.makeRequest(fmt.Sprintf("%s/deleteWebhook", s.baseURL), nil)
}

type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

func (s *BotService) SetMyCommands(commands []BotCommand) error {
	return s.makeRequest(fmt.Sprintf("%s/setMyCommands", s.baseURL), map[string]any{"commands": commands})
}

// DefaultCommands returns the bot's top-level command menu (spec.md §4.9).
// The fine-grained ticket/QC/XP flows live behind inline-keyboard callbacks,
// not slash commands.
func DefaultCommands() []BotCommand {
	return []BotCommand{
		{Command: "start", Description: "Open the repair bay menu"},
		{Command: "newticket", Description: "Create a repair ticket"},
		{Command: "queue", Description: "Review queue"},
		{Command: "qc", Description: "QC queue"},
		{Command: "myxp", Description: "XP history"},
		{Command: "help", Description: "Show help"},
	}
}

func (s *BotService) GetUpdates(offset int64, timeout int) ([]Update, error) {
	return s.GetUpdatesWithContext(context.Background(), offset, timeout)
}

func (s *BotService) GetUpdatesWithContext(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	apiURL := fmt.Sprintf("%s/getUpdates", s.baseURL)
	body := map[string]any{"timeout": timeout, "allowed_updates": allowedUpdates}
	if offset > 0 {
		body["offset"] = offset
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.longPollClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result getUpdatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return nil, apiErrorFrom(result.ErrorCode, result.Description, result.Parameters)
	}
	return result.Result, nil
}

func (s *BotService) SendMessage(chatID int64, text string) error {
	return s.sendChunks(chatID, text, "HTML", nil)
}

func (s *BotService) SendMessagePlain(chatID int64, text string) error {
	return s.sendChunks(chatID, text, "", nil)
}

func (s *BotService) SendMessageWithInlineKeyboard(chatID int64, text string, keyboard any) error {
	return s.sendChunks(chatID, text, "HTML", keyboard)
}

func (s *BotService) sendChunks(chatID int64, text, parseMode string, keyboard any) error {
	chunks := splitMessage(text, maxMessageLength)
	for i, chunk := range chunks {
		body := map[string]any{"chat_id": chatID, "text": chunk}
		if parseMode != "" {
			body["parse_mode"] = parseMode
		}
		// the keyboard only belongs on the last chunk
		if keyboard != nil && i == len(chunks)-1 {
			body["reply_markup"] = keyboard
		}
		if err := s.makeRequest(fmt.Sprintf("%s/sendMessage", s.baseURL), body); err != nil {
			return err
		}
	}
	return nil
}

func (s *BotService) EditMessageText(chatID, messageID int64, text string) error {
	return s.makeRequest(fmt.Sprintf("%s/editMessageText", s.baseURL), map[string]any{
		"chat_id": chatID, "message_id": messageID, "text": text, "parse_mode": "HTML",
	})
}

func (s *BotService) EditMessageWithInlineKeyboard(chatID, messageID int64, text string, keyboard any) error {
	return s.makeRequest(fmt.Sprintf("%s/editMessageText", s.baseURL), map[string]any{
		"chat_id": chatID, "message_id": messageID, "text": text, "parse_mode": "HTML", "reply_markup": keyboard,
	})
}

func (s *BotService) EditMessageReplyMarkup(chatID, messageID int64, keyboard any) error {
	body := map[string]any{"chat_id": chatID, "message_id": messageID}
	if keyboard != nil {
		body["reply_markup"] = keyboard
	}
	return s.makeRequest(fmt.Sprintf("%s/editMessageReplyMarkup", s.baseURL), body)
}

func (s *BotService) AnswerCallbackQuery(callbackQueryID, text string, showAlert bool) error {
	body := map[string]any{"callback_query_id": callbackQueryID}
	if text != "" {
		body["text"] = text
	}
	if showAlert {
		body["show_alert"] = true
	}
	return s.makeRequest(fmt.Sprintf("%s/answerCallbackQuery", s.baseURL), body)
}

func (s *BotService) SendChatAction(chatID int64, action string) error {
	if s.cb.State() == gobreaker.StateOpen {
		return ErrCircuitOpen
	}
	return s.doRequest(fmt.Sprintf("%s/sendChatAction", s.baseURL), map[string]any{"chat_id": chatID, "action": action})
}

// InlineKeyboardButton is one button of an inline keyboard row.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

func NewInlineKeyboard(rows ...[]InlineKeyboardButton) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: rows}
}

func NewInlineKeyboardRow(buttons ...InlineKeyboardButton) []InlineKeyboardButton { return buttons }

func NewCallbackButton(text, callbackData string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, CallbackData: callbackData}
}

// PaginationRow builds the fixed "(<, X/Y, >)" control spec.md §4.9 requires
// for every paginated bot listing, clamped to [1, pageCount].
func PaginationRow(prefix string, page, pageCount int) []InlineKeyboardButton {
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

	return []InlineKeyboardButton{
		NewCallbackButton("<", fmt.Sprintf("%s:%d", prefix, prev)),
		NewCallbackButton(fmt.Sprintf("%d/%d", page, pageCount), "noop"),
		NewCallbackButton(">", fmt.Sprintf("%s:%d", prefix, next)),
	}
}

type apiResponse struct {
	OK          bool                `json:"ok"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Description string              `json:"description,omitempty"`
	Parameters  *responseParameters `json:"parameters,omitempty"`
}

type responseParameters struct {
	RetryAfter int `json:"retry_after,omitempty"`
}

type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      *Chat  `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text,omitempty"`
}

type User struct {
	ID           int64  `json:"id"`
	IsBot        bool   `json:"is_bot"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type getUpdatesResponse struct {
	OK          bool                `json:"ok"`
	ErrorCode   int                 `json:"error_code,omitempty"`
	Result      []Update            `json:"result"`
	Description string              `json:"description,omitempty"`
	Parameters  *responseParameters `json:"parameters,omitempty"`
}

type getMeResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		ID        int64  `json:"id"`
		IsBot     bool   `json:"is_bot"`
		FirstName string `json:"first_name"`
		Username  string `json:"username"`
	} `json:"result"`
	Description string `json:"description,omitempty"`
}

func (s *BotService) fetchBotUsername() error {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/getMe", s.baseURL), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result getMeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	s.botUsername = result.Result.Username
	return nil
}

func (s *BotService) GetBotUsername() string { return s.botUsername }

func apiErrorFrom(code int, desc string, params *responseParameters) *APIError {
	apiErr := &APIError{ErrorCode: code, Description: desc}
	if params != nil {
		apiErr.RetryAfter = params.RetryAfter
	}
	return apiErr
}

func (s *BotService) doRequest(apiURL string, body map[string]any) error {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal request body: %w", marshalErr)
		}
		req, err = http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(jsonBody))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequest(http.MethodPost, apiURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.OK {
		return apiErrorFrom(result.ErrorCode, result.Description, result.Parameters)
	}
	return nil
}

// makeRequest wraps doRequest with the circuit breaker and a bounded retry
// policy: 429 waits retry_after (capped) and retries once, network/decode
// errors get exponential backoff, 400/403 return immediately.
func (s *BotService) makeRequest(apiURL string, body map[string]any) error {
	_, err := s.cb.Execute(func() (struct{}, error) {
		return struct{}{}, s.makeRequestInternal(apiURL, body)
	})
	if err != nil && (errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)) {
		return ErrCircuitOpen
	}
	return err
}

func (s *BotService) makeRequestInternal(apiURL string, body map[string]any) error {
	err := s.doRequest(apiURL, body)
	if err == nil {
		return nil
	}

	if IsRetryAfter(err) {
		wait := GetRetryAfter(err)
		if wait > maxRetryAfterSeconds {
			wait = maxRetryAfterSeconds
		}
		if wait < 1 {
			wait = 1
		}
		time.Sleep(time.Duration(wait) * time.Second)
		return s.doRequest(apiURL, body)
	}

	if isNonRetryable(err) {
		return err
	}

	backoff := 500 * time.Millisecond
	for i := 0; i < maxNetworkRetries; i++ {
		time.Sleep(backoff)
		backoff *= 2

		err = s.doRequest(apiURL, body)
		if err == nil {
			return nil
		}
		if isNonRetryable(err) || IsRetryAfter(err) {
			return err
		}
	}
	return err
}
