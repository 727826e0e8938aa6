package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	permissionapp "github.com/pedalworks/repairbay/internal/application/permission"
	"github.com/pedalworks/repairbay/internal/domain/user"
)

type fakeBotSender struct {
	messages       []string
	answeredCBs    []string
	editedWithKB   []string
}

func (b *fakeBotSender) SendMessage(chatID int64, text string) error {
	b.messages = append(b.messages, text)
	return nil
}
func (b *fakeBotSender) SendMessageWithInlineKeyboard(chatID int64, text string, keyboard any) error {
	b.messages = append(b.messages, text)
	return nil
}
func (b *fakeBotSender) EditMessageText(chatID, messageID int64, text string) error {
	b.messages = append(b.messages, text)
	return nil
}
func (b *fakeBotSender) EditMessageWithInlineKeyboard(chatID, messageID int64, text string, keyboard any) error {
	b.editedWithKB = append(b.editedWithKB, text)
	return nil
}
func (b *fakeBotSender) EditMessageReplyMarkup(chatID, messageID int64, keyboard any) error { return nil }
func (b *fakeBotSender) AnswerCallbackQuery(callbackQueryID, text string, showAlert bool) error {
	b.answeredCBs = append(b.answeredCBs, text)
	return nil
}
func (b *fakeBotSender) SendChatAction(chatID int64, action string) error { return nil }

func newTestDispatcher(t *testing.T, repo *fakeUserRepo, bot *fakeBotSender) *Dispatcher {
	t.Helper()
	enforcer := &alwaysDenyEnforcer{}
	perms := permissionapp.NewService(enforcer, noopLogger{})
	return NewDispatcher(Deps{
		UserRepo:    repo,
		Permissions: perms,
		Bot:         bot,
		Log:         noopLogger{},
	})
}

type alwaysDenyEnforcer struct{}

func (alwaysDenyEnforcer) Enforce(subject, capability string) (bool, error)  { return false, nil }
func (alwaysDenyEnforcer) AddRoleForUser(subject, role string) error        { return nil }
func (alwaysDenyEnforcer) RemoveRoleForUser(subject, role string) error     { return nil }

func TestDispatcher_HandleMessage_UnlinkedAccount(t *testing.T) {
	repo := &fakeUserRepo{
		FindByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*user.User, error) {
			return nil, errors.New("not found")
		},
	}
	bot := &fakeBotSender{}
	d := newTestDispatcher(t, repo, bot)

	err := d.HandleMessage(context.Background(), IncomingMessage{ChatID: 1, FromID: 999, Text: "/start"})
	require.NoError(t, err)
	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0], "Link your account")
}

func TestDispatcher_HandleMessage_Help(t *testing.T) {
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)
	repo := &fakeUserRepo{
		FindByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*user.User, error) { return u, nil },
	}
	bot := &fakeBotSender{}
	d := newTestDispatcher(t, repo, bot)

	err = d.HandleMessage(context.Background(), IncomingMessage{ChatID: 1, FromID: 1, Text: "/help"})
	require.NoError(t, err)
	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0], "/newticket")
}

func TestDispatcher_HandleCallback_UnlinkedAccount(t *testing.T) {
	repo := &fakeUserRepo{
		FindByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*user.User, error) {
			return nil, errors.New("not found")
		},
	}
	bot := &fakeBotSender{}
	d := newTestDispatcher(t, repo, bot)

	err := d.HandleCallback(context.Background(), IncomingCallback{ID: "cb1", FromID: 999, Data: "tc:items:1"})
	require.NoError(t, err)
	require.Len(t, bot.answeredCBs, 1)
	assert.Equal(t, "account not linked", bot.answeredCBs[0])
}

func TestDispatcher_HandleCallback_UnknownPrefix(t *testing.T) {
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)
	repo := &fakeUserRepo{
		FindByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*user.User, error) { return u, nil },
	}
	bot := &fakeBotSender{}
	d := newTestDispatcher(t, repo, bot)

	err = d.HandleCallback(context.Background(), IncomingCallback{ID: "cb1", FromID: 1, Data: "zz:foo:1"})
	require.NoError(t, err)
	require.Len(t, bot.answeredCBs, 1)
	assert.Equal(t, "unknown action", bot.answeredCBs[0])
}

func TestDispatcher_HandleMessage_NewTicket_DeniesWithoutCapability(t *testing.T) {
	u, err := user.NewUser("usr_1", "15550001111")
	require.NoError(t, err)
	repo := &fakeUserRepo{
		FindByTelegramIDFunc: func(ctx context.Context, telegramID int64) (*user.User, error) { return u, nil },
	}
	bot := &fakeBotSender{}
	d := newTestDispatcher(t, repo, bot)

	err = d.HandleMessage(context.Background(), IncomingMessage{ChatID: 1, FromID: 1, Text: "/newticket"})
	require.NoError(t, err)
	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0], "permission")
}

func TestPageCountOf(t *testing.T) {
	assert.Equal(t, 1, pageCountOf(0, 5))
	assert.Equal(t, 1, pageCountOf(5, 5))
	assert.Equal(t, 2, pageCountOf(6, 5))
	assert.Equal(t, 3, pageCountOf(15, 5))
}

func TestPaginationRow_ClampsAtBoundaries(t *testing.T) {
	row := paginationRow("p", 1, 3)
	require.Len(t, row, 3)
	assert.Equal(t, "p:1", row[0].Data, "prev from page 1 stays on page 1")
	assert.Equal(t, "1/3", row[1].Text)
	assert.Equal(t, "p:2", row[2].Data)

	row = paginationRow("p", 3, 3)
	assert.Equal(t, "p:3", row[2].Data, "next from the last page stays put")
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "42", lastSegment("tc:item:42"))
	assert.Equal(t, "noop", lastSegment("noop"))
}
