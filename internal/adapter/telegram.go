package adapter

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NamanSoni18/Finmate-Backend/internal/errors"
)

// TelegramAdapter long-polls a bot and runs each chat as its own
// conversation. Chat IDs map to internal session IDs so a Telegram chat
// resumes where it left off until the session expires.
type TelegramAdapter struct {
	token         string
	updateTimeout int
	handler       TurnHandler
	bot           *tgbotapi.BotAPI

	mu       sync.Mutex
	sessions map[int64]string
}

func NewTelegramAdapter(token string, updateTimeout int, handler TurnHandler) *TelegramAdapter {
	return &TelegramAdapter{
		token:         token,
		updateTimeout: updateTimeout,
		handler:       handler,
		sessions:      make(map[int64]string),
	}
}

func (t *TelegramAdapter) Name() string {
	return "telegram"
}

func (t *TelegramAdapter) Start(ctx context.Context) error {
	var err error
	t.bot, err = tgbotapi.NewBotAPI(t.token)
	if err != nil {
		return errors.Wrap(err, "init telegram bot")
	}

	slog.Info("telegram adapter started", "user", t.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = t.updateTimeout
	updates := t.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update := <-updates:
				t.handleUpdate(ctx, update)
			}
		}
	}()

	return nil
}

func (t *TelegramAdapter) Stop(ctx context.Context) error {
	if t.bot != nil {
		t.bot.StopReceivingUpdates()
	}
	return nil
}

func (t *TelegramAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	t.mu.Lock()
	sessionID := t.sessions[chatID]
	t.mu.Unlock()

	result := t.handler(ctx, sessionID, msg.Text)

	t.mu.Lock()
	t.sessions[chatID] = result.SessionID
	t.mu.Unlock()

	reply := tgbotapi.NewMessage(chatID, result.Message)
	if _, err := t.bot.Send(reply); err != nil {
		slog.Error("failed to send telegram reply", "chat_id", chatID, "error", err)
	}
}
