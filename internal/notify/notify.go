// Package notify tells platform admins about restaurant lifecycle changes.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dukerupert/menuboard/internal/model"
)

// sendTimeout bounds one Bot API call.
const sendTimeout = 10 * time.Second

// Notifier receives restaurant lifecycle events. Implementations log their
// own delivery failures; callers never see them.
type Notifier interface {
	RestaurantCreated(ctx context.Context, r model.Restaurant)
	RestaurantStatusChanged(ctx context.Context, r model.Restaurant)
}

// Nop discards every event.
type Nop struct{}

func (Nop) RestaurantCreated(context.Context, model.Restaurant)       {}
func (Nop) RestaurantStatusChanged(context.Context, model.Restaurant) {}

// sender is the part of tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts events to one admin chat.
type Telegram struct {
	bot    sender
	chatID int64
	logger *slog.Logger
}

// NewTelegram connects to the bot API with token. It fails if the token is
// rejected.
func NewTelegram(token string, chatID int64, logger *slog.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: sendTimeout})
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *Telegram) RestaurantCreated(ctx context.Context, r model.Restaurant) {
	t.send(ctx, fmt.Sprintf("New restaurant: %s (@%s), status %s", r.Name, r.Username, statusLabel(r.Status)))
}

func (t *Telegram) RestaurantStatusChanged(ctx context.Context, r model.Restaurant) {
	t.send(ctx, fmt.Sprintf("Restaurant %s (@%s) is now %s", r.Name, r.Username, statusLabel(r.Status)))
}

func (t *Telegram) send(ctx context.Context, text string) {
	if ctx.Err() != nil {
		return
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn("telegram notification failed", "error", err)
	}
}

func statusLabel(status string) string {
	if status == "" {
		return model.StatusActive
	}
	return status
}
