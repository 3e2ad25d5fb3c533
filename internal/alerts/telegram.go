package alerts

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramAlerter posts moderation alerts to the admins' Telegram chat.
type TelegramAlerter struct {
	bot    sender
	chatID int64
}

// NewTelegramAlerter connects to the Bot API. An empty token yields a nil
// alerter, which the event dispatcher treats as "no alerts".
func NewTelegramAlerter(token string, chatID int64, debug bool) (*TelegramAlerter, error) {
	if token == "" {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	logger.Info("Authorized on account", "username", api.Self.UserName)
	return &TelegramAlerter{bot: api, chatID: chatID}, nil
}

func (a *TelegramAlerter) Alert(_ context.Context, text string) error {
	if a == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(a.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}
