package alerts

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestNewTelegramAlerter_Disabled(t *testing.T) {
	a, err := NewTelegramAlerter("", 0, false)
	if err != nil || a != nil {
		t.Errorf("NewTelegramAlerter(\"\") = %v, %v; want nil, nil", a, err)
	}
}

func TestTelegramAlerter_Alert(t *testing.T) {
	fake := &fakeSender{}
	a := &TelegramAlerter{bot: fake, chatID: -100123}

	if err := a.Alert(context.Background(), "[report.created] Nova denúncia"); err != nil {
		t.Fatalf("Alert() error = %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(fake.sent))
	}
	if fake.sent[0].ChatID != -100123 || fake.sent[0].Text != "[report.created] Nova denúncia" {
		t.Errorf("sent %+v", fake.sent[0])
	}

	fake.err = errors.New("bad gateway")
	if err := a.Alert(context.Background(), "x"); err == nil {
		t.Error("Alert() should fail when the API fails")
	}
}
