package events

import (
	"context"
	stderrors "errors"
	"fmt"
)

type Notifier interface {
	Notify(ctx context.Context, userID uint, message string) error
}

type Alerter interface {
	Alert(ctx context.Context, text string) error
}

// Dispatcher turns events into user notifications and moderator alerts.
type Dispatcher struct {
	notifier Notifier
	alerter  Alerter
}

func NewDispatcher(notifier Notifier, alerter Alerter) *Dispatcher {
	return &Dispatcher{notifier: notifier, alerter: alerter}
}

var moderationEvents = map[string]bool{
	ReportCreated:    true,
	UserAdminBlocked: true,
}

func (d *Dispatcher) Handle(ctx context.Context, e Event) error {
	var errs []error

	for _, userID := range e.Recipients {
		if err := d.notifier.Notify(ctx, userID, e.Message); err != nil {
			errs = append(errs, fmt.Errorf("notify user %d: %w", userID, err))
		}
	}

	if moderationEvents[e.Type] && d.alerter != nil {
		text := fmt.Sprintf("[%s] %s", e.Type, e.Message)
		if err := d.alerter.Alert(ctx, text); err != nil {
			errs = append(errs, fmt.Errorf("alert: %w", err))
		}
	}

	return stderrors.Join(errs...)
}
