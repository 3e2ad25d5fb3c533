package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	ListingReserved  = "listing.reserved"
	ListingCancelled = "listing.cancelled"
	ListingCompleted = "listing.completed"
	ReportCreated    = "report.created"
	UserAdminBlocked = "user.admin_blocked"
)

// SubjectPrefix is prepended to the event type to form the NATS subject.
const SubjectPrefix = "foodshare.events."

// Event is a fact about the domain, published after the change committed.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	ActorID    uint      `json:"actorId"`
	SubjectID  uint      `json:"subjectId"`
	Recipients []uint    `json:"recipients,omitempty"`
	Message    string    `json:"message"`
}

func New(eventType string, actorID, subjectID uint, message string, recipients ...uint) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		ActorID:    actorID,
		SubjectID:  subjectID,
		Recipients: recipients,
		Message:    message,
	}
}

func (e Event) Subject() string {
	return SubjectPrefix + e.Type
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error {
	return f(ctx, e)
}
