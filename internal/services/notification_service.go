package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

const maxNotificationLength = 255

type NotificationService struct {
	notifications NotificationStore
	users         UserStore
	pusher        Pusher
	now           func() time.Time
}

func NewNotificationService(notifications NotificationStore, users UserStore, pusher Pusher) *NotificationService {
	if pusher == nil {
		pusher = nopPusher{}
	}
	return &NotificationService{notifications: notifications, users: users, pusher: pusher, now: time.Now}
}

// Create stores an admin notification for recipients and pushes it to them.
func (s *NotificationService) Create(ctx context.Context, actor Actor, message string, recipients []uint) (*models.Notification, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required")
	}
	return s.create(ctx, message, recipients)
}

// Notify delivers a system notification to a single user.
func (s *NotificationService) Notify(ctx context.Context, userID uint, message string) error {
	_, err := s.create(ctx, message, []uint{userID})
	return err
}

func (s *NotificationService) create(ctx context.Context, message string, recipients []uint) (*models.Notification, error) {
	text := security.SanitizeText(strings.TrimSpace(message))
	if !security.ValidateLength(text, 1, maxNotificationLength) {
		return nil, errors.Validation(fmt.Sprintf("Mensagem must be between 1 and %d characters", maxNotificationLength))
	}

	ids := uniqueIDs(recipients)
	if len(ids) == 0 {
		return nil, errors.Validation("at least one recipient is required")
	}
	for _, id := range ids {
		if _, err := s.users.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	n := &models.Notification{Message: text}
	if err := s.notifications.Create(ctx, n, ids); err != nil {
		return nil, err
	}

	for _, r := range n.Recipients {
		s.push(ctx, r.UserID, n, r)
	}
	return n, nil
}

func (s *NotificationService) push(ctx context.Context, userID uint, n *models.Notification, r models.NotificationRecipient) {
	r.Notification = &models.Notification{ID: n.ID, Message: n.Message, CreatedAt: n.CreatedAt}
	payload, err := encodePush(PushNotification, r)
	if err == nil {
		err = s.pusher.Push(ctx, userID, payload)
	}
	if err != nil {
		logger.Warn("Failed to push notification", "notification_id", n.ID, "user_id", userID, "error", err)
	}
}

func (s *NotificationService) ListMine(ctx context.Context, actor Actor) ([]models.NotificationRecipient, error) {
	return s.notifications.ListForUser(ctx, actor.UserID)
}

// MarkRead marks one delivery row as read. Only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, recipientID uint) (*models.NotificationRecipient, error) {
	row, err := s.notifications.GetRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if row.UserID != actor.UserID {
		return nil, errors.Forbidden("this notification belongs to another user")
	}
	if row.ReadAt != nil {
		return row, nil
	}

	now := s.now()
	if err := s.notifications.MarkRead(ctx, recipientID, now); err != nil {
		return nil, err
	}
	row.ReadAt = &now
	return row, nil
}

func (s *NotificationService) List(ctx context.Context, actor Actor, p repositories.Page) ([]models.Notification, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errors.Forbidden("admin access required")
	}
	return s.notifications.List(ctx, p)
}

func (s *NotificationService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("admin access required")
	}
	return s.notifications.Delete(ctx, id)
}

// Associate delivers an existing notification to another user.
func (s *NotificationService) Associate(ctx context.Context, actor Actor, notificationID, userID uint) (*models.NotificationRecipient, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required")
	}
	n, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	row, err := s.notifications.Associate(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}
	s.push(ctx, userID, n, *row)
	return row, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
