package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

// PushEnvelope is the frame written to realtime connections.
type PushEnvelope struct {
	Type string      `json:"tipo"`
	Data interface{} `json:"dados"`
}

const (
	PushMessage      = "mensagem"
	PushNotification = "notificacao"
)

func encodePush(kind string, data interface{}) ([]byte, error) {
	return json.Marshal(PushEnvelope{Type: kind, Data: data})
}

type MessageService struct {
	messages MessageStore
	users    UserStore
	blocks   BlockChecker
	pusher   Pusher
}

func NewMessageService(messages MessageStore, users UserStore, blocks BlockChecker, pusher Pusher) *MessageService {
	if pusher == nil {
		pusher = nopPusher{}
	}
	return &MessageService{messages: messages, users: users, blocks: blocks, pusher: pusher}
}

func (s *MessageService) Send(ctx context.Context, actor Actor, recipientID uint, content string) (*models.Message, error) {
	if recipientID == 0 {
		return nil, errors.Validation("IdDestinatario is required")
	}
	if recipientID == actor.UserID {
		return nil, errors.Validation("you cannot send a message to yourself")
	}
	clean := security.SanitizeText(strings.TrimSpace(content))
	if !security.ValidateLength(clean, 1, models.MaxMessageLength) {
		return nil, errors.Validation(fmt.Sprintf("Conteudo must be between 1 and %d characters", models.MaxMessageLength))
	}

	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}
	blocked, err := s.blocks.IsBlocked(ctx, actor.UserID, recipientID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, errors.Forbidden("messages are not allowed between blocked users")
	}

	msg := &models.Message{SenderID: actor.UserID, RecipientID: recipientID, Content: clean}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	payload, err := encodePush(PushMessage, msg)
	if err == nil {
		err = s.pusher.Push(ctx, recipientID, payload)
	}
	if err != nil {
		logger.Warn("Failed to push message", "message_id", msg.ID, "user_id", recipientID, "error", err)
	}

	return msg, nil
}

// Conversation returns the messages exchanged with otherID, oldest first.
func (s *MessageService) Conversation(ctx context.Context, actor Actor, otherID uint, p repositories.Page) ([]models.Message, int64, error) {
	if otherID == 0 {
		return nil, 0, errors.Validation("idDestinatario is required")
	}
	blocked, err := s.blocks.IsBlocked(ctx, actor.UserID, otherID)
	if err != nil {
		return nil, 0, err
	}
	if blocked {
		return nil, 0, errors.Forbidden("this conversation is not available")
	}
	return s.messages.Conversation(ctx, actor.UserID, otherID, p)
}

type ConversationSummary struct {
	Counterpart *models.User   `json:"utilizador"`
	LastMessage models.Message `json:"ultimaMensagem"`
}

// Conversations lists one entry per counterpart with the latest message.
func (s *MessageService) Conversations(ctx context.Context, actor Actor) ([]ConversationSummary, error) {
	latest, err := s.messages.LatestPerCounterpart(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationSummary, 0, len(latest))
	for _, m := range latest {
		other, err := s.users.GetByID(ctx, m.Counterpart(actor.UserID))
		if err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, ConversationSummary{Counterpart: other, LastMessage: m})
	}
	return out, nil
}

// Delete removes a message. Sender only.
func (s *MessageService) Delete(ctx context.Context, actor Actor, id uint) error {
	msg, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if msg.SenderID != actor.UserID {
		return errors.Forbidden("only the sender can delete this message")
	}
	return s.messages.Delete(ctx, id)
}
