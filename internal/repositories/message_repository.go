package repositories

import (
	"context"

	"github.com/josepguedes/Projeto-2/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return translate(err, "message")
	}
	return nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, translate(err, "message")
	}
	return &msg, nil
}

func (r *MessageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Message{}, id)
	if result.Error != nil {
		return translate(result.Error, "message")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "message")
	}
	return nil
}

// Conversation returns the messages exchanged by a and b, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, a, b uint, p Page) ([]models.Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Message{}).
		Where(
			"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			a, b, b, a,
		).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "messages")
	}

	var messages []models.Message
	err := query.Order("sent_at ASC, id ASC").Scopes(paginate(p)).Find(&messages).Error
	if err != nil {
		return nil, 0, translate(err, "messages")
	}
	return messages, total, nil
}

// LatestPerCounterpart returns, for each user userID has exchanged messages
// with, the most recent message between them.
func (r *MessageRepository) LatestPerCounterpart(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (LEAST(sender_id, recipient_id), GREATEST(sender_id, recipient_id)) *
		FROM messages
		WHERE sender_id = ? OR recipient_id = ?
		ORDER BY LEAST(sender_id, recipient_id), GREATEST(sender_id, recipient_id), sent_at DESC, id DESC`,
		userID, userID,
	).Scan(&messages).Error
	if err != nil {
		return nil, translate(err, "conversations")
	}
	return messages, nil
}
