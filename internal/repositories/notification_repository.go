package repositories

import (
	"context"
	"time"

	"github.com/josepguedes/Projeto-2/internal/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores the notification and one delivery row per recipient in a
// single transaction.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification, recipientIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Recipients").Create(n).Error; err != nil {
			return translate(err, "notification")
		}
		if len(recipientIDs) == 0 {
			return nil
		}

		rows := make([]models.NotificationRecipient, 0, len(recipientIDs))
		for _, id := range recipientIDs {
			rows = append(rows, models.NotificationRecipient{NotificationID: n.ID, UserID: id})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return translate(err, "notification recipient")
		}
		n.Recipients = rows
		return nil
	})
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).Preload("Recipients").First(&n, id).Error; err != nil {
		return nil, translate(err, "notification")
	}
	return &n, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notification_id = ?", id).Delete(&models.NotificationRecipient{}).Error; err != nil {
			return translate(err, "notification recipients")
		}
		result := tx.Delete(&models.Notification{}, id)
		if result.Error != nil {
			return translate(result.Error, "notification")
		}
		if result.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "notification")
		}
		return nil
	})
}

func (r *NotificationRepository) List(ctx context.Context, p Page) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "notifications")
	}

	var list []models.Notification
	err := query.Preload("Recipients").Order("created_at DESC").Scopes(paginate(p)).Find(&list).Error
	if err != nil {
		return nil, 0, translate(err, "notifications")
	}
	return list, total, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uint) ([]models.NotificationRecipient, error) {
	var rows []models.NotificationRecipient
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Notification").
		Order("received_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, translate(err, "notifications")
	}
	return rows, nil
}

// Associate delivers an existing notification to one more user.
func (r *NotificationRepository) Associate(ctx context.Context, notificationID, userID uint) (*models.NotificationRecipient, error) {
	row := &models.NotificationRecipient{NotificationID: notificationID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, translate(err, "notification recipient")
	}
	return row, nil
}

func (r *NotificationRepository) GetRecipient(ctx context.Context, id uint) (*models.NotificationRecipient, error) {
	var row models.NotificationRecipient
	if err := r.db.WithContext(ctx).Preload("Notification").First(&row, id).Error; err != nil {
		return nil, translate(err, "notification")
	}
	return &row, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID uint, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.NotificationRecipient{}).
		Where("id = ? AND read_at IS NULL", recipientID).
		Update("read_at", at)
	if result.Error != nil {
		return translate(result.Error, "notification")
	}
	return nil
}
