package services

import (
	"context"
	"time"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type ListingStore interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	Mutate(ctx context.Context, id uint, fn func(*models.Listing) error) (*models.Listing, error)
	DeleteIf(ctx context.Context, id uint, check func(*models.Listing) error) error
	Search(ctx context.Context, f repositories.ListingFilter) ([]models.Listing, int64, error)
	ListByOwner(ctx context.Context, ownerID uint, p repositories.Page) ([]models.Listing, int64, error)
	ListByCategory(ctx context.Context, categoryID uint, p repositories.Page) ([]models.Listing, int64, error)
	ListReservations(ctx context.Context, reserverID *uint, p repositories.Page) ([]models.Listing, int64, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, p repositories.Page) ([]models.User, int64, error)
	Update(ctx context.Context, user *models.User) error
	UpdateRating(ctx context.Context, userID uint, rating *int) error
}

type CategoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type BlockStore interface {
	CreateUserBlock(ctx context.Context, block *models.UserBlock) error
	GetUserBlock(ctx context.Context, id uint) (*models.UserBlock, error)
	FindUserBlock(ctx context.Context, blockerID, blockedID uint) (*models.UserBlock, error)
	DeleteUserBlock(ctx context.Context, id uint) error
	ListUserBlocks(ctx context.Context, blockerID uint) ([]models.UserBlock, error)
	ExistsBetween(ctx context.Context, a, b uint) (bool, error)
	CreateAdminBlock(ctx context.Context, block *models.AdminBlock) error
	GetAdminBlock(ctx context.Context, id uint) (*models.AdminBlock, error)
	AdminBlocksForUser(ctx context.Context, userID uint) ([]models.AdminBlock, error)
	DeleteAdminBlock(ctx context.Context, id uint) error
	ListAdminBlocks(ctx context.Context, p repositories.Page) ([]models.AdminBlock, int64, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	Exists(ctx context.Context, listingID, authorID uint) (bool, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, subjectID *uint, p repositories.Page) ([]models.Review, int64, error)
	AverageFor(ctx context.Context, subjectID uint) (float64, int64, error)
}

type ReportStore interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, f repositories.ReportFilter) ([]models.Report, int64, error)
	All(ctx context.Context) ([]models.Report, error)
}

type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	Delete(ctx context.Context, id uint) error
	Conversation(ctx context.Context, a, b uint, p repositories.Page) ([]models.Message, int64, error)
	LatestPerCounterpart(ctx context.Context, userID uint) ([]models.Message, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification, recipientIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, p repositories.Page) ([]models.Notification, int64, error)
	ListForUser(ctx context.Context, userID uint) ([]models.NotificationRecipient, error)
	Associate(ctx context.Context, notificationID, userID uint) (*models.NotificationRecipient, error)
	GetRecipient(ctx context.Context, id uint) (*models.NotificationRecipient, error)
	MarkRead(ctx context.Context, recipientID uint, at time.Time) error
}

// Pusher delivers a realtime payload to a user's open connections.
type Pusher interface {
	Push(ctx context.Context, userID uint, payload []byte) error
}

type nopPusher struct{}

func (nopPusher) Push(context.Context, uint, []byte) error { return nil }

// publish sends an event and only logs failures; the change it describes has
// already been committed.
func publish(ctx context.Context, p events.Publisher, e events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.Error("Failed to publish event", "type", e.Type, "event_id", e.ID, "error", err)
	}
}
