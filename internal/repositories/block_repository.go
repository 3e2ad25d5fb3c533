package repositories

import (
	"context"
	stderrors "errors"

	"github.com/josepguedes/Projeto-2/internal/models"
	"gorm.io/gorm"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// CreateUserBlock inserts a block. The unique pair index turns a repeat into
// a conflict.
func (r *BlockRepository) CreateUserBlock(ctx context.Context, block *models.UserBlock) error {
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		return translate(err, "block")
	}
	return nil
}

func (r *BlockRepository) GetUserBlock(ctx context.Context, id uint) (*models.UserBlock, error) {
	var block models.UserBlock
	if err := r.db.WithContext(ctx).First(&block, id).Error; err != nil {
		return nil, translate(err, "block")
	}
	return &block, nil
}

// FindUserBlock returns the block blocker→blocked, or nil when there is none.
func (r *BlockRepository) FindUserBlock(ctx context.Context, blockerID, blockedID uint) (*models.UserBlock, error) {
	var block models.UserBlock
	err := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		First(&block).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "block")
	}
	return &block, nil
}

func (r *BlockRepository) DeleteUserBlock(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.UserBlock{}, id)
	if result.Error != nil {
		return translate(result.Error, "block")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "block")
	}
	return nil
}

func (r *BlockRepository) ListUserBlocks(ctx context.Context, blockerID uint) ([]models.UserBlock, error) {
	var blocks []models.UserBlock
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Preload("Blocked").
		Order("created_at DESC").
		Find(&blocks).Error
	if err != nil {
		return nil, translate(err, "blocks")
	}
	return blocks, nil
}

// ExistsBetween reports a block in either direction.
func (r *BlockRepository) ExistsBetween(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserBlock{}).
		Where(
			"(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			a, b, b, a,
		).Count(&count).Error
	if err != nil {
		return false, translate(err, "blocks")
	}
	return count > 0, nil
}

func (r *BlockRepository) CreateAdminBlock(ctx context.Context, block *models.AdminBlock) error {
	if err := r.db.WithContext(ctx).Create(block).Error; err != nil {
		return translate(err, "admin block")
	}
	return nil
}

func (r *BlockRepository) GetAdminBlock(ctx context.Context, id uint) (*models.AdminBlock, error) {
	var block models.AdminBlock
	if err := r.db.WithContext(ctx).Preload("User").First(&block, id).Error; err != nil {
		return nil, translate(err, "admin block")
	}
	return &block, nil
}

// AdminBlocksForUser returns every stored admin block of a user, expired ones
// included; the caller decides what is still in force.
func (r *BlockRepository) AdminBlocksForUser(ctx context.Context, userID uint) ([]models.AdminBlock, error) {
	var blocks []models.AdminBlock
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("starts_at DESC").
		Find(&blocks).Error
	if err != nil {
		return nil, translate(err, "admin blocks")
	}
	return blocks, nil
}

func (r *BlockRepository) DeleteAdminBlock(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.AdminBlock{}, id)
	if result.Error != nil {
		return translate(result.Error, "admin block")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "admin block")
	}
	return nil
}

func (r *BlockRepository) ListAdminBlocks(ctx context.Context, p Page) ([]models.AdminBlock, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AdminBlock{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "admin blocks")
	}

	var blocks []models.AdminBlock
	err := query.Preload("User").Order("starts_at DESC").Scopes(paginate(p)).Find(&blocks).Error
	if err != nil {
		return nil, 0, translate(err, "admin blocks")
	}
	return blocks, total, nil
}
