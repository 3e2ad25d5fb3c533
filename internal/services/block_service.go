package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/josepguedes/Projeto-2/internal/events"
	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/pkg/errors"
	"github.com/josepguedes/Projeto-2/pkg/logger"
)

type BlockService struct {
	blocks    BlockStore
	users     UserStore
	publisher events.Publisher
	now       func() time.Time
}

func NewBlockService(blocks BlockStore, users UserStore, publisher events.Publisher) *BlockService {
	return &BlockService{
		blocks:    blocks,
		users:     users,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock replaces the time source used for admin block expiry.
func (s *BlockService) WithClock(now func() time.Time) *BlockService {
	s.now = now
	return s
}

// IsBlocked reports whether either user has blocked the other.
func (s *BlockService) IsBlocked(ctx context.Context, a, b uint) (bool, error) {
	if a == b {
		return false, nil
	}
	return s.blocks.ExistsBetween(ctx, a, b)
}

func (s *BlockService) BlockUser(ctx context.Context, actor Actor, targetID uint) (*models.UserBlock, error) {
	if targetID == 0 {
		return nil, errors.Validation("IdBloqueado is required")
	}
	if targetID == actor.UserID {
		return nil, errors.Validation("you cannot block yourself")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	existing, err := s.blocks.FindUserBlock(ctx, actor.UserID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Conflict("user is already blocked")
	}

	block := &models.UserBlock{BlockerID: actor.UserID, BlockedID: targetID}
	if err := s.blocks.CreateUserBlock(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

// UnblockUser removes a block. Only the user who created it may do so.
func (s *BlockService) UnblockUser(ctx context.Context, actor Actor, blockID uint) error {
	block, err := s.blocks.GetUserBlock(ctx, blockID)
	if err != nil {
		return err
	}
	if block.BlockerID != actor.UserID {
		return errors.Forbidden("only the user who created the block can remove it")
	}
	return s.blocks.DeleteUserBlock(ctx, blockID)
}

func (s *BlockService) ListUserBlocks(ctx context.Context, actor Actor) ([]models.UserBlock, error) {
	return s.blocks.ListUserBlocks(ctx, actor.UserID)
}

type BlockStatus struct {
	BlockedByMe bool `json:"bloqueadoPorMim"`
	BlockedMe   bool `json:"bloqueouMe"`
	Blocked     bool `json:"bloqueado"`
}

// CheckUserBlock reports the block relation between actor and otherID in both directions.
func (s *BlockService) CheckUserBlock(ctx context.Context, actor Actor, otherID uint) (*BlockStatus, error) {
	mine, err := s.blocks.FindUserBlock(ctx, actor.UserID, otherID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.blocks.FindUserBlock(ctx, otherID, actor.UserID)
	if err != nil {
		return nil, err
	}
	st := &BlockStatus{BlockedByMe: mine != nil, BlockedMe: theirs != nil}
	st.Blocked = st.BlockedByMe || st.BlockedMe
	return st, nil
}

type AdminBlockInput struct {
	UserID uint
	Reason string
	// EndsAt nil means the block never expires.
	EndsAt *time.Time
}

func (s *BlockService) AdminBlock(ctx context.Context, actor Actor, in AdminBlockInput) (*models.AdminBlock, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required")
	}
	if in.UserID == 0 {
		return nil, errors.Validation("IdBloqueado is required")
	}
	now := s.now()
	if in.EndsAt != nil && !in.EndsAt.After(now) {
		return nil, errors.Validation("DataFimBloqueio must be in the future")
	}

	target, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() {
		return nil, errors.Forbidden("administrators cannot be blocked")
	}

	active, err := s.ActiveAdminBlock(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, errors.Conflict("user already has an active block")
	}

	block := &models.AdminBlock{
		UserID:   in.UserID,
		AdminID:  actor.UserID,
		Reason:   security.SanitizeText(strings.TrimSpace(in.Reason)),
		StartsAt: now,
		EndsAt:   in.EndsAt,
	}
	if err := s.blocks.CreateAdminBlock(ctx, block); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, events.New(events.UserAdminBlocked, actor.UserID, target.ID,
		"A sua conta foi bloqueada "+describeUntil(block.EndsAt)+".", target.ID))

	return block, nil
}

func (s *BlockService) RemoveAdminBlock(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return errors.Forbidden("admin access required")
	}
	if _, err := s.blocks.GetAdminBlock(ctx, id); err != nil {
		return err
	}
	return s.blocks.DeleteAdminBlock(ctx, id)
}

func (s *BlockService) GetAdminBlock(ctx context.Context, actor Actor, id uint) (*models.AdminBlock, error) {
	if !actor.IsAdmin() {
		return nil, errors.Forbidden("admin access required")
	}
	return s.blocks.GetAdminBlock(ctx, id)
}

func (s *BlockService) ListAdminBlocks(ctx context.Context, actor Actor, p repositories.Page) ([]models.AdminBlock, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errors.Forbidden("admin access required")
	}
	return s.blocks.ListAdminBlocks(ctx, p)
}

// CheckAdminBlock returns the active admin block of userID, or nil. Users may
// only check themselves.
func (s *BlockService) CheckAdminBlock(ctx context.Context, actor Actor, userID uint) (*models.AdminBlock, error) {
	if actor.UserID != userID && !actor.IsAdmin() {
		return nil, errors.Forbidden("you can only check your own account")
	}
	return s.ActiveAdminBlock(ctx, userID)
}

// ActiveAdminBlock returns the block currently in force for userID, if any.
// Expired rows found along the way are deleted.
func (s *BlockService) ActiveAdminBlock(ctx context.Context, userID uint) (*models.AdminBlock, error) {
	blocks, err := s.blocks.AdminBlocksForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var active *models.AdminBlock
	for i := range blocks {
		b := &blocks[i]
		if b.ActiveAt(now) {
			if active == nil {
				active = b
			}
			continue
		}
		if err := s.blocks.DeleteAdminBlock(ctx, b.ID); err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
			logger.Warn("Failed to delete expired admin block", "block_id", b.ID, "error", err)
		}
	}
	return active, nil
}

func (s *BlockService) IsAdminBlocked(ctx context.Context, userID uint) (bool, error) {
	b, err := s.ActiveAdminBlock(ctx, userID)
	return b != nil, err
}

func describeUntil(end *time.Time) string {
	if end == nil {
		return "permanentemente"
	}
	return fmt.Sprintf("até %s", end.Format("2006-01-02 15:04"))
}
