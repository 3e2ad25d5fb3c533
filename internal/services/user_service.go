package services

import (
	"context"
	"strings"
	"time"

	"github.com/josepguedes/Projeto-2/internal/models"
	"github.com/josepguedes/Projeto-2/internal/repositories"
	"github.com/josepguedes/Projeto-2/internal/security"
	"github.com/josepguedes/Projeto-2/pkg/errors"
)

// AdminBlockLookup finds the admin block currently in force for a user.
type AdminBlockLookup interface {
	ActiveAdminBlock(ctx context.Context, userID uint) (*models.AdminBlock, error)
}

type UserService struct {
	users     UserStore
	blocks    AdminBlockLookup
	jwtSecret string
	tokenTTL  time.Duration
}

func NewUserService(users UserStore, blocks AdminBlockLookup, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{users: users, blocks: blocks, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := security.SanitizeText(strings.TrimSpace(in.Name))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" || email == "" || in.Password == "" {
		return nil, errors.Validation("Nome, Email and Password are required")
	}
	if !security.ValidateEmail(email) {
		return nil, errors.Validation("invalid email address")
	}
	if len(in.Password) < security.MinPasswordLength {
		return nil, errors.Validation("password must be at least 6 characters")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, errors.Conflict("email is already registered")
	} else if !errors.Is(err, errors.ErrCodeNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, errors.Internal(err, "failed to hash password")
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleUser}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and the admin block, then issues a token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, errors.Validation("Email and Password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return "", nil, errors.Unauthorized("invalid email or password")
		}
		return "", nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return "", nil, errors.Unauthorized("invalid email or password")
	}

	block, err := s.blocks.ActiveAdminBlock(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	if block != nil {
		return "", nil, errors.Forbidden(BlockedMessage(block))
	}

	token, err := security.GenerateJWT(user.ID, user.Email, user.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, errors.Internal(err, "failed to issue token")
	}
	return token, user, nil
}

// BlockedMessage describes an admin block to the blocked user.
func BlockedMessage(b *models.AdminBlock) string {
	if b.Permanent() {
		return "account is blocked permanently"
	}
	return "account is blocked until " + b.EndsAt.Format(time.RFC3339)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, p repositories.Page) ([]models.User, int64, error) {
	return s.users.List(ctx, p)
}

// UserPatch carries a profile edit; nil fields are left alone.
type UserPatch struct {
	Name         *string
	Email        *string
	Password     *string
	NIF          *string
	BirthDate    *string
	ProfileImage *string
	Role         *string
}

// Update edits a profile. The user themselves or an admin; only admins change roles.
func (s *UserService) Update(ctx context.Context, actor Actor, id uint, p UserPatch) (*models.User, error) {
	if actor.UserID != id && !actor.IsAdmin() {
		return nil, errors.Forbidden("you can only edit your own profile")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		name := security.SanitizeText(strings.TrimSpace(*p.Name))
		if name == "" {
			return nil, errors.Validation("Nome cannot be empty")
		}
		user.Name = name
	}
	if p.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*p.Email))
		if !security.ValidateEmail(email) {
			return nil, errors.Validation("invalid email address")
		}
		if email != user.Email {
			if other, err := s.users.GetByEmail(ctx, email); err == nil && other.ID != user.ID {
				return nil, errors.Conflict("email is already registered")
			} else if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if p.Password != nil {
		if len(*p.Password) < security.MinPasswordLength {
			return nil, errors.Validation("password must be at least 6 characters")
		}
		hash, err := security.HashPassword(*p.Password)
		if err != nil {
			return nil, errors.Internal(err, "failed to hash password")
		}
		user.PasswordHash = hash
	}
	if p.NIF != nil {
		nif := strings.TrimSpace(*p.NIF)
		if nif == "" {
			user.NIF = nil
		} else if !security.ValidateNIF(nif) {
			return nil, errors.Validation("Nif must have 9 digits")
		} else {
			user.NIF = &nif
		}
	}
	if p.BirthDate != nil {
		if *p.BirthDate == "" {
			user.BirthDate = nil
		} else {
			d, err := parseDate("DataNascimento", *p.BirthDate)
			if err != nil {
				return nil, err
			}
			user.BirthDate = &d
		}
	}
	if p.ProfileImage != nil {
		user.ProfileImage = strings.TrimSpace(*p.ProfileImage)
	}
	if p.Role != nil {
		if !actor.IsAdmin() {
			return nil, errors.Forbidden("only admins can change roles")
		}
		if *p.Role != models.RoleUser && *p.Role != models.RoleAdmin {
			return nil, errors.Validation("Funcao must be user or admin")
		}
		user.Role = *p.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
