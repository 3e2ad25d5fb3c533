package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"IdUtilizador"`
	Name         string     `gorm:"type:varchar(255);not null" json:"Nome"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"Email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	NIF          *string    `gorm:"type:varchar(9);uniqueIndex" json:"Nif,omitempty"`
	BirthDate    *time.Time `gorm:"type:date" json:"DataNascimento,omitempty"`
	Rating       *int       `json:"Classificacao"` // rounded average of received reviews
	Role         string     `gorm:"type:varchar(10);not null;default:'user'" json:"Funcao"`
	ProfileImage string     `gorm:"type:varchar(500)" json:"ImagemPerfil,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"DataRegisto"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"-"`
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeSave hook for validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Role != RoleUser && u.Role != RoleAdmin {
		return gorm.ErrInvalidData
	}
	if u.Email == "" || u.Name == "" {
		return gorm.ErrInvalidData
	}
	if u.Rating != nil && (*u.Rating < 0 || *u.Rating > 5) {
		return gorm.ErrInvalidData
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
