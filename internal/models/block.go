package models

import (
	"time"
)

// UserBlock is a one-directional block; a row in either direction between two
// users suppresses messaging and reservations between them.
type UserBlock struct {
	ID        uint      `gorm:"primaryKey" json:"IdUtilizadoresBloqueados"`
	BlockerID uint      `gorm:"not null;index:idx_user_block_pair,unique" json:"IdBloqueador"`
	Blocker   *User     `gorm:"foreignKey:BlockerID;constraint:OnDelete:CASCADE" json:"bloqueador,omitempty"`
	BlockedID uint      `gorm:"not null;index:idx_user_block_pair,unique;index" json:"IdBloqueado"`
	Blocked   *User     `gorm:"foreignKey:BlockedID;constraint:OnDelete:CASCADE" json:"bloqueado,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"DataBloqueio"`
}

func (UserBlock) TableName() string {
	return "user_blocks"
}

// AdminBlock suspends a user platform-wide. A nil EndsAt is permanent.
type AdminBlock struct {
	ID        uint       `gorm:"primaryKey" json:"IdAdminBloqueados"`
	UserID    uint       `gorm:"not null;index" json:"IdBloqueado"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"utilizador,omitempty"`
	AdminID   uint       `gorm:"not null" json:"IdAdmin"`
	Reason    string     `gorm:"type:varchar(255)" json:"Motivo,omitempty"`
	StartsAt  time.Time  `gorm:"not null" json:"DataBloqueio"`
	EndsAt    *time.Time `gorm:"index" json:"DataFimBloqueio"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"-"`
}

// ActiveAt reports whether the block is in force at t.
func (b *AdminBlock) ActiveAt(t time.Time) bool {
	return b.EndsAt == nil || b.EndsAt.After(t)
}

func (b *AdminBlock) Permanent() bool {
	return b.EndsAt == nil
}

func (AdminBlock) TableName() string {
	return "admin_blocks"
}
