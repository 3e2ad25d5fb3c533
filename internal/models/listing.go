package models

import (
	"time"

	"gorm.io/gorm"
)

// ListingState is the lifecycle position of a listing. The numeric values are
// part of the public API.
type ListingState int

const (
	ListingAvailable ListingState = 1
	ListingReserved  ListingState = 2
	ListingCompleted ListingState = 3
)

func (s ListingState) Valid() bool {
	return s == ListingAvailable || s == ListingReserved || s == ListingCompleted
}

func (s ListingState) String() string {
	switch s {
	case ListingAvailable:
		return "available"
	case ListingReserved:
		return "reserved"
	case ListingCompleted:
		return "completed"
	}
	return "unknown"
}

type Listing struct {
	ID               uint         `gorm:"primaryKey" json:"IdAnuncio"`
	OwnerID          uint         `gorm:"not null;index" json:"IdUtilizadorAnuncio"`
	Owner            *User        `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"utilizador,omitempty"`
	ReservedByID     *uint        `gorm:"index" json:"IdUtilizadorReserva"`
	ReservedBy       *User        `gorm:"foreignKey:ReservedByID;constraint:OnDelete:SET NULL" json:"reservador,omitempty"`
	ReservedAt       *time.Time   `json:"DataReserva"`
	VerificationCode *string      `gorm:"type:varchar(8)" json:"CodigoVerificacao,omitempty"`
	Name             string       `gorm:"type:varchar(255);not null" json:"Nome"`
	Description      string       `gorm:"type:text" json:"Descricao"`
	Price            float64      `gorm:"type:decimal(10,2);not null" json:"Preco"`
	Quantity         int          `gorm:"not null" json:"Quantidade"`
	PickupLocation   string       `gorm:"type:varchar(255);not null" json:"LocalRecolha"`
	PickupWindow     string       `gorm:"type:varchar(100);not null" json:"HorarioRecolha"`
	PickupDate       time.Time    `gorm:"type:date;not null;index" json:"DataRecolha"`
	ExpiresOn        time.Time    `gorm:"type:date;not null" json:"DataValidade"`
	CategoryID       uint         `gorm:"not null;index" json:"IdProdutoCategoria"`
	Category         *Category    `gorm:"foreignKey:CategoryID" json:"categoria,omitempty"`
	State            ListingState `gorm:"not null;default:1;index" json:"IdEstadoAnuncio"`
	ImageURL         string       `gorm:"type:varchar(500)" json:"ImagemAnuncio,omitempty"`
	CompletedByID    *uint        `gorm:"index" json:"IdUtilizadorRecolha,omitempty"`
	CompletedAt      *time.Time   `json:"DataRecolhido,omitempty"`
	CreatedAt        time.Time    `gorm:"autoCreateTime" json:"DataAnuncio"`
	UpdatedAt        time.Time    `gorm:"autoUpdateTime" json:"-"`
}

// ReservationConsistent reports whether the reservation fields agree with the
// state: all set while Reserved, all empty otherwise.
func (l *Listing) ReservationConsistent() bool {
	set := l.ReservedByID != nil && l.ReservedAt != nil && l.VerificationCode != nil
	empty := l.ReservedByID == nil && l.ReservedAt == nil && l.VerificationCode == nil

	if l.State == ListingReserved {
		return set
	}
	return empty
}

// Complete closes the listing and moves the reserver into the pickup record.
func (l *Listing) Complete(at time.Time) {
	l.CompletedByID = l.ReservedByID
	l.CompletedAt = &at
	l.State = ListingCompleted
	l.ReservedByID = nil
	l.ReservedAt = nil
	l.VerificationCode = nil
}

// ClearReservation puts the listing back on the market.
func (l *Listing) ClearReservation() {
	l.State = ListingAvailable
	l.ReservedByID = nil
	l.ReservedAt = nil
	l.VerificationCode = nil
}

// IsParty reports whether userID is the owner, the current reserver or the
// user who picked the listing up.
func (l *Listing) IsParty(userID uint) bool {
	if l.OwnerID == userID || l.IsReserver(userID) {
		return true
	}
	return l.CompletedByID != nil && *l.CompletedByID == userID
}

func (l *Listing) IsReserver(userID uint) bool {
	return l.ReservedByID != nil && *l.ReservedByID == userID
}

// Redacted returns a copy without the verification code unless the viewer is
// the reserver or an admin.
func (l Listing) Redacted(viewerID uint, viewerIsAdmin bool) Listing {
	if viewerIsAdmin || l.IsReserver(viewerID) {
		return l
	}
	l.VerificationCode = nil
	return l
}

// BeforeSave hook for validation
func (l *Listing) BeforeSave(tx *gorm.DB) error {
	if !l.State.Valid() {
		return gorm.ErrInvalidData
	}
	if l.Price < 0 || l.Quantity < 0 {
		return gorm.ErrInvalidData
	}
	if !l.ReservationConsistent() {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Listing) TableName() string {
	return "listings"
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"IdProdutoCategoria"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"NomeCategoria"`
}

func (Category) TableName() string {
	return "categories"
}

// DefaultCategories are seeded into an empty database.
var DefaultCategories = []string{
	"Frutas",
	"Legumes",
	"Padaria",
	"Laticínios",
	"Carne",
	"Peixe",
	"Refeições Prontas",
	"Mercearia",
	"Bebidas",
	"Outros",
}
