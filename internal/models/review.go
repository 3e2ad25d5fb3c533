package models

import (
	"time"
)

type Review struct {
	ID        uint      `gorm:"primaryKey" json:"IdAvaliacao"`
	ListingID uint      `gorm:"not null;index:idx_review_listing_author,unique" json:"IdAnuncio"`
	Listing   *Listing  `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"anuncio,omitempty"`
	AuthorID  uint      `gorm:"not null;index:idx_review_listing_author,unique" json:"IdAutor"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"autor,omitempty"`
	SubjectID uint      `gorm:"not null;index" json:"IdAvaliado"`
	Rating    int       `gorm:"not null" json:"Classificacao"`
	Comment   string    `gorm:"type:varchar(255);not null" json:"Comentario"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"DataAvaliacao"`
}

const (
	MinRating = 1
	MaxRating = 5
)

func (Review) TableName() string {
	return "reviews"
}

type Report struct {
	ID         uint      `gorm:"primaryKey" json:"IdDenuncia"`
	ReporterID uint      `gorm:"not null;index" json:"IdUtilizadorDenunciante"`
	Reporter   *User     `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE" json:"denunciante,omitempty"`
	ReportedID uint      `gorm:"not null;index" json:"IdUtilizadorDenunciado"`
	Reported   *User     `gorm:"foreignKey:ReportedID;constraint:OnDelete:CASCADE" json:"denunciado,omitempty"`
	ListingID  *uint     `gorm:"index" json:"IdAnuncio,omitempty"`
	Reason     string    `gorm:"type:varchar(255);not null" json:"Motivo"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"DataDenuncia"`
}

func (Report) TableName() string {
	return "reports"
}
