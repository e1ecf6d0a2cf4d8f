package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review - отзыв клиента. AuthorName и Avatar - снимок автора на момент
// создания, а не join к users: если автор потом переименуется,
// отзыв остается историческим фактом.
type Review struct {
	BaseModel
	AuthorID        string       `gorm:"not null;index"`
	AuthorName      string       `gorm:"not null"`
	Avatar          string
	Rating          int          `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Body            string       `gorm:"type:text;not null"`
	ProjectName     string
	Company         string
	Position        string
	WorkDescription string       `gorm:"type:text"`
	Status          ReviewStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	DenialReason    *string
	Featured        bool         `gorm:"not null;default:false"`

	// Relations
	Comments []ReviewComment `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

// ReviewComment - запись в треде модерации отзыва.
// AuthorRole тоже снимок: кем был автор в момент комментария.
type ReviewComment struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ReviewID   string    `gorm:"not null;index"`
	AuthorID   string    `gorm:"not null"`
	AuthorName string    `gorm:"not null"`
	AuthorRole UserRole  `gorm:"type:varchar(20);not null"`
	Body       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

func (c *ReviewComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

