package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note represents a note owned by a single user.
type Note struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"uniqueIndex;size:255;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	UserID    uuid.UUID `json:"user" gorm:"type:char(36);not null;index"`
	Completed bool      `json:"completed" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
