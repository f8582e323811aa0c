package model

import (
	"time"

	"github.com/google/uuid"
)

// UserCategory joins a user to a category they are interested in.
type UserCategory struct {
	UserID     uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:char(36);primaryKey;index"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Category Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}
