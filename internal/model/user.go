package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a storefront account. A user is created unverified with a pending
// verification code; the code is cleared once the email is verified.
type User struct {
	ID               uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Email            string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name             string     `json:"name" gorm:"size:255;not null"`
	PasswordHash     string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	VerificationCode *string    `json:"-" gorm:"size:8"`
	CodeIssuedAt     *time.Time `json:"-"`
	Verified         bool       `json:"verified" gorm:"default:false;index"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	Interests []UserCategory `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPendingCode reports whether a verification code is awaiting submission.
func (u *User) HasPendingCode() bool {
	return u.VerificationCode != nil && *u.VerificationCode != ""
}

// CodeExpired reports whether the pending code is older than ttl at now.
// A non-positive ttl disables expiry.
func (u *User) CodeExpired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 || u.CodeIssuedAt == nil {
		return false
	}
	return now.After(u.CodeIssuedAt.Add(ttl))
}
