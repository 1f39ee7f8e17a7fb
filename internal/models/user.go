package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity record. Emails are stored lowercase; the unique
// index is the backstop for concurrent registrations with the same email.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
