package models

import (
	"time"

	"github.com/google/uuid"
)

// Todo belongs to exactly one user. Latitude and longitude are either
// both set or both NULL; PhotoURI points at an object in the image store.
type Todo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Title     string    `gorm:"size:500;not null" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Latitude  *float64  `json:"-"`
	Longitude *float64  `json:"-"`
	PhotoURI  *string   `gorm:"type:text" json:"photoUri,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
