package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is an embeddable base with an auto-increment key and timestamps.
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UUIDModel is an embeddable base keyed by a client- or hook-generated UUID.
type UUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID if not already set.
func (m *UUIDModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
