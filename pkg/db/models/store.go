package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents the canonical tenant model: a single dispensary storefront.
type Store struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug          string    `gorm:"column:slug;not null;uniqueIndex"`
	Name          string    `gorm:"column:name;not null"`
	Description   *string   `gorm:"column:description"`
	Phone         *string   `gorm:"column:phone"`
	Email         *string   `gorm:"column:email"`
	LicenseNumber *string   `gorm:"column:license_number"`
	Timezone      string    `gorm:"column:timezone;not null;default:'UTC'"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	OwnerID       uuid.UUID `gorm:"column:owner;type:uuid;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
