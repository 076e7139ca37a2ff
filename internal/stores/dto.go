package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/stashline/stashline-backend/pkg/db/models"
)

// StoreDTO exposes safe tenant data in API responses.
type StoreDTO struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	LicenseNumber *string   `json:"license_number,omitempty"`
	Timezone      string    `json:"timezone"`
	IsActive      bool      `json:"is_active"`
	OwnerID       uuid.UUID `json:"owner"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}

	return &StoreDTO{
		ID:            m.ID,
		Slug:          m.Slug,
		Name:          m.Name,
		Description:   m.Description,
		Phone:         m.Phone,
		Email:         m.Email,
		LicenseNumber: m.LicenseNumber,
		Timezone:      m.Timezone,
		IsActive:      m.IsActive,
		OwnerID:       m.OwnerID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
