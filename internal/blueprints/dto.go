package blueprints

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/db/models"
)

// BlueprintDTO is the API representation of a pricing blueprint.
type BlueprintDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	Tiers     []TierDTO `json:"tiers"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TierDTO is one weight tier inside a blueprint.
type TierDTO struct {
	TierKey    string          `json:"tier_key"`
	Label      string          `json:"label"`
	GramWeight decimal.Decimal `json:"gram_weight"`
	SortOrder  int             `json:"sort_order"`
}

// NewBlueprintDTO maps the persistence model onto the API shape.
func NewBlueprintDTO(blueprint *models.PricingBlueprint) *BlueprintDTO {
	if blueprint == nil {
		return nil
	}
	dto := &BlueprintDTO{
		ID:        blueprint.ID,
		StoreID:   blueprint.StoreID,
		Name:      blueprint.Name,
		Tiers:     make([]TierDTO, 0, len(blueprint.Tiers)),
		CreatedAt: blueprint.CreatedAt,
		UpdatedAt: blueprint.UpdatedAt,
	}
	if blueprint.Category != nil {
		category := blueprint.Category.String()
		dto.Category = &category
	}
	for _, tier := range blueprint.Tiers {
		dto.Tiers = append(dto.Tiers, TierDTO{
			TierKey:    tier.TierKey,
			Label:      tier.Label,
			GramWeight: tier.GramWeight,
			SortOrder:  tier.SortOrder,
		})
	}
	return dto
}
