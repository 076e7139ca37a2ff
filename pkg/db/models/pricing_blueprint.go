package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/enums"
)

// PricingBlueprint defines the ordered weight tiers a product can be priced on.
type PricingBlueprint struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID              `gorm:"column:store_id;type:uuid;not null"`
	Name      string                 `gorm:"column:name;not null"`
	Category  *enums.ProductCategory `gorm:"column:category;type:category"`
	Tiers     []BlueprintTier        `gorm:"foreignKey:BlueprintID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// BlueprintTier is a single weight tier inside a blueprint. TierKey is the
// stable identifier products reference when recording tier prices.
type BlueprintTier struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BlueprintID uuid.UUID       `gorm:"column:blueprint_id;type:uuid;not null"`
	TierKey     string          `gorm:"column:tier_key;not null"`
	Label       string          `gorm:"column:label;not null"`
	GramWeight  decimal.Decimal `gorm:"column:gram_weight;type:numeric(8,2);not null"`
	SortOrder   int             `gorm:"column:sort_order;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
