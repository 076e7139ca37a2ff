package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/enums"
)

// Product represents the canonical menu listing.
type Product struct {
	ID             uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID        uuid.UUID                    `gorm:"column:store_id;type:uuid;not null"`
	SKU            string                       `gorm:"column:sku;not null"`
	Title          string                       `gorm:"column:title;not null"`
	Subtitle       *string                      `gorm:"column:subtitle"`
	Category       *enums.ProductCategory       `gorm:"column:category;type:category"`
	Strain         *string                      `gorm:"column:strain"`
	Classification *enums.ProductClassification `gorm:"column:classification;type:classification"`
	Unit           enums.ProductUnit            `gorm:"column:unit;type:unit;not null;default:'gram'"`
	RegularPrice   *decimal.Decimal             `gorm:"column:regular_price;type:numeric(12,2)"`
	CurrentPrice   *decimal.Decimal             `gorm:"column:current_price;type:numeric(12,2)"`
	BlueprintID    *uuid.UUID                   `gorm:"column:blueprint_id;type:uuid"`
	Blueprint      *PricingBlueprint            `gorm:"foreignKey:BlueprintID"`
	TierPrices     []ProductTierPrice           `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	IsActive       bool                         `gorm:"column:is_active;not null;default:true"`
	IsFeatured     bool                         `gorm:"column:is_featured;not null;default:false"`
	THCPercent     *float64                     `gorm:"column:thc_percent;type:numeric(5,2)"`
	CBDPercent     *float64                     `gorm:"column:cbd_percent;type:numeric(5,2)"`
	CreatedAt      time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}
