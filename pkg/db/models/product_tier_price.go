package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductTierPrice records the vendor-set price for one blueprint tier of a
// product. Price is nullable: a tier without a recorded price is skipped on
// menu surfaces.
type ProductTierPrice struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID        `gorm:"column:store_id;type:uuid;not null"`
	ProductID uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	TierKey   string           `gorm:"column:tier_key;not null"`
	Price     *decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
