package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/enums"
)

// Promotion is a vendor-configured discount. Targeting fields are interpreted
// per Scope: ProductIDs for product scope, Categories for category scope,
// TierKeys or the gram bounds for tier scope. Schedule fields are all
// optional; an absent bound means no restriction.
type Promotion struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID        uuid.UUID            `gorm:"column:store_id;type:uuid;not null"`
	Name           string               `gorm:"column:name;not null"`
	Scope          enums.PromotionScope `gorm:"column:scope;type:promotion_scope;not null"`
	DiscountType   enums.DiscountType   `gorm:"column:discount_type;type:discount_type;not null"`
	DiscountValue  decimal.Decimal      `gorm:"column:discount_value;type:numeric(12,2);not null"`
	ProductIDs     pq.StringArray       `gorm:"column:product_ids;type:text[];default:ARRAY[]::text[]"`
	Categories     pq.StringArray       `gorm:"column:categories;type:text[];default:ARRAY[]::text[]"`
	TierKeys       pq.StringArray       `gorm:"column:tier_keys;type:text[];default:ARRAY[]::text[]"`
	MinGrams       *decimal.Decimal     `gorm:"column:min_grams;type:numeric(8,2)"`
	MaxGrams       *decimal.Decimal     `gorm:"column:max_grams;type:numeric(8,2)"`
	BadgeText      *string              `gorm:"column:badge_text"`
	BadgeColor     *string              `gorm:"column:badge_color"`
	Priority       int                  `gorm:"column:priority;not null;default:0"`
	IsActive       bool                 `gorm:"column:is_active;not null;default:true"`
	StartTime      *time.Time           `gorm:"column:start_time"`
	EndTime        *time.Time           `gorm:"column:end_time"`
	DaysOfWeek     pq.Int64Array        `gorm:"column:days_of_week;type:integer[]"`
	TimeOfDayStart *string              `gorm:"column:time_of_day_start"`
	TimeOfDayEnd   *string              `gorm:"column:time_of_day_end"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
