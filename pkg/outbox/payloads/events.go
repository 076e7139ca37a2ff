package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/stashline/stashline-backend/pkg/enums"
)

// PromotionChangedEvent is emitted on promotion create/update/delete so menu
// surfaces (storefront, TV displays) can refresh their pricing.
type PromotionChangedEvent struct {
	PromotionID   uuid.UUID            `json:"promotion_id"`
	StoreID       uuid.UUID            `json:"store_id"`
	Name          string               `json:"name"`
	Scope         enums.PromotionScope `json:"scope"`
	DiscountType  enums.DiscountType   `json:"discount_type"`
	DiscountValue string               `json:"discount_value"`
	IsActive      bool                 `json:"is_active"`
}

// PromotionExpiredEvent reports a promotion deactivated by the expiry job.
type PromotionExpiredEvent struct {
	PromotionID uuid.UUID `json:"promotion_id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	EndTime     time.Time `json:"end_time"`
	ExpiredAt   time.Time `json:"expired_at"`
}

// ProductPriceChangedEvent signals that a product's base or tier pricing moved.
type ProductPriceChangedEvent struct {
	ProductID uuid.UUID `json:"product_id"`
	StoreID   uuid.UUID `json:"store_id"`
	SKU       string    `json:"sku"`
}

// MenuRefreshRequiredEvent asks all menu surfaces for a store to re-render.
type MenuRefreshRequiredEvent struct {
	StoreID uuid.UUID `json:"store_id"`
	Reason  string    `json:"reason"`
}
