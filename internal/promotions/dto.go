package promotions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/db/models"
)

// PromotionDTO is the API representation of a promotion.
type PromotionDTO struct {
	ID             uuid.UUID        `json:"id"`
	StoreID        uuid.UUID        `json:"store_id"`
	Name           string           `json:"name"`
	Scope          string           `json:"scope"`
	DiscountType   string           `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	ProductIDs     []string         `json:"product_ids,omitempty"`
	Categories     []string         `json:"categories,omitempty"`
	TierKeys       []string         `json:"tier_keys,omitempty"`
	MinGrams       *decimal.Decimal `json:"min_grams,omitempty"`
	MaxGrams       *decimal.Decimal `json:"max_grams,omitempty"`
	BadgeText      *string          `json:"badge_text,omitempty"`
	BadgeColor     *string          `json:"badge_color,omitempty"`
	Priority       int              `json:"priority"`
	IsActive       bool             `json:"is_active"`
	StartTime      *time.Time       `json:"start_time,omitempty"`
	EndTime        *time.Time       `json:"end_time,omitempty"`
	DaysOfWeek     []int64          `json:"days_of_week,omitempty"`
	TimeOfDayStart *string          `json:"time_of_day_start,omitempty"`
	TimeOfDayEnd   *string          `json:"time_of_day_end,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewPromotionDTO maps the persistence model onto the API shape.
func NewPromotionDTO(promo *models.Promotion) *PromotionDTO {
	if promo == nil {
		return nil
	}
	return &PromotionDTO{
		ID:             promo.ID,
		StoreID:        promo.StoreID,
		Name:           promo.Name,
		Scope:          promo.Scope.String(),
		DiscountType:   promo.DiscountType.String(),
		DiscountValue:  promo.DiscountValue,
		ProductIDs:     append([]string(nil), promo.ProductIDs...),
		Categories:     append([]string(nil), promo.Categories...),
		TierKeys:       append([]string(nil), promo.TierKeys...),
		MinGrams:       promo.MinGrams,
		MaxGrams:       promo.MaxGrams,
		BadgeText:      promo.BadgeText,
		BadgeColor:     promo.BadgeColor,
		Priority:       promo.Priority,
		IsActive:       promo.IsActive,
		StartTime:      promo.StartTime,
		EndTime:        promo.EndTime,
		DaysOfWeek:     append([]int64(nil), promo.DaysOfWeek...),
		TimeOfDayStart: promo.TimeOfDayStart,
		TimeOfDayEnd:   promo.TimeOfDayEnd,
		CreatedAt:      promo.CreatedAt,
		UpdatedAt:      promo.UpdatedAt,
	}
}
