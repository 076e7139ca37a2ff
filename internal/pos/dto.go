package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/internal/pricing"
	"github.com/stashline/stashline-backend/pkg/db/models"
)

// QuoteDTO is one priced register cart.
type QuoteDTO struct {
	StoreID         uuid.UUID       `json:"store_id"`
	QuotedAt        time.Time       `json:"quoted_at"`
	Lines           []QuoteLineDTO  `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountTotal   decimal.Decimal `json:"discount_total"`
	Total           decimal.Decimal `json:"total"`
	SubtotalDisplay string          `json:"subtotal_display"`
	DiscountDisplay *string         `json:"discount_display,omitempty"`
	TotalDisplay    string          `json:"total_display"`
}

// QuoteLineDTO is one priced line with its per-unit resolution and extended
// totals.
type QuoteLineDTO struct {
	ProductID     uuid.UUID       `json:"product_id"`
	SKU           string          `json:"sku"`
	Title         string          `json:"title"`
	TierKey       *string         `json:"tier_key,omitempty"`
	TierLabel     *string         `json:"tier_label,omitempty"`
	Quantity      int             `json:"quantity"`
	QuantityGrams decimal.Decimal `json:"quantity_grams"`

	UnitOriginal decimal.Decimal `json:"unit_original"`
	UnitFinal    decimal.Decimal `json:"unit_final"`
	LineOriginal decimal.Decimal `json:"line_original"`
	LineSavings  decimal.Decimal `json:"line_savings"`
	LineTotal    decimal.Decimal `json:"line_total"`

	UnitFinalDisplay string         `json:"unit_final_display"`
	LineTotalDisplay string         `json:"line_total_display"`
	SavingsDisplay   *string        `json:"savings_display,omitempty"`
	PromotionID      *uuid.UUID     `json:"promotion_id,omitempty"`
	PromotionName    *string        `json:"promotion_name,omitempty"`
	Badge            *pricing.Badge `json:"badge,omitempty"`
}

func newQuoteLineDTO(product *models.Product, units int, tierKey string, tierLabel *string, quantityGrams decimal.Decimal, calc pricing.Calculation) *QuoteLineDTO {
	unitCount := decimal.NewFromInt(int64(units))
	dto := &QuoteLineDTO{
		ProductID:     product.ID,
		SKU:           product.SKU,
		Title:         product.Title,
		TierLabel:     tierLabel,
		Quantity:      units,
		QuantityGrams: quantityGrams,

		UnitOriginal: calc.OriginalPrice,
		UnitFinal:    calc.FinalPrice,
		LineOriginal: calc.OriginalPrice.Mul(unitCount),
		LineSavings:  calc.Savings.Mul(unitCount),
		LineTotal:    calc.FinalPrice.Mul(unitCount),

		Badge: calc.Badge,
	}
	if tierKey != "" {
		dto.TierKey = &tierKey
	}
	dto.UnitFinalDisplay = pricing.FormatPrice(dto.UnitFinal)
	dto.LineTotalDisplay = pricing.FormatPrice(dto.LineTotal)
	if dto.LineSavings.Sign() > 0 {
		savings := pricing.FormatSavings(dto.LineSavings)
		dto.SavingsDisplay = &savings
	}
	if calc.Promotion != nil {
		id := calc.Promotion.ID
		name := calc.Promotion.Name
		dto.PromotionID = &id
		dto.PromotionName = &name
	}
	return dto
}
