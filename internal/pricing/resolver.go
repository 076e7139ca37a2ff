package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/db/models"
	"github.com/stashline/stashline-backend/pkg/enums"
)

// DefaultBadgeColor is applied when a promotion carries badge text but no color.
const DefaultBadgeColor = "#9E9E9E"

var oneHundred = decimal.NewFromInt(100)

// Badge is the display annotation attached to a discounted price.
type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// Calculation is the result of resolving one price against a promotion set.
type Calculation struct {
	OriginalPrice   decimal.Decimal
	FinalPrice      decimal.Decimal
	Savings         decimal.Decimal
	DiscountPercent decimal.Decimal
	Promotion       *models.Promotion
	Badge           *Badge
}

// TierCalculation pairs a blueprint tier with its resolved price. Slices of
// these preserve the blueprint's stored sort order.
type TierCalculation struct {
	TierKey     string
	Label       string
	GramWeight  decimal.Decimal
	Calculation Calculation
}

// IsPromotionActive reports whether the promotion is live at the given
// instant. All schedule bounds are inclusive and an absent bound imposes no
// restriction. Malformed time-of-day bounds deactivate the promotion rather
// than widening its window.
func IsPromotionActive(promo *models.Promotion, now time.Time) bool {
	if promo == nil || !promo.IsActive {
		return false
	}
	if promo.StartTime != nil && now.Before(*promo.StartTime) {
		return false
	}
	if promo.EndTime != nil && now.After(*promo.EndTime) {
		return false
	}
	if len(promo.DaysOfWeek) > 0 {
		day := int64(now.Weekday())
		matched := false
		for _, candidate := range promo.DaysOfWeek {
			if candidate == day {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if promo.TimeOfDayStart != nil && promo.TimeOfDayEnd != nil {
		start, startErr := minuteOfDay(*promo.TimeOfDayStart)
		end, endErr := minuteOfDay(*promo.TimeOfDayEnd)
		if startErr != nil || endErr != nil {
			return false
		}
		minute := now.Hour()*60 + now.Minute()
		if minute < start || minute > end {
			return false
		}
	}
	return true
}

// PromotionApplies reports whether an active promotion covers the product in
// the supplied purchase context. Tier scope matches named tier keys when the
// promotion lists any, otherwise it matches on the gram quantity range.
func PromotionApplies(promo *models.Promotion, product *models.Product, quantityGrams decimal.Decimal, tierKey string, now time.Time) bool {
	if product == nil || !IsPromotionActive(promo, now) {
		return false
	}

	switch promo.Scope {
	case enums.PromotionScopeProduct:
		return containsString(promo.ProductIDs, product.ID.String())
	case enums.PromotionScopeCategory:
		if product.Category == nil {
			return false
		}
		return containsString(promo.Categories, product.Category.String())
	case enums.PromotionScopeTier:
		if len(promo.TierKeys) > 0 {
			return tierKey != "" && containsString(promo.TierKeys, tierKey)
		}
		minGrams := decimal.Zero
		if promo.MinGrams != nil {
			minGrams = *promo.MinGrams
		}
		if quantityGrams.LessThan(minGrams) {
			return false
		}
		if promo.MaxGrams != nil && quantityGrams.GreaterThan(*promo.MaxGrams) {
			return false
		}
		return true
	case enums.PromotionScopeGlobal:
		return true
	default:
		return false
	}
}

// DiscountAmount returns the savings the promotion grants against basePrice.
// Fixed amounts are capped at the base price so a discount never exceeds what
// is being discounted.
func DiscountAmount(promo *models.Promotion, basePrice decimal.Decimal) decimal.Decimal {
	if promo == nil || promo.DiscountValue.Sign() < 0 {
		return decimal.Zero
	}
	switch promo.DiscountType {
	case enums.DiscountTypePercentage:
		return basePrice.Mul(promo.DiscountValue).Div(oneHundred)
	case enums.DiscountTypeFixedAmount:
		if promo.DiscountValue.GreaterThan(basePrice) {
			return basePrice
		}
		return promo.DiscountValue
	default:
		return decimal.Zero
	}
}

// FindBestPromotion returns the applicable promotion granting the largest
// discount against the product's base price. Ties go to the higher Priority,
// then to the promotion listed first.
func FindBestPromotion(product *models.Product, promos []models.Promotion, quantityGrams decimal.Decimal, tierKey string, now time.Time) *models.Promotion {
	base := BasePrice(product, tierKey, nil)
	return bestPromotion(product, promos, quantityGrams, tierKey, base, now)
}

func bestPromotion(product *models.Product, promos []models.Promotion, quantityGrams decimal.Decimal, tierKey string, basePrice decimal.Decimal, now time.Time) *models.Promotion {
	var best *models.Promotion
	var bestDiscount decimal.Decimal
	for i := range promos {
		promo := &promos[i]
		if !PromotionApplies(promo, product, quantityGrams, tierKey, now) {
			continue
		}
		discount := DiscountAmount(promo, basePrice)
		switch {
		case best == nil:
			best, bestDiscount = promo, discount
		case discount.GreaterThan(bestDiscount):
			best, bestDiscount = promo, discount
		case discount.Equal(bestDiscount) && promo.Priority > best.Priority:
			best, bestDiscount = promo, discount
		}
	}
	return best
}

// BasePrice resolves the price a discount is computed against: explicit
// override, then the product's recorded price for tierKey, then regular
// price, then current price, then zero.
func BasePrice(product *models.Product, tierKey string, override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	if product == nil {
		return decimal.Zero
	}
	if tierKey != "" {
		for _, tierPrice := range product.TierPrices {
			if tierPrice.TierKey == tierKey && tierPrice.Price != nil {
				return *tierPrice.Price
			}
		}
	}
	if product.RegularPrice != nil {
		return *product.RegularPrice
	}
	if product.CurrentPrice != nil {
		return *product.CurrentPrice
	}
	return decimal.Zero
}

// CalculatePrice resolves the final price for one purchase context: base
// price selection, best-promotion search, savings and the floored final
// price. The final price is floored at zero independently of the fixed-amount
// cap in DiscountAmount; promotions do not stack.
func CalculatePrice(product *models.Product, promos []models.Promotion, quantityGrams decimal.Decimal, tierKey string, tierPriceOverride *decimal.Decimal, now time.Time) Calculation {
	base := BasePrice(product, tierKey, tierPriceOverride)
	calc := Calculation{
		OriginalPrice:   base,
		FinalPrice:      base,
		Savings:         decimal.Zero,
		DiscountPercent: decimal.Zero,
	}

	best := bestPromotion(product, promos, quantityGrams, tierKey, base, now)
	if best == nil {
		return calc
	}

	savings := DiscountAmount(best, base)
	final := base.Sub(savings)
	if final.Sign() < 0 {
		final = decimal.Zero
	}

	calc.FinalPrice = final
	calc.Savings = savings
	if base.Sign() > 0 {
		calc.DiscountPercent = savings.Div(base).Mul(oneHundred)
	}
	calc.Promotion = best
	if best.BadgeText != nil && strings.TrimSpace(*best.BadgeText) != "" {
		color := DefaultBadgeColor
		if best.BadgeColor != nil && strings.TrimSpace(*best.BadgeColor) != "" {
			color = *best.BadgeColor
		}
		calc.Badge = &Badge{Text: *best.BadgeText, Color: color}
	}
	return calc
}

// CalculateTierPrices resolves every priced tier of the product's blueprint,
// in blueprint sort order. Tiers without a recorded price are skipped. Each
// tier is priced with its own recorded price as the override and its gram
// weight as the quantity context.
func CalculateTierPrices(product *models.Product, promos []models.Promotion, now time.Time) []TierCalculation {
	if product == nil || product.Blueprint == nil {
		return nil
	}

	recorded := make(map[string]decimal.Decimal, len(product.TierPrices))
	for _, tierPrice := range product.TierPrices {
		if tierPrice.Price != nil {
			recorded[tierPrice.TierKey] = *tierPrice.Price
		}
	}

	out := make([]TierCalculation, 0, len(product.Blueprint.Tiers))
	for _, tier := range product.Blueprint.Tiers {
		price, ok := recorded[tier.TierKey]
		if !ok {
			continue
		}
		calc := CalculatePrice(product, promos, tier.GramWeight, tier.TierKey, &price, now)
		out = append(out, TierCalculation{
			TierKey:     tier.TierKey,
			Label:       tier.Label,
			GramWeight:  tier.GramWeight,
			Calculation: calc,
		})
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// minuteOfDay parses an "HH:MM" clock value into minutes since midnight.
func minuteOfDay(value string) (int, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}
