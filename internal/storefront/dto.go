package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/internal/pricing"
	"github.com/stashline/stashline-backend/pkg/db/models"
)

// MenuDTO is the full public menu payload for one store.
type MenuDTO struct {
	Store       MenuStoreDTO     `json:"store"`
	GeneratedAt time.Time        `json:"generated_at"`
	Products    []MenuProductDTO `json:"products"`
}

// MenuStoreDTO is the public slice of store data shown on menus.
type MenuStoreDTO struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Timezone    string    `json:"timezone"`
}

// MenuProductDTO is one catalog entry with resolved pricing.
type MenuProductDTO struct {
	ID             uuid.UUID     `json:"id"`
	SKU            string        `json:"sku"`
	Title          string        `json:"title"`
	Subtitle       *string       `json:"subtitle,omitempty"`
	Category       *string       `json:"category,omitempty"`
	Strain         *string       `json:"strain,omitempty"`
	Classification *string       `json:"classification,omitempty"`
	Unit           string        `json:"unit"`
	THCPercent     *float64      `json:"thc_percent,omitempty"`
	CBDPercent     *float64      `json:"cbd_percent,omitempty"`
	IsFeatured     bool          `json:"is_featured"`
	Price          *MenuPriceDTO `json:"price,omitempty"`
	Tiers          []MenuTierDTO `json:"tiers,omitempty"`
}

// MenuPriceDTO is one resolved price with display strings ready for the menu.
type MenuPriceDTO struct {
	Original        decimal.Decimal `json:"original"`
	Final           decimal.Decimal `json:"final"`
	Savings         decimal.Decimal `json:"savings"`
	OriginalDisplay string          `json:"original_display"`
	FinalDisplay    string          `json:"final_display"`
	SavingsDisplay  *string         `json:"savings_display,omitempty"`
	DiscountDisplay *string         `json:"discount_display,omitempty"`
	PromotionID     *uuid.UUID      `json:"promotion_id,omitempty"`
	PromotionName   *string         `json:"promotion_name,omitempty"`
	Badge           *pricing.Badge  `json:"badge,omitempty"`
}

// MenuTierDTO is one blueprint tier with its resolved price.
type MenuTierDTO struct {
	TierKey    string          `json:"tier_key"`
	Label      string          `json:"label"`
	GramWeight decimal.Decimal `json:"gram_weight"`
	Price      MenuPriceDTO    `json:"price"`
}

// NewMenuStoreDTO maps the store header block.
func NewMenuStoreDTO(store *models.Store) MenuStoreDTO {
	return MenuStoreDTO{
		ID:          store.ID,
		Slug:        store.Slug,
		Name:        store.Name,
		Description: store.Description,
		Timezone:    store.Timezone,
	}
}

// NewMenuProductDTO resolves one product against the promotion set at the
// given instant. Products with a blueprint get per-tier pricing; the flat
// price block is present whenever the product carries a base price.
func NewMenuProductDTO(product *models.Product, promos []models.Promotion, now time.Time) MenuProductDTO {
	dto := MenuProductDTO{
		ID:         product.ID,
		SKU:        product.SKU,
		Title:      product.Title,
		Subtitle:   product.Subtitle,
		Strain:     product.Strain,
		Unit:       product.Unit.String(),
		THCPercent: product.THCPercent,
		CBDPercent: product.CBDPercent,
		IsFeatured: product.IsFeatured,
	}
	if product.Category != nil {
		category := product.Category.String()
		dto.Category = &category
	}
	if product.Classification != nil {
		classification := product.Classification.String()
		dto.Classification = &classification
	}

	if product.RegularPrice != nil || product.CurrentPrice != nil {
		calc := pricing.CalculatePrice(product, promos, decimal.NewFromInt(1), "", nil, now)
		price := NewMenuPriceDTO(calc)
		dto.Price = &price
	}

	for _, tier := range pricing.CalculateTierPrices(product, promos, now) {
		dto.Tiers = append(dto.Tiers, MenuTierDTO{
			TierKey:    tier.TierKey,
			Label:      tier.Label,
			GramWeight: tier.GramWeight,
			Price:      NewMenuPriceDTO(tier.Calculation),
		})
	}
	return dto
}

// NewMenuPriceDTO maps one resolver result into display form.
func NewMenuPriceDTO(calc pricing.Calculation) MenuPriceDTO {
	dto := MenuPriceDTO{
		Original:        calc.OriginalPrice,
		Final:           calc.FinalPrice,
		Savings:         calc.Savings,
		OriginalDisplay: pricing.FormatPrice(calc.OriginalPrice),
		FinalDisplay:    pricing.FormatPrice(calc.FinalPrice),
		Badge:           calc.Badge,
	}
	if calc.Savings.Sign() > 0 {
		savings := pricing.FormatSavings(calc.Savings)
		discount := pricing.FormatDiscountPercentage(calc.DiscountPercent)
		dto.SavingsDisplay = &savings
		dto.DiscountDisplay = &discount
	}
	if calc.Promotion != nil {
		id := calc.Promotion.ID
		name := calc.Promotion.Name
		dto.PromotionID = &id
		dto.PromotionName = &name
	}
	return dto
}
