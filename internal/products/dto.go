package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/db/models"
)

// ProductDTO represents the vendor product payload returned to clients.
type ProductDTO struct {
	ID             uuid.UUID        `json:"id"`
	StoreID        uuid.UUID        `json:"store_id"`
	SKU            string           `json:"sku"`
	Title          string           `json:"title"`
	Subtitle       *string          `json:"subtitle,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Strain         *string          `json:"strain,omitempty"`
	Classification *string          `json:"classification,omitempty"`
	Unit           string           `json:"unit"`
	RegularPrice   *decimal.Decimal `json:"regular_price,omitempty"`
	CurrentPrice   *decimal.Decimal `json:"current_price,omitempty"`
	BlueprintID    *uuid.UUID       `json:"blueprint_id,omitempty"`
	TierPrices     []TierPriceDTO   `json:"tier_prices,omitempty"`
	IsActive       bool             `json:"is_active"`
	IsFeatured     bool             `json:"is_featured"`
	THCPercent     *float64         `json:"thc_percent,omitempty"`
	CBDPercent     *float64         `json:"cbd_percent,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// TierPriceDTO represents a recorded price for one blueprint tier.
type TierPriceDTO struct {
	TierKey string           `json:"tier_key"`
	Price   *decimal.Decimal `json:"price,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:           product.ID,
		StoreID:      product.StoreID,
		SKU:          product.SKU,
		Title:        product.Title,
		Subtitle:     product.Subtitle,
		Strain:       product.Strain,
		Unit:         string(product.Unit),
		RegularPrice: product.RegularPrice,
		CurrentPrice: product.CurrentPrice,
		BlueprintID:  product.BlueprintID,
		IsActive:     product.IsActive,
		IsFeatured:   product.IsFeatured,
		THCPercent:   product.THCPercent,
		CBDPercent:   product.CBDPercent,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
	if product.Category != nil {
		category := product.Category.String()
		dto.Category = &category
	}
	if product.Classification != nil {
		classification := string(*product.Classification)
		dto.Classification = &classification
	}

	if len(product.TierPrices) > 0 {
		dto.TierPrices = make([]TierPriceDTO, len(product.TierPrices))
		for i, tier := range product.TierPrices {
			dto.TierPrices[i] = TierPriceDTO{
				TierKey: tier.TierKey,
				Price:   tier.Price,
			}
		}
	}

	return dto
}
