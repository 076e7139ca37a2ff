package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/enums"
	"github.com/stashline/stashline-backend/pkg/pagination"
)

// ProductListFilters describe the supported filter knobs for the catalog listing.
type ProductListFilters struct {
	Category       *enums.ProductCategory       `json:"category,omitempty"`
	Classification *enums.ProductClassification `json:"classification,omitempty"`
	THCMin         *float64                     `json:"thc_min,omitempty"`
	THCMax         *float64                     `json:"thc_max,omitempty"`
	PriceMin       *decimal.Decimal             `json:"price_min,omitempty"`
	PriceMax       *decimal.Decimal             `json:"price_max,omitempty"`
	IsActive       *bool                        `json:"is_active,omitempty"`
	Query          string                       `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate/filter a store's catalog.
type ListProductsInput struct {
	StoreID    uuid.UUID
	Filters    ProductListFilters
	Pagination pagination.Params
}

// ProductSummary is the flattened catalog row returned by list queries.
type ProductSummary struct {
	ID             uuid.UUID        `json:"id"`
	SKU            string           `json:"sku"`
	Title          string           `json:"title"`
	Subtitle       *string          `json:"subtitle,omitempty"`
	Category       *string          `json:"category,omitempty"`
	Classification *string          `json:"classification,omitempty"`
	Strain         *string          `json:"strain,omitempty"`
	Unit           string           `json:"unit"`
	RegularPrice   *decimal.Decimal `json:"regular_price,omitempty"`
	CurrentPrice   *decimal.Decimal `json:"current_price,omitempty"`
	BlueprintID    *uuid.UUID       `json:"blueprint_id,omitempty"`
	IsActive       bool             `json:"is_active"`
	IsFeatured     bool             `json:"is_featured"`
	THCPercent     *float64         `json:"thc_percent,omitempty"`
	CBDPercent     *float64         `json:"cbd_percent,omitempty"`
	StoreID        uuid.UUID        `json:"store_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ProductListResult is one page of catalog rows plus the continuation cursor.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}
