package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/api/responses"
	"github.com/stashline/stashline-backend/api/validators"
	productsvc "github.com/stashline/stashline-backend/internal/products"
	"github.com/stashline/stashline-backend/pkg/enums"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
	"github.com/stashline/stashline-backend/pkg/logger"
	"github.com/stashline/stashline-backend/pkg/pagination"
)

// VendorCreateProduct handles product creation for vendor stores.
func VendorCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		uid, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), uid, sid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// VendorUpdateProduct handles partial updates of a store's product.
func VendorUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		uid, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), uid, sid, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// VendorDeleteProduct removes a product from the store's catalog.
func VendorDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		uid, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), uid, sid, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// VendorGetProduct returns one product with its tier prices and blueprint.
func VendorGetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := pathUUID(r, "productId", "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), sid, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// VendorListProducts returns a filtered, cursor-paginated catalog listing.
func VendorListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parseListProductsQuery(r, sid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type tierPriceRequest struct {
	TierKey string           `json:"tier_key" validate:"required"`
	Price   *decimal.Decimal `json:"price,omitempty"`
}

type createProductRequest struct {
	SKU            string             `json:"sku" validate:"required"`
	Title          string             `json:"title" validate:"required"`
	Subtitle       *string            `json:"subtitle,omitempty"`
	Category       *string            `json:"category,omitempty"`
	Strain         *string            `json:"strain,omitempty"`
	Classification *string            `json:"classification,omitempty"`
	Unit           string             `json:"unit" validate:"required"`
	RegularPrice   *decimal.Decimal   `json:"regular_price,omitempty"`
	CurrentPrice   *decimal.Decimal   `json:"current_price,omitempty"`
	BlueprintID    *string            `json:"blueprint_id,omitempty"`
	TierPrices     []tierPriceRequest `json:"tier_prices,omitempty" validate:"omitempty,dive"`
	IsActive       *bool              `json:"is_active,omitempty"`
	IsFeatured     *bool              `json:"is_featured,omitempty"`
	THCPercent     *float64           `json:"thc_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	CBDPercent     *float64           `json:"cbd_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

func (r createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	unit, err := enums.ParseProductUnit(strings.TrimSpace(r.Unit))
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}

	category, err := parseOptionalCategory(r.Category)
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	classification, err := parseOptionalClassification(r.Classification)
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	blueprintID, err := parseOptionalUUID(r.BlueprintID, "blueprint id")
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	isFeatured := false
	if r.IsFeatured != nil {
		isFeatured = *r.IsFeatured
	}

	return productsvc.CreateProductInput{
		SKU:            strings.TrimSpace(r.SKU),
		Title:          strings.TrimSpace(r.Title),
		Subtitle:       r.Subtitle,
		Category:       category,
		Strain:         r.Strain,
		Classification: classification,
		Unit:           unit,
		RegularPrice:   r.RegularPrice,
		CurrentPrice:   r.CurrentPrice,
		BlueprintID:    blueprintID,
		TierPrices:     toTierPriceInputs(r.TierPrices),
		IsActive:       isActive,
		IsFeatured:     isFeatured,
		THCPercent:     r.THCPercent,
		CBDPercent:     r.CBDPercent,
	}, nil
}

type updateProductRequest struct {
	SKU            *string             `json:"sku,omitempty" validate:"omitempty,min=1"`
	Title          *string             `json:"title,omitempty" validate:"omitempty,min=1"`
	Subtitle       *string             `json:"subtitle,omitempty"`
	Category       *string             `json:"category,omitempty"`
	Strain         *string             `json:"strain,omitempty"`
	Classification *string             `json:"classification,omitempty"`
	Unit           *string             `json:"unit,omitempty"`
	RegularPrice   *decimal.Decimal    `json:"regular_price,omitempty"`
	CurrentPrice   *decimal.Decimal    `json:"current_price,omitempty"`
	BlueprintID    *string             `json:"blueprint_id,omitempty"`
	TierPrices     *[]tierPriceRequest `json:"tier_prices,omitempty" validate:"omitempty,dive"`
	IsActive       *bool               `json:"is_active,omitempty"`
	IsFeatured     *bool               `json:"is_featured,omitempty"`
	THCPercent     *float64            `json:"thc_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	CBDPercent     *float64            `json:"cbd_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateProductInput, error) {
	input := productsvc.UpdateProductInput{
		SKU:          r.SKU,
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Strain:       r.Strain,
		RegularPrice: r.RegularPrice,
		CurrentPrice: r.CurrentPrice,
		IsActive:     r.IsActive,
		IsFeatured:   r.IsFeatured,
		THCPercent:   r.THCPercent,
		CBDPercent:   r.CBDPercent,
	}

	category, err := parseOptionalCategory(r.Category)
	if err != nil {
		return productsvc.UpdateProductInput{}, err
	}
	input.Category = category

	classification, err := parseOptionalClassification(r.Classification)
	if err != nil {
		return productsvc.UpdateProductInput{}, err
	}
	input.Classification = classification

	if r.Unit != nil {
		unit, err := enums.ParseProductUnit(strings.TrimSpace(*r.Unit))
		if err != nil {
			return productsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}

	blueprintID, err := parseOptionalUUID(r.BlueprintID, "blueprint id")
	if err != nil {
		return productsvc.UpdateProductInput{}, err
	}
	input.BlueprintID = blueprintID

	if r.TierPrices != nil {
		tiers := toTierPriceInputs(*r.TierPrices)
		input.TierPrices = &tiers
	}

	return input, nil
}

func toTierPriceInputs(tiers []tierPriceRequest) []productsvc.TierPriceInput {
	result := make([]productsvc.TierPriceInput, 0, len(tiers))
	for _, tier := range tiers {
		result = append(result, productsvc.TierPriceInput{
			TierKey: strings.TrimSpace(tier.TierKey),
			Price:   tier.Price,
		})
	}
	return result
}

func parseOptionalCategory(raw *string) (*enums.ProductCategory, error) {
	if raw == nil {
		return nil, nil
	}
	category, err := enums.ParseProductCategory(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category")
	}
	return &category, nil
}

func parseOptionalClassification(raw *string) (*enums.ProductClassification, error) {
	if raw == nil {
		return nil, nil
	}
	classification, err := enums.ParseProductClassification(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid classification")
	}
	return &classification, nil
}

func parseOptionalUUID(raw *string, label string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return &id, nil
}

func parseListProductsQuery(r *http.Request, storeID uuid.UUID) (productsvc.ListProductsInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		return productsvc.ListProductsInput{}, err
	}

	input := productsvc.ListProductsInput{
		StoreID: storeID,
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		},
	}

	query := r.URL.Query()
	input.Filters.Query = validators.SanitizeString(query.Get("q"), 120)

	if raw := strings.TrimSpace(query.Get("category")); raw != "" {
		category, err := parseOptionalCategory(&raw)
		if err != nil {
			return productsvc.ListProductsInput{}, err
		}
		input.Filters.Category = category
	}

	if raw := strings.TrimSpace(query.Get("classification")); raw != "" {
		classification, err := parseOptionalClassification(&raw)
		if err != nil {
			return productsvc.ListProductsInput{}, err
		}
		input.Filters.Classification = classification
	}

	if raw := strings.TrimSpace(query.Get("is_active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return productsvc.ListProductsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid is_active")
		}
		input.Filters.IsActive = &active
	}

	if value, err := parseQueryFloat(query.Get("thc_min")); err != nil {
		return productsvc.ListProductsInput{}, err
	} else {
		input.Filters.THCMin = value
	}
	if value, err := parseQueryFloat(query.Get("thc_max")); err != nil {
		return productsvc.ListProductsInput{}, err
	} else {
		input.Filters.THCMax = value
	}

	if value, err := parseQueryDecimal(query.Get("price_min")); err != nil {
		return productsvc.ListProductsInput{}, err
	} else {
		input.Filters.PriceMin = value
	}
	if value, err := parseQueryDecimal(query.Get("price_max")); err != nil {
		return productsvc.ListProductsInput{}, err
	} else {
		input.Filters.PriceMax = value
	}

	return input, nil
}

func parseQueryFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "query parameter must be numeric")
	}
	return &value, nil
}

func parseQueryDecimal(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "query parameter must be a decimal")
	}
	return &value, nil
}
