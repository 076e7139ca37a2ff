package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db"
	"github.com/stashline/stashline-backend/pkg/db/models"
	"github.com/stashline/stashline-backend/pkg/enums"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
	"github.com/stashline/stashline-backend/pkg/outbox"
	"github.com/stashline/stashline-backend/pkg/outbox/payloads"
)

// Service exposes vendor catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, userID, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, userID, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, userID, storeID, productID uuid.UUID) error
	GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU            string
	Title          string
	Subtitle       *string
	Category       *enums.ProductCategory
	Strain         *string
	Classification *enums.ProductClassification
	Unit           enums.ProductUnit
	RegularPrice   *decimal.Decimal
	CurrentPrice   *decimal.Decimal
	BlueprintID    *uuid.UUID
	TierPrices     []TierPriceInput
	IsActive       bool
	IsFeatured     bool
	THCPercent     *float64
	CBDPercent     *float64
}

// TierPriceInput sets the price for one blueprint tier. A nil price clears
// the tier so menus skip it.
type TierPriceInput struct {
	TierKey string
	Price   *decimal.Decimal
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU            *string
	Title          *string
	Subtitle       *string
	Category       *enums.ProductCategory
	Strain         *string
	Classification *enums.ProductClassification
	Unit           *enums.ProductUnit
	RegularPrice   *decimal.Decimal
	CurrentPrice   *decimal.Decimal
	BlueprintID    *uuid.UUID
	TierPrices     *[]TierPriceInput
	IsActive       *bool
	IsFeatured     *bool
	THCPercent     *float64
	CBDPercent     *float64
}

type storeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type blueprintLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PricingBlueprint, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// service implements the product service.
type service struct {
	repo          *Repository
	dbClient      *db.Client
	storeRepo     storeLoader
	blueprintRepo blueprintLoader
	outbox        eventEmitter
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, storeRepo storeLoader, blueprintRepo blueprintLoader, emitter eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if blueprintRepo == nil {
		return nil, fmt.Errorf("blueprint repository required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		repo:          repo,
		dbClient:      dbClient,
		storeRepo:     storeRepo,
		blueprintRepo: blueprintRepo,
		outbox:        emitter,
	}, nil
}

// CreateProduct creates the product together with its tier price rows.
func (s *service) CreateProduct(ctx context.Context, userID, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductInput(productFields{
		SKU:            input.SKU,
		Title:          input.Title,
		Category:       input.Category,
		Classification: input.Classification,
		Unit:           &input.Unit,
		RegularPrice:   input.RegularPrice,
		CurrentPrice:   input.CurrentPrice,
	}); err != nil {
		return nil, err
	}
	if err := s.ensureActiveStore(ctx, storeID); err != nil {
		return nil, err
	}
	blueprint, err := s.resolveBlueprint(ctx, storeID, input.BlueprintID)
	if err != nil {
		return nil, err
	}
	if err := validateTierPrices(input.TierPrices, blueprint); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			StoreID:        storeID,
			SKU:            strings.TrimSpace(input.SKU),
			Title:          strings.TrimSpace(input.Title),
			Subtitle:       input.Subtitle,
			Category:       input.Category,
			Strain:         input.Strain,
			Classification: input.Classification,
			Unit:           input.Unit,
			RegularPrice:   input.RegularPrice,
			CurrentPrice:   input.CurrentPrice,
			BlueprintID:    input.BlueprintID,
			IsActive:       input.IsActive,
			IsFeatured:     input.IsFeatured,
			THCPercent:     input.THCPercent,
			CBDPercent:     input.CBDPercent,
		}

		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if len(input.TierPrices) > 0 {
			rows := buildTierPriceRows(storeID, created.ID, input.TierPrices)
			if err := txRepo.ReplaceTierPrices(ctx, created.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace tier prices")
			}
		}

		return s.emitPriceChanged(ctx, tx, created, userID, storeID)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.loadDetail(ctx, createdID)
}

// UpdateProduct updates an existing product and related rows. A price-change
// event is emitted only when a pricing field actually moved.
func (s *service) UpdateProduct(ctx context.Context, userID, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if err := s.ensureActiveStore(ctx, storeID); err != nil {
		return nil, err
	}

	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := validateProductInput(productFields{
		SKU:            valueOr(input.SKU, product.SKU),
		Title:          valueOr(input.Title, product.Title),
		Category:       ptrOr(input.Category, product.Category),
		Classification: ptrOr(input.Classification, product.Classification),
		Unit:           unitOr(input.Unit, product.Unit),
		RegularPrice:   ptrOr(input.RegularPrice, product.RegularPrice),
		CurrentPrice:   ptrOr(input.CurrentPrice, product.CurrentPrice),
	}); err != nil {
		return nil, err
	}

	blueprintID := product.BlueprintID
	if input.BlueprintID != nil {
		blueprintID = input.BlueprintID
	}
	blueprint, err := s.resolveBlueprint(ctx, storeID, blueprintID)
	if err != nil {
		return nil, err
	}
	if input.TierPrices != nil {
		if err := validateTierPrices(*input.TierPrices, blueprint); err != nil {
			return nil, err
		}
	}

	priceChanged := pricingChanged(product, input)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		applyUpdateToProduct(product, input)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.TierPrices != nil {
			rows := buildTierPriceRows(storeID, product.ID, *input.TierPrices)
			if err := txRepo.ReplaceTierPrices(ctx, product.ID, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace tier prices")
			}
		}

		if priceChanged {
			return s.emitPriceChanged(ctx, tx, product, userID, storeID)
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.loadDetail(ctx, product.ID)
}

// DeleteProduct removes a product and relies on FK cascades for tier prices.
func (s *service) DeleteProduct(ctx context.Context, userID, storeID, productID uuid.UUID) error {
	if err := s.ensureActiveStore(ctx, storeID); err != nil {
		return err
	}

	product, err := s.loadStoreProduct(ctx, storeID, productID)
	if err != nil {
		return err
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteProduct(ctx, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return s.emitPriceChanged(ctx, tx, product, userID, storeID)
	})
}

// GetProduct loads a product scoped to the store.
func (s *service) GetProduct(ctx context.Context, storeID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
	}
	return NewProductDTO(product), nil
}

// ListProducts returns one catalog page for the store.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_id is required")
	}
	return s.repo.ListProductSummaries(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
		StoreID:    input.StoreID,
	})
}

func (s *service) loadDetail(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

func (s *service) loadStoreProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product does not belong to store")
	}
	return product, nil
}

func (s *service) ensureActiveStore(ctx context.Context, storeID uuid.UUID) error {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if !store.IsActive {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store is not active")
	}
	return nil
}

func (s *service) resolveBlueprint(ctx context.Context, storeID uuid.UUID, blueprintID *uuid.UUID) (*models.PricingBlueprint, error) {
	if blueprintID == nil {
		return nil, nil
	}
	blueprint, err := s.blueprintRepo.FindByID(ctx, *blueprintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "blueprint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load blueprint")
	}
	if blueprint.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "blueprint must belong to the active store")
	}
	return blueprint, nil
}

func (s *service) emitPriceChanged(ctx context.Context, tx *gorm.DB, product *models.Product, userID, storeID uuid.UUID) error {
	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventProductPriceChanged,
		AggregateType: enums.AggregateProduct,
		AggregateID:   product.ID,
		Actor: &outbox.ActorRef{
			UserID:  userID,
			StoreID: &storeID,
		},
		Data: payloads.ProductPriceChangedEvent{
			ProductID: product.ID,
			StoreID:   storeID,
			SKU:       product.SKU,
		},
		Version: 1,
	})
}

type productFields struct {
	SKU            string
	Title          string
	Category       *enums.ProductCategory
	Classification *enums.ProductClassification
	Unit           *enums.ProductUnit
	RegularPrice   *decimal.Decimal
	CurrentPrice   *decimal.Decimal
}

func validateProductInput(fields productFields) error {
	if strings.TrimSpace(fields.SKU) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(fields.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if fields.Category != nil && !fields.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	if fields.Classification != nil && !fields.Classification.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product classification")
	}
	if fields.Unit != nil && !fields.Unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product unit")
	}
	if fields.RegularPrice != nil && fields.RegularPrice.Sign() < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "regular_price must be non-negative")
	}
	if fields.CurrentPrice != nil && fields.CurrentPrice.Sign() < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "current_price must be non-negative")
	}
	return nil
}

func validateTierPrices(prices []TierPriceInput, blueprint *models.PricingBlueprint) error {
	if len(prices) == 0 {
		return nil
	}
	if blueprint == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tier prices require a pricing blueprint")
	}
	known := make(map[string]struct{}, len(blueprint.Tiers))
	for _, tier := range blueprint.Tiers {
		known[tier.TierKey] = struct{}{}
	}
	seen := make(map[string]struct{}, len(prices))
	for _, price := range prices {
		key := strings.TrimSpace(price.TierKey)
		if key == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier_key is required")
		}
		if _, ok := known[key]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier_key not defined by blueprint").WithDetails(map[string]any{"tier_key": key})
		}
		if _, ok := seen[key]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier_key").WithDetails(map[string]any{"tier_key": key})
		}
		seen[key] = struct{}{}
		if price.Price != nil && price.Price.Sign() < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier price must be non-negative").WithDetails(map[string]any{"tier_key": key})
		}
	}
	return nil
}

func buildTierPriceRows(storeID, productID uuid.UUID, prices []TierPriceInput) []models.ProductTierPrice {
	rows := make([]models.ProductTierPrice, 0, len(prices))
	for _, price := range prices {
		rows = append(rows, models.ProductTierPrice{
			StoreID:   storeID,
			ProductID: productID,
			TierKey:   strings.TrimSpace(price.TierKey),
			Price:     price.Price,
		})
	}
	return rows
}

func pricingChanged(product *models.Product, input UpdateProductInput) bool {
	if input.TierPrices != nil {
		return true
	}
	if input.RegularPrice != nil && !decimalEqual(input.RegularPrice, product.RegularPrice) {
		return true
	}
	if input.CurrentPrice != nil && !decimalEqual(input.CurrentPrice, product.CurrentPrice) {
		return true
	}
	if input.BlueprintID != nil && (product.BlueprintID == nil || *input.BlueprintID != *product.BlueprintID) {
		return true
	}
	return false
}

func decimalEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Subtitle != nil {
		product.Subtitle = input.Subtitle
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Strain != nil {
		product.Strain = input.Strain
	}
	if input.Classification != nil {
		product.Classification = input.Classification
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.RegularPrice != nil {
		product.RegularPrice = input.RegularPrice
	}
	if input.CurrentPrice != nil {
		product.CurrentPrice = input.CurrentPrice
	}
	if input.BlueprintID != nil {
		product.BlueprintID = input.BlueprintID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}
	if input.THCPercent != nil {
		product.THCPercent = input.THCPercent
	}
	if input.CBDPercent != nil {
		product.CBDPercent = input.CBDPercent
	}
}

func valueOr(candidate *string, fallback string) string {
	if candidate != nil {
		return *candidate
	}
	return fallback
}

func ptrOr[T any](candidate, fallback *T) *T {
	if candidate != nil {
		return candidate
	}
	return fallback
}

func unitOr(candidate *enums.ProductUnit, fallback enums.ProductUnit) *enums.ProductUnit {
	if candidate != nil {
		return candidate
	}
	return &fallback
}
