package product

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db/models"
	"github.com/stashline/stashline-backend/pkg/pagination"
)

// ProductRepository defines CRUD operations for catalog products.
type ProductRepository interface {
	CreateProduct(context.Context, *models.Product) (*models.Product, error)
	UpdateProduct(context.Context, *models.Product) (*models.Product, error)
	DeleteProduct(context.Context, uuid.UUID) error
	GetProductDetail(context.Context, uuid.UUID) (*models.Product, error)
	ListProductsByStore(context.Context, uuid.UUID) ([]models.Product, error)
}

// TierPriceRepository exposes per-tier price persistence.
type TierPriceRepository interface {
	ReplaceTierPrices(context.Context, uuid.UUID, []models.ProductTierPrice) error
	ListTierPrices(context.Context, uuid.UUID) ([]models.ProductTierPrice, error)
}

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ReplaceTierPrices replaces all tier price rows for the product.
func (r *Repository) ReplaceTierPrices(ctx context.Context, productID uuid.UUID, prices []models.ProductTierPrice) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductTierPrice{}).Error; err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}
	return tx.Create(&prices).Error
}

// ListTierPrices returns the tier price rows for a product.
func (r *Repository) ListTierPrices(ctx context.Context, productID uuid.UUID) ([]models.ProductTierPrice, error) {
	var rows []models.ProductTierPrice
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("tier_key ASC").
		Find(&rows).
		Error
	return rows, err
}

// GetProductDetail fetches a product with tier prices and blueprint.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("TierPrices").
		Preload("Blueprint.Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductsByStore lists the products owned by a store with preloaded relations.
func (r *Repository) ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("TierPrices").
		Preload("Blueprint.Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListActiveByStore returns active products for menu rendering.
func (r *Repository) ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("TierPrices").
		Preload("Blueprint.Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("store_id = ? AND is_active = ?", storeID, true).
		Order("is_featured DESC").
		Order("title ASC").
		Find(&rows).
		Error
	return rows, err
}

type productListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
	StoreID    uuid.UUID
}

func (r *Repository) ListProductSummaries(ctx context.Context, query productListQuery) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.sku",
			"p.title",
			"p.subtitle",
			"p.category",
			"p.classification",
			"p.strain",
			"p.unit",
			"p.regular_price",
			"p.current_price",
			"p.blueprint_id",
			"p.is_active",
			"p.is_featured",
			"p.thc_percent",
			"p.cbd_percent",
			"p.created_at",
			"p.updated_at",
			"p.store_id",
		}, ", ")).
		Where("p.store_id = ?", query.StoreID)

	filter := query.Filters
	if filter.Category != nil {
		qb = qb.Where("p.category = ?", *filter.Category)
	}
	if filter.Classification != nil {
		qb = qb.Where("p.classification = ?", *filter.Classification)
	}
	if filter.PriceMin != nil {
		qb = qb.Where("p.regular_price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		qb = qb.Where("p.regular_price <= ?", *filter.PriceMax)
	}
	if filter.THCMin != nil {
		qb = qb.Where("p.thc_percent >= ?", *filter.THCMin)
	}
	if filter.THCMax != nil {
		qb = qb.Where("p.thc_percent <= ?", *filter.THCMax)
	}
	if filter.IsActive != nil {
		qb = qb.Where("p.is_active = ?", *filter.IsActive)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(p.title) LIKE ? OR LOWER(p.sku) LIKE ?)", pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)

	var records []productSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	summaries := make([]ProductSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ProductListResult{
		Products:   summaries,
		NextCursor: nextCursor,
	}, nil
}

type productSummaryRecord struct {
	ID             uuid.UUID
	SKU            string
	Title          string
	Subtitle       sql.NullString
	Category       sql.NullString
	Classification sql.NullString
	Strain         sql.NullString
	Unit           string
	RegularPrice   decimal.NullDecimal
	CurrentPrice   decimal.NullDecimal
	BlueprintID    *uuid.UUID
	IsActive       bool
	IsFeatured     bool
	THCPercent     sql.NullFloat64
	CBDPercent     sql.NullFloat64
	StoreID        uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r productSummaryRecord) toSummary() ProductSummary {
	return ProductSummary{
		ID:             r.ID,
		SKU:            r.SKU,
		Title:          r.Title,
		Subtitle:       nullStringPtr(r.Subtitle),
		Category:       nullStringPtr(r.Category),
		Classification: nullStringPtr(r.Classification),
		Strain:         nullStringPtr(r.Strain),
		Unit:           r.Unit,
		RegularPrice:   nullDecimalPtr(r.RegularPrice),
		CurrentPrice:   nullDecimalPtr(r.CurrentPrice),
		BlueprintID:    r.BlueprintID,
		IsActive:       r.IsActive,
		IsFeatured:     r.IsFeatured,
		THCPercent:     nullFloatPtr(r.THCPercent),
		CBDPercent:     nullFloatPtr(r.CBDPercent),
		StoreID:        r.StoreID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullDecimalPtr(value decimal.NullDecimal) *decimal.Decimal {
	if !value.Valid {
		return nil
	}
	v := value.Decimal
	return &v
}

func nullFloatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}
