package blueprints

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db/models"
)

// Repository wires together blueprint persistence helpers.
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

// Create inserts a blueprint row together with its tiers.
func (r *Repository) Create(ctx context.Context, blueprint *models.PricingBlueprint) (*models.PricingBlueprint, error) {
	if err := r.db.WithContext(ctx).Create(blueprint).Error; err != nil {
		return nil, err
	}
	return blueprint, nil
}

// FindByID loads a blueprint with its tiers in sort order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PricingBlueprint, error) {
	var blueprint models.PricingBlueprint
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&blueprint, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &blueprint, nil
}

// ListByStore returns the store's blueprints with tiers preloaded.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.PricingBlueprint, error) {
	var rows []models.PricingBlueprint
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// Delete removes a blueprint; tier rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PricingBlueprint{}).Error
}

// CountProductsUsing reports how many products reference the blueprint.
func (r *Repository) CountProductsUsing(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("blueprint_id = ?", id).
		Count(&count).
		Error
	return count, err
}
