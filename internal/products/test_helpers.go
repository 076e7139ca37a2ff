package product

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db/models"
	"github.com/stashline/stashline-backend/pkg/enums"
)

func mustCreateTestStore(t *testing.T, tx *gorm.DB) *models.Store {
	t.Helper()
	store := &models.Store{
		ID:       uuid.New(),
		Slug:     fmt.Sprintf("repo-store-%s", uuid.NewString()),
		Name:     "Repo Store",
		Timezone: "UTC",
		IsActive: true,
		OwnerID:  uuid.New(),
	}
	if err := tx.Create(store).Error; err != nil {
		t.Fatalf("create store: %v", err)
	}
	return store
}

func mustCreateTestBlueprint(t *testing.T, tx *gorm.DB, storeID uuid.UUID) *models.PricingBlueprint {
	t.Helper()
	blueprint := &models.PricingBlueprint{
		StoreID: storeID,
		Name:    "Flower Weights",
		Tiers: []models.BlueprintTier{
			{TierKey: "gram", Label: "1g", GramWeight: decimal.NewFromInt(1), SortOrder: 0},
			{TierKey: "eighth", Label: "3.5g", GramWeight: decimal.NewFromFloat(3.5), SortOrder: 1},
			{TierKey: "ounce", Label: "28g", GramWeight: decimal.NewFromInt(28), SortOrder: 2},
		},
	}
	if err := tx.Create(blueprint).Error; err != nil {
		t.Fatalf("create blueprint: %v", err)
	}
	return blueprint
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, storeID uuid.UUID) *models.Product {
	t.Helper()
	category := enums.ProductCategoryFlower
	price := decimal.NewFromInt(40)
	product := &models.Product{
		StoreID:      storeID,
		SKU:          fmt.Sprintf("SKU-%s", uuid.NewString()),
		Title:        "Test Product",
		Category:     &category,
		Unit:         enums.ProductUnitGram,
		RegularPrice: &price,
		IsActive:     true,
		IsFeatured:   false,
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
