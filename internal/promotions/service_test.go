package promotions

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/pkg/db/models"
	"github.com/stashline/stashline-backend/pkg/enums"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
)

func validPromotion() *models.Promotion {
	return &models.Promotion{
		StoreID:       uuid.New(),
		Name:          "Wednesday Wellness",
		Scope:         enums.PromotionScopeGlobal,
		DiscountType:  enums.DiscountTypePercentage,
		DiscountValue: decimal.NewFromInt(20),
		IsActive:      true,
	}
}

func expectValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error code, got %v", err)
	}
}

func TestValidatePromotion(t *testing.T) {
	t.Run("valid global promotion", func(t *testing.T) {
		if err := validatePromotion(validPromotion()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("blank name", func(t *testing.T) {
		promo := validPromotion()
		promo.Name = "   "
		expectValidationError(t, validatePromotion(promo))
	})

	t.Run("unknown scope", func(t *testing.T) {
		promo := validPromotion()
		promo.Scope = enums.PromotionScope("mystery")
		expectValidationError(t, validatePromotion(promo))
	})

	t.Run("negative discount value", func(t *testing.T) {
		promo := validPromotion()
		promo.DiscountValue = decimal.NewFromInt(-5)
		expectValidationError(t, validatePromotion(promo))
	})

	t.Run("percentage above 100", func(t *testing.T) {
		promo := validPromotion()
		promo.DiscountValue = decimal.NewFromInt(120)
		expectValidationError(t, validatePromotion(promo))
	})

	t.Run("fixed amount above 100 is fine", func(t *testing.T) {
		promo := validPromotion()
		promo.DiscountType = enums.DiscountTypeFixedAmount
		promo.DiscountValue = decimal.NewFromInt(120)
		if err := validatePromotion(promo); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("product scope requires targets", func(t *testing.T) {
		promo := validPromotion()
		promo.Scope = enums.PromotionScopeProduct
		expectValidationError(t, validatePromotion(promo))

		promo.ProductIDs = []string{"not-a-uuid"}
		expectValidationError(t, validatePromotion(promo))

		promo.ProductIDs = []string{uuid.NewString()}
		if err := validatePromotion(promo); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("category scope requires known categories", func(t *testing.T) {
		promo := validPromotion()
		promo.Scope = enums.PromotionScopeCategory
		expectValidationError(t, validatePromotion(promo))

		promo.Categories = []string{"gadgets"}
		expectValidationError(t, validatePromotion(promo))

		promo.Categories = []string{enums.ProductCategoryFlower.String()}
		if err := validatePromotion(promo); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("tier scope requires keys or gram range", func(t *testing.T) {
		promo := validPromotion()
		promo.Scope = enums.PromotionScopeTier
		expectValidationError(t, validatePromotion(promo))

		min := decimal.NewFromInt(7)
		promo.MinGrams = &min
		if err := validatePromotion(promo); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("inverted gram range", func(t *testing.T) {
		promo := validPromotion()
		promo.Scope = enums.PromotionScopeTier
		min := decimal.NewFromInt(7)
		max := decimal.NewFromInt(3)
		promo.MinGrams = &min
		promo.MaxGrams = &max
		expectValidationError(t, validatePromotion(promo))
	})

	t.Run("inverted validity window", func(t *testing.T) {
		promo := validPromotion()
		start := time.Now()
		end := start.Add(-time.Hour)
		promo.StartTime = &start
		promo.EndTime = &end
		expectValidationError(t, validatePromotion(promo))
	})

	t.Run("day of week out of range", func(t *testing.T) {
		promo := validPromotion()
		promo.DaysOfWeek = []int64{7}
		expectValidationError(t, validatePromotion(promo))
	})

	t.Run("malformed time of day", func(t *testing.T) {
		promo := validPromotion()
		bad := "25:00"
		promo.TimeOfDayStart = &bad
		expectValidationError(t, validatePromotion(promo))
	})

	t.Run("well formed schedule", func(t *testing.T) {
		promo := validPromotion()
		start := "09:00"
		end := "17:30"
		promo.TimeOfDayStart = &start
		promo.TimeOfDayEnd = &end
		promo.DaysOfWeek = []int64{1, 2, 3, 4, 5}
		if err := validatePromotion(promo); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestApplyUpdateToPromotion(t *testing.T) {
	promo := validPromotion()
	promo.Priority = 1

	name := "  Early Bird  "
	scope := enums.PromotionScopeCategory
	categories := []string{enums.ProductCategoryEdible.String()}
	priority := 5
	inactive := false

	applyUpdateToPromotion(promo, UpdatePromotionInput{
		Name:       &name,
		Scope:      &scope,
		Categories: &categories,
		Priority:   &priority,
		IsActive:   &inactive,
	})

	if promo.Name != "Early Bird" {
		t.Fatalf("expected trimmed name, got %q", promo.Name)
	}
	if promo.Scope != enums.PromotionScopeCategory {
		t.Fatalf("expected scope update, got %s", promo.Scope)
	}
	if len(promo.Categories) != 1 || promo.Categories[0] != categories[0] {
		t.Fatalf("expected categories %v, got %v", categories, promo.Categories)
	}
	if promo.Priority != 5 {
		t.Fatalf("expected priority 5, got %d", promo.Priority)
	}
	if promo.IsActive {
		t.Fatal("expected promotion to be deactivated")
	}
	if promo.DiscountValue.Cmp(decimal.NewFromInt(20)) != 0 {
		t.Fatalf("expected untouched discount value, got %s", promo.DiscountValue)
	}
}
