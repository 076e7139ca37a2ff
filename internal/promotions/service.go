package promotions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

// Service exposes vendor promotion management operations.
type Service interface {
	CreatePromotion(ctx context.Context, userID, storeID uuid.UUID, input CreatePromotionInput) (*PromotionDTO, error)
	UpdatePromotion(ctx context.Context, userID, storeID, promotionID uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error)
	DeletePromotion(ctx context.Context, userID, storeID, promotionID uuid.UUID) error
	GetPromotion(ctx context.Context, storeID, promotionID uuid.UUID) (*PromotionDTO, error)
	ListPromotions(ctx context.Context, storeID uuid.UUID) ([]PromotionDTO, error)
}

// CreatePromotionInput holds the validated payload to create a promotion.
type CreatePromotionInput struct {
	Name           string
	Scope          enums.PromotionScope
	DiscountType   enums.DiscountType
	DiscountValue  decimal.Decimal
	ProductIDs     []string
	Categories     []string
	TierKeys       []string
	MinGrams       *decimal.Decimal
	MaxGrams       *decimal.Decimal
	BadgeText      *string
	BadgeColor     *string
	Priority       int
	IsActive       bool
	StartTime      *time.Time
	EndTime        *time.Time
	DaysOfWeek     []int64
	TimeOfDayStart *string
	TimeOfDayEnd   *string
}

// UpdatePromotionInput holds optional mutation values for a promotion.
type UpdatePromotionInput struct {
	Name           *string
	Scope          *enums.PromotionScope
	DiscountType   *enums.DiscountType
	DiscountValue  *decimal.Decimal
	ProductIDs     *[]string
	Categories     *[]string
	TierKeys       *[]string
	MinGrams       *decimal.Decimal
	MaxGrams       *decimal.Decimal
	BadgeText      *string
	BadgeColor     *string
	Priority       *int
	IsActive       *bool
	StartTime      *time.Time
	EndTime        *time.Time
	DaysOfWeek     *[]int64
	TimeOfDayStart *string
	TimeOfDayEnd   *string
}

type storeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type cacheInvalidator interface {
	Invalidate(storeID uuid.UUID)
}

// service implements the promotion service.
type service struct {
	repo      *Repository
	dbClient  *db.Client
	storeRepo storeLoader
	outbox    eventEmitter
	cache     cacheInvalidator
}

// NewService constructs a promotion service instance. The cache invalidator
// is optional; every other dependency is required.
func NewService(repo *Repository, dbClient *db.Client, storeRepo storeLoader, emitter eventEmitter, cache cacheInvalidator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promotion repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		repo:      repo,
		dbClient:  dbClient,
		storeRepo: storeRepo,
		outbox:    emitter,
		cache:     cache,
	}, nil
}

// CreatePromotion validates and persists a new promotion, emitting the
// corresponding outbox event in the same transaction.
func (s *service) CreatePromotion(ctx context.Context, userID, storeID uuid.UUID, input CreatePromotionInput) (*PromotionDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	if err := s.ensureActiveStore(ctx, storeID); err != nil {
		return nil, err
	}

	promo := &models.Promotion{
		StoreID:        storeID,
		Name:           strings.TrimSpace(input.Name),
		Scope:          input.Scope,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		ProductIDs:     append([]string(nil), input.ProductIDs...),
		Categories:     append([]string(nil), input.Categories...),
		TierKeys:       append([]string(nil), input.TierKeys...),
		MinGrams:       input.MinGrams,
		MaxGrams:       input.MaxGrams,
		BadgeText:      input.BadgeText,
		BadgeColor:     input.BadgeColor,
		Priority:       input.Priority,
		IsActive:       input.IsActive,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		DaysOfWeek:     append([]int64(nil), input.DaysOfWeek...),
		TimeOfDayStart: input.TimeOfDayStart,
		TimeOfDayEnd:   input.TimeOfDayEnd,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, promo); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert promotion")
		}
		return s.emitChange(ctx, tx, enums.EventPromotionCreated, userID, promo)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promotion")
	}

	s.invalidate(storeID)
	return NewPromotionDTO(promo), nil
}

// UpdatePromotion applies a partial update to an existing promotion.
func (s *service) UpdatePromotion(ctx context.Context, userID, storeID, promotionID uuid.UUID, input UpdatePromotionInput) (*PromotionDTO, error) {
	if err := s.ensureActiveStore(ctx, storeID); err != nil {
		return nil, err
	}

	promo, err := s.loadStorePromotion(ctx, storeID, promotionID)
	if err != nil {
		return nil, err
	}

	applyUpdateToPromotion(promo, input)
	if err := validatePromotion(promo); err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Save(ctx, promo); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update promotion")
		}
		return s.emitChange(ctx, tx, enums.EventPromotionUpdated, userID, promo)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update promotion")
	}

	s.invalidate(storeID)
	return NewPromotionDTO(promo), nil
}

// DeletePromotion removes a promotion owned by the store.
func (s *service) DeletePromotion(ctx context.Context, userID, storeID, promotionID uuid.UUID) error {
	if err := s.ensureActiveStore(ctx, storeID); err != nil {
		return err
	}

	promo, err := s.loadStorePromotion(ctx, storeID, promotionID)
	if err != nil {
		return err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, promo.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete promotion")
		}
		return s.emitChange(ctx, tx, enums.EventPromotionDeleted, userID, promo)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete promotion")
	}

	s.invalidate(storeID)
	return nil
}

// GetPromotion loads a single promotion scoped to the store.
func (s *service) GetPromotion(ctx context.Context, storeID, promotionID uuid.UUID) (*PromotionDTO, error) {
	promo, err := s.loadStorePromotion(ctx, storeID, promotionID)
	if err != nil {
		return nil, err
	}
	return NewPromotionDTO(promo), nil
}

// ListPromotions returns every promotion the store has configured.
func (s *service) ListPromotions(ctx context.Context, storeID uuid.UUID) ([]PromotionDTO, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promotions")
	}
	out := make([]PromotionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewPromotionDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) emitChange(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, userID uuid.UUID, promo *models.Promotion) error {
	storeID := promo.StoreID
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregatePromotion,
		AggregateID:   promo.ID,
		Actor:         &outbox.ActorRef{UserID: userID, StoreID: &storeID},
		Data: payloads.PromotionChangedEvent{
			PromotionID:   promo.ID,
			StoreID:       promo.StoreID,
			Name:          promo.Name,
			Scope:         promo.Scope,
			DiscountType:  promo.DiscountType,
			DiscountValue: promo.DiscountValue.String(),
			IsActive:      promo.IsActive,
		},
		Version: 1,
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit promotion event")
	}
	return nil
}

func (s *service) invalidate(storeID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(storeID)
	}
}

func (s *service) loadStorePromotion(ctx context.Context, storeID, promotionID uuid.UUID) (*models.Promotion, error) {
	promo, err := s.repo.FindByID(ctx, promotionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promotion not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promotion")
	}
	if promo.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "promotion does not belong to store")
	}
	return promo, nil
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

func validateCreateInput(input CreatePromotionInput) error {
	promo := models.Promotion{
		Name:           strings.TrimSpace(input.Name),
		Scope:          input.Scope,
		DiscountType:   input.DiscountType,
		DiscountValue:  input.DiscountValue,
		ProductIDs:     input.ProductIDs,
		Categories:     input.Categories,
		TierKeys:       input.TierKeys,
		MinGrams:       input.MinGrams,
		MaxGrams:       input.MaxGrams,
		StartTime:      input.StartTime,
		EndTime:        input.EndTime,
		DaysOfWeek:     input.DaysOfWeek,
		TimeOfDayStart: input.TimeOfDayStart,
		TimeOfDayEnd:   input.TimeOfDayEnd,
	}
	return validatePromotion(&promo)
}

// validatePromotion enforces the write-boundary invariants so the resolver
// can treat stored promotions as well-formed.
func validatePromotion(promo *models.Promotion) error {
	if strings.TrimSpace(promo.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !promo.Scope.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid promotion scope")
	}
	if !promo.DiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid discount type")
	}
	if promo.DiscountValue.Sign() < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_value must be non-negative")
	}
	if promo.DiscountType == enums.DiscountTypePercentage && promo.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}

	switch promo.Scope {
	case enums.PromotionScopeProduct:
		if len(promo.ProductIDs) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "product scope requires product_ids")
		}
		for _, raw := range promo.ProductIDs {
			if _, err := uuid.Parse(raw); err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "product_ids must be valid UUIDs").WithDetails(map[string]any{"value": raw})
			}
		}
	case enums.PromotionScopeCategory:
		if len(promo.Categories) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "category scope requires categories")
		}
		for _, raw := range promo.Categories {
			if !enums.ProductCategory(raw).IsValid() {
				return pkgerrors.New(pkgerrors.CodeValidation, "unknown product category").WithDetails(map[string]any{"value": raw})
			}
		}
	case enums.PromotionScopeTier:
		if len(promo.TierKeys) == 0 && promo.MinGrams == nil && promo.MaxGrams == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier scope requires tier_keys or a gram range")
		}
	}

	if promo.MinGrams != nil && promo.MinGrams.Sign() < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_grams must be non-negative")
	}
	if promo.MinGrams != nil && promo.MaxGrams != nil && promo.MaxGrams.LessThan(*promo.MinGrams) {
		return pkgerrors.New(pkgerrors.CodeValidation, "max_grams must be >= min_grams")
	}
	if promo.StartTime != nil && promo.EndTime != nil && promo.EndTime.Before(*promo.StartTime) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end_time must be >= start_time")
	}
	for _, day := range promo.DaysOfWeek {
		if day < 0 || day > 6 {
			return pkgerrors.New(pkgerrors.CodeValidation, "days_of_week values must be between 0 and 6")
		}
	}
	if err := validateClockValue(promo.TimeOfDayStart); err != nil {
		return err
	}
	if err := validateClockValue(promo.TimeOfDayEnd); err != nil {
		return err
	}
	return nil
}

func validateClockValue(value *string) error {
	if value == nil {
		return nil
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(*value)); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "time-of-day bounds must use HH:MM").WithDetails(map[string]any{"value": *value})
	}
	return nil
}

func applyUpdateToPromotion(promo *models.Promotion, input UpdatePromotionInput) {
	if input.Name != nil {
		promo.Name = strings.TrimSpace(*input.Name)
	}
	if input.Scope != nil {
		promo.Scope = *input.Scope
	}
	if input.DiscountType != nil {
		promo.DiscountType = *input.DiscountType
	}
	if input.DiscountValue != nil {
		promo.DiscountValue = *input.DiscountValue
	}
	if input.ProductIDs != nil {
		promo.ProductIDs = append([]string(nil), (*input.ProductIDs)...)
	}
	if input.Categories != nil {
		promo.Categories = append([]string(nil), (*input.Categories)...)
	}
	if input.TierKeys != nil {
		promo.TierKeys = append([]string(nil), (*input.TierKeys)...)
	}
	if input.MinGrams != nil {
		promo.MinGrams = input.MinGrams
	}
	if input.MaxGrams != nil {
		promo.MaxGrams = input.MaxGrams
	}
	if input.BadgeText != nil {
		promo.BadgeText = input.BadgeText
	}
	if input.BadgeColor != nil {
		promo.BadgeColor = input.BadgeColor
	}
	if input.Priority != nil {
		promo.Priority = *input.Priority
	}
	if input.IsActive != nil {
		promo.IsActive = *input.IsActive
	}
	if input.StartTime != nil {
		promo.StartTime = input.StartTime
	}
	if input.EndTime != nil {
		promo.EndTime = input.EndTime
	}
	if input.DaysOfWeek != nil {
		promo.DaysOfWeek = append([]int64(nil), (*input.DaysOfWeek)...)
	}
	if input.TimeOfDayStart != nil {
		promo.TimeOfDayStart = input.TimeOfDayStart
	}
	if input.TimeOfDayEnd != nil {
		promo.TimeOfDayEnd = input.TimeOfDayEnd
	}
}
