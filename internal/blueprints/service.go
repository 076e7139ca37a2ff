package blueprints

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db/models"
	"github.com/stashline/stashline-backend/pkg/enums"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
)

// Service exposes pricing blueprint management operations.
type Service interface {
	CreateBlueprint(ctx context.Context, storeID uuid.UUID, input CreateBlueprintInput) (*BlueprintDTO, error)
	GetBlueprint(ctx context.Context, storeID, blueprintID uuid.UUID) (*BlueprintDTO, error)
	ListBlueprints(ctx context.Context, storeID uuid.UUID) ([]BlueprintDTO, error)
	DeleteBlueprint(ctx context.Context, storeID, blueprintID uuid.UUID) error
}

// CreateBlueprintInput holds the validated payload to create a blueprint.
type CreateBlueprintInput struct {
	Name     string
	Category *enums.ProductCategory
	Tiers    []TierInput
}

// TierInput defines one weight tier.
type TierInput struct {
	TierKey    string
	Label      string
	GramWeight decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs a blueprint service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("blueprint repository required")
	}
	return &service{repo: repo}, nil
}

// CreateBlueprint validates and persists a blueprint with its tiers. Tier
// sort order follows the submitted order.
func (s *service) CreateBlueprint(ctx context.Context, storeID uuid.UUID, input CreateBlueprintInput) (*BlueprintDTO, error) {
	if err := validateBlueprintInput(input); err != nil {
		return nil, err
	}

	blueprint := &models.PricingBlueprint{
		StoreID:  storeID,
		Name:     strings.TrimSpace(input.Name),
		Category: input.Category,
		Tiers:    make([]models.BlueprintTier, 0, len(input.Tiers)),
	}
	for idx, tier := range input.Tiers {
		blueprint.Tiers = append(blueprint.Tiers, models.BlueprintTier{
			TierKey:    strings.TrimSpace(tier.TierKey),
			Label:      strings.TrimSpace(tier.Label),
			GramWeight: tier.GramWeight,
			SortOrder:  idx,
		})
	}

	created, err := s.repo.Create(ctx, blueprint)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert blueprint")
	}
	return NewBlueprintDTO(created), nil
}

// GetBlueprint loads a blueprint scoped to the store.
func (s *service) GetBlueprint(ctx context.Context, storeID, blueprintID uuid.UUID) (*BlueprintDTO, error) {
	blueprint, err := s.loadStoreBlueprint(ctx, storeID, blueprintID)
	if err != nil {
		return nil, err
	}
	return NewBlueprintDTO(blueprint), nil
}

// ListBlueprints returns the store's blueprints.
func (s *service) ListBlueprints(ctx context.Context, storeID uuid.UUID) ([]BlueprintDTO, error) {
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list blueprints")
	}
	out := make([]BlueprintDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewBlueprintDTO(&rows[i]))
	}
	return out, nil
}

// DeleteBlueprint removes an unused blueprint.
func (s *service) DeleteBlueprint(ctx context.Context, storeID, blueprintID uuid.UUID) error {
	if _, err := s.loadStoreBlueprint(ctx, storeID, blueprintID); err != nil {
		return err
	}

	inUse, err := s.repo.CountProductsUsing(ctx, blueprintID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count blueprint usage")
	}
	if inUse > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "blueprint is referenced by products").WithDetails(map[string]any{"products": inUse})
	}

	if err := s.repo.Delete(ctx, blueprintID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete blueprint")
	}
	return nil
}

func (s *service) loadStoreBlueprint(ctx context.Context, storeID, blueprintID uuid.UUID) (*models.PricingBlueprint, error) {
	blueprint, err := s.repo.FindByID(ctx, blueprintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "blueprint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load blueprint")
	}
	if blueprint.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "blueprint does not belong to store")
	}
	return blueprint, nil
}

func validateBlueprintInput(input CreateBlueprintInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(input.Tiers) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one tier is required")
	}
	if input.Category != nil && !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}
	seen := make(map[string]struct{}, len(input.Tiers))
	for _, tier := range input.Tiers {
		key := strings.TrimSpace(tier.TierKey)
		if key == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier_key is required")
		}
		if _, ok := seen[key]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate tier_key").WithDetails(map[string]any{"tier_key": key})
		}
		seen[key] = struct{}{}
		if strings.TrimSpace(tier.Label) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier label is required")
		}
		if tier.GramWeight.Sign() <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "gram_weight must be positive").WithDetails(map[string]any{"tier_key": key})
		}
	}
	return nil
}
