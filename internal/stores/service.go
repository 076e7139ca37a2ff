package stores

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db/models"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// storeRepository is the persistence surface the service depends on.
type storeRepository interface {
	Create(ctx context.Context, store *models.Store) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

// Service exposes tenant store management.
type Service interface {
	CreateStore(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*StoreDTO, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*StoreDTO, error)
	GetStoreBySlug(ctx context.Context, slug string) (*StoreDTO, error)
	ListStoresByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error)
	UpdateStore(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
}

// CreateStoreInput holds creation-time data for a new store.
type CreateStoreInput struct {
	Slug          string
	Name          string
	Description   *string
	Phone         *string
	Email         *string
	LicenseNumber *string
	Timezone      string
}

// UpdateStoreInput carries partial updates. Nil fields are untouched.
type UpdateStoreInput struct {
	Name          *string
	Description   *string
	Phone         *string
	Email         *string
	LicenseNumber *string
	Timezone      *string
	IsActive      *bool
}

type service struct {
	repo storeRepository
}

// NewService wires the store service.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateStore(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*StoreDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	if err := validateCreateStoreInput(&input); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySlug(ctx, input.Slug); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "store slug is already in use").
			WithDetails(map[string]any{"slug": input.Slug})
	} else if !isNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to check store slug")
	}

	store := &models.Store{
		Slug:          input.Slug,
		Name:          input.Name,
		Description:   input.Description,
		Phone:         input.Phone,
		Email:         input.Email,
		LicenseNumber: input.LicenseNumber,
		Timezone:      input.Timezone,
		IsActive:      true,
		OwnerID:       ownerID,
	}

	created, err := s.repo.Create(ctx, store)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create store")
	}
	return FromModel(created), nil
}

func (s *service) GetStore(ctx context.Context, storeID uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load store")
	}
	return FromModel(store), nil
}

func (s *service) GetStoreBySlug(ctx context.Context, slug string) (*StoreDTO, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}

	store, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load store")
	}
	return FromModel(store), nil
}

func (s *service) ListStoresByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}

	records, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list stores")
	}

	dtos := make([]StoreDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *FromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) UpdateStore(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load store")
	}
	if store.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store does not belong to the authenticated user")
	}

	if err := validateUpdateStoreInput(input); err != nil {
		return nil, err
	}
	applyUpdateToStore(store, input)

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to update store")
	}
	return FromModel(store), nil
}

func validateCreateStoreInput(input *CreateStoreInput) error {
	input.Slug = strings.TrimSpace(strings.ToLower(input.Slug))
	input.Name = strings.TrimSpace(input.Name)
	input.Timezone = strings.TrimSpace(input.Timezone)

	if input.Slug == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}
	if !slugPattern.MatchString(input.Slug) {
		return pkgerrors.New(pkgerrors.CodeValidation, "store slug must be lowercase letters, digits, and hyphens").
			WithDetails(map[string]any{"slug": input.Slug})
	}
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if input.Timezone == "" {
		input.Timezone = "UTC"
	}
	if err := validateTimezone(input.Timezone); err != nil {
		return err
	}
	return nil
}

func validateUpdateStoreInput(input UpdateStoreInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be blank")
	}
	if input.Timezone != nil {
		if err := validateTimezone(strings.TrimSpace(*input.Timezone)); err != nil {
			return err
		}
	}
	return nil
}

func validateTimezone(name string) error {
	if _, err := time.LoadLocation(name); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown timezone").
			WithDetails(map[string]any{"timezone": name})
	}
	return nil
}

func applyUpdateToStore(store *models.Store, input UpdateStoreInput) {
	if input.Name != nil {
		store.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		store.Description = input.Description
	}
	if input.Phone != nil {
		store.Phone = input.Phone
	}
	if input.Email != nil {
		store.Email = input.Email
	}
	if input.LicenseNumber != nil {
		store.LicenseNumber = input.LicenseNumber
	}
	if input.Timezone != nil {
		store.Timezone = strings.TrimSpace(*input.Timezone)
	}
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
