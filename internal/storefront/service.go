package storefront

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/pkg/db/models"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
	"github.com/stashline/stashline-backend/pkg/logger"
)

// storeFinder resolves the tenant behind a public menu slug.
type storeFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

// productLister loads the active catalog with tier prices and blueprints.
type productLister interface {
	ListActiveByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
}

// promotionSource serves the store's active promotions, typically the
// promotions list cache.
type promotionSource interface {
	Get(ctx context.Context, storeID uuid.UUID) ([]models.Promotion, error)
}

// Service renders public menus.
type Service interface {
	Menu(ctx context.Context, slug string) (*MenuDTO, error)
}

type service struct {
	stores     storeFinder
	products   productLister
	promotions promotionSource
	logg       *logger.Logger
	now        func() time.Time
}

// NewService wires the storefront read path. A nil clock uses time.Now.
func NewService(stores storeFinder, products productLister, promotions promotionSource, logg *logger.Logger, now func() time.Time) (Service, error) {
	if stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store finder is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product lister is required")
	}
	if promotions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotion source is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		stores:     stores,
		products:   products,
		promotions: promotions,
		logg:       logg,
		now:        now,
	}, nil
}

// Menu resolves the full public menu for a store slug. Every price is
// evaluated against the store's active promotions at the store's local time.
// Inactive stores are indistinguishable from missing ones.
func (s *service) Menu(ctx context.Context, slug string) (*MenuDTO, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}

	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load store")
	}
	if !store.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	products, err := s.products.ListActiveByStore(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load menu products")
	}

	promos, err := s.promotions.Get(ctx, store.ID)
	if err != nil {
		// a menu without promotions beats no menu at all
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"store_id": store.ID.String(),
			"error":    err.Error(),
		}), "serving menu without promotions")
		promos = nil
	}

	now := s.localNow(ctx, store)
	menu := &MenuDTO{
		Store:       NewMenuStoreDTO(store),
		GeneratedAt: now,
		Products:    make([]MenuProductDTO, 0, len(products)),
	}
	for i := range products {
		menu.Products = append(menu.Products, NewMenuProductDTO(&products[i], promos, now))
	}
	return menu, nil
}

// localNow resolves the evaluation instant in the store's timezone so
// day-of-week and time-of-day promotion windows track the storefront clock.
func (s *service) localNow(ctx context.Context, store *models.Store) time.Time {
	loc, err := time.LoadLocation(store.Timezone)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"store_id": store.ID.String(),
			"timezone": store.Timezone,
		}), "unknown store timezone, falling back to UTC")
		loc = time.UTC
	}
	return s.now().In(loc)
}
