package pos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stashline/stashline-backend/internal/pricing"
	"github.com/stashline/stashline-backend/pkg/db/models"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
)

// maxQuoteLines caps one quote so a register cannot submit unbounded carts.
const maxQuoteLines = 100

// storeFinder loads the quoting store for its timezone and status.
type storeFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// productFinder loads a product with tier prices and blueprint preloaded.
type productFinder interface {
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// promotionSource serves the store's active promotions.
type promotionSource interface {
	Get(ctx context.Context, storeID uuid.UUID) ([]models.Promotion, error)
}

// Service prices register carts. Quotes are display-time only; nothing is
// persisted or charged.
type Service interface {
	Quote(ctx context.Context, storeID uuid.UUID, input QuoteInput) (*QuoteDTO, error)
}

// QuoteInput is one register cart to price.
type QuoteInput struct {
	Lines []QuoteLineInput
}

// QuoteLineInput prices one product in one purchase context. Quantity is the
// unit count and defaults to 1. QuantityGrams overrides the gram context used
// for quantity-scoped promotions; when absent it falls back to the tier's
// gram weight, then to 1.
type QuoteLineInput struct {
	ProductID     uuid.UUID
	TierKey       *string
	Quantity      int
	QuantityGrams *decimal.Decimal
}

type service struct {
	stores     storeFinder
	products   productFinder
	promotions promotionSource
	now        func() time.Time
}

// NewService wires the quote service. A nil clock uses time.Now.
func NewService(stores storeFinder, products productFinder, promotions promotionSource, now func() time.Time) (Service, error) {
	if stores == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "store finder is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product finder is required")
	}
	if promotions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotion source is required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		stores:     stores,
		products:   products,
		promotions: promotions,
		now:        now,
	}, nil
}

// Quote resolves every line against the store's promotion set at the store's
// local time and sums the totals. Each line is discounted independently;
// promotions never stack across lines.
func (s *service) Quote(ctx context.Context, storeID uuid.UUID, input QuoteInput) (*QuoteDTO, error) {
	if err := validateQuoteInput(input); err != nil {
		return nil, err
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load store")
	}

	promos, err := s.promotions.Get(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load promotions")
	}

	now := s.localNow(store)
	quote := &QuoteDTO{
		StoreID:  store.ID,
		QuotedAt: now,
		Lines:    make([]QuoteLineDTO, 0, len(input.Lines)),
	}

	subtotal := decimal.Zero
	discount := decimal.Zero
	for i, line := range input.Lines {
		product, err := s.loadLineProduct(ctx, store.ID, i, line.ProductID)
		if err != nil {
			return nil, err
		}

		dto, err := resolveLine(product, promos, line, i, now)
		if err != nil {
			return nil, err
		}

		quote.Lines = append(quote.Lines, *dto)
		subtotal = subtotal.Add(dto.LineOriginal)
		discount = discount.Add(dto.LineSavings)
	}

	quote.Subtotal = subtotal
	quote.DiscountTotal = discount
	quote.Total = subtotal.Sub(discount)
	quote.SubtotalDisplay = pricing.FormatPrice(quote.Subtotal)
	quote.TotalDisplay = pricing.FormatPrice(quote.Total)
	if discount.Sign() > 0 {
		display := pricing.FormatSavings(discount)
		quote.DiscountDisplay = &display
	}
	return quote, nil
}

func (s *service) loadLineProduct(ctx context.Context, storeID uuid.UUID, index int, productID uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lineError(index, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load product")
	}
	if product.StoreID != storeID {
		return nil, lineError(index, "product not found")
	}
	if !product.IsActive {
		return nil, lineError(index, "product is not available")
	}
	return product, nil
}

func (s *service) localNow(store *models.Store) time.Time {
	loc, err := time.LoadLocation(store.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return s.now().In(loc)
}

func validateQuoteInput(input QuoteInput) error {
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quote requires at least one line")
	}
	if len(input.Lines) > maxQuoteLines {
		return pkgerrors.New(pkgerrors.CodeValidation, "too many quote lines").
			WithDetails(map[string]any{"max": maxQuoteLines})
	}
	for i, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			return lineError(i, "product id is required")
		}
		if line.Quantity < 0 {
			return lineError(i, "quantity cannot be negative")
		}
		if line.QuantityGrams != nil && line.QuantityGrams.Sign() < 0 {
			return lineError(i, "gram quantity cannot be negative")
		}
	}
	return nil
}

// resolveLine prices one line. A named tier must exist on the product's
// blueprint and carry a recorded price.
func resolveLine(product *models.Product, promos []models.Promotion, line QuoteLineInput, index int, now time.Time) (*QuoteLineDTO, error) {
	units := line.Quantity
	if units == 0 {
		units = 1
	}

	tierKey := ""
	var tierLabel *string
	var gramWeight *decimal.Decimal
	if line.TierKey != nil && *line.TierKey != "" {
		tierKey = *line.TierKey
		tier := findBlueprintTier(product, tierKey)
		if tier == nil {
			return nil, lineError(index, "unknown tier for product")
		}
		if !tierHasPrice(product, tierKey) {
			return nil, lineError(index, "tier has no recorded price")
		}
		tierLabel = &tier.Label
		weight := tier.GramWeight
		gramWeight = &weight
	}

	quantityGrams := decimal.NewFromInt(1)
	switch {
	case line.QuantityGrams != nil:
		quantityGrams = *line.QuantityGrams
	case gramWeight != nil:
		quantityGrams = *gramWeight
	}

	calc := pricing.CalculatePrice(product, promos, quantityGrams, tierKey, nil, now)
	return newQuoteLineDTO(product, units, tierKey, tierLabel, quantityGrams, calc), nil
}

func findBlueprintTier(product *models.Product, tierKey string) *models.BlueprintTier {
	if product.Blueprint == nil {
		return nil
	}
	for i := range product.Blueprint.Tiers {
		if product.Blueprint.Tiers[i].TierKey == tierKey {
			return &product.Blueprint.Tiers[i]
		}
	}
	return nil
}

func tierHasPrice(product *models.Product, tierKey string) bool {
	for _, tierPrice := range product.TierPrices {
		if tierPrice.TierKey == tierKey && tierPrice.Price != nil {
			return true
		}
	}
	return false
}

func lineError(index int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"line": index})
}
