package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/api/responses"
	"github.com/stashline/stashline-backend/api/validators"
	"github.com/stashline/stashline-backend/internal/pos"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
	"github.com/stashline/stashline-backend/pkg/logger"
)

// POSQuote prices a cart against the store's live catalog and promotions.
func POSQuote(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}

		var payload posQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

type posQuoteLineRequest struct {
	ProductID     string           `json:"product_id" validate:"required"`
	TierKey       *string          `json:"tier_key,omitempty"`
	Quantity      int              `json:"quantity,omitempty" validate:"omitempty,min=1"`
	QuantityGrams *decimal.Decimal `json:"quantity_grams,omitempty"`
}

type posQuoteRequest struct {
	StoreID string                `json:"store_id" validate:"required"`
	Lines   []posQuoteLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (r posQuoteRequest) toInput() (uuid.UUID, pos.QuoteInput, error) {
	storeID, err := uuid.Parse(strings.TrimSpace(r.StoreID))
	if err != nil {
		return uuid.Nil, pos.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}

	lines := make([]pos.QuoteLineInput, 0, len(r.Lines))
	for _, line := range r.Lines {
		productID, err := uuid.Parse(strings.TrimSpace(line.ProductID))
		if err != nil {
			return uuid.Nil, pos.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		lines = append(lines, pos.QuoteLineInput{
			ProductID:     productID,
			TierKey:       line.TierKey,
			Quantity:      line.Quantity,
			QuantityGrams: line.QuantityGrams,
		})
	}

	return storeID, pos.QuoteInput{Lines: lines}, nil
}
