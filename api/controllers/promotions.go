package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/api/responses"
	"github.com/stashline/stashline-backend/api/validators"
	"github.com/stashline/stashline-backend/internal/promotions"
	"github.com/stashline/stashline-backend/pkg/enums"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
	"github.com/stashline/stashline-backend/pkg/logger"
)

// VendorCreatePromotion handles promotion creation for vendor stores.
func VendorCreatePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		uid, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createPromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.CreatePromotion(r.Context(), uid, sid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, promo)
	}
}

// VendorUpdatePromotion handles partial updates of a promotion.
func VendorUpdatePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		uid, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promotionID, err := pathUUID(r, "promotionId", "promotion id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.UpdatePromotion(r.Context(), uid, sid, promotionID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, promo)
	}
}

// VendorDeletePromotion removes a promotion.
func VendorDeletePromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		uid, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promotionID, err := pathUUID(r, "promotionId", "promotion id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeletePromotion(r.Context(), uid, sid, promotionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

// VendorGetPromotion returns one promotion.
func VendorGetPromotion(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promotionID, err := pathUUID(r, "promotionId", "promotion id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promo, err := svc.GetPromotion(r.Context(), sid, promotionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, promo)
	}
}

// VendorListPromotions returns all promotions for the active store.
func VendorListPromotions(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotion service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promos, err := svc.ListPromotions(r.Context(), sid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"promotions": promos})
	}
}

type createPromotionRequest struct {
	Name           string           `json:"name" validate:"required"`
	Scope          string           `json:"scope" validate:"required"`
	DiscountType   string           `json:"discount_type" validate:"required"`
	DiscountValue  decimal.Decimal  `json:"discount_value" validate:"required"`
	ProductIDs     []string         `json:"product_ids,omitempty"`
	Categories     []string         `json:"categories,omitempty"`
	TierKeys       []string         `json:"tier_keys,omitempty"`
	MinGrams       *decimal.Decimal `json:"min_grams,omitempty"`
	MaxGrams       *decimal.Decimal `json:"max_grams,omitempty"`
	BadgeText      *string          `json:"badge_text,omitempty"`
	BadgeColor     *string          `json:"badge_color,omitempty"`
	Priority       int              `json:"priority,omitempty" validate:"omitempty,min=0"`
	IsActive       *bool            `json:"is_active,omitempty"`
	StartTime      *time.Time       `json:"start_time,omitempty"`
	EndTime        *time.Time       `json:"end_time,omitempty"`
	DaysOfWeek     []int64          `json:"days_of_week,omitempty" validate:"omitempty,dive,gte=0,lte=6"`
	TimeOfDayStart *string          `json:"time_of_day_start,omitempty"`
	TimeOfDayEnd   *string          `json:"time_of_day_end,omitempty"`
}

func (r createPromotionRequest) toCreateInput() (promotions.CreatePromotionInput, error) {
	scope, err := enums.ParsePromotionScope(strings.TrimSpace(r.Scope))
	if err != nil {
		return promotions.CreatePromotionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scope")
	}

	discountType, err := enums.ParseDiscountType(strings.TrimSpace(r.DiscountType))
	if err != nil {
		return promotions.CreatePromotionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
	}

	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return promotions.CreatePromotionInput{
		Name:           strings.TrimSpace(r.Name),
		Scope:          scope,
		DiscountType:   discountType,
		DiscountValue:  r.DiscountValue,
		ProductIDs:     r.ProductIDs,
		Categories:     r.Categories,
		TierKeys:       r.TierKeys,
		MinGrams:       r.MinGrams,
		MaxGrams:       r.MaxGrams,
		BadgeText:      r.BadgeText,
		BadgeColor:     r.BadgeColor,
		Priority:       r.Priority,
		IsActive:       isActive,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		DaysOfWeek:     r.DaysOfWeek,
		TimeOfDayStart: r.TimeOfDayStart,
		TimeOfDayEnd:   r.TimeOfDayEnd,
	}, nil
}

type updatePromotionRequest struct {
	Name           *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Scope          *string          `json:"scope,omitempty"`
	DiscountType   *string          `json:"discount_type,omitempty"`
	DiscountValue  *decimal.Decimal `json:"discount_value,omitempty"`
	ProductIDs     *[]string        `json:"product_ids,omitempty"`
	Categories     *[]string        `json:"categories,omitempty"`
	TierKeys       *[]string        `json:"tier_keys,omitempty"`
	MinGrams       *decimal.Decimal `json:"min_grams,omitempty"`
	MaxGrams       *decimal.Decimal `json:"max_grams,omitempty"`
	BadgeText      *string          `json:"badge_text,omitempty"`
	BadgeColor     *string          `json:"badge_color,omitempty"`
	Priority       *int             `json:"priority,omitempty" validate:"omitempty,min=0"`
	IsActive       *bool            `json:"is_active,omitempty"`
	StartTime      *time.Time       `json:"start_time,omitempty"`
	EndTime        *time.Time       `json:"end_time,omitempty"`
	DaysOfWeek     *[]int64         `json:"days_of_week,omitempty" validate:"omitempty,dive,gte=0,lte=6"`
	TimeOfDayStart *string          `json:"time_of_day_start,omitempty"`
	TimeOfDayEnd   *string          `json:"time_of_day_end,omitempty"`
}

func (r updatePromotionRequest) toUpdateInput() (promotions.UpdatePromotionInput, error) {
	input := promotions.UpdatePromotionInput{
		Name:           r.Name,
		DiscountValue:  r.DiscountValue,
		ProductIDs:     r.ProductIDs,
		Categories:     r.Categories,
		TierKeys:       r.TierKeys,
		MinGrams:       r.MinGrams,
		MaxGrams:       r.MaxGrams,
		BadgeText:      r.BadgeText,
		BadgeColor:     r.BadgeColor,
		Priority:       r.Priority,
		IsActive:       r.IsActive,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		DaysOfWeek:     r.DaysOfWeek,
		TimeOfDayStart: r.TimeOfDayStart,
		TimeOfDayEnd:   r.TimeOfDayEnd,
	}

	if r.Scope != nil {
		scope, err := enums.ParsePromotionScope(strings.TrimSpace(*r.Scope))
		if err != nil {
			return promotions.UpdatePromotionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid scope")
		}
		input.Scope = &scope
	}

	if r.DiscountType != nil {
		discountType, err := enums.ParseDiscountType(strings.TrimSpace(*r.DiscountType))
		if err != nil {
			return promotions.UpdatePromotionInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
		}
		input.DiscountType = &discountType
	}

	return input, nil
}
