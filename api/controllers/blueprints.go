package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stashline/stashline-backend/api/responses"
	"github.com/stashline/stashline-backend/api/validators"
	"github.com/stashline/stashline-backend/internal/blueprints"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
	"github.com/stashline/stashline-backend/pkg/logger"
)

// VendorCreateBlueprint creates a pricing blueprint with its weight tiers.
func VendorCreateBlueprint(svc blueprints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blueprint service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createBlueprintRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		blueprint, err := svc.CreateBlueprint(r.Context(), sid, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, blueprint)
	}
}

// VendorGetBlueprint returns one blueprint with its tiers.
func VendorGetBlueprint(svc blueprints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blueprint service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		blueprintID, err := pathUUID(r, "blueprintId", "blueprint id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		blueprint, err := svc.GetBlueprint(r.Context(), sid, blueprintID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, blueprint)
	}
}

// VendorListBlueprints returns all blueprints for the active store.
func VendorListBlueprints(svc blueprints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blueprint service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListBlueprints(r.Context(), sid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"blueprints": list})
	}
}

// VendorDeleteBlueprint removes a blueprint that no product references.
func VendorDeleteBlueprint(svc blueprints.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "blueprint service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		blueprintID, err := pathUUID(r, "blueprintId", "blueprint id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteBlueprint(r.Context(), sid, blueprintID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

type blueprintTierRequest struct {
	TierKey    string          `json:"tier_key" validate:"required"`
	Label      string          `json:"label" validate:"required"`
	GramWeight decimal.Decimal `json:"gram_weight" validate:"required"`
}

type createBlueprintRequest struct {
	Name     string                 `json:"name" validate:"required"`
	Category *string                `json:"category,omitempty"`
	Tiers    []blueprintTierRequest `json:"tiers" validate:"required,min=1,dive"`
}

func (r createBlueprintRequest) toCreateInput() (blueprints.CreateBlueprintInput, error) {
	category, err := parseOptionalCategory(r.Category)
	if err != nil {
		return blueprints.CreateBlueprintInput{}, err
	}

	tiers := make([]blueprints.TierInput, 0, len(r.Tiers))
	for _, tier := range r.Tiers {
		tiers = append(tiers, blueprints.TierInput{
			TierKey:    strings.TrimSpace(tier.TierKey),
			Label:      strings.TrimSpace(tier.Label),
			GramWeight: tier.GramWeight,
		})
	}

	return blueprints.CreateBlueprintInput{
		Name:     strings.TrimSpace(r.Name),
		Category: category,
		Tiers:    tiers,
	}, nil
}
