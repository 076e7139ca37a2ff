package controllers

import (
	"net/http"
	"strings"

	"github.com/stashline/stashline-backend/api/responses"
	"github.com/stashline/stashline-backend/api/validators"
	"github.com/stashline/stashline-backend/internal/stores"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
	"github.com/stashline/stashline-backend/pkg/logger"
)

// CreateStore registers a new store owned by the authenticated user.
func CreateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		userID, err := userIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.CreateStore(r.Context(), userID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, store)
	}
}

// ListMyStores returns every store owned by the authenticated user.
func ListMyStores(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		userID, err := userIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListStoresByOwner(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"stores": list})
	}
}

// StoreProfile returns the active store's profile using the store-scoped JWT.
func StoreProfile(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		_, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetStore(r.Context(), sid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// UpdateStore mutates the active store. Only the owner may update it.
func UpdateStore(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "store service unavailable"))
			return
		}

		uid, sid, err := vendorIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.UpdateStore(r.Context(), uid, sid, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, store)
	}
}

type createStoreRequest struct {
	Slug          string  `json:"slug" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	LicenseNumber *string `json:"license_number,omitempty"`
	Timezone      string  `json:"timezone,omitempty"`
}

func (r createStoreRequest) toInput() stores.CreateStoreInput {
	return stores.CreateStoreInput{
		Slug:          strings.TrimSpace(r.Slug),
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Phone:         r.Phone,
		Email:         r.Email,
		LicenseNumber: r.LicenseNumber,
		Timezone:      strings.TrimSpace(r.Timezone),
	}
}

type updateStoreRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description   *string `json:"description,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	LicenseNumber *string `json:"license_number,omitempty"`
	Timezone      *string `json:"timezone,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (r updateStoreRequest) toInput() stores.UpdateStoreInput {
	return stores.UpdateStoreInput{
		Name:          r.Name,
		Description:   r.Description,
		Phone:         r.Phone,
		Email:         r.Email,
		LicenseNumber: r.LicenseNumber,
		Timezone:      r.Timezone,
		IsActive:      r.IsActive,
	}
}
