package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stashline/stashline-backend/api/middleware"
	pkgerrors "github.com/stashline/stashline-backend/pkg/errors"
)

// vendorIdentity resolves the authenticated user and the active store from
// the request context. Vendor endpoints require both.
func vendorIdentity(r *http.Request) (userID, storeID uuid.UUID, err error) {
	rawStore := middleware.StoreIDFromContext(r.Context())
	if rawStore == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}

	rawUser := middleware.UserIDFromContext(r.Context())
	if rawUser == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}

	storeID, parseErr := uuid.Parse(rawStore)
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid store id")
	}

	userID, parseErr = uuid.Parse(rawUser)
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid user id")
	}

	return userID, storeID, nil
}

// userIdentity resolves just the authenticated user, for endpoints that do
// not run under a store scope (e.g. store creation).
func userIdentity(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, nil
}

// pathUUID parses a UUID route parameter.
func pathUUID(r *http.Request, param, label string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, label+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+label)
	}
	return id, nil
}
