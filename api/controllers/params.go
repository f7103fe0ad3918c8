package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/repairdepot/storefront/api/middleware"
	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	id := middleware.UserIDFromContext(r.Context())
	if id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return id, nil
}

func roleFromRequest(r *http.Request) enums.Role {
	actor, _ := middleware.ActorFromContext(r.Context())
	return actor.Role
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func pathParam(r *http.Request, name string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	return raw, nil
}
