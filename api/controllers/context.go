package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pratomobowo/pasarantar-sub000/api/middleware"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
)

// customerIDFromRequest reads the authenticated customer id seeded by the
// auth middleware.
func customerIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer id")
	}
	return id, nil
}
