package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pratomobowo/pasarantar-sub000/api/responses"
	"github.com/pratomobowo/pasarantar-sub000/api/validators"
	productsvc "github.com/pratomobowo/pasarantar-sub000/internal/products"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

type productListResponse struct {
	Products   []models.Product `json:"products"`
	Pagination pagination.Meta  `json:"pagination"`
}

// ProductList returns the active catalog, optionally filtered by category.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.ListInput{
			Pagination: params,
			Category:   strings.TrimSpace(r.URL.Query().Get("category")),
		}

		items, meta, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, productListResponse{Products: items, Pagination: meta})
	}
}

// ProductDetail resolves a product by id or, failing that, by slug. The
// storefront links both forms.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "productId"))
		if raw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var (
			product *models.Product
			err     error
		)
		if id, parseErr := uuid.Parse(raw); parseErr == nil {
			product, err = svc.GetProduct(r.Context(), id)
		} else {
			product, err = svc.GetProductBySlug(r.Context(), raw)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}
