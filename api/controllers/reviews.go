package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pratomobowo/pasarantar-sub000/api/responses"
	"github.com/pratomobowo/pasarantar-sub000/api/validators"
	reviewsvc "github.com/pratomobowo/pasarantar-sub000/internal/reviews"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

type createReviewRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	OrderID   uuid.UUID `json:"orderId" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" validate:"required"`
}

// ReviewCreate records a verified-purchase review for one product on one
// delivered order.
func ReviewCreate(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Create(r.Context(), customerID, reviewsvc.CreateInput{
			ProductID: payload.ProductID,
			OrderID:   payload.OrderID,
			Rating:    payload.Rating,
			Comment:   payload.Comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

type reviewExistsResponse struct {
	Exists bool `json:"exists"`
}

// ReviewExists tells the storefront whether a product on an order has
// already been reviewed.
func ReviewExists(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDQuery(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParseUUIDQuery(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if productID == uuid.Nil || orderID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId and orderId are required"))
			return
		}

		exists, err := svc.Exists(r.Context(), productID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reviewExistsResponse{Exists: exists})
	}
}

type reviewListResponse struct {
	Reviews    []models.Review `json:"reviews"`
	Pagination pagination.Meta `json:"pagination"`
}

// ProductReviews lists the visible reviews of one product.
func ProductReviews(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.List(r.Context(), reviewsvc.ListInput{
			Pagination: params,
			ProductID:  &productID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reviewListResponse{Reviews: items, Pagination: meta})
	}
}
