package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pratomobowo/pasarantar-sub000/api/responses"
	"github.com/pratomobowo/pasarantar-sub000/api/validators"
	reviewsvc "github.com/pratomobowo/pasarantar-sub000/internal/reviews"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
)

// AdminReviewList returns reviews for moderation, optionally scoped to a
// product or to the verified subset.
func AdminReviewList(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := reviewsvc.ListInput{Pagination: params}

		productID, err := validators.ParseUUIDQuery(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if productID != uuid.Nil {
			input.ProductID = &productID
		}

		verifiedOnly, err := validators.ParseBoolQuery(r, "verified")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.VerifiedOnly = verifiedOnly

		items, meta, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, reviewListResponse{Reviews: items, Pagination: meta})
	}
}

func AdminReviewVerify(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		reviewID, err := validators.ParseUUIDParam(r, "reviewId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.Verify(r.Context(), reviewID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, review)
	}
}

func AdminReviewDelete(svc reviewsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		reviewID, err := validators.ParseUUIDParam(r, "reviewId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), reviewID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
