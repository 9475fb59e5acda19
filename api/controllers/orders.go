package controllers

import (
	"net/http"

	"github.com/pratomobowo/pasarantar-sub000/api/responses"
	"github.com/pratomobowo/pasarantar-sub000/api/validators"
	ordersvc "github.com/pratomobowo/pasarantar-sub000/internal/orders"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

type orderListResponse struct {
	Orders     []models.Order  `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}

func orderListInput(r *http.Request) (ordersvc.ListInput, error) {
	params, err := validators.ParsePagination(r)
	if err != nil {
		return ordersvc.ListInput{}, err
	}
	input := ordersvc.ListInput{Pagination: params}

	status, err := validators.ParseOrderStatusQuery(r, "status")
	if err != nil {
		return ordersvc.ListInput{}, err
	}
	if status != "" {
		input.Status = &status
	}
	return input, nil
}

// OrderList returns the authenticated customer's own orders.
func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := orderListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, meta, err := svc.ListCustomerOrders(r.Context(), customerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderListResponse{Orders: items, Pagination: meta})
	}
}

// OrderDetail returns one of the customer's own orders. Foreign orders
// read as not found.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetCustomerOrder(r.Context(), customerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// OrderCancel lets a customer cancel an order that is still pending.
func OrderCancel(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CancelOwnOrder(r.Context(), customerID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
