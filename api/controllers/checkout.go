package controllers

import (
	"net/http"
	"time"

	"github.com/pratomobowo/pasarantar-sub000/api/responses"
	"github.com/pratomobowo/pasarantar-sub000/api/validators"
	checkoutsvc "github.com/pratomobowo/pasarantar-sub000/internal/checkout"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/geo"
	"github.com/pratomobowo/pasarantar-sub000/pkg/logger"
	"github.com/pratomobowo/pasarantar-sub000/pkg/types"
)

// CheckoutDraftGet returns the stored draft, falling back to the customer
// profile for prefill when no draft exists yet.
func CheckoutDraftGet(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.GetDraft(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

type updateDraftRequest struct {
	Name           *string `json:"name"`
	Whatsapp       *string `json:"whatsapp"`
	Address        *string `json:"address"`
	Notes          *string `json:"notes"`
	ShippingMethod *string `json:"shippingMethod"`
	PaymentMethod  *string `json:"paymentMethod"`
	DeliveryDay    *string `json:"deliveryDay"`
}

func (r updateDraftRequest) toInput() (checkoutsvc.UpdateDraftInput, error) {
	input := checkoutsvc.UpdateDraftInput{
		Name:     r.Name,
		Whatsapp: r.Whatsapp,
		Address:  r.Address,
		Notes:    r.Notes,
	}
	if r.ShippingMethod != nil {
		method, err := enums.ParseShippingMethod(*r.ShippingMethod)
		if err != nil {
			return checkoutsvc.UpdateDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method")
		}
		input.ShippingMethod = &method
	}
	if r.PaymentMethod != nil {
		method, err := enums.ParsePaymentMethod(*r.PaymentMethod)
		if err != nil {
			return checkoutsvc.UpdateDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
		}
		input.PaymentMethod = &method
	}
	if r.DeliveryDay != nil {
		day, err := enums.ParseDeliveryDay(*r.DeliveryDay)
		if err != nil {
			return checkoutsvc.UpdateDraftInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery day")
		}
		input.DeliveryDay = &day
	}
	return input, nil
}

func CheckoutDraftUpdate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.UpdateDraft(r.Context(), customerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

type setCoordinatesRequest struct {
	Coordinates string `json:"coordinates"`
}

// CheckoutSetCoordinates parses a "lat, lng" pair typed or pasted by the
// customer. An empty value clears the pin.
func CheckoutSetCoordinates(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCoordinatesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.SetCoordinates(r.Context(), customerID, payload.Coordinates)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

type resolveLocationResponse struct {
	State          string             `json:"state"`
	Coordinates    *types.Coordinates `json:"coordinates,omitempty"`
	Attempts       int                `json:"attempts"`
	FailureCode    string             `json:"failureCode,omitempty"`
	FailureMessage string             `json:"failureMessage,omitempty"`
	Draft          *checkoutsvc.Draft `json:"draft"`
}

func newResolveLocationResponse(res *geo.Resolution, draft *checkoutsvc.Draft) resolveLocationResponse {
	out := resolveLocationResponse{Draft: draft}
	if res != nil {
		out.State = string(res.State)
		out.Coordinates = res.Coordinates
		out.Attempts = res.Attempts
		out.FailureCode = string(res.FailureCode)
		out.FailureMessage = res.FailureMessage
	}
	return out
}

// CheckoutResolveLocation geocodes the draft address and pins the result.
func CheckoutResolveLocation(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolution, draft, err := svc.ResolveLocation(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newResolveLocationResponse(resolution, draft))
	}
}

func CheckoutReset(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		draft, err := svc.Reset(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, draft)
	}
}

type deliveryDaysResponse struct {
	Options []checkoutsvc.DeliveryDayOption `json:"options"`
}

func CheckoutDeliveryDays(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		responses.WriteSuccess(w, deliveryDaysResponse{Options: svc.DeliveryDays(time.Now())})
	}
}

// CheckoutSubmit turns the draft plus cart into a persisted order.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
