package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	checkoutsvc "github.com/pratomobowo/pasarantar-sub000/internal/checkout"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/geo"
)

type stubCheckoutService struct {
	draft      *checkoutsvc.Draft
	resolution *geo.Resolution
	result     *checkoutsvc.SubmitResult
	err        error

	updates []checkoutsvc.UpdateDraftInput
}

func (s *stubCheckoutService) GetDraft(context.Context, uuid.UUID) (*checkoutsvc.Draft, error) {
	return s.draft, s.err
}

func (s *stubCheckoutService) UpdateDraft(_ context.Context, _ uuid.UUID, input checkoutsvc.UpdateDraftInput) (*checkoutsvc.Draft, error) {
	s.updates = append(s.updates, input)
	return s.draft, s.err
}

func (s *stubCheckoutService) SetCoordinates(context.Context, uuid.UUID, string) (*checkoutsvc.Draft, error) {
	return s.draft, s.err
}

func (s *stubCheckoutService) ResolveLocation(context.Context, uuid.UUID) (*geo.Resolution, *checkoutsvc.Draft, error) {
	return s.resolution, s.draft, s.err
}

func (s *stubCheckoutService) Reset(context.Context, uuid.UUID) (*checkoutsvc.Draft, error) {
	return s.draft, s.err
}

func (s *stubCheckoutService) DeliveryDays(now time.Time) []checkoutsvc.DeliveryDayOption {
	return checkoutsvc.DeliveryDayOptions(now)
}

func (s *stubCheckoutService) Submit(context.Context, uuid.UUID) (*checkoutsvc.SubmitResult, error) {
	return s.result, s.err
}

func TestCheckoutDraftUpdateParsesEnums(t *testing.T) {
	stub := &stubCheckoutService{draft: &checkoutsvc.Draft{}}
	body := `{"name":"Budi","shippingMethod":"pickup","paymentMethod":"cod"}`

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/v1/checkout/draft", strings.NewReader(body), uuid.New())
	CheckoutDraftUpdate(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(stub.updates))
	}
	update := stub.updates[0]
	if update.Name == nil || *update.Name != "Budi" {
		t.Fatalf("unexpected name %+v", update.Name)
	}
	if update.ShippingMethod == nil || *update.ShippingMethod != enums.ShippingMethodPickup {
		t.Fatalf("unexpected shipping method %+v", update.ShippingMethod)
	}
	if update.PaymentMethod == nil || *update.PaymentMethod != enums.PaymentMethodCOD {
		t.Fatalf("unexpected payment method %+v", update.PaymentMethod)
	}
}

func TestCheckoutDraftUpdateRejectsUnknownShippingMethod(t *testing.T) {
	stub := &stubCheckoutService{draft: &checkoutsvc.Draft{}}
	body := `{"shippingMethod":"drone"}`

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/v1/checkout/draft", strings.NewReader(body), uuid.New())
	CheckoutDraftUpdate(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if len(stub.updates) != 0 {
		t.Fatal("service should not run on invalid enum")
	}
}

func TestCheckoutResolveLocationShapesResponse(t *testing.T) {
	stub := &stubCheckoutService{
		draft: &checkoutsvc.Draft{Address: "Jl. Merdeka 1"},
		resolution: &geo.Resolution{
			State:    geo.StateResolved,
			Attempts: 2,
		},
	}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/checkout/resolve-location", nil, uuid.New())
	CheckoutResolveLocation(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			State    string `json:"state"`
			Attempts int    `json:"attempts"`
			Draft    *struct {
				Address string `json:"address"`
			} `json:"draft"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.State != string(geo.StateResolved) {
		t.Fatalf("unexpected state %q", envelope.Data.State)
	}
	if envelope.Data.Attempts != 2 {
		t.Fatalf("unexpected attempts %d", envelope.Data.Attempts)
	}
	if envelope.Data.Draft == nil || envelope.Data.Draft.Address != "Jl. Merdeka 1" {
		t.Fatal("expected draft in response")
	}
}

func TestCheckoutSubmitReturnsCreated(t *testing.T) {
	stub := &stubCheckoutService{
		result: &checkoutsvc.SubmitResult{OrderNumber: "PA-20260831-0001", Message: "Pesanan berhasil dibuat."},
	}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/checkout", nil, uuid.New())
	CheckoutSubmit(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "PA-20260831-0001") {
		t.Fatalf("expected order number in body, got %s", rec.Body.String())
	}
}

func TestCheckoutSubmitSurfacesValidationDetails(t *testing.T) {
	stub := &stubCheckoutService{
		err: pkgerrors.New(pkgerrors.CodeValidation, "Periksa kembali data pengiriman.").
			WithDetails(map[string]string{"whatsapp": "Nomor WhatsApp tidak valid."}),
	}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/v1/checkout", nil, uuid.New())
	CheckoutSubmit(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Nomor WhatsApp tidak valid.") {
		t.Fatalf("expected field error in body, got %s", rec.Body.String())
	}
}

func TestCheckoutDeliveryDays(t *testing.T) {
	stub := &stubCheckoutService{}

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/v1/checkout/delivery-days", nil, uuid.New())
	CheckoutDeliveryDays(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Options []checkoutsvc.DeliveryDayOption `json:"options"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(envelope.Data.Options) != 3 {
		t.Fatalf("expected 3 delivery options got %d", len(envelope.Data.Options))
	}
}
