package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	ordersvc "github.com/pratomobowo/pasarantar-sub000/internal/orders"
	"github.com/pratomobowo/pasarantar-sub000/pkg/db/models"
	"github.com/pratomobowo/pasarantar-sub000/pkg/enums"
	pkgerrors "github.com/pratomobowo/pasarantar-sub000/pkg/errors"
	"github.com/pratomobowo/pasarantar-sub000/pkg/pagination"
)

type stubOrderService struct {
	orders []models.Order
	order  *models.Order
	bulk   *ordersvc.BulkResult
	err    error

	lastInput  ordersvc.ListInput
	lastStatus enums.OrderStatus
	lastIDs    []uuid.UUID
}

func (s *stubOrderService) ListOrders(_ context.Context, input ordersvc.ListInput) ([]models.Order, pagination.Meta, error) {
	s.lastInput = input
	return s.orders, pagination.BuildMeta(input.Pagination, int64(len(s.orders))), s.err
}

func (s *stubOrderService) ListCustomerOrders(_ context.Context, _ uuid.UUID, input ordersvc.ListInput) ([]models.Order, pagination.Meta, error) {
	s.lastInput = input
	return s.orders, pagination.BuildMeta(input.Pagination, int64(len(s.orders))), s.err
}

func (s *stubOrderService) GetOrder(context.Context, uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) GetCustomerOrder(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _ uuid.UUID, to enums.OrderStatus) (*models.Order, error) {
	s.lastStatus = to
	return s.order, s.err
}

func (s *stubOrderService) BulkUpdateStatus(_ context.Context, ids []uuid.UUID, to enums.OrderStatus) (*ordersvc.BulkResult, error) {
	s.lastIDs = ids
	s.lastStatus = to
	return s.bulk, s.err
}

func (s *stubOrderService) CancelOwnOrder(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	return s.order, s.err
}

func TestAdminOrderListPassesStatusFilter(t *testing.T) {
	stub := &stubOrderService{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?status=pending&page=2", nil)
	AdminOrderList(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastInput.Status == nil || *stub.lastInput.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending filter, got %+v", stub.lastInput.Status)
	}
	if stub.lastInput.Pagination.Page != 2 {
		t.Fatalf("expected page 2, got %d", stub.lastInput.Pagination.Page)
	}
}

func TestAdminOrderListRejectsUnknownStatus(t *testing.T) {
	stub := &stubOrderService{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?status=vanished", nil)
	AdminOrderList(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminOrderUpdateStatus(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrderService{order: &models.Order{ID: orderID, Status: enums.OrderStatusConfirmed}}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"confirmed"}`))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	AdminOrderUpdateStatus(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.lastStatus != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", stub.lastStatus)
	}
}

func TestAdminOrderUpdateStatusStateConflict(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered")}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderId", orderID.String())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"cancelled"}`))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	AdminOrderUpdateStatus(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestAdminOrderBulkUpdateStatus(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	stub := &stubOrderService{bulk: &ordersvc.BulkResult{
		Updated:  []uuid.UUID{first},
		Failures: []ordersvc.BulkFailure{{OrderID: second, Reason: "order already delivered"}},
	}}

	body := `{"orderIds":["` + first.String() + `","` + second.String() + `"],"status":"confirmed"}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/orders/bulk-status", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AdminOrderBulkUpdateStatus(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.lastIDs) != 2 {
		t.Fatalf("expected 2 ids passed through, got %d", len(stub.lastIDs))
	}

	var envelope struct {
		Data ordersvc.BulkResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(envelope.Data.Updated) != 1 || len(envelope.Data.Failures) != 1 {
		t.Fatalf("unexpected bulk result %+v", envelope.Data)
	}
}

func TestAdminOrderBulkUpdateStatusRequiresIDs(t *testing.T) {
	stub := &stubOrderService{}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/orders/bulk-status", strings.NewReader(`{"orderIds":[],"status":"confirmed"}`))
	rec := httptest.NewRecorder()
	AdminOrderBulkUpdateStatus(stub, testControllerLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
