package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func TestIdempotencyMatchesOnNestedSubrouter(t *testing.T) {
	store := newFakeStore()
	var calls int

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Idempotency(store, nil))
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(http.StatusCreated)
			})
		})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
	if calls != 0 {
		t.Fatalf("handler should not run without idempotency key")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "abc")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 with idempotency key got %d", resp.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{"checkout", http.MethodPost, "/api/v1/checkout", criticalIdempotencyTTL, true},
		{"order cancel", http.MethodPut, "/api/v1/orders/456/cancel", criticalIdempotencyTTL, true},
		{"admin status", http.MethodPut, "/api/admin/v1/orders/abc/status", defaultIdempotencyTTL, true},
		{"bulk status", http.MethodPut, "/api/admin/v1/orders/bulk-status", defaultIdempotencyTTL, true},
		{"review create", http.MethodPost, "/api/v1/reviews", defaultIdempotencyTTL, true},
		{"product list", http.MethodGet, "/api/v1/products", 0, false},
		{"cancel wrong verb", http.MethodPost, "/api/v1/orders/456/cancel", 0, false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != tt.want {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, tt.want, ttl)
		}
	}
}

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"foo":"bar"}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	fire := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"foo":"bar"}`))
		req.Header.Set("Idempotency-Key", "abc")
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		return resp
	}

	first := fire()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected first response 201 got %d", first.Code)
	}

	second := fire()
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed response 201 got %d", second.Code)
	}
	if second.Body.String() != `{"ok":true}` {
		t.Fatalf("expected replayed body got %q", second.Body.String())
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("expected replayed content type got %q", second.Header().Get("Content-Type"))
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotencyMiddlewareRejectsReusedKeyWithNewBody(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	fire := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "abc")
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
		return resp
	}

	fire(`{"foo":"bar"}`)
	second := fire(`{"foo":"changed"}`)
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", second.Code)
	}
}

func TestIdempotencyMiddlewareScopesByCustomer(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	fire := func(customerID string) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
		req = req.WithContext(WithCustomerID(req.Context(), customerID))
		req.Header.Set("Idempotency-Key", "shared")
		resp := httptest.NewRecorder()
		mw(handler).ServeHTTP(resp, req)
	}

	fire("customer-a")
	fire("customer-b")
	if calls != 2 {
		t.Fatalf("expected per-customer scoping to run handler twice, ran %d times", calls)
	}
}

func TestIdempotencyMiddlewareIgnoresUnmatchedRoutes(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	var calls int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run")
	}
}
