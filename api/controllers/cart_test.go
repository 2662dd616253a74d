package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fixpointhq/fixpoint-backend/internal/cart"
	"github.com/fixpointhq/fixpoint-backend/internal/checkout"
	"github.com/fixpointhq/fixpoint-backend/pkg/db/models"
	"github.com/fixpointhq/fixpoint-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type noopSnapshotStore struct{}

func (noopSnapshotStore) Load(ctx context.Context) (string, bool, error) { return "", false, nil }
func (noopSnapshotStore) Save(ctx context.Context, snapshot string) error {
	return nil
}

type noopSnapshotStores struct{}

func (noopSnapshotStores) ForSession(sessionID string) cart.SnapshotStore {
	return noopSnapshotStore{}
}

type fakeCheckout struct {
	calls  int
	input  checkout.Input
	orders []models.OrderRecord
	err    error
}

func (f *fakeCheckout) Execute(ctx context.Context, source checkout.CartSource, input checkout.Input) ([]models.OrderRecord, error) {
	f.calls++
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	source.Clear()
	return f.orders, nil
}

func cartTestRouter(t *testing.T, svc checkout.Service) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
	sessions, err := cart.NewSessions(noopSnapshotStores{}, logg)
	if err != nil {
		t.Fatalf("NewSessions: %v", err)
	}

	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", GetCart(sessions, logg))
		r.Delete("/", ClearCart(sessions, logg))
		r.Post("/items", AddCartItem(sessions, logg))
		r.Patch("/items/{productID}", UpdateCartItem(sessions, logg))
		r.Delete("/items/{productID}", RemoveCartItem(sessions, logg))
		if svc != nil {
			r.Post("/checkout", Checkout(sessions, svc, logg))
		}
	})
	return r
}

func doCart(t *testing.T, router http.Handler, method, path, body, session string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if session != "" {
		req.Header.Set("X-Cart-Session", session)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeCartView(t *testing.T, w *httptest.ResponseRecorder) cartView {
	t.Helper()
	var resp struct {
		Data cartView `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding cart view: %v", err)
	}
	return resp.Data
}

func TestCartRequiresSessionHeader(t *testing.T) {
	router := cartTestRouter(t, nil)

	w := doCart(t, router, http.MethodGet, "/api/v1/cart/", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session header, got %d", w.Code)
	}
}

func TestCartAddAndAggregate(t *testing.T) {
	router := cartTestRouter(t, nil)

	w := doCart(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"P1","name":"case","price":"10","quantity":1}`, "s1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doCart(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"P1","name":"case","price":"10","quantity":2}`, "s1")
	view := decodeCartView(t, w)

	if len(view.Items) != 1 {
		t.Fatalf("expected merged line, got %d items", len(view.Items))
	}
	if view.Quantity != 3 || view.Total != "30" {
		t.Fatalf("expected quantity 3 total 30, got %d / %s", view.Quantity, view.Total)
	}
}

func TestCartUpdateToZeroRemovesLine(t *testing.T) {
	router := cartTestRouter(t, nil)

	doCart(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"P1","name":"case","price":"10","quantity":3}`, "s1")
	w := doCart(t, router, http.MethodPatch, "/api/v1/cart/items/P1",
		`{"quantity":0}`, "s1")

	view := decodeCartView(t, w)
	if len(view.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(view.Items))
	}
}

func TestCartRejectsInvalidPrice(t *testing.T) {
	router := cartTestRouter(t, nil)

	w := doCart(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"P1","name":"case","price":"ten","quantity":1}`, "s1")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unparseable price, got %d", w.Code)
	}
}

func TestCheckoutPassesSessionAndCustomer(t *testing.T) {
	svc := &fakeCheckout{orders: []models.OrderRecord{{ID: 1}}}
	router := cartTestRouter(t, svc)

	doCart(t, router, http.MethodPost, "/api/v1/cart/items",
		`{"product_id":"P1","name":"case","price":"10","quantity":1}`, "s1")
	w := doCart(t, router, http.MethodPost, "/api/v1/cart/checkout",
		`{"customer_name":"ada","customer_phone":"555-0100"}`, "s1")

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("expected checkout service invoked once, got %d", svc.calls)
	}
	if svc.input.SessionID != "s1" || svc.input.CustomerName != "ada" {
		t.Fatalf("unexpected checkout input %+v", svc.input)
	}
}
