package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/repairdepot/storefront/api/middleware"
	cartsvc "github.com/repairdepot/storefront/internal/cart"
	"github.com/repairdepot/storefront/pkg/enums"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

type stubCartService struct {
	snapshot     *cartsvc.Snapshot
	err          error
	lastAdd      cartsvc.AddItemInput
	lastItemID   uuid.UUID
	lastQuantity int
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.Snapshot, error) {
	return s.snapshot, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.Snapshot, error) {
	s.lastAdd = input
	return s.snapshot, s.err
}

func (s *stubCartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cartsvc.Snapshot, error) {
	s.lastItemID = itemID
	s.lastQuantity = quantity
	return s.snapshot, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cartsvc.Snapshot, error) {
	s.lastItemID = itemID
	return s.snapshot, s.err
}

func authed(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithActor(req.Context(), middleware.Actor{UserID: uuid.New(), Role: enums.RoleCustomer}))
}

func withItemID(req *http.Request, id uuid.UUID) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("itemId", id.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartGetSuccess(t *testing.T) {
	snapshot := &cartsvc.Snapshot{
		Items:   []cartsvc.ItemDTO{{ID: uuid.New(), Quantity: 2}},
		Summary: cartsvc.Summary{SubtotalCents: 5998, ItemCount: 2},
	}
	handler := CartGet(&stubCartService{snapshot: snapshot}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authed(httptest.NewRequest(http.MethodGet, "/api/cart", nil)))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data cartsvc.Snapshot `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Summary.SubtotalCents != 5998 || len(envelope.Data.Items) != 1 {
		t.Fatalf("unexpected snapshot: %+v", envelope.Data)
	}
}

func TestCartGetRequiresUser(t *testing.T) {
	handler := CartGet(&stubCartService{}, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddItemDefaultsQuantity(t *testing.T) {
	svc := &stubCartService{snapshot: &cartsvc.Snapshot{}}
	productID := uuid.New()
	body := strings.NewReader(`{"product_id":"` + productID.String() + `"}`)

	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodPost, "/api/cart/items", body)))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastAdd.ProductID != productID || svc.lastAdd.Quantity != 1 {
		t.Fatalf("unexpected add input: %+v", svc.lastAdd)
	}
}

func TestCartAddItemRejectsMissingProduct(t *testing.T) {
	resp := httptest.NewRecorder()
	CartAddItem(&stubCartService{}, nil).ServeHTTP(resp, authed(httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(`{"quantity":2}`))))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateItemSurfacesStockConflict(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeConflict, "Only 3 left in stock").WithDetails(map[string]int{"available": 3})}
	itemID := uuid.New()
	req := withItemID(httptest.NewRequest(http.MethodPatch, "/api/cart/items/"+itemID.String(), strings.NewReader(`{"quantity":9}`)), itemID)

	resp := httptest.NewRecorder()
	CartUpdateItem(svc, nil).ServeHTTP(resp, authed(req))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if svc.lastItemID != itemID || svc.lastQuantity != 9 {
		t.Fatalf("unexpected update call item=%s qty=%d", svc.lastItemID, svc.lastQuantity)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "Only 3 left in stock" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCartRemoveItemRejectsBadID(t *testing.T) {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("itemId", "not-a-uuid")
	req := httptest.NewRequest(http.MethodDelete, "/api/cart/items/not-a-uuid", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	resp := httptest.NewRecorder()
	CartRemoveItem(&stubCartService{}, nil).ServeHTTP(resp, authed(req))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
