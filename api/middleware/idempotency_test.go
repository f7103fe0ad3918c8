package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
)

// memKV is an in-memory IdempotencyStore that ignores TTLs.
type memKV struct {
	mu   sync.Mutex
	vals map[string]string
}

func newMemKV() *memKV { return &memKV{vals: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memKV) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.vals[key]; taken {
		return false, nil
	}
	m.vals[key], _ = value.(string)
	return true, nil
}

func (m *memKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.vals, k)
	}
	return nil
}

func (m *memKV) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func (m *memKV) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.vals)
}

// post sends a POST to path as if chi had matched pattern, with an optional
// Idempotency-Key.
func post(h http.Handler, path, pattern, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = []string{pattern}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestRouteTTL(t *testing.T) {
	cases := map[string]struct {
		method, path string
		ttl          time.Duration
		ok           bool
	}{
		"repair booking":      {http.MethodPost, "/api/repairs", criticalIdempotencyTTL, true},
		"warranty claim":      {http.MethodPost, "/api/warranty-claims", criticalIdempotencyTTL, true},
		"wholesale decision":  {http.MethodPost, "/api/admin/wholesale/{userId}/decision", defaultIdempotencyTTL, true},
		"order status":        {http.MethodPost, "/api/admin/orders/{orderNumber}/status", defaultIdempotencyTTL, true},
		"raw order status":    {http.MethodPost, "/api/admin/orders/RD-1001/status", defaultIdempotencyTTL, true},
		"add to cart":         {http.MethodPost, "/api/cart/items", defaultIdempotencyTTL, true},
		"track is a read":     {http.MethodPost, "/api/orders/track", 0, false},
		"cart patch":          {http.MethodPatch, "/api/cart/items/{itemId}", 0, false},
		"empty wildcard":      {http.MethodPost, "/api/admin/orders//status", 0, false},
		"longer than pattern": {http.MethodPost, "/api/admin/orders/RD-1001/status/extra", 0, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ttl, ok := routeTTL(tc.method, tc.path)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.ttl, ttl)
			}
		})
	}
}

func TestIdempotencyWithoutKeyAlwaysRuns(t *testing.T) {
	kv := newMemKV()
	calls := 0
	h := Idempotency(kv, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	}))

	for range 2 {
		assert.Equal(t, http.StatusCreated, post(h, "/api/repairs", "/api/repairs", "", `{"a":1}`).Code)
	}
	assert.Equal(t, 2, calls)
	assert.Zero(t, kv.size())
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	kv := newMemKV()
	calls := 0
	h := Idempotency(kv, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ticket":"RPR-1"}`))
	}))

	first := post(h, "/api/repairs", "/api/repairs", "abc", `{"a":1}`)
	require.Equal(t, http.StatusAccepted, first.Code)
	assert.Empty(t, first.Header().Get("Idempotent-Replayed"))

	again := post(h, "/api/repairs", "/api/repairs", "abc", `{"a":1}`)
	assert.Equal(t, http.StatusAccepted, again.Code)
	assert.Equal(t, "application/json", again.Header().Get("Content-Type"))
	assert.Equal(t, "true", again.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, `{"ticket":"RPR-1"}`, again.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyRejectsChangedBody(t *testing.T) {
	h := Idempotency(newMemKV(), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post(h, "/api/reviews", "/api/reviews", "xyz", `{"rating":5}`)
	rec := post(h, "/api/reviews", "/api/reviews", "xyz", `{"rating":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeIdempotency), errorCode(t, rec))
	assert.Contains(t, rec.Body.String(), "different request body")
}

func TestIdempotencyReleasesKeyOnServerError(t *testing.T) {
	kv := newMemKV()
	status := http.StatusServiceUnavailable
	h := Idempotency(kv, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))

	assert.Equal(t, http.StatusServiceUnavailable, post(h, "/api/warranty-claims", "/api/warranty-claims", "retry", `{}`).Code)
	assert.Zero(t, kv.size())

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, post(h, "/api/warranty-claims", "/api/warranty-claims", "retry", `{}`).Code)
	assert.Equal(t, 1, kv.size())
}

func TestIdempotencyRejectsDuplicateInFlight(t *testing.T) {
	kv := newMemKV()
	mw := Idempotency(kv, nil)
	var dup *httptest.ResponseRecorder
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		dup = post(mw(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("duplicate reached the handler")
		})), "/api/repairs", "/api/repairs", "same", `{"a":1}`)
		w.WriteHeader(http.StatusCreated)
	}))

	assert.Equal(t, http.StatusCreated, post(h, "/api/repairs", "/api/repairs", "same", `{"a":1}`).Code)
	require.NotNil(t, dup)
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Contains(t, dup.Body.String(), "in progress")
}

func TestIdempotencyRejectsOversizedKey(t *testing.T) {
	h := Idempotency(newMemKV(), nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("handler ran")
	}))
	rec := post(h, "/api/reviews", "/api/reviews", strings.Repeat("k", maxIdempotencyKey+1), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
