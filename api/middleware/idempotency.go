package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/repairdepot/storefront/api/responses"
	pkgerrors "github.com/repairdepot/storefront/pkg/errors"
	"github.com/repairdepot/storefront/pkg/logger"
	pkgredis "github.com/repairdepot/storefront/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	maxIdempotencyKey = 255

	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
	// inFlightTTL bounds how long a crashed request can block its key.
	inFlightTTL = time.Minute
)

// idempotentRoutes lists the create endpoints that honour Idempotency-Key.
// A "*" segment matches one path segment or a chi {param}.
var idempotentRoutes = []struct {
	method string
	route  string
	ttl    time.Duration
}{
	{http.MethodPost, "/api/cart/items", defaultIdempotencyTTL},
	{http.MethodPost, "/api/reviews", defaultIdempotencyTTL},
	{http.MethodPost, "/api/wholesale/apply", defaultIdempotencyTTL},
	{http.MethodPost, "/api/admin/wholesale/*/decision", defaultIdempotencyTTL},
	{http.MethodPost, "/api/admin/products", defaultIdempotencyTTL},
	{http.MethodPost, "/api/admin/orders/*/status", defaultIdempotencyTTL},
	{http.MethodPost, "/api/repairs", criticalIdempotencyTTL},
	{http.MethodPost, "/api/warranty-claims", criticalIdempotencyTTL},
}

// idempotencyRecord is what Redis holds under a key. A record with
// Status 0 marks a request that is still running.
type idempotencyRecord struct {
	Status      int               `json:"status"`
	Body        string            `json:"body,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

func (rec idempotencyRecord) inFlight() bool { return rec.Status == 0 }

// Idempotency replays the first response for a repeated (caller, route, key)
// and rejects a key reused with a different body. The header is optional so
// plain browser forms keep working. 5xx responses are dropped so the client
// can retry.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, routePattern(r))
			idemKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !ok || store == nil || idemKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			fail := func(err error) { responses.WriteError(ctx, logg, w, err) }

			if len(idemKey) > maxIdempotencyKey {
				fail(pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be at most %d characters", idempotencyHeader, maxIdempotencyKey))
				return
			}
			body, err := io.ReadAll(r.Body)
			if err != nil {
				fail(pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := store.IdempotencyKey(callerScope(r), idemKey)
			hash := hashBody(body)

			reserved, err := reserve(ctx, store, key, hash)
			if err != nil {
				fail(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if !reserved {
				existing, err := load(ctx, store, key)
				switch {
				case err != nil:
					fail(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				case existing == nil:
					// Expired between reserve and load; run as new next time.
					fail(pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is in progress"))
				case existing.RequestHash != hash:
					fail(pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
				case existing.inFlight():
					fail(pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is in progress"))
				default:
					replay(w, existing)
				}
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)
			finish(ctx, store, logg, key, hash, capture, ttl)
		})
	}
}

// reserve claims key with an in-flight marker. False means someone else owns it.
func reserve(ctx context.Context, store pkgredis.IdempotencyStore, key, hash string) (bool, error) {
	marker, err := json.Marshal(idempotencyRecord{RequestHash: hash})
	if err != nil {
		return false, err
	}
	return store.SetNX(ctx, key, string(marker), inFlightTTL)
}

func load(ctx context.Context, store pkgredis.IdempotencyStore, key string) (*idempotencyRecord, error) {
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var rec idempotencyRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// finish swaps the in-flight marker for the captured response, or releases
// the key when the response should not be replayed.
func finish(ctx context.Context, store pkgredis.IdempotencyStore, logg *logger.Logger, key, hash string, capture *responseCapture, ttl time.Duration) {
	status := defaultStatus(capture.status)
	release := func() {
		if err := store.Del(ctx, key); err != nil && logg != nil {
			logg.Error(ctx, "release idempotency key", err)
		}
	}
	if status >= http.StatusInternalServerError {
		release()
		return
	}

	rec := idempotencyRecord{
		Status:      status,
		Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
		RequestHash: hash,
	}
	if ct := capture.Header().Get("Content-Type"); ct != "" {
		rec.Headers = map[string]string{"Content-Type": ct}
	}
	payload, err := json.Marshal(rec)
	release()
	if err != nil {
		return
	}
	if _, err := store.SetNX(ctx, key, string(payload), ttl); err != nil && logg != nil {
		logg.Error(ctx, "persist idempotency record", err)
	}
}

func replay(w http.ResponseWriter, rec *idempotencyRecord) {
	for name, value := range rec.Headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(rec.Status)
	if body, err := base64.StdEncoding.DecodeString(rec.Body); err == nil {
		_, _ = w.Write(body)
	}
}

// callerScope separates keys per user, with "anon" for guests, and per path
// so one key cannot replay across endpoints.
func callerScope(r *http.Request) string {
	caller := "anon"
	if actor, ok := ActorFromContext(r.Context()); ok {
		caller = actor.UserID.String()
	}
	return caller + "|" + r.Method + "|" + r.URL.Path
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.RawStdEncoding.EncodeToString(sum[:])
}

func defaultStatus(value int) int {
	if value == 0 {
		return http.StatusOK
	}
	return value
}

// routePattern prefers chi's pattern once routing has settled; before that
// the pattern still ends in "/*" and the raw path is matched instead.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" && !strings.HasSuffix(pattern, "/*") {
			return pattern
		}
	}
	return r.URL.Path
}

func routeTTL(method, path string) (time.Duration, bool) {
	if path == "" {
		return 0, false
	}
	for _, route := range idempotentRoutes {
		if route.method == method && segmentsMatch(route.route, path) {
			return route.ttl, true
		}
	}
	return 0, false
}

func segmentsMatch(route, path string) bool {
	want := strings.Split(strings.Trim(route, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if seg == "*" && got[i] != "" {
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
