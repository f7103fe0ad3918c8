package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const devOrigin = "http://localhost:3000"

// CORS admits the configured storefront origins. A wildcard entry turns off
// credentialed requests, since browsers reject "*" with credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(corsOptions(origins)).Handler
}

func corsOptions(origins []string) cors.Options {
	allowed := make([]string, 0, len(origins))
	wildcard := false
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if origin == "*" {
			wildcard = true
		}
		allowed = append(allowed, origin)
	}
	if len(allowed) == 0 {
		allowed = []string{devOrigin}
	}
	return cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", idempotencyHeader, requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Retry-After"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	}
}
