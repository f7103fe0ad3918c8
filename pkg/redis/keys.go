package redis

import "strings"

const (
	keyNamespace      = "sf"
	idempotencyPrefix = "idempotency"
	rateLimitPrefix   = "rate_limit"
	cachePrefix       = "cache"
	resetTokenPrefix  = "reset_token"
)

// IdempotencyKey holds the stored response for one Idempotency-Key.
func (c *Client) IdempotencyKey(scope, id string) string {
	return joinKey(idempotencyPrefix, scope, id)
}

// RateLimitKey holds a fixed-window counter.
func (c *Client) RateLimitKey(scope string) string {
	return joinKey(rateLimitPrefix, scope)
}

// CacheKey holds a read-through cache entry such as autocomplete results.
func (c *Client) CacheKey(scope string, parts ...string) string {
	return joinKey(append([]string{cachePrefix, scope}, parts...)...)
}

// ResetTokenKey maps a hashed reset token to the user id it was issued for.
func (c *Client) ResetTokenKey(tokenHash string) string {
	return joinKey(resetTokenPrefix, tokenHash)
}

// joinKey prefixes the namespace and skips blank segments.
func joinKey(parts ...string) string {
	var b strings.Builder
	b.WriteString(keyNamespace)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
