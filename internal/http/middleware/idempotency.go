// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for POST requests. It validates an
// Idempotency-Key request header, asks a lookup whether a response was already
// recorded for (client, route, key), and annotates the Gin context so that
// handlers can:
//   - read the validated key (GetIdempotencyKey)
//   - detect replayed requests (IsReplay) and serve the stored response
//   - skip rate limiting when a replay is served (IsRateBypass)
//
// Persistence stays behind the IdempotencyLookup function type.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed marks responses served from a stored record.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // bool: true when a stored response exists
	ctxKeyRateBypass = "rate.bypass" // bool: true to skip rate limiting
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated idempotency key stored by
// IdempotencyValidator. The second return value indicates presence.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether a stored response exists for this request's
// (client, route, key).
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation for IdempotencyValidator.
// Expiry is enforced by the lookup.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. Nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// ClientKey identifies the caller. Nil means ClientKey.
	ClientKey func(*gin.Context) string
}

// IdempotencyLookup reports whether a still-valid response was recorded for
// (clientKey, route, key) at now. Errors never block the request.
type IdempotencyLookup func(ctx context.Context, clientKey, route, key string, now time.Time) (exists bool, err error)

// ClientKey is the default caller identity: the client IP.
func ClientKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// RouteKey is the route identity used for idempotency records: method plus
// registered route pattern.
func RouteKey(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return c.Request.Method + " " + path
}

// IdempotencyValidator validates the Idempotency-Key header on POST requests,
// stashes it, and marks replays found by lookup.
//
//   - Other methods, or no header: no-op.
//   - Invalid header: 400 with the error envelope.
//   - Lookup hit: sets the replay and rate-bypass flags.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}
	clientKey := opts.ClientKey
	if clientKey == nil {
		clientKey = ClientKey
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortJSON(c, http.StatusBadRequest, codeBadIdemKey, msgBadIdemKey)
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			exists, err := lookup(c.Request.Context(), clientKey(c), RouteKey(c), key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			if exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
