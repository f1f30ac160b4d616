package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHelpers_GetIdempotencyKey_IsReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if k, ok := GetIdempotencyKey(c); k != "" || ok {
		t.Fatalf("expected empty key when not set")
	}
	if IsReplay(c) {
		t.Fatalf("expected IsReplay=false by default")
	}

	c.Set(ctxKeyIdemKey, 123)
	if k, ok := GetIdempotencyKey(c); k != "" || ok {
		t.Fatalf("expected GetIdempotencyKey to be absent for non-string value")
	}
	c.Set(ctxKeyIdemReplay, true)
	if !IsReplay(c) {
		t.Fatalf("expected IsReplay=true")
	}
	c.Set(ctxKeyIdemReplay, "yes")
	if IsReplay(c) {
		t.Fatalf("expected IsReplay=false for non-bool")
	}
}

func TestClientKeyAndRouteKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var client, route string
	r.POST("/api/contact", func(c *gin.Context) {
		client, route = ClientKey(c), RouteKey(c)
	})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.RemoteAddr = net.JoinHostPort("198.51.100.4", "5555")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if client != "ip:198.51.100.4" || route != "POST /api/contact" {
		t.Fatalf("keys = %q, %q", client, route)
	}
}

type lookupCall struct {
	client, route, key string
}

func newIdemRouter(opts IdempotencyOptions, lookup IdempotencyLookup, seen *[]string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(IdempotencyValidator(opts, lookup))
	h := func(c *gin.Context) {
		k, _ := GetIdempotencyKey(c)
		*seen = append(*seen, k)
		c.JSON(http.StatusOK, gin.H{"replay": IsReplay(c), "bypass": IsRateBypass(c)})
	}
	r.POST("/api/contact", h)
	r.GET("/api/contact", h)
	return r
}

func TestIdempotencyValidator_NoHeaderOrNonPost_NoLookup(t *testing.T) {
	called := 0
	lookup := func(context.Context, string, string, string, time.Time) (bool, error) {
		called++
		return true, nil
	}
	var seen []string
	r := newIdemRouter(IdempotencyOptions{}, lookup, &seen)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	if w.Code != http.StatusOK || called != 0 {
		t.Fatalf("no header: code=%d lookups=%d", w.Code, called)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	req.Header.Set(HeaderIdempotencyKey, "bad key with spaces")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || called != 0 {
		t.Fatalf("GET must ignore the header: code=%d lookups=%d", w.Code, called)
	}
}

func TestIdempotencyValidator_InvalidKey(t *testing.T) {
	var seen []string
	r := newIdemRouter(IdempotencyOptions{MaxLen: 8}, nil, &seen)

	for _, key := range []string{"has space", "way-too-long-key", "é"} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("key %q: code=%d; want 400", key, w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body["success"] != false || body["code"] != codeBadIdemKey {
			t.Fatalf("unexpected body: %v", body)
		}
	}
	if len(seen) != 0 {
		t.Fatalf("handler ran for invalid keys")
	}
}

func TestIdempotencyValidator_LookupHitMarksReplay(t *testing.T) {
	var calls []lookupCall
	lookup := func(_ context.Context, client, route, key string, now time.Time) (bool, error) {
		calls = append(calls, lookupCall{client, route, key})
		if now.Location() != time.UTC {
			t.Errorf("lookup time should be UTC")
		}
		return key == "known-key", nil
	}
	var seen []string
	r := newIdemRouter(IdempotencyOptions{}, lookup, &seen)

	send := func(key string) map[string]bool {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set(HeaderIdempotencyKey, key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("code=%d", w.Code)
		}
		var body map[string]bool
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return body
	}

	if b := send("new-key"); b["replay"] || b["bypass"] {
		t.Fatalf("unknown key flagged as replay: %v", b)
	}
	if b := send("known-key"); !b["replay"] || !b["bypass"] {
		t.Fatalf("known key not flagged: %v", b)
	}
	if len(calls) != 2 || calls[1] != (lookupCall{"ip:192.0.2.1", "POST /api/contact", "known-key"}) {
		t.Fatalf("lookup calls = %+v", calls)
	}
	if strings.Join(seen, ",") != "new-key,known-key" {
		t.Fatalf("keys seen by handler = %v", seen)
	}
}

func TestIdempotencyValidator_LookupErrorDoesNotBlock(t *testing.T) {
	buf := captureLogger(t)
	lookup := func(context.Context, string, string, string, time.Time) (bool, error) {
		return false, errors.New("database is locked")
	}
	var seen []string
	r := newIdemRouter(IdempotencyOptions{Pattern: regexp.MustCompile(`^[a-z]+$`)}, lookup, &seen)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	req.Header.Set(HeaderIdempotencyKey, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || len(seen) != 1 {
		t.Fatalf("lookup error must not block: code=%d", w.Code)
	}
	if !strings.Contains(buf.String(), "idempotency lookup failed") {
		t.Fatalf("lookup error not logged: %s", buf.String())
	}
}
