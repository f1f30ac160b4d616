// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/portfolio-backend/internal/config"
	"github.com/tbourn/portfolio-backend/internal/http/handlers"
	"github.com/tbourn/portfolio-backend/internal/http/middleware"
	"github.com/tbourn/portfolio-backend/internal/notify"
	"github.com/tbourn/portfolio-backend/internal/observability"
	"github.com/tbourn/portfolio-backend/internal/repo"
	"github.com/tbourn/portfolio-backend/internal/services"
)

// readyCheckTimeout bounds each readiness check.
const readyCheckTimeout = 2 * time.Second

// Deps are the long-lived dependencies built once at startup.
type Deps struct {
	DB       *gorm.DB
	Store    *repo.MessageStore
	Catalog  *services.CatalogService
	Notifier notify.Notifier              // nil when mail is not configured
	Metrics  *observability.ContactMetrics // nil records nothing
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, mounts
// the public API under cfg.APIBasePath, and serves the static frontend for
// everything else.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID + scoped logger: correlation id on every log line
//  3. RedactingLogger: access log with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Idempotency validator (before rate limiter to allow bypass on replay)
//  8. Rate limiter (per IP, bypass on replay)
//  9. CORS and Security headers
//  10. Compression (except /metrics)
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	// 0) Forwarding headers count only from configured proxies; the rate
	// limiter and idempotency keys rely on ClientIP.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Strs("trusted_proxies", cfg.TrustedProxies).Msg("invalid trusted proxies; trusting none")
		_ = r.SetTrustedProxies(nil)
	}

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Use(limitBody(maxBody))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics(cfg.APIBasePath))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Idempotency validation (before rate limiting)
	idem := &repo.IdempotencyStore{DB: deps.DB, TTL: cfg.IdempotencyTTL}
	var lookup middleware.IdempotencyLookup
	if deps.DB != nil {
		lookup = idem.Exists
	}
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, lookup))

	// 8) Token-bucket rate limiter per IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	if rl.Enabled() {
		r.Use(rl.Handler())
	}

	// 9) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Retry-After", middleware.HeaderIdempotencyReplayed}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "HEAD", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "HEAD", "POST", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:            cfg.Security.EnableHSTS,
		HSTSMaxAge:            cfg.Security.HSTSMaxAge,
		NoStore:               false,
		EnablePolicy:          true,
		ContentSecurityPolicy: middleware.DefaultCSP,
	}))

	// 10) Compression for JSON and static assets
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks: static frontend, then JSON 404. A wrong method on a known
	// path is unmatched too.
	r.NoRoute(handlers.Static(cfg.StaticDir))

	// Health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	hc := newHealthHandler(deps)
	r.GET("/health/live", gin.WrapF(hc.LiveEndpoint))
	r.GET("/health/ready", gin.WrapF(hc.ReadyEndpoint))

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← store/catalog/notifier
	contactSvc := &services.ContactService{
		Notifier: deps.Notifier,
		Metrics:  deps.Metrics,
	}
	if deps.Store != nil {
		contactSvc.Store = deps.Store
	}
	msgSvc := &services.MessageService{Store: deps.Store}

	var idemStore handlers.IdempotencyStore
	if deps.DB != nil {
		idemStore = idem
	}
	h := handlers.New(contactSvc, msgSvc, deps.Catalog, idemStore)

	// Frontend entry point
	r.GET("/", handlers.Index(cfg.StaticDir))

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/api"
	{
		// Catalog
		api.GET("/projects", h.ListProjects)
		api.GET("/projects/search", h.SearchProjects)
		api.GET("/stats", h.GetStats)

		// Contact pipeline (stricter bucket)
		contactRL := middleware.NewRateLimiter(cfg.ContactRateRPS, cfg.ContactRateBurst, middleware.KeyByIP())
		if contactRL.Enabled() {
			api.POST("/contact", contactRL.Handler(), h.SubmitContact)
		} else {
			api.POST("/contact", h.SubmitContact)
		}

		// Read-back
		api.GET("/messages", h.ListMessages)
	}
}

// newHealthHandler builds the liveness/readiness handler. Liveness only
// watches the process; readiness requires the message directory to accept
// writes and the idempotency database to answer a ping.
func newHealthHandler(deps Deps) healthcheck.Handler {
	hc := healthcheck.NewHandler()
	hc.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))

	if deps.Store != nil {
		hc.AddReadinessCheck("messages-dir", healthcheck.Timeout(deps.Store.Writable, readyCheckTimeout))
	}
	if deps.DB != nil {
		hc.AddReadinessCheck("database", func() error {
			sqlDB, err := deps.DB.DB()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), readyCheckTimeout)
			defer cancel()
			return sqlDB.PingContext(ctx)
		})
	}
	return hc
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
