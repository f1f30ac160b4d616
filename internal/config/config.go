// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the HTTP
// server, logging, the contact message store, the optional mail notifier,
// rate limiting, and observability.
package config

import (
	"errors"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/portfolio-backend/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// LogConfig groups logger settings. File rotation is only active when File is set.
type LogConfig struct {
	Level      string // debug|info|warn|error|fatal|panic
	Pretty     bool   // console writer instead of JSON
	File       string // optional rotating log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// SMTP security modes.
const (
	SMTPSecurityStartTLS = "starttls"
	SMTPSecurityTLS      = "tls"
	SMTPSecurityNone     = "none"
)

// MailConfig configures the optional contact notifier. The notifier is active
// only when both User and Password are present.
type MailConfig struct {
	User     string        // EMAIL_USER
	Password string        // EMAIL_PASS
	Host     string        // SMTP_HOST
	Port     int           // SMTP_PORT
	Security string        // starttls|tls|none
	To       string        // MAIL_TO, defaults to User
	From     string        // MAIL_FROM, defaults to User
	Timeout  time.Duration // NOTIFY_TIMEOUT
}

// Configured reports whether both credentials are set.
func (m MailConfig) Configured() bool {
	return strings.TrimSpace(m.User) != "" && strings.TrimSpace(m.Password) != ""
}

// PartiallyConfigured reports whether exactly one credential is set.
func (m MailConfig) PartiallyConfigured() bool {
	hasUser := strings.TrimSpace(m.User) != ""
	hasPass := strings.TrimSpace(m.Password) != ""
	return hasUser != hasPass
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	ShutdownTimeout   time.Duration // graceful drain on SIGTERM
	MaxHeaderBytes    int           // bytes
	MaxBodyBytes      int64         // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	Log            LogConfig
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	StaticDir   string // presentation assets served at "/"
	MessagesDir string // one JSON file per accepted contact submission
	CatalogPath string // optional YAML catalog; built-in data when empty
	DBPath      string // SQLite path (idempotency records)

	// Rate limiting
	RateRPS          float64 // tokens per second (>= 0)
	RateBurst        int     // bucket size (>= 1)
	ContactRateRPS   float64
	ContactRateBurst int

	// Web protection
	CORS           CORSConfig
	Security       SecurityConfig
	TrustedProxies []string // IPs/CIDRs allowed to set X-Forwarded-For; none when empty

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Notifier
	Mail MailConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	mailUser := strings.TrimSpace(getenv("EMAIL_USER", ""))

	cfg := Config{
		// Server
		Port:              getenv("PORT", "3000"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:   getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", 1<<20)),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		Log: LogConfig{
			Level:      strings.ToLower(getenv("LOG_LEVEL", "info")),
			Pretty:     getbool("LOG_PRETTY", false),
			File:       getenv("LOG_FILE", ""),
			MaxSizeMB:  getint("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getint("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getint("LOG_MAX_AGE_DAYS", 28),
		},
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// App
		StaticDir:   getenv("STATIC_DIR", "web"),
		MessagesDir: getenv("MESSAGES_DIR", "messages"),
		CatalogPath: getenv("CATALOG_PATH", ""),
		DBPath:      getenv("DB_PATH", "data/portfolio.db"),

		// Rate limiting
		RateRPS:          getfloat("RATE_RPS", 10.0),
		RateBurst:        getint("RATE_BURST", 20),
		ContactRateRPS:   getfloat("CONTACT_RATE_RPS", 0.2),
		ContactRateBurst: getint("CONTACT_RATE_BURST", 3),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},
		TrustedProxies: splitCSV(getenv("TRUSTED_PROXIES", "")),

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Notifier
		Mail: MailConfig{
			User:     mailUser,
			Password: getenv("EMAIL_PASS", ""),
			Host:     getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getint("SMTP_PORT", 587),
			Security: strings.ToLower(getenv("SMTP_SECURITY", SMTPSecurityStartTLS)),
			To:       sysutil.Coalesce(getenv("MAIL_TO", ""), mailUser),
			From:     sysutil.Coalesce(getenv("MAIL_FROM", ""), mailUser),
			Timeout:  getdur("NOTIFY_TIMEOUT", 15*time.Second),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "portfolio-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	lvl, ok := sysutil.ParseLevel(cfg.Log.Level)
	if !ok {
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	cfg.Log.Level = lvl.String()
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.MessagesDir) == "" {
		return cfg, errors.New("MESSAGES_DIR must not be empty")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.RateRPS < 0 || cfg.ContactRateRPS < 0 {
		return cfg, errors.New("RATE_RPS and CONTACT_RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 || cfg.ContactRateBurst < 1 {
		return cfg, errors.New("RATE_BURST and CONTACT_RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	switch cfg.Mail.Security {
	case SMTPSecurityStartTLS, SMTPSecurityTLS, SMTPSecurityNone:
	default:
		return cfg, errors.New("SMTP_SECURITY must be one of: starttls, tls, none")
	}
	if cfg.Mail.Port <= 0 || cfg.Mail.Port > 65535 {
		return cfg, errors.New("SMTP_PORT must be in [1,65535]")
	}
	if cfg.Mail.Timeout <= 0 {
		return cfg, errors.New("NOTIFY_TIMEOUT must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}
	for _, p := range cfg.TrustedProxies {
		if !validProxy(p) {
			return cfg, errors.New("TRUSTED_PROXIES entries must be IPs or CIDRs")
		}
	}

	return cfg, nil
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// getbool accepts the usual truthy/falsy spellings and keeps def for anything else.
func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if b, ok := sysutil.ParseBool(v); ok {
			return b
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func validProxy(s string) bool {
	if net.ParseIP(s) != nil {
		return true
	}
	_, _, err := net.ParseCIDR(s)
	return err == nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
