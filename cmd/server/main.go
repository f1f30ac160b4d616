// Command server runs the portfolio backend: the JSON API (catalog, contact
// pipeline, message read-back), the static frontend, health and metrics.
//
// @title        Portfolio API
// @version      1.0
// @description  Project catalog, statistics and contact form of a personal portfolio.
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	_ "github.com/tbourn/portfolio-backend/docs"
	"github.com/tbourn/portfolio-backend/internal/config"
	"github.com/tbourn/portfolio-backend/internal/domain"
	httpapi "github.com/tbourn/portfolio-backend/internal/http"
	"github.com/tbourn/portfolio-backend/internal/notify"
	"github.com/tbourn/portfolio-backend/internal/observability"
	"github.com/tbourn/portfolio-backend/internal/repo"
	"github.com/tbourn/portfolio-backend/internal/services"
	"github.com/tbourn/portfolio-backend/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// purgeInterval is how often expired idempotency records are deleted.
const purgeInterval = time.Hour

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	logger, closer, err := sysutil.NewLogger(sysutil.LogOptions{
		Level:      cfg.Log.Level,
		Pretty:     cfg.Log.Pretty,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Service:    cfg.OTEL.ServiceName,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("logger init failed")
	}
	defer closer.Close()
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server exited cleanly")
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Idempotency database
	if err := repo.EnsureDir(cfg.DBPath); err != nil {
		return err
	}
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Catalog
	catalog, err := domain.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	log.Info().Str("path", cfg.CatalogPath).Int("projects", len(catalog.Projects)).Msg("catalog ready")
	catalogSvc, err := services.NewCatalogService(catalog)
	if err != nil {
		return err
	}

	deps := httpapi.Deps{
		DB:      db,
		Store:   repo.NewMessageStore(cfg.MessagesDir),
		Catalog: catalogSvc,
		Metrics: observability.NewContactMetrics(prometheus.DefaultRegisterer),
	}

	// Notifier (optional)
	switch {
	case cfg.Mail.Configured():
		n, err := notify.NewSMTPNotifier(notify.SMTPOptions{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Security: cfg.Mail.Security,
			Username: cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			To:       cfg.Mail.To,
			Timeout:  cfg.Mail.Timeout,
		})
		if err != nil {
			return err
		}
		deps.Notifier = n
		log.Info().Str("relay", n.Addr()).Msg("email notifications enabled")
	case cfg.Mail.PartiallyConfigured():
		log.Warn().Msg("EMAIL_USER and EMAIL_PASS must both be set; email notifications disabled")
	default:
		log.Info().Msg("email notifications disabled")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case now := <-ticker.C:
				n, err := repo.PurgeExpiredIdempotency(gctx, db, now.UTC())
				if err != nil {
					log.Error().Err(err).Msg("idempotency purge failed")
				} else if n > 0 {
					log.Info().Int64("deleted", n).Msg("expired idempotency records purged")
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutdown signal received, draining")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
