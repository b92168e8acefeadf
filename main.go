package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simonting/portfolio/internal/config"
	"github.com/simonting/portfolio/internal/content"
	"github.com/simonting/portfolio/internal/observability"
	"github.com/simonting/portfolio/internal/site"
	"github.com/simonting/portfolio/internal/tariff"
	"github.com/simonting/portfolio/internal/tariff/ratestore"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load configuration", zap.Error(err))
	}
	gin.SetMode(cfg.Server.Mode)

	siteContent, err := content.Load(cfg.Content.File)
	if err != nil {
		logger.Fatal("load site content", zap.Error(err))
	}

	tables, catalog, err := loadRateData(context.Background(), cfg.Tariff, logger)
	if err != nil {
		logger.Fatal("load tariff rates", zap.Error(err))
	}

	estimator := tariff.NewEstimator(
		tariff.WithTables(tables),
		tariff.WithLatency(cfg.Tariff.Latency),
		tariff.WithLogger(logger.Named("tariff")),
	)

	mailer := site.NewMailer(cfg.Mail, logger.Named("mail"))
	if !cfg.Mail.Enabled() {
		logger.Warn("SMTP credentials not configured; contact form submissions will fail")
	}

	router, err := site.NewRouter(site.Deps{
		Site:      siteContent,
		Estimator: estimator,
		Catalog:   catalog,
		Mailer:    mailer,
		Logger:    logger.Named("http"),
		StaticDir: cfg.Server.StaticDir,
	})
	if err != nil {
		logger.Fatal("build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("portfolio listening", zap.Duration("tariff_latency", cfg.Tariff.Latency))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// loadRateData returns the built-in tables, or the contents of the sqlite
// rate store when one is configured. An empty store is seeded with the
// built-in data first.
func loadRateData(ctx context.Context, cfg config.TariffConfig, logger *zap.Logger) (tariff.Tables, *tariff.Catalog, error) {
	if cfg.DBPath == "" {
		return tariff.DefaultTables(), tariff.DefaultCatalog(), nil
	}

	store, err := ratestore.Open(ctx, cfg.DBPath, logger.Named("ratestore"))
	if err != nil {
		return tariff.Tables{}, nil, err
	}
	defer store.Close()

	if err := store.Seed(ctx, tariff.DefaultTables(), tariff.DefaultCatalog()); err != nil {
		return tariff.Tables{}, nil, err
	}
	tables, err := store.Load(ctx)
	if err != nil {
		return tariff.Tables{}, nil, err
	}
	catalog, err := store.LoadCatalog(ctx)
	if err != nil {
		return tariff.Tables{}, nil, err
	}
	return tables, catalog, nil
}
