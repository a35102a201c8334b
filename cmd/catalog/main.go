package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Skotchmaster/book_catalog/internal/config"
	"github.com/Skotchmaster/book_catalog/internal/db"
	"github.com/Skotchmaster/book_catalog/internal/events"
	"github.com/Skotchmaster/book_catalog/internal/httpserver"
	"github.com/Skotchmaster/book_catalog/internal/logging"
	"github.com/Skotchmaster/book_catalog/internal/metrics"
	loggingmw "github.com/Skotchmaster/book_catalog/internal/middleware/logging"
	"github.com/Skotchmaster/book_catalog/internal/ratelimit"
	"github.com/Skotchmaster/book_catalog/internal/repo"
	"github.com/Skotchmaster/book_catalog/internal/search"
	"github.com/Skotchmaster/book_catalog/internal/service"
	"github.com/Skotchmaster/book_catalog/internal/tokens"
	"github.com/Skotchmaster/book_catalog/internal/validation"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "book_catalog")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(ctx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	pub := events.New(cfg.KafkaBrokers)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	r := repo.New(gdb)
	authSvc := &service.AuthService{Repo: r, Tokens: tokens.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), Events: pub, Metrics: m}
	catalogSvc := &service.CatalogService{Repo: r, Events: pub, Metrics: m}

	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("search_unavailable", "url", cfg.ESURL, "error", err)
		} else {
			catalogSvc.Index = search.NewESIndex(es, cfg.ESIndex)
			rctx, rcancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), 30*time.Second)
			n, err := catalogSvc.Reindex(rctx)
			rcancel()
			if err != nil {
				logger.Warn("search_reindex_failed", "error", err)
			} else {
				logger.Info("search_reindexed", "books", n)
			}
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		ReviewHandler:  &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r, Events: pub, Metrics: m}},
		AdminHandler:   &httpserver.AdminHTTP{Svc: &service.AdminService{DB: gdb}},
		Resolver:       authSvc,
		LoginLimiter:   ratelimit.PerMinute(cfg.LoginRatePerMin).Middleware(),
		MetricsHandler: metrics.Handler(reg),
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("events close", "error", err)
	}

	logger.Info("shutdown complete")
}
