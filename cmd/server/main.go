package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/storekit/storefront/internal/config"
	"github.com/storekit/storefront/internal/db"
	"github.com/storekit/storefront/internal/events"
	"github.com/storekit/storefront/internal/httpserver"
	"github.com/storekit/storefront/internal/logging"
	authmw "github.com/storekit/storefront/internal/middleware/auth"
	loggingmw "github.com/storekit/storefront/internal/middleware/logging"
	"github.com/storekit/storefront/internal/repo"
	"github.com/storekit/storefront/internal/search"
	"github.com/storekit/storefront/internal/service"
	"github.com/storekit/storefront/internal/upload"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	prod := events.NewProducer(cfg.KafkaBrokers)

	esClient, err := search.NewClient(cfg)
	if err != nil {
		log.Fatalf("elasticsearch init: %v", err)
	}

	rp := &repo.GormRepo{DB: gdb}
	uploads := &upload.Store{Dir: cfg.UploadDir}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo:          rp,
			JWTSecret:     cfg.JWTSecret,
			RefreshSecret: cfg.RefreshSecret,
			Producer:      prod,
		}},
		UserHandler:    &httpserver.UserHTTP{Svc: &service.UserService{Repo: rp}},
		ProductHandler: &httpserver.ProductHTTP{Svc: &service.CatalogService{Repo: rp, ES: esClient, Producer: prod}, Uploads: uploads},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: rp, Producer: prod}},
		Guard:          authmw.NewGuard(cfg.JWTSecret),
		UploadDir:      cfg.UploadDir,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
