package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/resident_hub/internal/audit"
	authcfg "github.com/Skotchmaster/resident_hub/internal/config"
	"github.com/Skotchmaster/resident_hub/internal/events"
	"github.com/Skotchmaster/resident_hub/internal/httpserver"
	"github.com/Skotchmaster/resident_hub/internal/models"
	"github.com/Skotchmaster/resident_hub/internal/repo"
	"github.com/Skotchmaster/resident_hub/internal/service"
	pkgdb "github.com/Skotchmaster/resident_hub/pkg/db"
	pkg_hash "github.com/Skotchmaster/resident_hub/pkg/hash"
	"github.com/Skotchmaster/resident_hub/pkg/logging"
	loggingmw "github.com/Skotchmaster/resident_hub/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := authcfg.Load()
	cfg.MustValidate()

	logger := logging.New(os.Getenv("LOG_LEVEL")).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	rp := &repo.GormRepo{DB: db}

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		pwHash, err := pkg_hash.HashPassword(cfg.SeedAdminPassword)
		if err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = rp.EnsureAdmin(seedCtx, cfg.SeedAdminEmail, pwHash)
		seedCancel()
		if err != nil {
			log.Fatalf("seed admin: %v", err)
		}
		logger.Info("admin account ensured", "email", cfg.SeedAdminEmail)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	auditIx, err := audit.NewIndexer(cfg.AuditESURL, cfg.AuditESUser, cfg.AuditESPassword)
	if err != nil {
		log.Fatalf("audit init: %v", err)
	}

	svc := &service.AuthService{
		Repo:          rp,
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		Producer:      producer,
		Audit:         auditIx,
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:  &httpserver.AuthHTTP{Svc: svc},
		AccessSecret: cfg.JWTAccessSecret,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("auth listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = producer.Close()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("auth stopped")
}
