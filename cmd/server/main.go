package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/weddingfilm-backend/config"
	"github.com/ikkim/weddingfilm-backend/internal/app/controller"
	"github.com/ikkim/weddingfilm-backend/internal/app/intake"
	"github.com/ikkim/weddingfilm-backend/internal/app/pricing"
	"github.com/ikkim/weddingfilm-backend/internal/app/repository"
	"github.com/ikkim/weddingfilm-backend/internal/app/service"
	"github.com/ikkim/weddingfilm-backend/internal/db"
	"github.com/ikkim/weddingfilm-backend/internal/metrics"
	"github.com/ikkim/weddingfilm-backend/internal/middleware"
	"github.com/ikkim/weddingfilm-backend/internal/router"
	"github.com/ikkim/weddingfilm-backend/internal/scheduler"
	"github.com/ikkim/weddingfilm-backend/pkg/logger"
	"github.com/ikkim/weddingfilm-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: cfg.Server.Environment == "development",
		Service:     "weddingfilm-backend",
	})

	logger.Info("Starting WEDDINGFILM Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	metrics.Register()

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations (카탈로그 기본값 포함)
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	if err := db.Seed(cfg.Admin); err != nil {
		logger.Warn("Failed to seed admin account", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis 는 요청 제한에만 사용. 연결 실패 시 제한 없이 기동
	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		redisClient, err := redis.Connect(context.Background(), &cfg.Redis)
		if err != nil {
			logger.Warn("Rate limiting disabled: Redis unavailable", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			limiter = redis.NewRateLimiter(redisClient, "referral", cfg.RateLimit.Requests, cfg.RateLimit.Window)
			defer func() {
				if err := redis.Close(redisClient); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	conn := db.GetDB()

	// Initialize pricing
	calc := pricing.NewCalculator(pricing.NewRules(cfg.Pricing))

	// Initialize services
	authService := service.NewAuthService(
		repository.NewUserRepository(conn),
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	referralService := service.NewReferralService(conn, cfg.Referral)
	validator := intake.NewValidator(calc.Rules(), referralService, cfg.Referral)
	reservationService := service.NewReservationService(conn, validator, calc, nil)
	bookingService := service.NewBookingService(conn, calc, referralService)
	catalogService := service.NewCatalogService(repository.NewProductRepository(conn), repository.NewAddOnRepository(conn))
	eventService := service.NewDiscountEventService(repository.NewDiscountEventRepository(conn))

	// Initialize scheduler
	eventScheduler := scheduler.NewEventExpiryScheduler(eventService, cfg.Scheduler.EventExpirySpec)
	if err := eventScheduler.Start(); err != nil {
		logger.Fatal("Failed to start event expiry scheduler", err)
	}
	defer eventScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewReservationController(reservationService),
		controller.NewBookingController(bookingService),
		controller.NewReferralController(referralService),
		controller.NewCatalogController(catalogService, eventService),
		middleware.NewAuthMiddleware(cfg.JWT.Secret),
		limiter,
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
