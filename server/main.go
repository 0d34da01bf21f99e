package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seatline/api/routes"
	"seatline/docs"
	"seatline/internal/notifications"
	"seatline/internal/shared/config"
	"seatline/internal/shared/database"
	"seatline/internal/shared/middleware"
	"seatline/internal/shared/validation"
	"seatline/pkg/logger"
	"seatline/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title Seatline API
// @version 1.0
// @description Seat inventory and booking engine.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	appLogger := logger.NewWithLevel(cfg.LogLevel)
	logger.SetDefault(appLogger)

	if envErr != nil {
		if cfg.IsProduction() || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	gin.SetMode(cfg.GinMode)
	if err := validation.RegisterGinValidations(); err != nil {
		appLogger.WithError(err).Error("failed to register validations")
		os.Exit(1)
	}

	db, err := database.InitDB(cfg, appLogger)
	if err != nil {
		appLogger.WithError(err).Error("failed to connect")
		os.Exit(1)
	}
	defer db.Close()

	var rateLimiter *ratelimit.RateLimiter
	switch {
	case !cfg.RateLimit.Enabled:
		appLogger.Info("Rate limiting disabled")
	case db.Redis == nil:
		appLogger.Warn("Rate limiting needs Redis, continuing without it")
	default:
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
			slog.Int("booking_requests", cfg.RateLimit.BookingRequests),
		)
	}

	var publisher notifications.Publisher
	if cfg.Kafka.Enabled {
		producerConfig := notifications.DefaultKafkaProducerConfig()
		producerConfig.Brokers = cfg.Kafka.Brokers
		producerConfig.BookingTopic = cfg.Kafka.BookingTopic
		producerConfig.RetryMax = cfg.Kafka.RetryMax
		producerConfig.Timeout = cfg.Kafka.Timeout

		producer, err := notifications.NewKafkaBookingProducer(producerConfig, appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize booking event producer", slog.Any("error", err))
			appLogger.Info("Continuing without booking events")
		} else {
			publisher = producer
			defer func() {
				if err := producer.Close(); err != nil {
					appLogger.Error("Error closing booking event producer", slog.Any("error", err))
				}
			}()
		}
	}

	router := setupRouter(cfg, db, appLogger, rateLimiter, publisher)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.WithFields(map[string]interface{}{
			"address":        cfg.GetServerAddress(),
			"health_check":   fmt.Sprintf("http://localhost:%s/health", cfg.Port),
			"version":        Version,
			"commit":         GitCommit,
			"built":          BuildTime,
			"redis":          db.Redis != nil,
			"rate_limiting":  rateLimiter != nil,
			"booking_events": publisher != nil,
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupRouter(cfg *config.Config, db *database.DB, appLogger *logger.Logger, rateLimiter *ratelimit.RateLimiter, publisher notifications.Publisher) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestLogger(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	docs.SwaggerInfo.BasePath = cfg.GetAPIBasePath()
	docs.SwaggerInfo.Version = Version
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	appRouter := routes.NewRouter(cfg, db, appLogger)
	if publisher != nil {
		appRouter.SetPublisher(publisher)
	}
	appRouter.SetupRoutes(engine)

	return engine
}
