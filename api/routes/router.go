// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"seatline/internal/bookings"
	"seatline/internal/checkout"
	"seatline/internal/events"
	"seatline/internal/holds"
	"seatline/internal/notifications"
	"seatline/internal/promos"
	"seatline/internal/seats"
	"seatline/internal/shared/config"
	"seatline/internal/shared/database"
	"seatline/internal/shared/middleware"
	"seatline/internal/shared/transaction"
	"seatline/internal/venues"
	"seatline/pkg/cache"
	"seatline/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	log       *logger.Logger
	publisher notifications.Publisher

	// Shared by every service that touches seats
	txManager    transaction.Manager
	ledger       *seats.Ledger
	mapCache     *seats.MapCache
	cacheService cache.Service

	eventsRepo     events.Repository
	venuesRepo     venues.Repository
	venueService   venues.Service
	bookingService bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger) *Router {
	if log == nil {
		log = logger.GetDefault()
	}

	r := &Router{
		config:    cfg,
		db:        db,
		log:       log,
		txManager: db.TxManager(cfg.Booking),
		ledger:    seats.NewLedger(seats.NewRepository(db.PostgreSQL)),
	}
	if db.Redis != nil {
		r.cacheService = cache.NewService(db.Redis)
	}
	r.mapCache = seats.NewMapCache(r.cacheService, cfg.Redis.SeatMapTTL, log)
	r.eventsRepo = events.NewRepository(db.PostgreSQL)
	r.venuesRepo = venues.NewRepository(db.PostgreSQL)
	return r
}

// SetPublisher injects the booking event publisher. Without one bookings
// are not announced.
func (r *Router) SetPublisher(publisher notifications.Publisher) {
	r.publisher = publisher
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	auth := middleware.JWTAuthWithConfig(r.config)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Venue service first: events and bookings depend on it
		r.setupVenueRoutes(api, auth)
		r.setupEventRoutes(api, auth)
		r.setupPromoRoutes(api, auth)
		r.setupHoldRoutes(api, auth)
		r.setupBookingRoutes(api, auth)
		r.setupCheckoutRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "seatline",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "seatline",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupVenueRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	r.venueService = venues.NewService(r.venuesRepo, r.eventsRepo, r.ledger, r.txManager, r.log)
	r.venueService.SetMapCache(r.mapCache)

	venues.SetupVenueRoutes(rg, venues.NewController(r.venueService), auth)
}

func (r *Router) setupEventRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	eventService := events.NewService(r.eventsRepo, r.txManager, r.log)
	eventService.SetBookedCounter(r.venueService)
	if r.cacheService != nil {
		eventService.SetCacheService(r.cacheService)
	}

	events.SetupEventRoutes(rg, events.NewController(eventService), auth)
}

func (r *Router) setupPromoRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	promoService := promos.NewService(promos.NewRepository(r.db.PostgreSQL), r.eventsRepo)

	promos.SetupPromoRoutes(rg, promos.NewController(promoService), auth)
}

func (r *Router) setupHoldRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	holdService := holds.NewService(holds.NewRepository(r.db.PostgreSQL), r.venuesRepo, r.ledger, r.txManager, r.log)
	holdService.SetMapCache(r.mapCache)

	holds.SetupHoldRoutes(rg, holds.NewController(holdService), auth)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	r.bookingService = bookings.NewService(
		bookings.NewRepository(r.db.PostgreSQL),
		r.eventsRepo,
		r.venuesRepo,
		promos.NewRepository(r.db.PostgreSQL),
		r.ledger,
		r.txManager,
		r.log,
	)
	r.bookingService.SetMapCache(r.mapCache)
	if r.publisher != nil {
		r.bookingService.SetPublisher(r.publisher)
	}

	bookings.SetupBookingRoutes(rg, bookings.NewController(r.bookingService), auth)
}

func (r *Router) setupCheckoutRoutes(rg *gin.RouterGroup) {
	orchestrator := checkout.NewOrchestrator(
		checkout.NewSessionProvider(r.db.PostgreSQL),
		r.bookingService,
		checkout.Options{
			MaxAttempts: r.config.Booking.ConfirmMaxAttempts,
			Backoff:     r.config.Booking.ConfirmRetryBackoff,
		},
		r.log,
	)

	checkout.SetupCheckoutRoutes(rg, checkout.NewController(orchestrator))
}
