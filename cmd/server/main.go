package main // Entry point package

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/aks-110/quickstay/internal/config"
	"github.com/aks-110/quickstay/internal/database"
	"github.com/aks-110/quickstay/internal/handler"
	"github.com/aks-110/quickstay/internal/middleware"
	"github.com/aks-110/quickstay/internal/observability"
	"github.com/aks-110/quickstay/internal/payment"
	"github.com/aks-110/quickstay/internal/queue"
	"github.com/aks-110/quickstay/internal/repository"
	"github.com/aks-110/quickstay/internal/router"
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env always wins

	cfg := config.Load()
	logger := observability.NewLogger(cfg.Env)

	if cfg.MetricsAddr != "" {
		observability.Serve(cfg.MetricsAddr)
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server started")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	// Redis is optional: a nil client disables response caching and rate
	// limiting without affecting core booking flows.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn().Msg("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	hotels := repository.NewHotelRepo(db)
	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)

	payments, err := payment.New(cfg.PaymentBaseURL, cfg.PaymentAPIKey, cfg.PaymentRateLimit)
	if err != nil {
		logger.Fatal().Err(err).Msg("payment client setup failed")
	}

	userHandler := handler.NewUserHandler(users)
	hotelHandler := handler.NewHotelHandler(hotels, users)
	roomHandler := handler.NewRoomHandler(rooms, hotels)
	bookingHandler := handler.NewBookingHandler(bookings, rooms, hotels, cfg.AMQPURL)
	paymentHandler := handler.NewPaymentHandler(bookings, rooms, payments, cfg.FrontendBaseURL)
	webhookHandler := handler.NewWebhookHandler(bookings, cfg.WebhookSecret)

	// Consume booking notifications in the background; the consumer
	// reconnects on broker failure and never blocks startup.
	go queue.StartBookingConsumer(cfg.AMQPURL, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Metrics())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, roomHandler, bookingHandler, rdb)
	router.RegisterWebhooks(e, webhookHandler)
	router.RegisterGuest(e, userHandler, hotelHandler, bookingHandler, paymentHandler, cfg.JWTSecret, users)
	router.RegisterOwner(e, roomHandler, bookingHandler, cfg.JWTSecret, users)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
