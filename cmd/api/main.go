package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"artclub/internal/config"
	"artclub/internal/database"
	"artclub/internal/middleware"
	"artclub/internal/modules/admin"
	"artclub/internal/modules/booking"
	"artclub/internal/modules/catalog"
	"artclub/internal/modules/notification"
	"artclub/internal/modules/payment"
	jwtsvc "artclub/internal/pkg/jwt"
	"artclub/internal/provider/email"
	"artclub/internal/provider/stripe"
	"artclub/internal/queue"
	"artclub/internal/repository"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}

	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	eventRepo := repository.NewEventRepository(db)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	httpClient := &http.Client{Timeout: 15 * time.Second}
	stripeClient := stripe.NewClient(cfg.StripeBaseURL, cfg.StripeSecretKey, logger, httpClient)
	emailClient := email.NewClient(cfg.EmailBaseURL, cfg.EmailAPIKey, logger, httpClient)
	publisher := queue.NewPublisher(cfg.AMQPURL, logger)

	feed := admin.NewFeedHub(logger)

	bookingService := booking.NewService(bookingRepo, eventRepo, feed, logger)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(payment.ServiceProperty{
		Bookings:  bookingRepo,
		Payments:  paymentRepo,
		Provider:  stripeClient,
		Publisher: publisher,
		Feed:      feed,
		Logger:    logger,
		Currency:  cfg.Currency,
	})
	paymentHandler := payment.NewHandler(paymentService)

	catalogService := catalog.NewService(eventRepo, bookingRepo, cache, logger)
	catalogHandler := catalog.NewHandler(catalogService)

	notifier := notification.NewService(
		bookingRepo,
		eventRepo,
		emailClient,
		logger,
		cfg.EmailRetryAttempts,
		cfg.EmailRetryBaseDelay,
	)

	adminService := admin.NewService(admin.ServiceProperty{
		Bookings: bookingRepo,
		Payments: paymentRepo,
		Events:   eventRepo,
		Sender:   notifier,
		Catalog:  catalogService,
		Feed:     feed,
		Logger:   logger,
	})
	adminHandler := admin.NewHandler(adminService, feed)

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)
		bookingHandler.RegisterRoutes(v1)
		paymentHandler.RegisterRoutes(v1)

		// admin
		adm := v1.Group("/admin")
		adm.Use(middleware.JWTAuth(tokens), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adm)
		}
	}

	logger.WithField("port", cfg.Port).Info("api listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
