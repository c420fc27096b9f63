package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"artclub/internal/config"
	"artclub/internal/database"
	"artclub/internal/modules/notification"
	"artclub/internal/provider/email"
	"artclub/internal/queue"
	"artclub/internal/repository"
)

// Worker process: consumes booking.confirmed events and sends confirmation
// e-mails. Runs separately from the api so provider slowness never backs up
// into request handling.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}

	bookingRepo := repository.NewBookingRepository(db)
	eventRepo := repository.NewEventRepository(db)

	emailClient := email.NewClient(cfg.EmailBaseURL, cfg.EmailAPIKey, logger, &http.Client{Timeout: 15 * time.Second})

	notifier := notification.NewService(
		bookingRepo,
		eventRepo,
		emailClient,
		logger,
		cfg.EmailRetryAttempts,
		cfg.EmailRetryBaseDelay,
	)

	consumer := queue.NewConsumer(cfg.AMQPURL, logger, func(ctx context.Context, ev queue.BookingConfirmedEvent) error {
		logger.WithFields(logrus.Fields{
			"booking_id": ev.BookingID,
			"reference":  ev.ReferenceNumber,
		}).Info("processing booking confirmation")
		return notifier.SendBookingConfirmation(ctx, ev.BookingID)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("notifier worker starting")
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("consumer stopped")
	}
	logger.Info("notifier worker stopped")
}
