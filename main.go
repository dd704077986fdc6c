package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookastay/config"
	"bookastay/cron"
	"bookastay/database"
	reservationRepo "bookastay/database/repository/reservation"
	verificationRepo "bookastay/database/repository/verification"
	"bookastay/handlers"
	"bookastay/routes"
	"bookastay/services/availability"
	"bookastay/services/booking"
	"bookastay/services/identity"
	"bookastay/services/notification"
	"bookastay/services/payment"
	syncsvc "bookastay/services/sync"
	"bookastay/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.StartHealthMonitor(database.MongoClient)

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	resRepo := reservationRepo.NewMongoReservationRepo()
	sessionRepo := verificationRepo.NewMongoVerificationRepo()

	// services.
	resolver := &availability.Resolver{Repo: resRepo}
	paystackClient := payment.NewPaystackClient(config.AppConfig.PaystackSecretKey)

	outbox := booking.NewAsynqOutbox(
		config.AppConfig.RedisAddr,
		config.AppConfig.RedisPassword,
		config.AppConfig.RedisOutboxDB,
	)
	defer outbox.Close()

	bookingService := &booking.DefaultBookingService{
		Repo:     resRepo,
		Resolver: resolver,
		Payments: paystackClient,
		Storage:  cloudinaryStorageService,
		Outbox:   outbox,
		Pricing:  booking.PricingFromConfig(),
	}

	shuftiClient := identity.NewShuftiClient(
		config.AppConfig.ShuftiProClientID,
		config.AppConfig.ShuftiProSecretKey,
		config.AppConfig.ShuftiProCallbackURL,
		config.AppConfig.ShuftiProRedirectURL,
	)
	identityService := identity.NewIdentityService(shuftiClient, sessionRepo, resRepo)

	notificationService, err := notification.NewDefaultNotificationService()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	reconciler := syncsvc.NewReconciler(resRepo, syncsvc.FeedsFromConfig())

	// Background processing: outbox worker and calendar scheduler.
	cron.InitBookingWorker(resRepo, notificationService, identityService)
	scheduler := cron.InitCalendarScheduler(reconciler)
	defer scheduler.Stop()

	// handlers.
	handlerBundle := &routes.HandlerBundle{
		Booking:  handlers.NewBookingHandler(bookingService),
		Admin:    handlers.NewAdminHandler(bookingService, reconciler),
		Identity: handlers.NewIdentityHandler(identityService),
		Storage:  handlers.NewStorageHandler(cloudinaryStorageService),
		Calendar: handlers.NewCalendarHandler(resRepo),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "4000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
