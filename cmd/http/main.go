package main

import (
	"context"
	"flag"
	"medibook-service/cmd/migration"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/delivery/http/routers"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/drivers/messaging"
	"medibook-service/internal/app/drivers/storage"
	"medibook-service/internal/app/services/core/appointments"
	"medibook-service/internal/app/services/core/availability"
	"medibook-service/internal/app/services/core/booking"
	"medibook-service/internal/app/services/core/catalog"
	"medibook-service/internal/app/services/core/documents"
	"medibook-service/internal/app/services/core/payments"
	"medibook-service/internal/app/services/core/providers"
	"medibook-service/internal/app/services/core/session"
	"medibook-service/internal/app/services/core/slot"
	"medibook-service/internal/app/services/shared/eventqueue"
	"medibook-service/internal/app/services/shared/geocoder"
	"medibook-service/internal/app/services/shared/locker"
	"medibook-service/internal/app/services/shared/meeting"
	"medibook-service/internal/app/services/shared/payment_gateway"
	"medibook-service/internal/app/services/shared/ratelimiter"
	"medibook-service/internal/app/services/shared/redis"
	minioStorage "medibook-service/internal/app/services/shared/storage"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	configFile := flag.String("config", os.Getenv("APP_CONFIG_FILE"), "optional YAML/JSON/TOML file overriding env config")
	flag.Parse()

	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	if err := config.LoadInternalConfigFile(internalConfig, *configFile); err != nil {
		logrus.Fatalf("Error loading config file %s: %v", *configFile, err)
	}

	log := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	postgresDB := database.NewPostgresDB(driverConfig)
	if internalConfig.App.RunMigrationOnStartup {
		n, err := migration.Run(postgresDB, internalConfig.App.MigrationDir)
		if err != nil {
			log.Fatalf("Error running migrations: %v", err)
		}
		log.Printf("Applied %d migrations", n)
	}

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Postgres:       postgresDB,
		Redis:          database.NewRedisClient(driverConfig),
		Mongo:          database.NewMongoDB(driverConfig),
		Minio:          storage.NewMinio(driverConfig),
		RabbitMQ:       messaging.NewRabbitMQ(driverConfig),
		Logger:         logger.NewZapLogger(driverConfig, internalConfig),
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}

	if err := bootstrapingTheApp(bootstrap, log); err != nil {
		log.Fatalf("Error bootstrapping the app: %v", err)
	}

	server := &http.Server{
		Addr:              net.JoinHostPort(internalConfig.App.Address, internalConfig.App.Port),
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Error closing drivers: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap, log *logrus.Logger) error {
	cfg := bootstrap.InternalConfig
	zapLog := bootstrap.Logger

	// Shared
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, zapLog)
	documentStorage := minioStorage.NewMinioStorage(bootstrap.Minio, cfg.Minio.PublicBaseUrl, zapLog)
	geocoderService := geocoder.NewGeocoderService(cfg, zapLog)
	meetingLinkGenerator := meeting.NewMeetingLinkGenerator(cfg.Meeting.BaseUrl)
	eventPublisher, err := eventqueue.NewService(bootstrap.RabbitMQ, zapLog, cfg.RabbitMQ.AppointmentEventQueue)
	if err != nil {
		return err
	}
	paymentGateway, err := payment_gateway.NewPaymentGatewayService(cfg, zapLog)
	if err != nil {
		return err
	}

	// Repositories
	providerRepository := providers.NewProviderPostgresRepository(bootstrap.Postgres)
	availabilityRepository := availability.NewAvailabilityPostgresRepository(bootstrap.Postgres)
	serviceRepository := catalog.NewServicePostgresRepository(bootstrap.Postgres)
	appointmentRepository := appointments.NewAppointmentPostgresRepository(bootstrap.Postgres)
	statusHistoryRepository := appointments.NewStatusHistoryMongoRepository(bootstrap.Mongo, cfg.MongoDB.DBName, cfg.MongoDB.StatusHistoryCollection)

	// Usecases
	sessionService := session.NewSessionService(redisRepository, cfg, zapLog)
	providerUsecase := providers.NewProviderUsecase(providerRepository, geocoderService, zapLog)
	availabilityUsecase := availability.NewAvailabilityUsecase(availabilityRepository, providerRepository, zapLog)
	catalogUsecase := catalog.NewCatalogUsecase(serviceRepository, providerRepository, zapLog)
	slotUsecase := slot.NewSlotUsecase(availabilityUsecase, zapLog)
	appointmentUsecase := appointments.NewAppointmentUsecase(appointmentRepository, statusHistoryRepository, meetingLinkGenerator, eventPublisher, zapLog)
	receiptRenderer := payments.NewReceiptRenderer(cfg.Receipt.IssuerName, cfg.PaymentGateway.Currency)
	paymentUsecase := payments.NewPaymentUsecase(appointmentUsecase, appointmentRepository, providerRepository, paymentGateway, receiptRenderer, eventPublisher, cfg, zapLog)
	bookingUsecase := booking.NewBookingUsecase(redisRepository, lockerService, providerUsecase, catalogUsecase, slotUsecase, appointmentUsecase, appointmentRepository, paymentUsecase, cfg, zapLog)
	documentUsecase := documents.NewDocumentUsecase(appointmentUsecase, appointmentRepository, documentStorage, cfg, zapLog)

	// Payment reconciliation sweep
	if cfg.App.ReconcileWorkerCronSpec != "" {
		worker := payments.NewReconcileWorker(zapLog, cfg, lockerService, paymentUsecase)
		worker.Start(context.Background())
		bootstrap.WorkerStop = worker.Stop
		log.Printf("Payment reconciliation worker scheduled with %q", cfg.App.ReconcileWorkerCronSpec)
	}

	// Middlewares
	resourceLimiter := ratelimiter.NewResourceLimiter(redisRepository, zapLog)
	middlewares := middlewares.NewMiddlewares(zapLog, sessionService, resourceLimiter, cfg)

	routers.SetupRoutes(bootstrap.Router, cfg, middlewares, &routers.Controllers{
		Session:      controllers.NewSessionController(zapLog, sessionService),
		Provider:     controllers.NewProviderController(zapLog, providerUsecase),
		Availability: controllers.NewAvailabilityController(zapLog, availabilityUsecase, slotUsecase),
		Catalog:      controllers.NewCatalogController(zapLog, catalogUsecase),
		Booking:      controllers.NewBookingController(zapLog, bookingUsecase),
		Appointment:  controllers.NewAppointmentController(zapLog, appointmentUsecase),
		Payment:      controllers.NewPaymentController(zapLog, paymentUsecase),
		Document:     controllers.NewDocumentController(zapLog, documentUsecase, cfg),
	})
	return nil
}
