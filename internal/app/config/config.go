package config

import (
	"medibook-service/internal/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Postgres: Postgres{
			Host:                    utils.GetEnvString("POSTGRES_HOST", "localhost"),
			Port:                    utils.GetEnvString("POSTGRES_PORT", "5432"),
			Username:                utils.GetEnvString("POSTGRES_USERNAME", "postgres"),
			Password:                utils.GetEnvString("POSTGRES_PASSWORD", "postgres"),
			DbName:                  utils.GetEnvString("POSTGRES_DB_NAME", "medibook"),
			SslMode:                 utils.GetEnvString("POSTGRES_SSL_MODE", "disable"),
			MaxOpenConnections:      utils.GetEnvInt("POSTGRES_MAX_OPEN_CONNECTIONS", 20),
			MaxIdleConnections:      utils.GetEnvInt("POSTGRES_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetimeInMinute: utils.GetEnvInt("POSTGRES_CONN_MAX_LIFETIME_IN_MINUTE", 30),
		},
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "medibook"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "medibook-documents"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                            utils.GetEnvString("APP_ENV", "development"),
			Port:                           utils.GetEnvString("APP_PORT", "8080"),
			Version:                        utils.GetEnvString("APP_VERSION", "v1"),
			Address:                        utils.GetEnvString("APP_ADDRESS", "0.0.0.0"),
			Timezone:                       utils.GetEnvString("APP_TIMEZONE", "Asia/Kolkata"),
			EndpointPrefix:                 utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                    utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ShutdownTimeoutInSeconds:       utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:      utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 10),
			RequestBodyLimitInMegabyte:     utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
			LoginSessionExpiredTimeInHours: utils.GetEnvInt("APP_LOGIN_SESSION_EXPIRED_TIME_IN_HOURS", 24),
			SuperadminAPIKey:               utils.GetEnvString("APP_SUPERADMIN_API_KEY", ""),
			SuperadminAPIKeyRateLimit:      utils.GetEnvInt("APP_SUPERADMIN_API_KEY_RATE_LIMIT", 100),
			MigrationDir:                   utils.GetEnvString("APP_MIGRATION_DIR", "internal/migration"),
			RunMigrationOnStartup:          utils.GetEnvBool("APP_RUN_MIGRATION_ON_STARTUP", false),
			ReconcileWorkerCronSpec:        utils.GetEnvString("APP_RECONCILE_WORKER_CRON_SPEC", "@every 5m"),
			ReconcileWorkerBatchSize:       utils.GetEnvInt("APP_RECONCILE_WORKER_BATCH_SIZE", 50),
			PaymentCallsPerMinute:          utils.GetEnvInt("APP_PAYMENT_CALLS_PER_MINUTE", 10),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 24),
		},
		Minio: AppMinio{
			BucketName:                utils.GetEnvString("MINIO_BUCKET_NAME", "medibook-documents"),
			PublicBaseUrl:             utils.GetEnvString("MINIO_PUBLIC_BASE_URL", ""),
			DocumentMaxUploadSizeInMB: utils.GetEnvInt64("APP_MINIO_DOCUMENT_UPLOAD_MAX_SIZE_IN_MB", 10),
		},
		RabbitMQ: AppRabbitMQ{
			AppointmentEventQueue: utils.GetEnvString("APP_RABBITMQ_APPOINTMENT_EVENT_QUEUE", "appointment_events"),
		},
		MongoDB: AppMongoDB{
			DBName:                  utils.GetEnvString("MONGODB_DB_NAME", "medibook"),
			StatusHistoryCollection: utils.GetEnvString("MONGODB_STATUS_HISTORY_COLLECTION", "appointment_status_history"),
		},
		Booking: AppBooking{
			WindowDays:                   utils.GetEnvInt("APP_BOOKING_WINDOW_DAYS", 7),
			DraftExpiredTimeInMinutes:    utils.GetEnvInt("APP_BOOKING_DRAFT_EXPIRED_TIME_IN_MINUTES", 30),
			SlotLockExpiredTimeInSeconds: utils.GetEnvInt("APP_BOOKING_SLOT_LOCK_EXPIRED_TIME_IN_SECONDS", 15),
			AllowOverlappingBookings:     utils.GetEnvBool("APP_ALLOW_OVERLAPPING_BOOKINGS", false),
		},
		PaymentGateway: AppPaymentGateway{
			Provider:                utils.GetEnvString("PAYMENT_GATEWAY_PROVIDER", "cashfree"),
			BaseUrl:                 utils.GetEnvString("PAYMENT_GATEWAY_BASE_URL", "https://sandbox.cashfree.com/pg"),
			ClientID:                utils.GetEnvString("PAYMENT_GATEWAY_CLIENT_ID", ""),
			ClientSecret:            utils.GetEnvString("PAYMENT_GATEWAY_CLIENT_SECRET", ""),
			ApiVersion:              utils.GetEnvString("PAYMENT_GATEWAY_API_VERSION", "2023-08-01"),
			WebhookSecret:           utils.GetEnvString("PAYMENT_GATEWAY_WEBHOOK_SECRET", ""),
			Currency:                utils.GetEnvString("PAYMENT_GATEWAY_CURRENCY", "INR"),
			ReturnUrl:               utils.GetEnvString("PAYMENT_GATEWAY_RETURN_URL", ""),
			RequestTimeoutInSeconds: utils.GetEnvInt("PAYMENT_GATEWAY_REQUEST_TIMEOUT_IN_SECONDS", 15),
			RequestsPerSecond:       utils.GetEnvInt("PAYMENT_GATEWAY_REQUESTS_PER_SECOND", 10),
		},
		Razorpay: AppRazorpay{
			KeyID:         utils.GetEnvString("RAZORPAY_KEY_ID", ""),
			KeySecret:     utils.GetEnvString("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: utils.GetEnvString("RAZORPAY_WEBHOOK_SECRET", ""),
		},
		Geocoder: AppGeocoder{
			BaseUrl:                 utils.GetEnvString("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:               utils.GetEnvString("GEOCODER_USER_AGENT", "medibook-service"),
			RequestTimeoutInSeconds: utils.GetEnvInt("GEOCODER_REQUEST_TIMEOUT_IN_SECONDS", 10),
		},
		Meeting: AppMeeting{
			BaseUrl: utils.GetEnvString("MEETING_BASE_URL", "https://meet.jit.si"),
		},
		Receipt: AppReceipt{
			IssuerName: utils.GetEnvString("RECEIPT_ISSUER_NAME", "MediBook"),
		},
	}
}

// LoadInternalConfigFile overlays the keys present in a YAML/JSON/TOML file on
// top of the env-derived config. Keys absent from the file keep their values.
func LoadInternalConfigFile(internalConfig *InternalConfig, path string) error {
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(internalConfig)
}
