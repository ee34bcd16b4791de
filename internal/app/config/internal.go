package config

type InternalConfig struct {
	App            App               `mapstructure:"app"`
	JWT            AppJWT            `mapstructure:"jwt"`
	Minio          AppMinio          `mapstructure:"minio"`
	RabbitMQ       AppRabbitMQ       `mapstructure:"rabbitmq"`
	MongoDB        AppMongoDB        `mapstructure:"mongodb"`
	Booking        AppBooking        `mapstructure:"booking"`
	PaymentGateway AppPaymentGateway `mapstructure:"payment_gateway"`
	Razorpay       AppRazorpay       `mapstructure:"razorpay"`
	Geocoder       AppGeocoder       `mapstructure:"geocoder"`
	Meeting        AppMeeting        `mapstructure:"meeting"`
	Receipt        AppReceipt        `mapstructure:"receipt"`
}

type App struct {
	Env                            string `mapstructure:"env"`
	Port                           string `mapstructure:"port"`
	Version                        string `mapstructure:"version"`
	Address                        string `mapstructure:"address"`
	Timezone                       string `mapstructure:"timezone"`
	EndpointPrefix                 string `mapstructure:"endpoint_prefix"`
	MaxRequests                    int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds       int    `mapstructure:"shutdown_timeout_in_seconds"`
	MaxTimeRequestsPerSeconds      int    `mapstructure:"max_time_requests_per_seconds"`
	RequestBodyLimitInMegabyte     int    `mapstructure:"request_body_limit_in_megabyte"`
	LoginSessionExpiredTimeInHours int    `mapstructure:"login_session_expired_time_in_hours"`
	SuperadminAPIKey               string `mapstructure:"superadmin_api_key"`
	SuperadminAPIKeyRateLimit      int    `mapstructure:"superadmin_api_key_rate_limit"`
	MigrationDir                   string `mapstructure:"migration_dir"`
	RunMigrationOnStartup          bool   `mapstructure:"run_migration_on_startup"`
	// ReconcileWorkerCronSpec is the cron expression of the payment reconciliation sweep, empty disables it
	ReconcileWorkerCronSpec  string `mapstructure:"reconcile_worker_cron_spec"`
	ReconcileWorkerBatchSize int    `mapstructure:"reconcile_worker_batch_size"`
	// PaymentCallsPerMinute caps start/verify payment calls per user, 0 disables it
	PaymentCallsPerMinute int `mapstructure:"payment_calls_per_minute"`
}

type AppJWT struct {
	Secret        string `mapstructure:"secret"`
	ExpTimeInHour int    `mapstructure:"exp_time_in_hour"`
}

type AppMinio struct {
	BucketName                string `mapstructure:"bucket_name"`
	PublicBaseUrl             string `mapstructure:"public_base_url"`
	DocumentMaxUploadSizeInMB int64  `mapstructure:"document_max_upload_size_in_mb"`
}

type AppRabbitMQ struct {
	AppointmentEventQueue string `mapstructure:"appointment_event_queue"`
}

type AppMongoDB struct {
	DBName                  string `mapstructure:"db_name"`
	StatusHistoryCollection string `mapstructure:"status_history_collection"`
}

type AppBooking struct {
	WindowDays                   int  `mapstructure:"window_days"`
	DraftExpiredTimeInMinutes    int  `mapstructure:"draft_expired_time_in_minutes"`
	SlotLockExpiredTimeInSeconds int  `mapstructure:"slot_lock_expired_time_in_seconds"`
	AllowOverlappingBookings     bool `mapstructure:"allow_overlapping_bookings"`
}

type AppPaymentGateway struct {
	// Provider selects the gateway adapter: cashfree or razorpay
	Provider                string `mapstructure:"provider"`
	BaseUrl                 string `mapstructure:"base_url"`
	ClientID                string `mapstructure:"client_id"`
	ClientSecret            string `mapstructure:"client_secret"`
	ApiVersion              string `mapstructure:"api_version"`
	WebhookSecret           string `mapstructure:"webhook_secret"`
	Currency                string `mapstructure:"currency"`
	ReturnUrl               string `mapstructure:"return_url"`
	RequestTimeoutInSeconds int    `mapstructure:"request_timeout_in_seconds"`
	RequestsPerSecond       int    `mapstructure:"requests_per_second"`
}

type AppRazorpay struct {
	KeyID         string `mapstructure:"key_id"`
	KeySecret     string `mapstructure:"key_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
}

type AppGeocoder struct {
	BaseUrl                 string `mapstructure:"base_url"`
	UserAgent               string `mapstructure:"user_agent"`
	RequestTimeoutInSeconds int    `mapstructure:"request_timeout_in_seconds"`
}

type AppMeeting struct {
	BaseUrl string `mapstructure:"base_url"`
}

type AppReceipt struct {
	IssuerName string `mapstructure:"issuer_name"`
}
