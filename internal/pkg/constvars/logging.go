package constvars

const (
	LoggingRequestIDKey         = "request_id"
	LoggingRequestKey           = "request"
	LoggingResponseKey          = "response"
	LoggingEndpointKey          = "endpoint"
	LoggingMethodKey            = "method"
	LoggingRemoteAddrKey        = "remote_addr"
	LoggingUserAgentKey         = "user_agent"
	LoggingQueryKey             = "query"
	LoggingStatusCodeKey        = "status_code"
	LoggingDurationKey          = "duration"
	LoggingSuccessKey           = "success"
	LoggingErrorTypeKey         = "error_type"
	LoggingUserIDKey            = "user_id"
	LoggingProviderIDKey        = "provider_id"
	LoggingServiceIDKey         = "service_id"
	LoggingAppointmentIDKey     = "appointment_id"
	LoggingAppointmentStatusKey = "appointment_status"
	LoggingPaymentOrderIDKey    = "payment_order_id"
	LoggingPaymentStatusKey     = "payment_status"
	LoggingAmountKey            = "amount"
	LoggingPostalCodeKey        = "postal_code"
	LoggingDateKey              = "date"
	LoggingSlotKey              = "slot"
	LoggingBookingStepKey       = "booking_step"
	LoggingCountKey             = "count"
	LoggingRedisKey             = "redis_key"
	LoggingLockValueKey         = "lock_value"
	LoggingLockExpirationKey    = "lock_expiration"
	LoggingQueueNameKey         = "queue_name"
	LoggingBucketNameKey        = "bucket_name"
	LoggingObjectNameKey        = "object_name"
	LoggingDocumentKindKey      = "document_kind"
	LoggingGatewayKey           = "gateway"
	LoggingTransitionFromKey    = "from_status"
	LoggingTransitionToKey      = "to_status"
	LoggingTransitionActorKey   = "actor"
	LoggingLockStoredValueKey   = "lock_stored_value"
	LoggingLockExpectedValueKey = "lock_expected_value"
	LoggingEventTypeKey         = "event_type"
	LoggingCollectionKey        = "collection"
	LoggingLatitudeKey          = "latitude"
	LoggingLongitudeKey         = "longitude"
	LoggingCronSpecKey          = "cron_spec"
	LoggingUpstreamKey          = "upstream"
)
