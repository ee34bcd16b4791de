package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":     "is required",
	"email":        "must be a valid email",
	"numeric":      "must be a number",
	"len":          "must be %s characters long",
	"oneof":        "must be one of [%s]",
	"gte":          "must be greater than or equal to %s",
	"lte":          "must be less than or equal to %s",
	"max":          "maximum at %s characters long",
	"latitude":     "must be a valid latitude",
	"longitude":    "must be a valid longitude",
	"phone_number": "phone must be exactly 10 digits",
	"postal_code":  "postal code must be exactly 6 digits",
	"past_date":    "must be a valid past date in YYYY-MM-DD format",
	"date_only":    "must be a valid date in YYYY-MM-DD format",
	"weekday":      "must be a weekday name such as Monday",
	"min":          "must have at least %s items",
	"uuid":         "must be a valid id",
	"dive":         "contains an invalid item",

	"required_with":    "is required together with %s",
	"required_without": "is required when %s is empty",
	"required_if":      "is required when %s",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"len":   true,
	"oneof": true,
	"gte":   true,
	"lte":   true,
	"max":   true,
	"min":   true,

	"required_with":    true,
	"required_without": true,
	"required_if":      true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "cannot process the request, please check your input"
	ErrClientSomethingWrongWithApplication = "something went wrong, please try again later"
	ErrClientServerLongRespond             = "server took too long to respond, please try again"
	ErrClientNotAuthorized                 = "you are not authorized to perform this action"
	ErrClientNotLoggedIn                   = "please log in to continue"
	ErrClientInvalidInput                  = "some fields are invalid"
	ErrClientProviderNotFound              = "no provider found"
	ErrClientServiceNotFound               = "service not found"
	ErrClientAppointmentNotFound           = "appointment not found"
	ErrClientNoSlotsForDate                = "no slots for this date"
	ErrClientSlotNoLongerAvailable         = "slot no longer available, please reselect"
	ErrClientServiceAlreadyExists          = "a service with this name already exists"
	ErrClientAppointmentChanged            = "appointment was changed by someone else, please reload"
	ErrClientPaymentNotCompleted           = "payment did not complete, you can retry the payment"
	ErrClientPaymentNotRequired            = "this appointment does not require payment"
	ErrClientUpstreamUnavailable           = "a dependent service is unavailable, please retry"
	ErrClientInvalidTransition             = "this status change is not allowed"
	ErrClientMeetingLinkNotAllowed         = "meeting link is only available for approved appointments"
	ErrClientDocumentsNotAllowed           = "documents can only be attached to confirmed appointments"
	ErrClientReceiptNotAvailable           = "receipt is only available for confirmed appointments"
	ErrClientBookingStepIncomplete         = "please complete the previous booking steps first"
	ErrClientDateOutsideBookingWindow      = "date must be between today and the end of the booking window"
	ErrClientSlotNotOffered                = "please pick one of the listed slots"
	ErrClientProviderNotInResults          = "please pick one of the listed providers"
	ErrClientFileTooLarge                  = "file is too large"
	ErrClientRequestTooLarge               = "request body is too large"
	ErrClientInvalidWebhook                = "invalid webhook"
	ErrClientTooManyRequests               = "too many requests, please retry in %d seconds"
)

// Error messages for developers
const (
	ErrDevValidationFailed            = "validation failed"
	ErrDevInvalidInput                = "invalid input"
	ErrDevCannotParseJSON             = "cannot parse JSON"
	ErrDevCannotMarshalJSON           = "cannot marshal JSON"
	ErrDevCannotParseDate             = "cannot parse date"
	ErrDevCannotParseMultipartForm    = "cannot parse multipart form"
	ErrDevRequestBodyTooLarge         = "request body exceeds the size limit"
	ErrDevServerDeadlineExceeded      = "server deadline exceeded"
	ErrDevServerProcess               = "server process failed"
	ErrDevMissingRequestID            = "request id missing from context"
	ErrDevAuthTokenMissing            = "authorization token missing"
	ErrDevAuthTokenInvalid            = "authorization token invalid"
	ErrDevAuthSigningMethod           = "unexpected token signing method"
	ErrDevAuthSessionNotFound         = "session not found or expired"
	ErrDevAuthForbidden               = "session not allowed to access resource"
	ErrDevInvalidAPIKey               = "invalid api key"
	ErrDevNotFound                    = "%s not found"
	ErrDevConflict                    = "%s conflict"
	ErrDevPreconditionFailed          = "precondition failed: %s"
	ErrDevPaymentPending              = "payment pending: order %s has status %s"
	ErrDevUpstream                    = "upstream %s failed"
	ErrDevTooManyRequests             = "quota exceeded for %s"
	ErrDevDBFailedToFindData          = "failed to find data in postgres"
	ErrDevDBFailedToInsertData        = "failed to insert data into postgres"
	ErrDevDBFailedToUpdateData        = "failed to update data in postgres"
	ErrDevDBFailedToDeleteData        = "failed to delete data from postgres"
	ErrDevDBFailedToBeginTransaction  = "failed to begin postgres transaction"
	ErrDevDBFailedToCommitTransaction = "failed to commit postgres transaction"
	ErrDevMongoDBInsertDocument       = "failed to insert document into mongodb"
	ErrDevMongoDBFindDocument         = "failed to find document in mongodb"
	ErrDevRedisGetData                = "failed to get data from redis with key %s"
	ErrDevRedisSetData                = "failed to set data to redis"
	ErrDevRedisDeleteData             = "failed to delete data from redis"
	ErrDevRedisExpire                 = "failed to refresh redis key expiry"
	ErrDevRedisUnlock                 = "failed to release redis lock"
	ErrDevMinioFailedToCreateObject   = "failed to create object in bucket %s"
	ErrDevRabbitMQPublishMessage      = "failed to publish message to queue %s"
	ErrDevCreateHTTPRequest           = "failed to create http request"
	ErrDevSendHTTPRequest             = "failed to send http request"
	ErrDevRenderReceipt               = "failed to render receipt pdf"
)
