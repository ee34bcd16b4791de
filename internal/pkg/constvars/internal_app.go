package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_RAW_BODY                 ContextKey = "raw_body"
)

const (
	REQUEST_ID_PREFIX = "MDBK_SVC_"
)

// MaxBufferedBodyBytes caps bodies kept in memory for webhook signature checks.
const MaxBufferedBodyBytes = 1 << 20

const (
	RolePatient   = "patient"
	RoleProvider  = "provider"
	RoleModerator = "moderator"
)

const (
	ActorPatient   = "patient"
	ActorProvider  = "provider"
	ActorModerator = "moderator"
	ActorSystem    = "system"
)

const (
	RedisKeyBookingDraftPrefix  = "booking:draft:"
	RedisKeySlotLockPrefix      = "booking:slot:"
	RedisKeySessionPrefix       = "session:"
	RedisKeyReconcileLeaderLock = "payments:reconcile:leader"
	RedisKeyRateLimitPrefix     = "ratelimit:"
)

const (
	DateLayout = "2006-01-02"
)
