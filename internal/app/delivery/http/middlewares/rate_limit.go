package middlewares

import (
	"medibook-service/internal/app/services/shared/ratelimiter"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// ConditionalRateLimit applies the API key limit to key-authenticated requests
// and the normal per-IP limit to everything else.
func (m *Middlewares) ConditionalRateLimit(normalLimiter, apiKeyLimiter func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKeyAuth, ok := r.Context().Value(ContextAPIKeyAuth).(bool); ok && apiKeyAuth {
				apiKeyLimiter(next).ServeHTTP(w, r)
			} else {
				normalLimiter(next).ServeHTTP(w, r)
			}
		})
	}
}

func (m *Middlewares) CreateRateLimiters() (normalLimiter, apiKeyLimiter func(next http.Handler) http.Handler) {
	normalLimiter = httprate.LimitByIP(m.InternalConfig.App.MaxRequests, time.Second)
	apiKeyLimiter = httprate.LimitByIP(m.InternalConfig.App.SuperadminAPIKeyRateLimit, time.Second)
	return normalLimiter, apiKeyLimiter
}

// LimitPerSession counts calls per logged-in user in Redis, so the quota holds
// across instances. It must run after Authenticate.
func (m *Middlewares) LimitPerSession(group string, window time.Duration, maxCalls int) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := utils.GetSessionFromContext(r.Context())
			if m.ResourceLimiter == nil || err != nil {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := m.ResourceLimiter.Allow(r.Context(), ratelimiter.Quota{
				Group:    group,
				Subject:  session.UserID,
				Window:   window,
				MaxCalls: maxCalls,
			})
			if err != nil {
				// Redis trouble should not block payments.
				m.Log.Warn("Middlewares.LimitPerSession limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !decision.Allowed {
				w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(decision.RetryAfterSecs))
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(group, decision.RetryAfterSecs))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
