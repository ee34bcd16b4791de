package middlewares

import (
	"context"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

const ContextAPIKeyAuth constvars.ContextKey = "api_key_auth"

// RequireAPIKey guards the endpoints used by the identity front end, such as
// session issuing. The key must match exactly.
func (m *Middlewares) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderAPIKey)
		expected := m.InternalConfig.App.SuperadminAPIKey

		if apiKey == "" || expected == "" || !utils.SecureCompare(apiKey, expected) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		m.Log.Info("API key authentication successful",
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)

		ctx := context.WithValue(r.Context(), ContextAPIKeyAuth, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
