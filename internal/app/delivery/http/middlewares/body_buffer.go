package middlewares

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
)

// BodyBuffer reads the request body, stores the raw bytes in the context and
// replaces the request body with a new reader so it can be consumed again.
// Webhook signatures are computed over these exact bytes. Bodies over
// MaxBufferedBodyBytes are refused.
func (m *Middlewares) BodyBuffer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constvars.MaxBufferedBodyBytes))
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrRequestTooLarge(err))
				return
			}
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrCannotParseJSON(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_RAW_BODY, bodyBytes)
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
