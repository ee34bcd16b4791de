package middlewares

import (
	"bytes"
	"io"
	"medibook-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBodyBuffer(t *testing.T) {
	middlewares := &Middlewares{Log: zap.NewNop()}

	var rawBody []byte
	var rereadBody []byte
	called := false
	handler := middlewares.BodyBuffer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		rawBody, _ = r.Context().Value(constvars.CONTEXT_RAW_BODY).([]byte)
		rereadBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("keeps the raw body and lets the handler read it again", func(t *testing.T) {
		called = false
		payload := []byte(`{"order_id":"order-1","status":"PAID"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.True(t, called)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, payload, rawBody)
		assert.Equal(t, payload, rereadBody)
	})

	t.Run("refuses bodies over the limit", func(t *testing.T) {
		called = false
		payload := strings.Repeat("a", constvars.MaxBufferedBodyBytes+1)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(payload))
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	})
}
