package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateSession(ctx context.Context, request *requests.CreateSession) (*responses.Session, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.Session), args.Error(1)
}

func (m *MockSessionService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

// webhookPaymentUsecase only answers HandleWebhook.
type webhookPaymentUsecase struct {
	contracts.PaymentUsecase
	received *requests.PaymentWebhook
}

func (u *webhookPaymentUsecase) HandleWebhook(ctx context.Context, request *requests.PaymentWebhook) (*responses.Appointment, error) {
	u.received = request
	return &responses.Appointment{ID: "appt-1", Status: models.AppointmentStatusConfirmed}, nil
}

func TestSetupRoutes(t *testing.T) {
	logger := zap.NewNop()

	testAPIKey := "test-api-key-12345"
	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix:            "api",
			Version:                   "v1",
			MaxRequests:               1000,
			SuperadminAPIKey:          testAPIKey,
			SuperadminAPIKeyRateLimit: 1000,
		},
		JWT: config.AppJWT{Secret: "router-test-secret"},
	}

	sessionService := new(MockSessionService)
	paymentUsecase := &webhookPaymentUsecase{}

	ctrls := &Controllers{
		Session:      controllers.NewSessionController(logger, sessionService),
		Provider:     controllers.NewProviderController(logger, nil),
		Availability: controllers.NewAvailabilityController(logger, nil, nil),
		Catalog:      controllers.NewCatalogController(logger, nil),
		Booking:      controllers.NewBookingController(logger, nil),
		Appointment:  controllers.NewAppointmentController(logger, nil),
		Payment:      controllers.NewPaymentController(logger, paymentUsecase),
		Document:     controllers.NewDocumentController(logger, nil, internalConfig),
	}

	router := chi.NewRouter()
	SetupRoutes(router, internalConfig, middlewares.NewMiddlewares(logger, sessionService, nil, internalConfig), ctrls)

	t.Run("Create session with valid API key", func(t *testing.T) {
		sessionService.On("CreateSession", mock.Anything, mock.AnythingOfType("*requests.CreateSession")).
			Return(&responses.Session{Token: "token", ExpiresAt: time.Now().Add(time.Hour)}, nil).Once()

		body, _ := json.Marshal(requests.CreateSession{UserID: "user-1", Email: "a@example.com", Role: "patient"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))
		sessionService.AssertExpectations(t)
	})

	t.Run("Create session without API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewBufferString(`{}`))

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		sessionService.AssertNumberOfCalls(t, "CreateSession", 1)
	})

	t.Run("Booking endpoints require a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/draft", nil)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Appointment endpoints require a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/appt-1/payment/verify", nil)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Webhook receives raw body and signature", func(t *testing.T) {
		payload := []byte(`{"event":"payment.captured","order_id":"order_1"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
		req.Header.Set(constvars.HeaderRazorpaySignature, "sig")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, paymentUsecase.received)
		assert.Equal(t, payload, paymentUsecase.received.Body)
		assert.Equal(t, "sig", paymentUsecase.received.Signature)
	})

	t.Run("Unknown route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
