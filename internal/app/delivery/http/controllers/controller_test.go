package controllers

import (
	"bytes"
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockBookingUsecase struct {
	contracts.BookingUsecase
	mock.Mock
}

func (m *MockBookingUsecase) SubmitIdentity(ctx context.Context, session *models.Session, request *requests.BookingIdentity) (*responses.BookingStep, error) {
	args := m.Called(ctx, session, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.BookingStep), args.Error(1)
}

func (m *MockBookingUsecase) SelectSchedule(ctx context.Context, session *models.Session, request *requests.BookingSchedule) (*responses.BookingStep, error) {
	args := m.Called(ctx, session, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.BookingStep), args.Error(1)
}

type stubPaymentUsecase struct {
	contracts.PaymentUsecase
	receipt []byte
	err     error
}

func (s *stubPaymentUsecase) Receipt(ctx context.Context, session *models.Session, appointmentID string) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.receipt, "receipt-" + appointmentID + ".pdf", nil
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func withScope(r *http.Request, session *models.Session) *http.Request {
	ctx := context.WithValue(r.Context(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	if session != nil {
		ctx = context.WithValue(ctx, constvars.CONTEXT_SESSION_DATA_KEY, session)
	}
	return r.WithContext(ctx)
}

func TestBookingController_SubmitIdentity(t *testing.T) {
	session := &models.Session{SessionID: "sess-1", UserID: "user-1", Role: "patient"}

	t.Run("saves the step", func(t *testing.T) {
		usecase := new(MockBookingUsecase)
		ctrl := &BookingController{Log: zap.NewNop(), BookingUsecase: usecase}
		usecase.On("SubmitIdentity", mock.Anything, session, mock.MatchedBy(func(r *requests.BookingIdentity) bool {
			return r.FullName == "Asha Rao"
		})).Return(&responses.BookingStep{Draft: models.BookingDraft{Step: models.BookingStepProvider}}, nil)

		body := `{"full_name":"Asha Rao","phone":"9812345678","gender":"female","date_of_birth":"1990-02-01"}`
		req := withScope(httptest.NewRequest(http.MethodPost, "/bookings/identity", bytes.NewBufferString(body)), session)
		rr := httptest.NewRecorder()

		ctrl.SubmitIdentity(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var response apiResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, constvars.ResponseSuccessBookingStep, response.Message)
		usecase.AssertExpectations(t)
	})

	t.Run("invalid json", func(t *testing.T) {
		usecase := new(MockBookingUsecase)
		ctrl := &BookingController{Log: zap.NewNop(), BookingUsecase: usecase}

		req := withScope(httptest.NewRequest(http.MethodPost, "/bookings/identity", bytes.NewBufferString(`{"full_name":`)), session)
		rr := httptest.NewRecorder()

		ctrl.SubmitIdentity(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		usecase.AssertNotCalled(t, "SubmitIdentity")
	})

	t.Run("missing session", func(t *testing.T) {
		usecase := new(MockBookingUsecase)
		ctrl := &BookingController{Log: zap.NewNop(), BookingUsecase: usecase}

		req := withScope(httptest.NewRequest(http.MethodPost, "/bookings/identity", bytes.NewBufferString(`{}`)), nil)
		rr := httptest.NewRecorder()

		ctrl.SubmitIdentity(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestBookingController_SelectScheduleNoSlots(t *testing.T) {
	session := &models.Session{SessionID: "sess-1", UserID: "user-1", Role: "patient"}
	usecase := new(MockBookingUsecase)
	ctrl := &BookingController{Log: zap.NewNop(), BookingUsecase: usecase}
	usecase.On("SelectSchedule", mock.Anything, session, mock.Anything).
		Return(&responses.BookingStep{Draft: models.BookingDraft{Step: models.BookingStepSchedule}, Message: constvars.ErrClientNoSlotsForDate}, nil)

	req := withScope(httptest.NewRequest(http.MethodPost, "/bookings/schedule", bytes.NewBufferString(`{"date":"2024-07-01"}`)), session)
	rr := httptest.NewRecorder()

	ctrl.SelectSchedule(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var response apiResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, constvars.ErrClientNoSlotsForDate, response.Message)
}

func TestPaymentController_Receipt(t *testing.T) {
	session := &models.Session{SessionID: "sess-1", UserID: "user-1", Role: "patient"}

	route := func(ctrl *PaymentController) http.Handler {
		router := chi.NewRouter()
		router.Get("/appointments/{"+constvars.URLParamAppointmentID+"}/receipt", ctrl.Receipt)
		return router
	}

	t.Run("streams the pdf", func(t *testing.T) {
		ctrl := &PaymentController{Log: zap.NewNop(), PaymentUsecase: &stubPaymentUsecase{receipt: []byte("%PDF-1.3")}}

		req := withScope(httptest.NewRequest(http.MethodGet, "/appointments/appt-9/receipt", nil), session)
		rr := httptest.NewRecorder()
		route(ctrl).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, constvars.MIMEApplicationPDF, rr.Header().Get(constvars.HeaderContentType))
		assert.Contains(t, rr.Header().Get(constvars.HeaderContentDisposition), "receipt-appt-9.pdf")
		assert.Equal(t, "%PDF-1.3", rr.Body.String())
	})

	t.Run("pending appointment", func(t *testing.T) {
		ctrl := &PaymentController{Log: zap.NewNop(), PaymentUsecase: &stubPaymentUsecase{
			err: exceptions.ErrPreconditionFailed(constvars.ErrClientReceiptNotAvailable, "pending"),
		}}

		req := withScope(httptest.NewRequest(http.MethodGet, "/appointments/appt-9/receipt", nil), session)
		rr := httptest.NewRecorder()
		route(ctrl).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusPreconditionFailed, rr.Code)
	})
}

func TestPaymentController_WebhookWithoutBody(t *testing.T) {
	ctrl := &PaymentController{Log: zap.NewNop(), PaymentUsecase: &stubPaymentUsecase{}}

	req := withScope(httptest.NewRequest(http.MethodPost, "/payments/webhook", nil), nil)
	rr := httptest.NewRecorder()

	ctrl.Webhook(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
