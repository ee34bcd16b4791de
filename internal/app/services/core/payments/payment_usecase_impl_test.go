package payments

import (
	"context"
	"errors"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Name() string { return "mockpay" }

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, appointmentID string, amount int64, payer *models.Payer) (*models.PaymentOrder, error) {
	args := m.Called(ctx, appointmentID, amount, payer)
	order, _ := args.Get(0).(*models.PaymentOrder)
	return order, args.Error(1)
}

func (m *MockPaymentGateway) VerifyOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*models.PaymentOrder)
	return order, args.Error(1)
}

func (m *MockPaymentGateway) ParseWebhook(ctx context.Context, request *requests.PaymentWebhook) (*models.PaymentWebhook, error) {
	args := m.Called(ctx, request)
	webhook, _ := args.Get(0).(*models.PaymentWebhook)
	return webhook, args.Error(1)
}

// memoryAppointments backs the repository methods the payment flow touches.
// memoryAppointmentUsecase exposes the same rows through the usecase.
type memoryAppointments struct {
	contracts.AppointmentRepository

	mu           sync.Mutex
	rows         map[string]models.Appointment
	transitions  []models.Actor
	orderUpdates []string
	failedOrders map[string]string
	clock        time.Time
}

func newMemoryAppointments(appointments ...models.Appointment) *memoryAppointments {
	store := &memoryAppointments{
		rows:         map[string]models.Appointment{},
		failedOrders: map[string]string{},
		clock:        time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, appointment := range appointments {
		store.rows[appointment.ID] = appointment
	}
	return store
}

type memoryAppointmentUsecase struct {
	contracts.AppointmentUsecase
	store *memoryAppointments
}

func (u *memoryAppointmentUsecase) FindAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[appointmentID]
	if !ok {
		return nil, exceptions.ErrNotFound(nil, "appointment", constvars.ErrClientAppointmentNotFound)
	}
	return &row, nil
}

func (u *memoryAppointmentUsecase) Transition(ctx context.Context, appointment *models.Appointment, to models.AppointmentStatus, actor models.Actor) (*models.Appointment, error) {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !appointment.Status.CanTransitionTo(to) {
		return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientInvalidTransition, "not allowed")
	}
	row := s.rows[appointment.ID]
	if row.Status != appointment.Status {
		return nil, exceptions.ErrConflict(nil, "appointment", constvars.ErrClientAppointmentChanged)
	}
	row.Status = to
	s.rows[row.ID] = row
	s.transitions = append(s.transitions, actor)
	return &row, nil
}

func (s *memoryAppointments) FindByPaymentOrderID(ctx context.Context, orderID string) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.PaymentOrderID == orderID {
			return &row, nil
		}
	}
	return nil, nil
}

func (s *memoryAppointments) FindPendingToReconcile(ctx context.Context, limit int) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []models.Appointment{}
	for _, row := range s.rows {
		if row.Status != models.AppointmentStatusPending {
			continue
		}
		if row.RequiresPayment() && row.PaymentOrderID == "" {
			continue
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].UpdatedAt.Before(result[j].UpdatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *memoryAppointments) TouchPending(ctx context.Context, appointmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[appointmentID]
	if !ok || row.Status != models.AppointmentStatusPending {
		return nil
	}
	s.clock = s.clock.Add(time.Second)
	row.UpdatedAt = s.clock
	s.rows[appointmentID] = row
	return nil
}

func (s *memoryAppointments) MarkPaymentFailed(ctx context.Context, appointmentID, orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[appointmentID]
	if !ok || row.Status != models.AppointmentStatusPending || s.failedOrders[appointmentID] == orderID {
		return false, nil
	}
	s.failedOrders[appointmentID] = orderID
	s.clock = s.clock.Add(time.Second)
	row.UpdatedAt = s.clock
	s.rows[appointmentID] = row
	return true, nil
}

func (s *memoryAppointments) SetPaymentOrderID(ctx context.Context, appointmentID, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.rows[appointmentID]
	row.PaymentOrderID = orderID
	s.rows[appointmentID] = row
	s.orderUpdates = append(s.orderUpdates, orderID)
	return nil
}

func (s *memoryAppointments) status(appointmentID string) models.AppointmentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[appointmentID].Status
}

type stubProviderRepository struct {
	contracts.ProviderRepository
	provider *models.Provider
}

func (r *stubProviderRepository) FindByID(ctx context.Context, providerID string) (*models.Provider, error) {
	return r.provider, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.AppointmentEventType
}

func (p *recordingPublisher) Publish(ctx context.Context, event *models.AppointmentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.Type)
	return nil
}

func newTestUsecase(store *memoryAppointments) (*paymentUsecase, *MockPaymentGateway, *recordingPublisher) {
	gateway := new(MockPaymentGateway)
	publisher := &recordingPublisher{}
	return &paymentUsecase{
		AppointmentUsecase:    &memoryAppointmentUsecase{store: store},
		AppointmentRepository: store,
		ProviderRepository: &stubProviderRepository{provider: &models.Provider{
			ID: "prov-1", Name: "City Clinic", Address: "4 Lake Road",
		}},
		PaymentGateway:  gateway,
		ReceiptRenderer: NewReceiptRenderer("Medibook", "INR"),
		EventPublisher:  publisher,
		InternalConfig:  &config.InternalConfig{},
		Log:             zap.NewNop(),
	}, gateway, publisher
}

func paidAppointment(status models.AppointmentStatus, orderID string) models.Appointment {
	return models.Appointment{
		ID:             "appt-1",
		ProviderID:     "prov-1",
		UserID:         "user-1",
		UserName:       "Asha",
		Phone:          "9876543210",
		Date:           time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Time:           "10:00",
		Purpose:        "Consultation",
		Price:          50000,
		Status:         status,
		PaymentOrderID: orderID,
	}
}

var patient = &models.Session{UserID: "user-1", Email: "asha@example.com", Role: constvars.RolePatient}

func TestSettleFreeBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("free appointment is confirmed without the gateway", func(t *testing.T) {
		appointment := paidAppointment(models.AppointmentStatusPending, "")
		appointment.Price = 0
		store := newMemoryAppointments(appointment)
		uc, gateway, _ := newTestUsecase(store)

		settled, err := uc.SettleFreeBooking(ctx, &appointment)
		require.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusConfirmed, settled.Status)
		require.Len(t, store.transitions, 1)
		assert.Equal(t, constvars.ActorSystem, store.transitions[0].Kind)
		gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("priced appointment is rejected", func(t *testing.T) {
		appointment := paidAppointment(models.AppointmentStatusPending, "")
		uc, _, _ := newTestUsecase(newMemoryAppointments(appointment))

		_, err := uc.SettleFreeBooking(ctx, &appointment)
		assert.True(t, exceptions.IsPreconditionFailed(err))
	})
}

func TestStartPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an order for the existing appointment", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, ""))
		uc, gateway, _ := newTestUsecase(store)
		gateway.On("CreateOrder", ctx, "appt-1", int64(50000), mock.MatchedBy(func(payer *models.Payer) bool {
			return payer.Email == "asha@example.com" && payer.CustomerID == "user-1"
		})).Return(&models.PaymentOrder{
			OrderID: "order-1", SessionToken: "tok", Amount: 50000, Currency: "INR",
			Status: models.PaymentOrderStatusCreated, AppointmentID: "appt-1",
		}, nil)

		order, err := uc.StartPayment(ctx, patient, "appt-1", &requests.StartPayment{})
		require.NoError(t, err)
		assert.Equal(t, "order-1", order.OrderID)
		assert.Equal(t, "mockpay", order.Gateway)
		assert.Equal(t, []string{"order-1"}, store.orderUpdates)
		assert.Equal(t, models.AppointmentStatusPending, store.status("appt-1"))
	})

	t.Run("free appointment needs no payment", func(t *testing.T) {
		appointment := paidAppointment(models.AppointmentStatusConfirmed, "")
		appointment.Price = 0
		uc, _, _ := newTestUsecase(newMemoryAppointments(appointment))

		_, err := uc.StartPayment(ctx, patient, "appt-1", &requests.StartPayment{})
		assert.True(t, exceptions.IsPreconditionFailed(err))
	})

	t.Run("other users cannot pay", func(t *testing.T) {
		uc, _, _ := newTestUsecase(newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "")))
		other := &models.Session{UserID: "user-2", Role: constvars.RolePatient}

		_, err := uc.StartPayment(ctx, other, "appt-1", &requests.StartPayment{})
		assert.True(t, exceptions.IsForbidden(err))
	})

	t.Run("gateway failure leaves appointment pending", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, ""))
		uc, gateway, _ := newTestUsecase(store)
		gateway.On("CreateOrder", ctx, "appt-1", int64(50000), mock.Anything).
			Return(nil, exceptions.ErrUpstream(errors.New("timeout"), "mockpay"))

		_, err := uc.StartPayment(ctx, patient, "appt-1", &requests.StartPayment{})
		assert.True(t, exceptions.IsUpstream(err))
		assert.Empty(t, store.orderUpdates)
		assert.Equal(t, models.AppointmentStatusPending, store.status("appt-1"))
	})
}

func TestVerifyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("paid order confirms the appointment", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-1"))
		uc, gateway, _ := newTestUsecase(store)
		gateway.On("VerifyOrder", ctx, "order-1").Return(&models.PaymentOrder{
			OrderID: "order-1", Status: models.PaymentOrderStatusPaid, AppointmentID: "appt-1",
		}, nil).Once()

		verification, err := uc.VerifyPayment(ctx, patient, "appt-1")
		require.NoError(t, err)
		assert.True(t, verification.Paid)
		assert.Equal(t, models.AppointmentStatusConfirmed, verification.Appointment.Status)

		again, err := uc.VerifyPayment(ctx, patient, "appt-1")
		require.NoError(t, err)
		assert.True(t, again.Paid)
		gateway.AssertNumberOfCalls(t, "VerifyOrder", 1)
	})

	t.Run("failed order keeps the appointment pending", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-1"))
		uc, gateway, publisher := newTestUsecase(store)
		gateway.On("VerifyOrder", ctx, "order-1").Return(&models.PaymentOrder{
			OrderID: "order-1", Status: models.PaymentOrderStatusFailed,
		}, nil)

		_, err := uc.VerifyPayment(ctx, patient, "appt-1")
		assert.True(t, exceptions.IsPaymentPending(err))
		assert.Equal(t, models.AppointmentStatusPending, store.status("appt-1"))
		assert.Equal(t, []models.AppointmentEventType{models.AppointmentEventPaymentFailed}, publisher.events)
	})

	t.Run("no order started yet", func(t *testing.T) {
		uc, gateway, _ := newTestUsecase(newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "")))

		_, err := uc.VerifyPayment(ctx, patient, "appt-1")
		assert.True(t, exceptions.IsPaymentPending(err))
		gateway.AssertNotCalled(t, "VerifyOrder", mock.Anything, mock.Anything)
	})
}

func TestPaymentStatus(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newTestUsecase(newMemoryAppointments(paidAppointment(models.AppointmentStatusApproved, "order-1")))

	status, err := uc.PaymentStatus(ctx, patient, "appt-1")
	require.NoError(t, err)
	assert.True(t, status.PaymentRequired)
	assert.True(t, status.Paid)
	assert.Equal(t, "order-1", status.PaymentOrderID)
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("bad signature is rejected", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-1"))
		uc, gateway, _ := newTestUsecase(store)
		request := &requests.PaymentWebhook{Body: []byte(`{}`), Signature: "bad"}
		gateway.On("ParseWebhook", ctx, request).Return(nil, exceptions.ErrInvalidWebhook(errors.New("signature mismatch")))

		_, err := uc.HandleWebhook(ctx, request)
		require.Error(t, err)
		assert.Equal(t, models.AppointmentStatusPending, store.status("appt-1"))
		gateway.AssertNotCalled(t, "VerifyOrder", mock.Anything, mock.Anything)
	})

	t.Run("paid order confirms the appointment", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-1"))
		uc, gateway, _ := newTestUsecase(store)
		request := &requests.PaymentWebhook{Body: []byte(`{}`), Signature: "ok"}
		gateway.On("ParseWebhook", ctx, request).Return(&models.PaymentWebhook{OrderID: "order-1"}, nil)
		gateway.On("VerifyOrder", ctx, "order-1").Return(&models.PaymentOrder{
			OrderID: "order-1", Status: models.PaymentOrderStatusPaid, AppointmentID: "appt-1",
		}, nil)

		appointment, err := uc.HandleWebhook(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusConfirmed, appointment.Status)
	})

	t.Run("superseded order is resolved through the gateway", func(t *testing.T) {
		store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-2"))
		uc, gateway, _ := newTestUsecase(store)
		request := &requests.PaymentWebhook{Body: []byte(`{}`), Signature: "ok"}
		gateway.On("ParseWebhook", ctx, request).Return(&models.PaymentWebhook{OrderID: "order-1"}, nil)
		gateway.On("VerifyOrder", ctx, "order-1").Return(&models.PaymentOrder{
			OrderID: "order-1", Status: models.PaymentOrderStatusPaid, AppointmentID: "appt-1",
		}, nil)

		appointment, err := uc.HandleWebhook(ctx, request)
		require.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusConfirmed, appointment.Status)
	})
}

func TestReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("settled appointment renders a pdf", func(t *testing.T) {
		uc, _, _ := newTestUsecase(newMemoryAppointments(paidAppointment(models.AppointmentStatusConfirmed, "order-1")))

		content, filename, err := uc.Receipt(ctx, patient, "appt-1")
		require.NoError(t, err)
		assert.Equal(t, "receipt-appt-1.pdf", filename)
		require.NotEmpty(t, content)
		assert.Equal(t, "%PDF", string(content[:4]))
	})

	t.Run("pending appointment has no receipt", func(t *testing.T) {
		uc, _, _ := newTestUsecase(newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-1")))

		_, _, err := uc.Receipt(ctx, patient, "appt-1")
		assert.True(t, exceptions.IsPreconditionFailed(err))
	})
}

func TestReconcilePending(t *testing.T) {
	ctx := context.Background()
	first := paidAppointment(models.AppointmentStatusPending, "order-1")
	second := paidAppointment(models.AppointmentStatusPending, "order-2")
	second.ID = "appt-2"
	third := paidAppointment(models.AppointmentStatusPending, "order-3")
	third.ID = "appt-3"
	store := newMemoryAppointments(first, second, third)
	uc, gateway, _ := newTestUsecase(store)

	gateway.On("VerifyOrder", mock.Anything, "order-1").Return(&models.PaymentOrder{OrderID: "order-1", Status: models.PaymentOrderStatusPaid}, nil)
	gateway.On("VerifyOrder", mock.Anything, "order-2").Return(&models.PaymentOrder{OrderID: "order-2", Status: models.PaymentOrderStatusCreated}, nil)
	gateway.On("VerifyOrder", mock.Anything, "order-3").Return(nil, exceptions.ErrUpstream(fmt.Errorf("down"), "mockpay"))

	finalized, err := uc.ReconcilePending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, finalized)
	assert.Equal(t, models.AppointmentStatusConfirmed, store.status("appt-1"))
	assert.Equal(t, models.AppointmentStatusPending, store.status("appt-2"))
	assert.Equal(t, models.AppointmentStatusPending, store.status("appt-3"))
}

func TestReconcilePendingRotatesUnpaidOrders(t *testing.T) {
	ctx := context.Background()
	oldest := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	var rows []models.Appointment
	for i, id := range []string{"appt-a", "appt-b", "appt-c"} {
		row := paidAppointment(models.AppointmentStatusPending, "order-"+id)
		row.ID = id
		row.UpdatedAt = oldest.Add(time.Duration(i) * time.Minute)
		rows = append(rows, row)
	}
	paid := paidAppointment(models.AppointmentStatusPending, "order-appt-d")
	paid.ID = "appt-d"
	paid.UpdatedAt = oldest.Add(time.Hour)
	rows = append(rows, paid)

	store := newMemoryAppointments(rows...)
	uc, gateway, publisher := newTestUsecase(store)
	for _, id := range []string{"appt-a", "appt-b", "appt-c"} {
		gateway.On("VerifyOrder", mock.Anything, "order-"+id).Return(&models.PaymentOrder{OrderID: "order-" + id, Status: models.PaymentOrderStatusCreated}, nil)
	}
	gateway.On("VerifyOrder", mock.Anything, "order-appt-d").Return(&models.PaymentOrder{OrderID: "order-appt-d", Status: models.PaymentOrderStatusPaid}, nil)

	finalized, err := uc.ReconcilePending(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, finalized)
	assert.Equal(t, models.AppointmentStatusPending, store.status("appt-d"))

	finalized, err = uc.ReconcilePending(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, finalized)
	assert.Equal(t, models.AppointmentStatusConfirmed, store.status("appt-d"))
	assert.Empty(t, publisher.events)
}

func TestReconcilePendingPublishesPaymentFailedOnce(t *testing.T) {
	ctx := context.Background()
	store := newMemoryAppointments(paidAppointment(models.AppointmentStatusPending, "order-1"))
	uc, gateway, publisher := newTestUsecase(store)
	gateway.On("VerifyOrder", mock.Anything, "order-1").Return(&models.PaymentOrder{OrderID: "order-1", Status: models.PaymentOrderStatusFailed}, nil)

	for i := 0; i < 3; i++ {
		finalized, err := uc.ReconcilePending(ctx, 10)
		require.NoError(t, err)
		assert.Zero(t, finalized)
	}

	assert.Equal(t, []models.AppointmentEventType{models.AppointmentEventPaymentFailed}, publisher.events)
	assert.Equal(t, models.AppointmentStatusPending, store.status("appt-1"))
	gateway.AssertNumberOfCalls(t, "VerifyOrder", 3)
}

func TestReconcilePendingSettlesStrandedFreeBooking(t *testing.T) {
	ctx := context.Background()
	free := paidAppointment(models.AppointmentStatusPending, "")
	free.Price = 0
	store := newMemoryAppointments(free)
	uc, gateway, _ := newTestUsecase(store)

	finalized, err := uc.ReconcilePending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, finalized)
	assert.Equal(t, models.AppointmentStatusConfirmed, store.status("appt-1"))
	require.Len(t, store.transitions, 1)
	assert.Equal(t, constvars.ActorSystem, store.transitions[0].Kind)
	gateway.AssertNotCalled(t, "VerifyOrder", mock.Anything, mock.Anything)
}
