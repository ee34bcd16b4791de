package payments

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	reasonFreeBooking     = "free booking"
	reasonPaymentVerified = "payment verified"
	reasonPaymentWebhook  = "payment webhook"
	reasonReconciled      = "payment reconciled"
	orderStatusNotStarted = "NOT_STARTED"
)

type paymentUsecase struct {
	AppointmentUsecase    contracts.AppointmentUsecase
	AppointmentRepository contracts.AppointmentRepository
	ProviderRepository    contracts.ProviderRepository
	PaymentGateway        contracts.PaymentGatewayService
	ReceiptRenderer       contracts.ReceiptRenderer
	EventPublisher        contracts.EventPublisher
	InternalConfig        *config.InternalConfig
	Log                   *zap.Logger
}

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

func NewPaymentUsecase(
	appointmentUsecase contracts.AppointmentUsecase,
	appointmentRepository contracts.AppointmentRepository,
	providerRepository contracts.ProviderRepository,
	paymentGateway contracts.PaymentGatewayService,
	receiptRenderer contracts.ReceiptRenderer,
	eventPublisher contracts.EventPublisher,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		paymentUsecaseInstance = &paymentUsecase{
			AppointmentUsecase:    appointmentUsecase,
			AppointmentRepository: appointmentRepository,
			ProviderRepository:    providerRepository,
			PaymentGateway:        paymentGateway,
			ReceiptRenderer:       receiptRenderer,
			EventPublisher:        eventPublisher,
			InternalConfig:        internalConfig,
			Log:                   logger,
		}
	})
	return paymentUsecaseInstance
}

// SettleFreeBooking confirms a zero-priced appointment right after booking.
// The gateway is never involved.
func (uc *paymentUsecase) SettleFreeBooking(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.SettleFreeBooking called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)

	if appointment.RequiresPayment() {
		return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientCannotProcessRequest, "appointment has a price")
	}
	if appointment.Status != models.AppointmentStatusPending {
		return appointment, nil
	}

	settled, err := uc.AppointmentUsecase.Transition(ctx, appointment, models.AppointmentStatusConfirmed, models.Actor{
		Kind:   constvars.ActorSystem,
		Reason: reasonFreeBooking,
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.SettleFreeBooking error confirming appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return settled, nil
}

// StartPayment creates a gateway order for an existing pending appointment.
// Retrying replaces the stored order id with the new one.
func (uc *paymentUsecase) StartPayment(ctx context.Context, session *models.Session, appointmentID string, request *requests.StartPayment) (*responses.PaymentOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.StartPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	appointment, err := uc.AppointmentUsecase.FindAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != session.UserID {
		return nil, exceptions.ErrForbidden(nil)
	}
	if !appointment.RequiresPayment() {
		return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientPaymentNotRequired, "price is zero")
	}
	if appointment.Status != models.AppointmentStatusPending {
		return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientCannotProcessRequest, fmt.Sprintf("appointment is %s", appointment.Status))
	}

	email := request.Email
	if email == "" {
		email = session.Email
	}
	payer := &models.Payer{
		CustomerID: appointment.UserID,
		Name:       appointment.UserName,
		Email:      email,
		Phone:      appointment.Phone,
	}

	order, err := uc.PaymentGateway.CreateOrder(ctx, appointment.ID, appointment.Price, payer)
	if err != nil {
		uc.Log.Error("paymentUsecase.StartPayment error creating gateway order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGatewayKey, uc.PaymentGateway.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	if err := uc.AppointmentRepository.SetPaymentOrderID(ctx, appointment.ID, order.OrderID); err != nil {
		uc.Log.Error("paymentUsecase.StartPayment error storing payment order id",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentOrderIDKey, order.OrderID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("paymentUsecase.StartPayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentOrderIDKey, order.OrderID),
		zap.Int64(constvars.LoggingAmountKey, order.Amount),
	)
	response := utils.MapPaymentOrderToResponse(order, uc.PaymentGateway.Name())
	return &response, nil
}

// VerifyPayment asks the gateway about the stored order and confirms the
// appointment when the order is paid. Calling it again after success is a no-op.
func (uc *paymentUsecase) VerifyPayment(ctx context.Context, session *models.Session, appointmentID string) (*responses.PaymentVerification, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.VerifyPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.findVisible(ctx, session, appointmentID)
	if err != nil {
		return nil, err
	}
	if !appointment.RequiresPayment() {
		return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientPaymentNotRequired, "price is zero")
	}

	if appointment.Status != models.AppointmentStatusPending {
		return &responses.PaymentVerification{
			Appointment: utils.MapAppointmentToResponse(appointment),
			OrderStatus: settledOrderStatus(appointment),
			Paid:        appointment.Status.IsSettled(),
		}, nil
	}
	if appointment.PaymentOrderID == "" {
		return nil, exceptions.ErrPaymentPending("", orderStatusNotStarted)
	}

	updated, order, err := uc.finalize(ctx, appointment, appointment.PaymentOrderID, reasonPaymentVerified)
	if err != nil {
		uc.Log.Error("paymentUsecase.VerifyPayment error finalizing payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentOrderIDKey, appointment.PaymentOrderID),
			zap.Error(err),
		)
		return nil, err
	}
	if !order.IsPaid() {
		return nil, exceptions.ErrPaymentPending(order.OrderID, string(order.Status))
	}

	uc.Log.Info("paymentUsecase.VerifyPayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, updated.ID),
		zap.String(constvars.LoggingAppointmentStatusKey, string(updated.Status)),
	)
	return &responses.PaymentVerification{
		Appointment: utils.MapAppointmentToResponse(updated),
		OrderStatus: order.Status,
		Paid:        true,
	}, nil
}

// PaymentStatus reads the stored appointment only.
func (uc *paymentUsecase) PaymentStatus(ctx context.Context, session *models.Session, appointmentID string) (*responses.PaymentStatus, error) {
	appointment, err := uc.findVisible(ctx, session, appointmentID)
	if err != nil {
		return nil, err
	}
	return &responses.PaymentStatus{
		AppointmentID:     appointment.ID,
		AppointmentStatus: appointment.Status,
		PaymentRequired:   appointment.RequiresPayment(),
		Paid:              appointment.RequiresPayment() && appointment.Status.IsSettled(),
		PaymentOrderID:    appointment.PaymentOrderID,
	}, nil
}

// HandleWebhook finalizes the appointment behind a gateway notification. The
// order status is always re-read from the gateway; the webhook body is only
// trusted for the order id once its signature checks out.
func (uc *paymentUsecase) HandleWebhook(ctx context.Context, request *requests.PaymentWebhook) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.HandleWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGatewayKey, uc.PaymentGateway.Name()),
	)

	webhook, err := uc.PaymentGateway.ParseWebhook(ctx, request)
	if err != nil {
		uc.Log.Warn("paymentUsecase.HandleWebhook rejected webhook",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	appointment, err := uc.AppointmentRepository.FindByPaymentOrderID(ctx, webhook.OrderID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		// The patient may have retried and replaced the stored order id.
		order, err := uc.PaymentGateway.VerifyOrder(ctx, webhook.OrderID)
		if err != nil {
			return nil, err
		}
		if order.AppointmentID == "" {
			return nil, exceptions.ErrNotFound(nil, "appointment", constvars.ErrClientAppointmentNotFound)
		}
		appointment, err = uc.AppointmentUsecase.FindAppointment(ctx, order.AppointmentID)
		if err != nil {
			return nil, err
		}
	}

	if appointment.Status != models.AppointmentStatusPending {
		response := utils.MapAppointmentToResponse(appointment)
		return &response, nil
	}

	updated, order, err := uc.finalize(ctx, appointment, webhook.OrderID, reasonPaymentWebhook)
	if err != nil {
		uc.Log.Error("paymentUsecase.HandleWebhook error finalizing payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentOrderIDKey, webhook.OrderID),
			zap.Error(err),
		)
		return nil, err
	}
	if !order.IsPaid() {
		uc.Log.Info("paymentUsecase.HandleWebhook order not paid",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentOrderIDKey, order.OrderID),
			zap.String(constvars.LoggingPaymentStatusKey, string(order.Status)),
		)
	}

	response := utils.MapAppointmentToResponse(updated)
	return &response, nil
}

func (uc *paymentUsecase) Receipt(ctx context.Context, session *models.Session, appointmentID string) ([]byte, string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.Receipt called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.findVisible(ctx, session, appointmentID)
	if err != nil {
		return nil, "", err
	}
	if !appointment.Status.IsSettled() {
		return nil, "", exceptions.ErrPreconditionFailed(constvars.ErrClientReceiptNotAvailable, fmt.Sprintf("appointment is %s", appointment.Status))
	}

	provider, err := uc.ProviderRepository.FindByID(ctx, appointment.ProviderID)
	if err != nil {
		return nil, "", err
	}

	content, err := uc.ReceiptRenderer.Render(appointment, provider)
	if err != nil {
		uc.Log.Error("paymentUsecase.Receipt error rendering receipt",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, "", err
	}
	return content, fmt.Sprintf("receipt-%s.pdf", appointment.ID), nil
}

// ReconcilePending finalizes pending appointments whose order was paid but
// whose webhook never arrived, and settles free bookings the booking request
// left pending. It returns how many left pending. Rows that stay pending are
// touched so the next sweep starts with newer ones.
func (uc *paymentUsecase) ReconcilePending(ctx context.Context, limit int) (int, error) {
	uc.Log.Info("paymentUsecase.ReconcilePending called", zap.Int(constvars.LoggingCountKey, limit))

	appointments, err := uc.AppointmentRepository.FindPendingToReconcile(ctx, limit)
	if err != nil {
		uc.Log.Error("paymentUsecase.ReconcilePending error listing pending appointments", zap.Error(err))
		return 0, err
	}

	finalized := 0
	for i := range appointments {
		if ctx.Err() != nil {
			break
		}
		appointment := &appointments[i]

		var updated *models.Appointment
		if appointment.RequiresPayment() {
			updated, _, err = uc.finalize(ctx, appointment, appointment.PaymentOrderID, reasonReconciled)
		} else {
			updated, err = uc.SettleFreeBooking(ctx, appointment)
		}
		if err != nil {
			uc.Log.Warn("paymentUsecase.ReconcilePending error finalizing appointment",
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
				zap.String(constvars.LoggingPaymentOrderIDKey, appointment.PaymentOrderID),
				zap.Error(err),
			)
		} else if updated.Status != models.AppointmentStatusPending {
			finalized++
			continue
		}

		if err := uc.AppointmentRepository.TouchPending(ctx, appointment.ID); err != nil {
			uc.Log.Warn("paymentUsecase.ReconcilePending error touching appointment",
				zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
				zap.Error(err),
			)
		}
	}

	uc.Log.Info("paymentUsecase.ReconcilePending succeeded",
		zap.Int(constvars.LoggingCountKey, finalized),
	)
	return finalized, nil
}

// finalize re-reads the order and confirms appointment when it is paid. A
// lost race against another finalizer is not an error when the winner already
// settled the appointment.
func (uc *paymentUsecase) finalize(ctx context.Context, appointment *models.Appointment, orderID, reason string) (*models.Appointment, *models.PaymentOrder, error) {
	order, err := uc.PaymentGateway.VerifyOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	if !order.IsPaid() {
		if order.Status == models.PaymentOrderStatusFailed {
			uc.publishPaymentFailed(ctx, appointment, orderID)
		}
		return appointment, order, nil
	}

	updated, err := uc.AppointmentUsecase.Transition(ctx, appointment, models.AppointmentStatusConfirmed, models.Actor{
		Kind:   constvars.ActorSystem,
		Reason: reason,
	})
	if err != nil {
		if !exceptions.IsConflict(err) {
			return nil, nil, err
		}
		current, findErr := uc.AppointmentUsecase.FindAppointment(ctx, appointment.ID)
		if findErr != nil {
			return nil, nil, findErr
		}
		if !current.Status.IsSettled() {
			return nil, nil, err
		}
		updated = current
	}
	return updated, order, nil
}

// publishPaymentFailed publishes payment_failed once per failed order, however
// often the order is verified.
func (uc *paymentUsecase) publishPaymentFailed(ctx context.Context, appointment *models.Appointment, orderID string) {
	first, err := uc.AppointmentRepository.MarkPaymentFailed(ctx, appointment.ID, orderID)
	if err != nil {
		uc.Log.Warn("paymentUsecase.publishPaymentFailed error recording failed order",
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.String(constvars.LoggingPaymentOrderIDKey, orderID),
			zap.Error(err),
		)
	}
	if first || err != nil {
		uc.publish(ctx, appointment, models.AppointmentEventPaymentFailed)
	}
}

func (uc *paymentUsecase) findVisible(ctx context.Context, session *models.Session, appointmentID string) (*models.Appointment, error) {
	appointment, err := uc.AppointmentUsecase.FindAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != session.UserID && !utils.CanManageProvider(session, appointment.ProviderID) {
		return nil, exceptions.ErrForbidden(nil)
	}
	return appointment, nil
}

func (uc *paymentUsecase) publish(ctx context.Context, appointment *models.Appointment, eventType models.AppointmentEventType) {
	event := &models.AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		AppointmentID: appointment.ID,
		ProviderID:    appointment.ProviderID,
		UserID:        appointment.UserID,
		Status:        appointment.Status,
		OccurredAt:    time.Now().UTC(),
	}
	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		uc.Log.Error("paymentUsecase.publish error publishing event",
			zap.String(constvars.LoggingEventTypeKey, string(eventType)),
			zap.Error(err),
		)
	}
}

func settledOrderStatus(appointment *models.Appointment) models.PaymentOrderStatus {
	if appointment.Status.IsSettled() {
		return models.PaymentOrderStatusPaid
	}
	return models.PaymentOrderStatusFailed
}
