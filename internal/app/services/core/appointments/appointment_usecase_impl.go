package appointments

import (
	"context"
	"fmt"
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

type appointmentUsecase struct {
	AppointmentRepository   contracts.AppointmentRepository
	StatusHistoryRepository contracts.StatusHistoryRepository
	MeetingLinkGenerator    contracts.MeetingLinkGenerator
	EventPublisher          contracts.EventPublisher
	Log                     *zap.Logger
}

var (
	appointmentUsecaseInstance contracts.AppointmentUsecase
	onceAppointmentUsecase     sync.Once
)

func NewAppointmentUsecase(
	appointmentRepository contracts.AppointmentRepository,
	statusHistoryRepository contracts.StatusHistoryRepository,
	meetingLinkGenerator contracts.MeetingLinkGenerator,
	eventPublisher contracts.EventPublisher,
	logger *zap.Logger,
) contracts.AppointmentUsecase {
	onceAppointmentUsecase.Do(func() {
		appointmentUsecaseInstance = &appointmentUsecase{
			AppointmentRepository:   appointmentRepository,
			StatusHistoryRepository: statusHistoryRepository,
			MeetingLinkGenerator:    meetingLinkGenerator,
			EventPublisher:          eventPublisher,
			Log:                     logger,
		}
	})
	return appointmentUsecaseInstance
}

// CreateAppointment persists a new pending appointment. It is the only write
// the booking flow makes.
func (uc *appointmentUsecase) CreateAppointment(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.CreateAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, appointment.ProviderID),
		zap.String(constvars.LoggingUserIDKey, appointment.UserID),
	)

	if appointment.ID == "" {
		appointment.ID = uuid.NewString()
	}
	appointment.Status = models.AppointmentStatusPending

	if err := uc.AppointmentRepository.Create(ctx, appointment); err != nil {
		uc.Log.Error("appointmentUsecase.CreateAppointment error creating appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.recordTransition(ctx, appointment, "", models.Actor{Kind: constvars.ActorPatient, ID: appointment.UserID}, models.AppointmentEventCreated)

	uc.Log.Info("appointmentUsecase.CreateAppointment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)
	return appointment, nil
}

func (uc *appointmentUsecase) FindAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appointment, err := uc.AppointmentRepository.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, exceptions.ErrNotFound(nil, "appointment", constvars.ErrClientAppointmentNotFound)
	}
	return appointment, nil
}

func (uc *appointmentUsecase) FindByID(ctx context.Context, session *models.Session, appointmentID string) (*responses.Appointment, error) {
	appointment, err := uc.findVisible(ctx, session, appointmentID)
	if err != nil {
		return nil, err
	}
	response := utils.MapAppointmentToResponse(appointment)
	return &response, nil
}

func (uc *appointmentUsecase) FindMine(ctx context.Context, session *models.Session) ([]responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.FindMine called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	appointments, err := uc.AppointmentRepository.FindByUserID(ctx, session.UserID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindMine error fetching appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return utils.MapAppointmentsToResponse(appointments), nil
}

func (uc *appointmentUsecase) FindByProvider(ctx context.Context, session *models.Session, providerID string) ([]responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.FindByProvider called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)

	if !utils.CanManageProvider(session, providerID) {
		return nil, exceptions.ErrForbidden(nil)
	}

	appointments, err := uc.AppointmentRepository.FindByProviderID(ctx, providerID)
	if err != nil {
		uc.Log.Error("appointmentUsecase.FindByProvider error fetching appointments",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return utils.MapAppointmentsToResponse(appointments), nil
}

// UpdateStatus applies a status change requested over HTTP. Providers and
// moderators drive the provider side of the table; patients may only cancel
// their own appointment while it is pending or confirmed.
func (uc *appointmentUsecase) UpdateStatus(ctx context.Context, session *models.Session, appointmentID string, request *requests.UpdateAppointmentStatus) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.UpdateStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.String(constvars.LoggingTransitionToKey, request.Status),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	to, _ := models.ParseAppointmentStatus(request.Status)

	appointment, err := uc.FindAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	switch {
	case utils.CanManageProvider(session, appointment.ProviderID):
		// An unpaid booking may only be turned down. Anything else would
		// count as settled without a PAID order behind it.
		if appointment.IsPaymentOutstanding() && to != models.AppointmentStatusRejected && to != models.AppointmentStatusCancelled {
			return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientInvalidTransition, "payment is still outstanding")
		}
	case session.Role == constvars.RolePatient && appointment.UserID == session.UserID:
		if to != models.AppointmentStatusCancelled {
			return nil, exceptions.ErrForbidden(fmt.Errorf("patients may only cancel"))
		}
		if appointment.Status != models.AppointmentStatusPending && appointment.Status != models.AppointmentStatusConfirmed {
			return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientInvalidTransition, "patients may only cancel pending or confirmed appointments")
		}
	default:
		return nil, exceptions.ErrForbidden(nil)
	}

	updated, err := uc.Transition(ctx, appointment, to, models.ActorFromSession(session, request.Reason))
	if err != nil {
		uc.Log.Error("appointmentUsecase.UpdateStatus error applying transition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	response := utils.MapAppointmentToResponse(updated)
	return &response, nil
}

// Transition moves appointment to status to if the status table allows it.
// The write is a compare-and-set on the current status, so a concurrent
// change turns into a conflict instead of being overwritten.
func (uc *appointmentUsecase) Transition(ctx context.Context, appointment *models.Appointment, to models.AppointmentStatus, actor models.Actor) (*models.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	from := appointment.Status
	uc.Log.Info("appointmentUsecase.Transition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
		zap.String(constvars.LoggingTransitionFromKey, string(from)),
		zap.String(constvars.LoggingTransitionToKey, string(to)),
		zap.String(constvars.LoggingTransitionActorKey, actor.Kind),
	)

	if !from.CanTransitionTo(to) {
		return nil, exceptions.ErrPreconditionFailed(
			constvars.ErrClientInvalidTransition,
			fmt.Sprintf("%s to %s is not allowed", from, to),
		)
	}

	updated, err := uc.AppointmentRepository.UpdateStatus(ctx, appointment.ID, from, to)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, exceptions.ErrConflict(
			fmt.Errorf("appointment %s is no longer %s", appointment.ID, from),
			"appointment",
			constvars.ErrClientAppointmentChanged,
		)
	}

	uc.recordTransition(ctx, updated, from, actor, models.AppointmentEventStatusChanged)

	uc.Log.Info("appointmentUsecase.Transition succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, updated.ID),
		zap.String(constvars.LoggingAppointmentStatusKey, string(updated.Status)),
	)
	return updated, nil
}

func (uc *appointmentUsecase) DeleteAppointment(ctx context.Context, session *models.Session, appointmentID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.DeleteAppointment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	if !utils.IsModerator(session) {
		return exceptions.ErrForbidden(nil)
	}

	if _, err := uc.FindAppointment(ctx, appointmentID); err != nil {
		return err
	}

	if err := uc.AppointmentRepository.Delete(ctx, appointmentID); err != nil {
		uc.Log.Error("appointmentUsecase.DeleteAppointment error deleting appointment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (uc *appointmentUsecase) StatusHistory(ctx context.Context, session *models.Session, appointmentID string) ([]models.StatusHistoryEntry, error) {
	if _, err := uc.findVisible(ctx, session, appointmentID); err != nil {
		return nil, err
	}
	return uc.StatusHistoryRepository.FindByAppointmentID(ctx, appointmentID)
}

// GenerateMeetingLink is only allowed while the appointment is approved. An
// existing link is returned unchanged.
func (uc *appointmentUsecase) GenerateMeetingLink(ctx context.Context, session *models.Session, appointmentID string) (*responses.Appointment, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("appointmentUsecase.GenerateMeetingLink called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
	)

	appointment, err := uc.findVisible(ctx, session, appointmentID)
	if err != nil {
		return nil, err
	}

	if appointment.Status != models.AppointmentStatusApproved {
		return nil, exceptions.ErrPreconditionFailed(
			constvars.ErrClientMeetingLinkNotAllowed,
			fmt.Sprintf("appointment is %s", appointment.Status),
		)
	}

	if appointment.MeetURL == "" {
		meetURL, err := uc.MeetingLinkGenerator.Generate(ctx, appointment)
		if err != nil {
			uc.Log.Error("appointmentUsecase.GenerateMeetingLink error generating link",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}

		updated, err := uc.AppointmentRepository.SetMeetURL(ctx, appointment.ID, meetURL)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, exceptions.ErrNotFound(nil, "appointment", constvars.ErrClientAppointmentNotFound)
		}
		appointment = updated
		uc.publish(ctx, appointment, models.AppointmentEventMeetingLinked)
	}

	uc.Log.Info("appointmentUsecase.GenerateMeetingLink succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
	)
	response := utils.MapAppointmentToResponse(appointment)
	return &response, nil
}

func (uc *appointmentUsecase) findVisible(ctx context.Context, session *models.Session, appointmentID string) (*models.Appointment, error) {
	appointment, err := uc.FindAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.UserID != session.UserID && !utils.CanManageProvider(session, appointment.ProviderID) {
		return nil, exceptions.ErrForbidden(nil)
	}
	return appointment, nil
}

// recordTransition writes the audit entry and publishes the event. Both are
// best effort; the appointment row is already committed.
func (uc *appointmentUsecase) recordTransition(ctx context.Context, appointment *models.Appointment, from models.AppointmentStatus, actor models.Actor, eventType models.AppointmentEventType) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	entry := &models.StatusHistoryEntry{
		AppointmentID: appointment.ID,
		From:          from,
		To:            appointment.Status,
		Actor:         actor.Kind,
		ActorID:       actor.ID,
		Reason:        actor.Reason,
		At:            time.Now().UTC(),
	}
	if err := uc.StatusHistoryRepository.Insert(ctx, entry); err != nil {
		uc.Log.Error("appointmentUsecase.recordTransition error writing status history",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingAppointmentIDKey, appointment.ID),
			zap.Error(err),
		)
	}

	uc.publish(ctx, appointment, eventType)
}

func (uc *appointmentUsecase) publish(ctx context.Context, appointment *models.Appointment, eventType models.AppointmentEventType) {
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
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Error("appointmentUsecase.publish error publishing event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEventTypeKey, string(eventType)),
			zap.Error(err),
		)
	}
}
