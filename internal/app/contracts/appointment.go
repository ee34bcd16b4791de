package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"time"
)

type AppointmentUsecase interface {
	CreateAppointment(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error)
	FindAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindByID(ctx context.Context, session *models.Session, appointmentID string) (*responses.Appointment, error)
	FindMine(ctx context.Context, session *models.Session) ([]responses.Appointment, error)
	FindByProvider(ctx context.Context, session *models.Session, providerID string) ([]responses.Appointment, error)
	UpdateStatus(ctx context.Context, session *models.Session, appointmentID string, request *requests.UpdateAppointmentStatus) (*responses.Appointment, error)
	Transition(ctx context.Context, appointment *models.Appointment, to models.AppointmentStatus, actor models.Actor) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, session *models.Session, appointmentID string) error
	StatusHistory(ctx context.Context, session *models.Session, appointmentID string) ([]models.StatusHistoryEntry, error)
	GenerateMeetingLink(ctx context.Context, session *models.Session, appointmentID string) (*responses.Appointment, error)
}

// AppointmentRepository returns nil, nil from the Find methods when nothing matches.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error)
	FindByUserID(ctx context.Context, userID string) ([]models.Appointment, error)
	FindByProviderID(ctx context.Context, providerID string) ([]models.Appointment, error)
	FindLiveBySlot(ctx context.Context, providerID string, date time.Time, slot string) (*models.Appointment, error)
	FindByPaymentOrderID(ctx context.Context, orderID string) (*models.Appointment, error)
	// FindPendingToReconcile returns pending rows the sweep should look at,
	// least recently updated first.
	FindPendingToReconcile(ctx context.Context, limit int) ([]models.Appointment, error)
	// TouchPending bumps updated_at so the row moves to the back of the sweep.
	TouchPending(ctx context.Context, appointmentID string) error
	// MarkPaymentFailed records orderID as failed. It reports false when that
	// order was already recorded or the row is no longer pending.
	MarkPaymentFailed(ctx context.Context, appointmentID, orderID string) (bool, error)
	// UpdateStatus is a compare-and-set on from. It returns nil, nil when the row
	// no longer has status from.
	UpdateStatus(ctx context.Context, appointmentID string, from, to models.AppointmentStatus) (*models.Appointment, error)
	SetPaymentOrderID(ctx context.Context, appointmentID, orderID string) error
	SetMeetURL(ctx context.Context, appointmentID, meetURL string) (*models.Appointment, error)
	AppendDocument(ctx context.Context, appointmentID string, kind models.DocumentKind, url string) (*models.Appointment, error)
	Delete(ctx context.Context, appointmentID string) error
}

type StatusHistoryRepository interface {
	Insert(ctx context.Context, entry *models.StatusHistoryEntry) error
	FindByAppointmentID(ctx context.Context, appointmentID string) ([]models.StatusHistoryEntry, error)
}

type MeetingLinkGenerator interface {
	Generate(ctx context.Context, appointment *models.Appointment) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event *models.AppointmentEvent) error
}
