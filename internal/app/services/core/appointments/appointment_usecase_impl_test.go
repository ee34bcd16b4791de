package appointments

import (
	"context"
	"errors"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type inMemoryAppointmentRepository struct {
	mu           sync.Mutex
	appointments map[string]models.Appointment
}

func newInMemoryAppointmentRepository(appointments ...models.Appointment) *inMemoryAppointmentRepository {
	repo := &inMemoryAppointmentRepository{appointments: map[string]models.Appointment{}}
	for _, appointment := range appointments {
		repo.appointments[appointment.ID] = appointment
	}
	return repo
}

func (r *inMemoryAppointmentRepository) get(id string) *models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[id]
	if !ok {
		return nil
	}
	return &appointment
}

func (r *inMemoryAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[appointment.ID] = *appointment
	return nil
}

func (r *inMemoryAppointmentRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return r.get(appointmentID), nil
}

func (r *inMemoryAppointmentRepository) FindByUserID(ctx context.Context, userID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Appointment{}
	for _, appointment := range r.appointments {
		if appointment.UserID == userID {
			result = append(result, appointment)
		}
	}
	return result, nil
}

func (r *inMemoryAppointmentRepository) FindByProviderID(ctx context.Context, providerID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Appointment{}
	for _, appointment := range r.appointments {
		if appointment.ProviderID == providerID {
			result = append(result, appointment)
		}
	}
	return result, nil
}

func (r *inMemoryAppointmentRepository) FindLiveBySlot(ctx context.Context, providerID string, date time.Time, slot string) (*models.Appointment, error) {
	return nil, nil
}

func (r *inMemoryAppointmentRepository) FindByPaymentOrderID(ctx context.Context, orderID string) (*models.Appointment, error) {
	return nil, nil
}

func (r *inMemoryAppointmentRepository) FindPendingToReconcile(ctx context.Context, limit int) ([]models.Appointment, error) {
	return nil, nil
}

func (r *inMemoryAppointmentRepository) TouchPending(ctx context.Context, appointmentID string) error {
	return nil
}

func (r *inMemoryAppointmentRepository) MarkPaymentFailed(ctx context.Context, appointmentID, orderID string) (bool, error) {
	return true, nil
}

func (r *inMemoryAppointmentRepository) UpdateStatus(ctx context.Context, appointmentID string, from, to models.AppointmentStatus) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentID]
	if !ok || appointment.Status != from {
		return nil, nil
	}
	appointment.Status = to
	r.appointments[appointmentID] = appointment
	return &appointment, nil
}

func (r *inMemoryAppointmentRepository) SetPaymentOrderID(ctx context.Context, appointmentID, orderID string) error {
	return nil
}

func (r *inMemoryAppointmentRepository) SetMeetURL(ctx context.Context, appointmentID, meetURL string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appointment, ok := r.appointments[appointmentID]
	if !ok {
		return nil, nil
	}
	appointment.MeetURL = meetURL
	r.appointments[appointmentID] = appointment
	return &appointment, nil
}

func (r *inMemoryAppointmentRepository) AppendDocument(ctx context.Context, appointmentID string, kind models.DocumentKind, url string) (*models.Appointment, error) {
	return nil, nil
}

func (r *inMemoryAppointmentRepository) Delete(ctx context.Context, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.appointments, appointmentID)
	return nil
}

type recordingHistoryRepository struct {
	entries []models.StatusHistoryEntry
}

func (r *recordingHistoryRepository) Insert(ctx context.Context, entry *models.StatusHistoryEntry) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *recordingHistoryRepository) FindByAppointmentID(ctx context.Context, appointmentID string) ([]models.StatusHistoryEntry, error) {
	result := []models.StatusHistoryEntry{}
	for _, entry := range r.entries {
		if entry.AppointmentID == appointmentID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type recordingPublisher struct {
	events []models.AppointmentEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event *models.AppointmentEvent) error {
	p.events = append(p.events, *event)
	return p.err
}

type countingMeetingLinkGenerator struct {
	calls int
}

func (g *countingMeetingLinkGenerator) Generate(ctx context.Context, appointment *models.Appointment) (string, error) {
	g.calls++
	return "https://meet.example.com/" + appointment.ID + "-abc", nil
}

type fixture struct {
	uc        *appointmentUsecase
	repo      *inMemoryAppointmentRepository
	history   *recordingHistoryRepository
	publisher *recordingPublisher
	meeting   *countingMeetingLinkGenerator
}

func newFixture(appointments ...models.Appointment) *fixture {
	f := &fixture{
		repo:      newInMemoryAppointmentRepository(appointments...),
		history:   &recordingHistoryRepository{},
		publisher: &recordingPublisher{},
		meeting:   &countingMeetingLinkGenerator{},
	}
	f.uc = &appointmentUsecase{
		AppointmentRepository:   f.repo,
		StatusHistoryRepository: f.history,
		MeetingLinkGenerator:    f.meeting,
		EventPublisher:          f.publisher,
		Log:                     zap.NewNop(),
	}
	return f
}

var (
	patient   = &models.Session{UserID: "patient-1", Role: constvars.RolePatient}
	stranger  = &models.Session{UserID: "patient-2", Role: constvars.RolePatient}
	owner     = &models.Session{UserID: "staff-1", Role: constvars.RoleProvider, ProviderID: "HC1"}
	moderator = &models.Session{UserID: "mod-1", Role: constvars.RoleModerator}
)

func appointmentWithStatus(status models.AppointmentStatus) models.Appointment {
	return models.Appointment{
		ID:         "apt-1",
		ProviderID: "HC1",
		UserID:     "patient-1",
		Status:     status,
		Price:      0,
	}
}

func TestCreateAppointment_StartsPending(t *testing.T) {
	f := newFixture()

	created, err := f.uc.CreateAppointment(context.Background(), &models.Appointment{
		ProviderID: "HC1",
		UserID:     "patient-1",
		Status:     models.AppointmentStatusConfirmed,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.AppointmentStatusPending, created.Status)
	assert.Equal(t, models.AppointmentStatusPending, f.repo.get(created.ID).Status)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, models.AppointmentEventCreated, f.publisher.events[0].Type)
	require.Len(t, f.history.entries, 1)
	assert.Equal(t, models.AppointmentStatus(""), f.history.entries[0].From)
}

func TestTransition_FollowsTable(t *testing.T) {
	all := []models.AppointmentStatus{
		models.AppointmentStatusPending,
		models.AppointmentStatusConfirmed,
		models.AppointmentStatusApproved,
		models.AppointmentStatusCompleted,
		models.AppointmentStatusCancelled,
		models.AppointmentStatusRejected,
	}
	allowed := map[models.AppointmentStatus][]models.AppointmentStatus{
		models.AppointmentStatusPending:   {models.AppointmentStatusConfirmed, models.AppointmentStatusApproved, models.AppointmentStatusRejected, models.AppointmentStatusCancelled},
		models.AppointmentStatusConfirmed: {models.AppointmentStatusApproved, models.AppointmentStatusRejected, models.AppointmentStatusCompleted, models.AppointmentStatusCancelled},
		models.AppointmentStatusApproved:  {models.AppointmentStatusCompleted, models.AppointmentStatusCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			expected := false
			for _, candidate := range allowed[from] {
				if candidate == to {
					expected = true
				}
			}

			f := newFixture(appointmentWithStatus(from))
			appointment := f.repo.get("apt-1")
			updated, err := f.uc.Transition(context.Background(), appointment, to, models.Actor{Kind: constvars.ActorModerator})

			if expected {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, updated.Status)
				require.Len(t, f.history.entries, 1)
				assert.Equal(t, from, f.history.entries[0].From)
				assert.Equal(t, to, f.history.entries[0].To)
				assert.Equal(t, models.AppointmentEventStatusChanged, f.publisher.events[0].Type)
			} else {
				assert.True(t, exceptions.IsPreconditionFailed(err), "%s -> %s", from, to)
				assert.Equal(t, from, f.repo.get("apt-1").Status)
				assert.Empty(t, f.history.entries)
			}
		}
	}
}

func TestTransition_StaleStatusIsConflict(t *testing.T) {
	f := newFixture(appointmentWithStatus(models.AppointmentStatusPending))
	stale := f.repo.get("apt-1")

	_, err := f.uc.Transition(context.Background(), f.repo.get("apt-1"), models.AppointmentStatusApproved, models.Actor{Kind: constvars.ActorProvider})
	require.NoError(t, err)

	_, err = f.uc.Transition(context.Background(), stale, models.AppointmentStatusCancelled, models.Actor{Kind: constvars.ActorPatient})
	assert.True(t, exceptions.IsConflict(err))
	assert.Equal(t, models.AppointmentStatusApproved, f.repo.get("apt-1").Status)
}

func TestTransition_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(appointmentWithStatus(models.AppointmentStatusPending))
	f.publisher.err = errors.New("broker down")

	updated, err := f.uc.Transition(context.Background(), f.repo.get("apt-1"), models.AppointmentStatusConfirmed, models.Actor{Kind: constvars.ActorSystem})

	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusConfirmed, updated.Status)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("patient cancels own pending appointment", func(t *testing.T) {
		f := newFixture(appointmentWithStatus(models.AppointmentStatusPending))

		response, err := f.uc.UpdateStatus(ctx, patient, "apt-1", &requests.UpdateAppointmentStatus{Status: "cancelled", Reason: "cannot make it"})

		require.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusCancelled, response.Status)
		assert.Equal(t, constvars.RolePatient, f.history.entries[0].Actor)
		assert.Equal(t, "cannot make it", f.history.entries[0].Reason)
	})

	t.Run("patient cannot cancel once approved", func(t *testing.T) {
		f := newFixture(appointmentWithStatus(models.AppointmentStatusApproved))

		_, err := f.uc.UpdateStatus(ctx, patient, "apt-1", &requests.UpdateAppointmentStatus{Status: "cancelled"})

		assert.True(t, exceptions.IsPreconditionFailed(err))
	})

	t.Run("patient cannot approve", func(t *testing.T) {
		f := newFixture(appointmentWithStatus(models.AppointmentStatusPending))

		_, err := f.uc.UpdateStatus(ctx, patient, "apt-1", &requests.UpdateAppointmentStatus{Status: "approved"})

		assert.True(t, exceptions.IsForbidden(err))
	})

	t.Run("other patients are forbidden", func(t *testing.T) {
		f := newFixture(appointmentWithStatus(models.AppointmentStatusPending))

		_, err := f.uc.UpdateStatus(ctx, stranger, "apt-1", &requests.UpdateAppointmentStatus{Status: "cancelled"})

		assert.True(t, exceptions.IsForbidden(err))
	})

	t.Run("provider approves", func(t *testing.T) {
		f := newFixture(appointmentWithStatus(models.AppointmentStatusConfirmed))

		response, err := f.uc.UpdateStatus(ctx, owner, "apt-1", &requests.UpdateAppointmentStatus{Status: "approved"})

		require.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusApproved, response.Status)
	})

	t.Run("provider cannot confirm an unpaid booking", func(t *testing.T) {
		unpaid := appointmentWithStatus(models.AppointmentStatusPending)
		unpaid.Price = 500
		f := newFixture(unpaid)

		_, err := f.uc.UpdateStatus(ctx, owner, "apt-1", &requests.UpdateAppointmentStatus{Status: "confirmed"})

		assert.True(t, exceptions.IsPreconditionFailed(err))
		assert.Equal(t, models.AppointmentStatusPending, f.repo.get("apt-1").Status)
	})

	t.Run("unpaid booking cannot be approved", func(t *testing.T) {
		for _, session := range []*models.Session{owner, moderator} {
			unpaid := appointmentWithStatus(models.AppointmentStatusPending)
			unpaid.Price = 500
			f := newFixture(unpaid)

			_, err := f.uc.UpdateStatus(ctx, session, "apt-1", &requests.UpdateAppointmentStatus{Status: "approved"})

			assert.True(t, exceptions.IsPreconditionFailed(err))
			stored := f.repo.get("apt-1")
			assert.Equal(t, models.AppointmentStatusPending, stored.Status)
			assert.True(t, stored.IsPaymentOutstanding())

			_, err = f.uc.GenerateMeetingLink(ctx, patient, "apt-1")
			assert.True(t, exceptions.IsPreconditionFailed(err))
			assert.Zero(t, f.meeting.calls)
		}
	})

	t.Run("unpaid booking can still be rejected", func(t *testing.T) {
		unpaid := appointmentWithStatus(models.AppointmentStatusPending)
		unpaid.Price = 500
		f := newFixture(unpaid)

		response, err := f.uc.UpdateStatus(ctx, owner, "apt-1", &requests.UpdateAppointmentStatus{Status: "rejected", Reason: "clinic closed"})

		require.NoError(t, err)
		assert.Equal(t, models.AppointmentStatusRejected, response.Status)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		f := newFixture(appointmentWithStatus(models.AppointmentStatusPending))

		_, err := f.uc.UpdateStatus(ctx, owner, "apt-1", &requests.UpdateAppointmentStatus{Status: "pending"})

		assert.True(t, exceptions.IsValidation(err))
	})
}

func TestGenerateMeetingLink(t *testing.T) {
	ctx := context.Background()

	for _, status := range []models.AppointmentStatus{
		models.AppointmentStatusPending,
		models.AppointmentStatusConfirmed,
		models.AppointmentStatusCompleted,
		models.AppointmentStatusCancelled,
		models.AppointmentStatusRejected,
	} {
		t.Run("rejected while "+string(status), func(t *testing.T) {
			f := newFixture(appointmentWithStatus(status))

			_, err := f.uc.GenerateMeetingLink(ctx, owner, "apt-1")

			assert.True(t, exceptions.IsPreconditionFailed(err))
			assert.Zero(t, f.meeting.calls)
			assert.Empty(t, f.repo.get("apt-1").MeetURL)
		})
	}

	t.Run("approved gets one stable link", func(t *testing.T) {
		f := newFixture(appointmentWithStatus(models.AppointmentStatusApproved))

		first, err := f.uc.GenerateMeetingLink(ctx, owner, "apt-1")
		require.NoError(t, err)
		second, err := f.uc.GenerateMeetingLink(ctx, patient, "apt-1")
		require.NoError(t, err)

		assert.NotEmpty(t, first.MeetURL)
		assert.Equal(t, first.MeetURL, second.MeetURL)
		assert.Equal(t, 1, f.meeting.calls)
	})
}

func TestDeleteAppointment_ModeratorOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(appointmentWithStatus(models.AppointmentStatusPending))

	assert.True(t, exceptions.IsForbidden(f.uc.DeleteAppointment(ctx, patient, "apt-1")))
	assert.True(t, exceptions.IsForbidden(f.uc.DeleteAppointment(ctx, owner, "apt-1")))
	require.NoError(t, f.uc.DeleteAppointment(ctx, moderator, "apt-1"))
	assert.Nil(t, f.repo.get("apt-1"))
	assert.True(t, exceptions.IsNotFound(f.uc.DeleteAppointment(ctx, moderator, "apt-1")))
}

func TestFindByID_Visibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(appointmentWithStatus(models.AppointmentStatusPending))

	_, err := f.uc.FindByID(ctx, patient, "apt-1")
	assert.NoError(t, err)
	_, err = f.uc.FindByID(ctx, owner, "apt-1")
	assert.NoError(t, err)
	_, err = f.uc.FindByID(ctx, stranger, "apt-1")
	assert.True(t, exceptions.IsForbidden(err))
	_, err = f.uc.FindByID(ctx, patient, "missing")
	assert.True(t, exceptions.IsNotFound(err))
}
