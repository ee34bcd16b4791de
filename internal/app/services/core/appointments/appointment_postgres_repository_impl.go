package appointments

import (
	"context"
	"database/sql"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/queries"
	"sync"
	"time"

	"github.com/lib/pq"
)

var documentColumns = map[models.DocumentKind]string{
	models.DocumentKindReports:       "reports",
	models.DocumentKindBills:         "bills",
	models.DocumentKindPrescriptions: "prescriptions",
}

type appointmentPostgresRepository struct {
	DB *sql.DB
}

var (
	appointmentPostgresRepositoryInstance contracts.AppointmentRepository
	onceAppointmentPostgresRepository     sync.Once
)

func NewAppointmentPostgresRepository(db *sql.DB) contracts.AppointmentRepository {
	onceAppointmentPostgresRepository.Do(func() {
		appointmentPostgresRepositoryInstance = &appointmentPostgresRepository{
			DB: db,
		}
	})
	return appointmentPostgresRepositoryInstance
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*models.Appointment, error) {
	var appointment models.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.ProviderID,
		&appointment.ProviderKind,
		&appointment.UserID,
		&appointment.UserName,
		&appointment.Phone,
		&appointment.Gender,
		&appointment.DOB,
		&appointment.Date,
		&appointment.Time,
		&appointment.Purpose,
		&appointment.Price,
		&appointment.Status,
		&appointment.PaymentOrderID,
		&appointment.MeetURL,
		pq.Array(&appointment.Reports),
		pq.Array(&appointment.Bills),
		pq.Array(&appointment.Prescriptions),
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (repo *appointmentPostgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Appointment, error) {
	appointment, err := scanAppointment(repo.DB.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return appointment, nil
}

func (repo *appointmentPostgresRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]models.Appointment, error) {
	rows, err := repo.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		appointments = append(appointments, *appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return appointments, nil
}

func (repo *appointmentPostgresRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	appointment.SetCreatedAtUpdatedAt()
	_, err := repo.DB.ExecContext(ctx, queries.InsertAppointment,
		appointment.ID,
		appointment.ProviderID,
		appointment.ProviderKind,
		appointment.UserID,
		appointment.UserName,
		appointment.Phone,
		appointment.Gender,
		appointment.DOB,
		appointment.Date,
		appointment.Time,
		appointment.Purpose,
		appointment.Price,
		appointment.Status,
		pq.Array(nonNil(appointment.Reports)),
		pq.Array(nonNil(appointment.Bills)),
		pq.Array(nonNil(appointment.Prescriptions)),
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *appointmentPostgresRepository) FindByID(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	return repo.findOne(ctx, queries.GetAppointmentByID, appointmentID)
}

func (repo *appointmentPostgresRepository) FindByUserID(ctx context.Context, userID string) ([]models.Appointment, error) {
	return repo.findMany(ctx, queries.GetAppointmentsByUserID, userID)
}

func (repo *appointmentPostgresRepository) FindByProviderID(ctx context.Context, providerID string) ([]models.Appointment, error) {
	return repo.findMany(ctx, queries.GetAppointmentsByProviderID, providerID)
}

func (repo *appointmentPostgresRepository) FindLiveBySlot(ctx context.Context, providerID string, date time.Time, slot string) (*models.Appointment, error) {
	return repo.findOne(ctx, queries.GetLiveAppointmentBySlot, providerID, date, slot)
}

func (repo *appointmentPostgresRepository) FindByPaymentOrderID(ctx context.Context, orderID string) (*models.Appointment, error) {
	return repo.findOne(ctx, queries.GetAppointmentByPaymentOrderID, orderID)
}

func (repo *appointmentPostgresRepository) FindPendingToReconcile(ctx context.Context, limit int) ([]models.Appointment, error) {
	return repo.findMany(ctx, queries.GetPendingAppointmentsToReconcile, limit)
}

func (repo *appointmentPostgresRepository) TouchPending(ctx context.Context, appointmentID string) error {
	_, err := repo.DB.ExecContext(ctx, queries.TouchPendingAppointment, appointmentID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *appointmentPostgresRepository) MarkPaymentFailed(ctx context.Context, appointmentID, orderID string) (bool, error) {
	result, err := repo.DB.ExecContext(ctx, queries.UpdateAppointmentFailedOrderID, orderID, appointmentID)
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBUpdateData(err)
	}
	return affected > 0, nil
}

func (repo *appointmentPostgresRepository) UpdateStatus(ctx context.Context, appointmentID string, from, to models.AppointmentStatus) (*models.Appointment, error) {
	appointment, err := scanAppointment(repo.DB.QueryRowContext(ctx, queries.UpdateAppointmentStatus, to, appointmentID, from))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	return appointment, nil
}

func (repo *appointmentPostgresRepository) SetPaymentOrderID(ctx context.Context, appointmentID, orderID string) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdateAppointmentPaymentOrderID, orderID, appointmentID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *appointmentPostgresRepository) SetMeetURL(ctx context.Context, appointmentID, meetURL string) (*models.Appointment, error) {
	appointment, err := scanAppointment(repo.DB.QueryRowContext(ctx, queries.UpdateAppointmentMeetURL, meetURL, appointmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	return appointment, nil
}

func (repo *appointmentPostgresRepository) AppendDocument(ctx context.Context, appointmentID string, kind models.DocumentKind, url string) (*models.Appointment, error) {
	column, ok := documentColumns[kind]
	if !ok {
		return nil, exceptions.ErrPostgresDBUpdateData(fmt.Errorf("unknown document kind %q", kind))
	}

	appointment, err := scanAppointment(repo.DB.QueryRowContext(ctx, queries.AppendAppointmentDocument(column), url, appointmentID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	return appointment, nil
}

func (repo *appointmentPostgresRepository) Delete(ctx context.Context, appointmentID string) error {
	_, err := repo.DB.ExecContext(ctx, queries.DeleteAppointment, appointmentID)
	if err != nil {
		return exceptions.ErrPostgresDBDeleteData(err)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
