package availability

import (
	"context"
	"database/sql"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/queries"
	"sync"

	"github.com/lib/pq"
)

type availabilityPostgresRepository struct {
	DB *sql.DB
}

var (
	availabilityPostgresRepositoryInstance contracts.AvailabilityRepository
	onceAvailabilityPostgresRepository     sync.Once
)

func NewAvailabilityPostgresRepository(db *sql.DB) contracts.AvailabilityRepository {
	onceAvailabilityPostgresRepository.Do(func() {
		availabilityPostgresRepositoryInstance = &availabilityPostgresRepository{
			DB: db,
		}
	})
	return availabilityPostgresRepositoryInstance
}

func (repo *availabilityPostgresRepository) FindByProviderID(ctx context.Context, providerID string) ([]models.AvailabilityDay, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetAvailabilityByProviderID, providerID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var days []models.AvailabilityDay
	for rows.Next() {
		var day models.AvailabilityDay
		if err := rows.Scan(
			&day.ProviderID,
			&day.DayOfWeek,
			&day.Status,
			pq.Array(&day.SlotTime),
		); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return days, nil
}

func (repo *availabilityPostgresRepository) ReplaceWeek(ctx context.Context, providerID string, week []models.AvailabilityDay) error {
	tx, err := repo.DB.BeginTx(ctx, nil)
	if err != nil {
		return exceptions.ErrPostgresDBBeginTransaction(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, queries.DeleteAvailabilityByProviderID, providerID); err != nil {
		return exceptions.ErrPostgresDBDeleteData(err)
	}

	for _, day := range week {
		_, err := tx.ExecContext(ctx, queries.InsertAvailabilityDay,
			providerID,
			day.DayOfWeek,
			day.Status,
			pq.Array(day.SlotTime),
		)
		if err != nil {
			return exceptions.ErrPostgresDBInsertData(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return exceptions.ErrPostgresDBCommitTransaction(err)
	}
	return nil
}
