package catalog

import (
	"context"
	"database/sql"
	"errors"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/queries"
	"sync"
	"time"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type servicePostgresRepository struct {
	DB *sql.DB
}

var (
	servicePostgresRepositoryInstance contracts.ServiceRepository
	onceServicePostgresRepository     sync.Once
)

func NewServicePostgresRepository(db *sql.DB) contracts.ServiceRepository {
	onceServicePostgresRepository.Do(func() {
		servicePostgresRepositoryInstance = &servicePostgresRepository{
			DB: db,
		}
	})
	return servicePostgresRepositoryInstance
}

func (repo *servicePostgresRepository) FindByProviderID(ctx context.Context, providerID string, activeOnly bool) ([]models.Service, error) {
	query := queries.GetServicesByProviderID
	if activeOnly {
		query = queries.GetActiveServicesByProviderID
	}

	rows, err := repo.DB.QueryContext(ctx, query, providerID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		var service models.Service
		if err := rows.Scan(
			&service.ID,
			&service.ProviderID,
			&service.ServiceName,
			&service.Price,
			&service.Status,
			&service.CreatedAt,
			&service.UpdatedAt,
		); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return services, nil
}

func (repo *servicePostgresRepository) FindByID(ctx context.Context, providerID, serviceID string) (*models.Service, error) {
	var service models.Service
	err := repo.DB.QueryRowContext(ctx, queries.GetServiceByID, providerID, serviceID).Scan(
		&service.ID,
		&service.ProviderID,
		&service.ServiceName,
		&service.Price,
		&service.Status,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &service, nil
}

func (repo *servicePostgresRepository) Upsert(ctx context.Context, service *models.Service) error {
	if service.ID == "" {
		service.SetCreatedAtUpdatedAt()
		err := repo.DB.QueryRowContext(ctx, queries.InsertService,
			service.ProviderID,
			service.ServiceName,
			service.Price,
			service.Status,
			service.CreatedAt,
			service.UpdatedAt,
		).Scan(&service.ID)
		if err != nil {
			return mapServiceWriteError(err, exceptions.ErrPostgresDBInsertData)
		}
		return nil
	}

	service.UpdatedAt = time.Now()
	result, err := repo.DB.ExecContext(ctx, queries.UpdateService,
		service.ServiceName,
		service.Price,
		service.Status,
		service.UpdatedAt,
		service.ProviderID,
		service.ID,
	)
	if err != nil {
		return mapServiceWriteError(err, exceptions.ErrPostgresDBUpdateData)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	if affected == 0 {
		return exceptions.ErrNotFound(nil, "service", constvars.ErrClientServiceNotFound)
	}
	return nil
}

func (repo *servicePostgresRepository) Delete(ctx context.Context, providerID, serviceID string) (bool, error) {
	result, err := repo.DB.ExecContext(ctx, queries.DeleteService, providerID, serviceID)
	if err != nil {
		return false, exceptions.ErrPostgresDBDeleteData(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBDeleteData(err)
	}
	return affected > 0, nil
}

func mapServiceWriteError(err error, fallback func(error) *exceptions.CustomError) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		return exceptions.ErrConflict(err, "service", constvars.ErrClientServiceAlreadyExists)
	}
	return fallback(err)
}
