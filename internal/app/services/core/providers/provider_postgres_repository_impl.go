package providers

import (
	"context"
	"database/sql"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/queries"
	"sync"
)

type providerPostgresRepository struct {
	DB *sql.DB
}

var (
	providerPostgresRepositoryInstance contracts.ProviderRepository
	onceProviderPostgresRepository     sync.Once
)

func NewProviderPostgresRepository(db *sql.DB) contracts.ProviderRepository {
	onceProviderPostgresRepository.Do(func() {
		providerPostgresRepositoryInstance = &providerPostgresRepository{
			DB: db,
		}
	})
	return providerPostgresRepositoryInstance
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner, provider *models.Provider) error {
	return row.Scan(
		&provider.ID,
		&provider.Kind,
		&provider.Name,
		&provider.Email,
		&provider.Phone,
		&provider.Address,
		&provider.PostalCode,
		&provider.Approved,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
}

func (repo *providerPostgresRepository) FindByID(ctx context.Context, providerID string) (*models.Provider, error) {
	var provider models.Provider
	err := scanProvider(repo.DB.QueryRowContext(ctx, queries.GetProviderByID, providerID), &provider)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &provider, nil
}

func (repo *providerPostgresRepository) FindBookableByPostalCode(ctx context.Context, postalCode string) ([]models.Provider, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetBookableProvidersByPostalCode, postalCode)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	providers := []models.Provider{}
	for rows.Next() {
		var provider models.Provider
		if err := scanProvider(rows, &provider); err != nil {
			return nil, exceptions.ErrPostgresDBFindData(err)
		}
		providers = append(providers, provider)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return providers, nil
}

func (repo *providerPostgresRepository) Create(ctx context.Context, provider *models.Provider) error {
	provider.SetCreatedAtUpdatedAt()
	err := repo.DB.QueryRowContext(ctx, queries.InsertProvider,
		provider.Kind,
		provider.Name,
		provider.Email,
		provider.Phone,
		provider.Address,
		provider.PostalCode,
		provider.Approved,
		provider.CreatedAt,
		provider.UpdatedAt,
	).Scan(&provider.ID)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *providerPostgresRepository) UpdateApproval(ctx context.Context, providerID string, approved bool) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdateProviderApproval, approved, providerID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
