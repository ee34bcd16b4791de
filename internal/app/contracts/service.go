package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
)

type CatalogUsecase interface {
	ListActiveServices(ctx context.Context, providerID string) ([]models.Service, error)
	ListServices(ctx context.Context, session *models.Session, providerID string) ([]models.Service, error)
	FindActiveService(ctx context.Context, providerID, serviceID string) (*models.Service, error)
	UpsertService(ctx context.Context, session *models.Session, providerID string, request *requests.UpsertService) (*models.Service, error)
	DeleteService(ctx context.Context, session *models.Session, providerID, serviceID string) error
}

type ServiceRepository interface {
	FindByProviderID(ctx context.Context, providerID string, activeOnly bool) ([]models.Service, error)
	FindByID(ctx context.Context, providerID, serviceID string) (*models.Service, error)
	// Upsert inserts when service.ID is empty. A duplicate name within the provider is a conflict.
	Upsert(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, providerID, serviceID string) (bool, error)
}
