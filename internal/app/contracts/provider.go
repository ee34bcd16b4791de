package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

type ProviderUsecase interface {
	RegisterProvider(ctx context.Context, session *models.Session, request *requests.RegisterProvider) (*models.Provider, error)
	ApproveProvider(ctx context.Context, session *models.Session, providerID string, request *requests.ApproveProvider) (*models.Provider, error)
	FindByID(ctx context.Context, providerID string) (*models.Provider, error)
	FindBookableProvider(ctx context.Context, providerID string) (*models.Provider, error)
	SearchProviders(ctx context.Context, request *requests.ProviderSearch) (*responses.ProviderSearch, error)
}

// ProviderRepository returns nil, nil from the Find methods when nothing matches.
type ProviderRepository interface {
	FindByID(ctx context.Context, providerID string) (*models.Provider, error)
	FindBookableByPostalCode(ctx context.Context, postalCode string) ([]models.Provider, error)
	Create(ctx context.Context, provider *models.Provider) error
	UpdateApproval(ctx context.Context, providerID string, approved bool) error
}

type Geocoder interface {
	ReversePostalCode(ctx context.Context, latitude, longitude float64) (string, error)
}
