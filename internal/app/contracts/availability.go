package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
)

type AvailabilityUsecase interface {
	GetAvailability(ctx context.Context, providerID string) ([]models.AvailabilityDay, error)
	ReplaceAvailability(ctx context.Context, session *models.Session, providerID string, request *requests.ReplaceAvailability) ([]models.AvailabilityDay, error)
}

type AvailabilityRepository interface {
	FindByProviderID(ctx context.Context, providerID string) ([]models.AvailabilityDay, error)
	// ReplaceWeek deletes every stored day of the provider and inserts week in one transaction.
	ReplaceWeek(ctx context.Context, providerID string, week []models.AvailabilityDay) error
}
