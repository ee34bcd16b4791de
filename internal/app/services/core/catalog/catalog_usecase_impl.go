package catalog

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type catalogUsecase struct {
	ServiceRepository  contracts.ServiceRepository
	ProviderRepository contracts.ProviderRepository
	Log                *zap.Logger
}

var (
	catalogUsecaseInstance contracts.CatalogUsecase
	onceCatalogUsecase     sync.Once
)

func NewCatalogUsecase(
	serviceRepository contracts.ServiceRepository,
	providerRepository contracts.ProviderRepository,
	logger *zap.Logger,
) contracts.CatalogUsecase {
	onceCatalogUsecase.Do(func() {
		catalogUsecaseInstance = &catalogUsecase{
			ServiceRepository:  serviceRepository,
			ProviderRepository: providerRepository,
			Log:                logger,
		}
	})
	return catalogUsecaseInstance
}

// ListActiveServices is what patients see while booking.
func (uc *catalogUsecase) ListActiveServices(ctx context.Context, providerID string) ([]models.Service, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("catalogUsecase.ListActiveServices called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)

	if err := uc.ensureProviderExists(ctx, providerID); err != nil {
		return nil, err
	}

	services, err := uc.ServiceRepository.FindByProviderID(ctx, providerID, true)
	if err != nil {
		uc.Log.Error("catalogUsecase.ListActiveServices error fetching services",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("catalogUsecase.ListActiveServices succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(services)),
	)
	return services, nil
}

func (uc *catalogUsecase) ListServices(ctx context.Context, session *models.Session, providerID string) ([]models.Service, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("catalogUsecase.ListServices called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)

	if !utils.CanManageProvider(session, providerID) {
		return nil, exceptions.ErrForbidden(nil)
	}

	services, err := uc.ServiceRepository.FindByProviderID(ctx, providerID, false)
	if err != nil {
		uc.Log.Error("catalogUsecase.ListServices error fetching services",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	return services, nil
}

// FindActiveService returns NotFound for inactive services as well, so a
// patient can never book one.
func (uc *catalogUsecase) FindActiveService(ctx context.Context, providerID, serviceID string) (*models.Service, error) {
	service, err := uc.ServiceRepository.FindByID(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}
	if !service.IsActive() {
		return nil, exceptions.ErrNotFound(nil, "service", constvars.ErrClientServiceNotFound)
	}
	return service, nil
}

func (uc *catalogUsecase) UpsertService(ctx context.Context, session *models.Session, providerID string, request *requests.UpsertService) (*models.Service, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("catalogUsecase.UpsertService called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
		zap.String(constvars.LoggingServiceIDKey, request.ID),
	)

	if !utils.CanManageProvider(session, providerID) {
		return nil, exceptions.ErrForbidden(nil)
	}

	request.ServiceName = strings.TrimSpace(request.ServiceName)
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	if err := uc.ensureProviderExists(ctx, providerID); err != nil {
		return nil, err
	}

	service := &models.Service{
		ID:          request.ID,
		ProviderID:  providerID,
		ServiceName: request.ServiceName,
		Price:       *request.Price,
		Status:      models.ServiceStatus(request.Status),
	}

	if service.ID != "" {
		existing, err := uc.ServiceRepository.FindByID(ctx, providerID, service.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, exceptions.ErrNotFound(nil, "service", constvars.ErrClientServiceNotFound)
		}
		service.CreatedAt = existing.CreatedAt
	}

	if err := uc.ServiceRepository.Upsert(ctx, service); err != nil {
		uc.Log.Error("catalogUsecase.UpsertService error saving service",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("catalogUsecase.UpsertService succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingServiceIDKey, service.ID),
	)
	return service, nil
}

// DeleteService removes the catalog row only; appointments keep their own
// copy of name and price.
func (uc *catalogUsecase) DeleteService(ctx context.Context, session *models.Session, providerID, serviceID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("catalogUsecase.DeleteService called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
		zap.String(constvars.LoggingServiceIDKey, serviceID),
	)

	if !utils.CanManageProvider(session, providerID) {
		return exceptions.ErrForbidden(nil)
	}

	deleted, err := uc.ServiceRepository.Delete(ctx, providerID, serviceID)
	if err != nil {
		uc.Log.Error("catalogUsecase.DeleteService error deleting service",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return err
	}
	if !deleted {
		return exceptions.ErrNotFound(nil, "service", constvars.ErrClientServiceNotFound)
	}
	return nil
}

func (uc *catalogUsecase) ensureProviderExists(ctx context.Context, providerID string) error {
	provider, err := uc.ProviderRepository.FindByID(ctx, providerID)
	if err != nil {
		return err
	}
	if provider == nil {
		return exceptions.ErrNotFound(nil, "provider", constvars.ErrClientProviderNotFound)
	}
	return nil
}
