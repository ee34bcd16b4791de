package providers

import (
	"context"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type providerUsecase struct {
	ProviderRepository contracts.ProviderRepository
	Geocoder           contracts.Geocoder
	Log                *zap.Logger
}

var (
	providerUsecaseInstance contracts.ProviderUsecase
	onceProviderUsecase     sync.Once
)

func NewProviderUsecase(
	providerRepository contracts.ProviderRepository,
	geocoder contracts.Geocoder,
	logger *zap.Logger,
) contracts.ProviderUsecase {
	onceProviderUsecase.Do(func() {
		providerUsecaseInstance = &providerUsecase{
			ProviderRepository: providerRepository,
			Geocoder:           geocoder,
			Log:                logger,
		}
	})
	return providerUsecaseInstance
}

// RegisterProvider creates a doctor or health center. Doctors are approved on
// registration; health centers wait for a moderator.
func (uc *providerUsecase) RegisterProvider(ctx context.Context, session *models.Session, request *requests.RegisterProvider) (*models.Provider, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.RegisterProvider called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	kind := models.ProviderKind(request.Kind)
	provider := &models.Provider{
		Kind:       kind,
		Name:       strings.TrimSpace(request.Name),
		Email:      request.Email,
		Phone:      request.Phone,
		Address:    request.Address,
		PostalCode: request.PostalCode,
		Approved:   kind == models.ProviderKindDoctor,
	}

	if err := uc.ProviderRepository.Create(ctx, provider); err != nil {
		uc.Log.Error("providerUsecase.RegisterProvider error creating provider",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("providerUsecase.RegisterProvider succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, provider.ID),
	)
	return provider, nil
}

func (uc *providerUsecase) ApproveProvider(ctx context.Context, session *models.Session, providerID string, request *requests.ApproveProvider) (*models.Provider, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.ApproveProvider called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)

	if !utils.IsModerator(session) {
		return nil, exceptions.ErrForbidden(nil)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	provider, err := uc.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider.Kind != models.ProviderKindHealthCenter {
		return nil, exceptions.ErrPreconditionFailed(constvars.ErrClientNotAuthorized, "only health centers need approval")
	}

	if err := uc.ProviderRepository.UpdateApproval(ctx, providerID, *request.Approved); err != nil {
		uc.Log.Error("providerUsecase.ApproveProvider error updating approval",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	provider.Approved = *request.Approved

	uc.Log.Info("providerUsecase.ApproveProvider succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool("approved", provider.Approved),
	)
	return provider, nil
}

func (uc *providerUsecase) FindByID(ctx context.Context, providerID string) (*models.Provider, error) {
	provider, err := uc.ProviderRepository.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, exceptions.ErrNotFound(nil, "provider", constvars.ErrClientProviderNotFound)
	}
	return provider, nil
}

// FindBookableProvider treats an unapproved health center the same as a
// missing provider.
func (uc *providerUsecase) FindBookableProvider(ctx context.Context, providerID string) (*models.Provider, error) {
	provider, err := uc.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !provider.IsBookable() {
		return nil, exceptions.ErrNotFound(fmt.Errorf("provider %s is not approved", providerID), "provider", constvars.ErrClientProviderNotFound)
	}
	return provider, nil
}

// SearchProviders looks providers up by postal code, reverse geocoding the
// coordinates first when no postal code was given. No match is an empty
// result, not an error.
func (uc *providerUsecase) SearchProviders(ctx context.Context, request *requests.ProviderSearch) (*responses.ProviderSearch, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("providerUsecase.SearchProviders called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPostalCodeKey, request.PostalCode),
	)

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	postalCode := request.PostalCode
	if postalCode == "" {
		resolved, err := uc.Geocoder.ReversePostalCode(ctx, *request.Latitude, *request.Longitude)
		if err != nil {
			uc.Log.Error("providerUsecase.SearchProviders error reverse geocoding",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}
		if !utils.IsValidPostalCode(resolved) {
			uc.Log.Info("providerUsecase.SearchProviders coordinates have no usable postal code",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPostalCodeKey, resolved),
			)
			return &responses.ProviderSearch{PostalCode: resolved, Empty: true, Providers: []models.Provider{}}, nil
		}
		postalCode = resolved
	}

	providers, err := uc.ProviderRepository.FindBookableByPostalCode(ctx, postalCode)
	if err != nil {
		uc.Log.Error("providerUsecase.SearchProviders error searching providers",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if providers == nil {
		providers = []models.Provider{}
	}

	uc.Log.Info("providerUsecase.SearchProviders succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPostalCodeKey, postalCode),
		zap.Int(constvars.LoggingCountKey, len(providers)),
	)
	return &responses.ProviderSearch{
		PostalCode: postalCode,
		Empty:      len(providers) == 0,
		Providers:  providers,
	}, nil
}
