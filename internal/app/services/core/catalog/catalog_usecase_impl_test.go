package catalog

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) FindByProviderID(ctx context.Context, providerID string, activeOnly bool) ([]models.Service, error) {
	args := m.Called(ctx, providerID, activeOnly)
	services, _ := args.Get(0).([]models.Service)
	return services, args.Error(1)
}

func (m *MockServiceRepository) FindByID(ctx context.Context, providerID, serviceID string) (*models.Service, error) {
	args := m.Called(ctx, providerID, serviceID)
	service, _ := args.Get(0).(*models.Service)
	return service, args.Error(1)
}

func (m *MockServiceRepository) Upsert(ctx context.Context, service *models.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, providerID, serviceID string) (bool, error) {
	args := m.Called(ctx, providerID, serviceID)
	return args.Bool(0), args.Error(1)
}

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) FindByID(ctx context.Context, providerID string) (*models.Provider, error) {
	args := m.Called(ctx, providerID)
	provider, _ := args.Get(0).(*models.Provider)
	return provider, args.Error(1)
}

func (m *MockProviderRepository) FindBookableByPostalCode(ctx context.Context, postalCode string) ([]models.Provider, error) {
	args := m.Called(ctx, postalCode)
	providers, _ := args.Get(0).([]models.Provider)
	return providers, args.Error(1)
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *models.Provider) error {
	return m.Called(ctx, provider).Error(0)
}

func (m *MockProviderRepository) UpdateApproval(ctx context.Context, providerID string, approved bool) error {
	return m.Called(ctx, providerID, approved).Error(0)
}

func newTestUsecase() (*catalogUsecase, *MockServiceRepository, *MockProviderRepository) {
	services := new(MockServiceRepository)
	providers := new(MockProviderRepository)
	return &catalogUsecase{
		ServiceRepository:  services,
		ProviderRepository: providers,
		Log:                zap.NewNop(),
	}, services, providers
}

func price(v int64) *int64 { return &v }

func TestListActiveServices(t *testing.T) {
	ctx := context.Background()
	uc, services, providers := newTestUsecase()
	providers.On("FindByID", ctx, "HC1").Return(&models.Provider{ID: "HC1"}, nil)
	services.On("FindByProviderID", ctx, "HC1", true).Return([]models.Service{
		{ID: "s1", ServiceName: "General Checkup", Status: models.ServiceStatusActive},
	}, nil)

	result, err := uc.ListActiveServices(ctx, "HC1")

	require.NoError(t, err)
	assert.Len(t, result, 1)
	services.AssertExpectations(t)
}

func TestFindActiveService_InactiveIsNotFound(t *testing.T) {
	ctx := context.Background()
	uc, services, _ := newTestUsecase()
	services.On("FindByID", ctx, "HC1", "s-off").Return(&models.Service{ID: "s-off", Status: models.ServiceStatusInactive}, nil)
	services.On("FindByID", ctx, "HC1", "s-gone").Return(nil, nil)

	_, err := uc.FindActiveService(ctx, "HC1", "s-off")
	assert.True(t, exceptions.IsNotFound(err))

	_, err = uc.FindActiveService(ctx, "HC1", "s-gone")
	assert.True(t, exceptions.IsNotFound(err))
}

func TestUpsertService(t *testing.T) {
	ctx := context.Background()
	owner := &models.Session{Role: constvars.RoleProvider, ProviderID: "HC1"}

	t.Run("creates a service", func(t *testing.T) {
		uc, services, providers := newTestUsecase()
		providers.On("FindByID", ctx, "HC1").Return(&models.Provider{ID: "HC1"}, nil)
		services.On("Upsert", ctx, mock.MatchedBy(func(s *models.Service) bool {
			return s.ServiceName == "Specialist Visit" && s.Price == 500 && s.ProviderID == "HC1"
		})).Return(nil)

		service, err := uc.UpsertService(ctx, owner, "HC1", &requests.UpsertService{
			ServiceName: "  Specialist Visit ",
			Price:       price(500),
			Status:      "active",
		})

		require.NoError(t, err)
		assert.Equal(t, "Specialist Visit", service.ServiceName)
		services.AssertExpectations(t)
	})

	t.Run("negative price and blank name are rejected", func(t *testing.T) {
		uc, services, _ := newTestUsecase()

		_, err := uc.UpsertService(ctx, owner, "HC1", &requests.UpsertService{
			ServiceName: "   ",
			Price:       price(-1),
			Status:      "active",
		})

		require.Error(t, err)
		assert.True(t, exceptions.IsValidation(err))
		fields := err.(*exceptions.CustomError).Fields
		assert.Contains(t, fields, "service_name")
		assert.Contains(t, fields, "price")
		services.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name surfaces the conflict", func(t *testing.T) {
		uc, services, providers := newTestUsecase()
		providers.On("FindByID", ctx, "HC1").Return(&models.Provider{ID: "HC1"}, nil)
		services.On("Upsert", ctx, mock.Anything).Return(exceptions.ErrConflict(nil, "service", constvars.ErrClientServiceAlreadyExists))

		_, err := uc.UpsertService(ctx, owner, "HC1", &requests.UpsertService{
			ServiceName: "General Checkup",
			Price:       price(0),
			Status:      "active",
		})

		assert.True(t, exceptions.IsConflict(err))
	})

	t.Run("updating an unknown id", func(t *testing.T) {
		uc, services, providers := newTestUsecase()
		providers.On("FindByID", ctx, "HC1").Return(&models.Provider{ID: "HC1"}, nil)
		services.On("FindByID", ctx, "HC1", "5d0c3d7e-2b5c-4f8e-9a37-6f1d2a0b9c11").Return(nil, nil)

		_, err := uc.UpsertService(ctx, owner, "HC1", &requests.UpsertService{
			ID:          "5d0c3d7e-2b5c-4f8e-9a37-6f1d2a0b9c11",
			ServiceName: "General Checkup",
			Price:       price(0),
			Status:      "inactive",
		})

		assert.True(t, exceptions.IsNotFound(err))
	})

	t.Run("patients cannot edit the catalog", func(t *testing.T) {
		uc, _, _ := newTestUsecase()

		_, err := uc.UpsertService(ctx, &models.Session{Role: constvars.RolePatient}, "HC1", &requests.UpsertService{
			ServiceName: "General Checkup",
			Price:       price(0),
			Status:      "active",
		})

		assert.True(t, exceptions.IsForbidden(err))
	})
}

func TestDeleteService(t *testing.T) {
	ctx := context.Background()
	owner := &models.Session{Role: constvars.RoleProvider, ProviderID: "HC1"}
	uc, services, _ := newTestUsecase()
	services.On("Delete", ctx, "HC1", "s1").Return(true, nil)
	services.On("Delete", ctx, "HC1", "missing").Return(false, nil)

	assert.NoError(t, uc.DeleteService(ctx, owner, "HC1", "s1"))
	assert.True(t, exceptions.IsNotFound(uc.DeleteService(ctx, owner, "HC1", "missing")))
}
