package availability

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type inMemoryAvailabilityRepository struct {
	days         map[string][]models.AvailabilityDay
	replaceCalls int
}

func (r *inMemoryAvailabilityRepository) FindByProviderID(ctx context.Context, providerID string) ([]models.AvailabilityDay, error) {
	return r.days[providerID], nil
}

func (r *inMemoryAvailabilityRepository) ReplaceWeek(ctx context.Context, providerID string, week []models.AvailabilityDay) error {
	r.replaceCalls++
	r.days[providerID] = append([]models.AvailabilityDay(nil), week...)
	return nil
}

type staticProviderRepository struct {
	providers map[string]*models.Provider
}

func (r *staticProviderRepository) FindByID(ctx context.Context, providerID string) (*models.Provider, error) {
	return r.providers[providerID], nil
}

func (r *staticProviderRepository) FindBookableByPostalCode(ctx context.Context, postalCode string) ([]models.Provider, error) {
	return nil, nil
}

func (r *staticProviderRepository) Create(ctx context.Context, provider *models.Provider) error {
	return nil
}

func (r *staticProviderRepository) UpdateApproval(ctx context.Context, providerID string, approved bool) error {
	return nil
}

func newTestUsecase() (*availabilityUsecase, *inMemoryAvailabilityRepository) {
	repo := &inMemoryAvailabilityRepository{days: map[string][]models.AvailabilityDay{}}
	return &availabilityUsecase{
		AvailabilityRepository: repo,
		ProviderRepository: &staticProviderRepository{providers: map[string]*models.Provider{
			"HC1": {ID: "HC1", Kind: models.ProviderKindHealthCenter, Approved: true},
		}},
		Log: zap.NewNop(),
	}, repo
}

func TestGetAvailability_DefaultsToUnavailable(t *testing.T) {
	uc, repo := newTestUsecase()
	repo.days["HC1"] = []models.AvailabilityDay{
		{ProviderID: "HC1", DayOfWeek: "Wednesday", Status: models.AvailabilityStatusAvailable, SlotTime: []string{"09:00 AM - 10:00 AM"}},
	}

	week, err := uc.GetAvailability(context.Background(), "HC1")

	require.NoError(t, err)
	require.Len(t, week, 7)
	for i, day := range week {
		assert.Equal(t, models.Weekdays[i], day.DayOfWeek)
		if day.DayOfWeek == "Wednesday" {
			assert.Equal(t, models.AvailabilityStatusAvailable, day.Status)
			continue
		}
		assert.Equal(t, models.AvailabilityStatusUnavailable, day.Status)
		assert.Empty(t, day.SlotTime)
	}
}

func TestGetAvailability_UnknownProvider(t *testing.T) {
	uc, _ := newTestUsecase()

	_, err := uc.GetAvailability(context.Background(), "nobody")

	assert.True(t, exceptions.IsNotFound(err))
}

func TestReplaceAvailability(t *testing.T) {
	ctx := context.Background()
	owner := &models.Session{UserID: "u1", Role: constvars.RoleProvider, ProviderID: "HC1"}

	t.Run("stores a complete week with deduplicated slots", func(t *testing.T) {
		uc, repo := newTestUsecase()

		week, err := uc.ReplaceAvailability(ctx, owner, "HC1", &requests.ReplaceAvailability{
			Days: []requests.AvailabilityDay{
				{DayOfWeek: "monday", Status: "available", SlotTime: []string{"09:00 AM - 10:00 AM", " 09:00 AM - 10:00 AM ", "", "11:00 AM - 12:00 PM"}},
			},
		})

		require.NoError(t, err)
		require.Len(t, week, 7)
		assert.Equal(t, "Monday", week[0].DayOfWeek)
		assert.Equal(t, []string{"09:00 AM - 10:00 AM", "11:00 AM - 12:00 PM"}, week[0].SlotTime)
		assert.Equal(t, models.AvailabilityStatusUnavailable, week[6].Status)
		assert.Len(t, repo.days["HC1"], 7)
		assert.Equal(t, 1, repo.replaceCalls)
	})

	t.Run("weekday listed twice", func(t *testing.T) {
		uc, repo := newTestUsecase()

		_, err := uc.ReplaceAvailability(ctx, owner, "HC1", &requests.ReplaceAvailability{
			Days: []requests.AvailabilityDay{
				{DayOfWeek: "Monday", Status: "available"},
				{DayOfWeek: "MONDAY", Status: "unavailable"},
			},
		})

		assert.True(t, exceptions.IsValidation(err))
		assert.Zero(t, repo.replaceCalls)
	})

	t.Run("malformed weekday", func(t *testing.T) {
		uc, repo := newTestUsecase()

		_, err := uc.ReplaceAvailability(ctx, owner, "HC1", &requests.ReplaceAvailability{
			Days: []requests.AvailabilityDay{{DayOfWeek: "Funday", Status: "available"}},
		})

		assert.True(t, exceptions.IsValidation(err))
		assert.Zero(t, repo.replaceCalls)
	})

	t.Run("other providers cannot edit", func(t *testing.T) {
		uc, _ := newTestUsecase()
		stranger := &models.Session{UserID: "u2", Role: constvars.RoleProvider, ProviderID: "HC2"}

		_, err := uc.ReplaceAvailability(ctx, stranger, "HC1", &requests.ReplaceAvailability{
			Days: []requests.AvailabilityDay{{DayOfWeek: "Monday", Status: "available"}},
		})

		assert.True(t, exceptions.IsForbidden(err))
	})

	t.Run("unknown provider", func(t *testing.T) {
		uc, _ := newTestUsecase()
		moderator := &models.Session{UserID: "m1", Role: constvars.RoleModerator}

		_, err := uc.ReplaceAvailability(ctx, moderator, "nobody", &requests.ReplaceAvailability{
			Days: []requests.AvailabilityDay{{DayOfWeek: "Monday", Status: "available"}},
		})

		assert.True(t, exceptions.IsNotFound(err))
	})
}
