package availability

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

type availabilityUsecase struct {
	AvailabilityRepository contracts.AvailabilityRepository
	ProviderRepository     contracts.ProviderRepository
	Log                    *zap.Logger
}

var (
	availabilityUsecaseInstance contracts.AvailabilityUsecase
	onceAvailabilityUsecase     sync.Once
)

func NewAvailabilityUsecase(
	availabilityRepository contracts.AvailabilityRepository,
	providerRepository contracts.ProviderRepository,
	logger *zap.Logger,
) contracts.AvailabilityUsecase {
	onceAvailabilityUsecase.Do(func() {
		availabilityUsecaseInstance = &availabilityUsecase{
			AvailabilityRepository: availabilityRepository,
			ProviderRepository:     providerRepository,
			Log:                    logger,
		}
	})
	return availabilityUsecaseInstance
}

// GetAvailability always returns seven days, Monday first. Weekdays without a
// stored row are unavailable.
func (uc *availabilityUsecase) GetAvailability(ctx context.Context, providerID string) ([]models.AvailabilityDay, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("availabilityUsecase.GetAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)

	if err := uc.ensureProviderExists(ctx, providerID); err != nil {
		return nil, err
	}

	stored, err := uc.AvailabilityRepository.FindByProviderID(ctx, providerID)
	if err != nil {
		uc.Log.Error("availabilityUsecase.GetAvailability error fetching availability",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	week := completeWeek(providerID, stored)
	uc.Log.Info("availabilityUsecase.GetAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(stored)),
	)
	return week, nil
}

func (uc *availabilityUsecase) ReplaceAvailability(ctx context.Context, session *models.Session, providerID string, request *requests.ReplaceAvailability) ([]models.AvailabilityDay, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("availabilityUsecase.ReplaceAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)

	if !utils.CanManageProvider(session, providerID) {
		return nil, exceptions.ErrForbidden(nil)
	}

	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	submitted := make([]models.AvailabilityDay, 0, len(request.Days))
	seen := make(map[string]bool, len(request.Days))
	for _, day := range request.Days {
		weekday, ok := models.NormalizeWeekday(day.DayOfWeek)
		if !ok {
			return nil, exceptions.ErrValidationField("day_of_week", constvars.CustomValidationErrorMessages["weekday"])
		}
		if seen[weekday] {
			return nil, exceptions.ErrValidationField("day_of_week", weekday+" is listed more than once")
		}
		seen[weekday] = true

		submitted = append(submitted, models.AvailabilityDay{
			ProviderID: providerID,
			DayOfWeek:  weekday,
			Status:     models.AvailabilityStatus(day.Status),
			SlotTime:   normalizeSlotTimes(day.SlotTime),
		})
	}

	if err := uc.ensureProviderExists(ctx, providerID); err != nil {
		return nil, err
	}

	week := completeWeek(providerID, submitted)
	if err := uc.AvailabilityRepository.ReplaceWeek(ctx, providerID, week); err != nil {
		uc.Log.Error("availabilityUsecase.ReplaceAvailability error replacing week",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("availabilityUsecase.ReplaceAvailability succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
	)
	return week, nil
}

func (uc *availabilityUsecase) ensureProviderExists(ctx context.Context, providerID string) error {
	provider, err := uc.ProviderRepository.FindByID(ctx, providerID)
	if err != nil {
		return err
	}
	if provider == nil {
		return exceptions.ErrNotFound(nil, "provider", constvars.ErrClientProviderNotFound)
	}
	return nil
}

func completeWeek(providerID string, days []models.AvailabilityDay) []models.AvailabilityDay {
	byWeekday := make(map[string]models.AvailabilityDay, len(days))
	for _, day := range days {
		if day.SlotTime == nil {
			day.SlotTime = []string{}
		}
		byWeekday[day.DayOfWeek] = day
	}

	week := make([]models.AvailabilityDay, 0, len(models.Weekdays))
	for _, weekday := range models.Weekdays {
		day, ok := byWeekday[weekday]
		if !ok {
			day = models.UnavailableDay(providerID, weekday)
		}
		week = append(week, day)
	}
	return week
}

// normalizeSlotTimes trims entries, drops blanks and keeps the first
// occurrence of each slot.
func normalizeSlotTimes(slots []string) []string {
	result := make([]string, 0, len(slots))
	seen := make(map[string]bool, len(slots))
	for _, slot := range slots {
		slot = strings.TrimSpace(slot)
		if slot == "" || seen[slot] {
			continue
		}
		seen[slot] = true
		result = append(result, slot)
	}
	return result
}
