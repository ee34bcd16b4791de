package slot

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/utils"
	"sync"
	"time"

	"go.uber.org/zap"
)

type SlotUsecase struct {
	AvailabilityUsecase contracts.AvailabilityUsecase
	Log                 *zap.Logger
}

var (
	slotUsecaseInstance contracts.SlotUsecase
	onceSlotUsecase     sync.Once
)

func NewSlotUsecase(availabilityUsecase contracts.AvailabilityUsecase, logger *zap.Logger) contracts.SlotUsecase {
	onceSlotUsecase.Do(func() {
		slotUsecaseInstance = &SlotUsecase{
			AvailabilityUsecase: availabilityUsecase,
			Log:                 logger,
		}
	})
	return slotUsecaseInstance
}

func (s *SlotUsecase) FindSlots(ctx context.Context, providerID string, date time.Time) ([]string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("SlotUsecase.FindSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderIDKey, providerID),
		zap.String(constvars.LoggingDateKey, utils.FormatDate(date)),
	)

	week, err := s.AvailabilityUsecase.GetAvailability(ctx, providerID)
	if err != nil {
		s.Log.Error("SlotUsecase.FindSlots error fetching availability",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	slots := ResolveSlots(week, date)
	s.Log.Info("SlotUsecase.FindSlots succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(slots)),
	)
	return slots, nil
}
