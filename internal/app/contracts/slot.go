package contracts

import (
	"context"
	"time"
)

type SlotUsecase interface {
	FindSlots(ctx context.Context, providerID string, date time.Time) ([]string, error)
}
