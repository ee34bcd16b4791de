package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

type BookingUsecase interface {
	GetDraft(ctx context.Context, session *models.Session) (*responses.BookingStep, error)
	SubmitIdentity(ctx context.Context, session *models.Session, request *requests.BookingIdentity) (*responses.BookingStep, error)
	SearchProviders(ctx context.Context, session *models.Session, request *requests.ProviderSearch) (*responses.BookingStep, error)
	SelectProvider(ctx context.Context, session *models.Session, request *requests.BookingSelectProvider) (*responses.BookingStep, error)
	SelectSchedule(ctx context.Context, session *models.Session, request *requests.BookingSchedule) (*responses.BookingStep, error)
	GoToStep(ctx context.Context, session *models.Session, request *requests.BookingGoToStep) (*responses.BookingStep, error)
	Confirm(ctx context.Context, session *models.Session) (*responses.BookingConfirmation, error)
	Discard(ctx context.Context, session *models.Session) error
}
