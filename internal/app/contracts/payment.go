package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
)

type PaymentUsecase interface {
	SettleFreeBooking(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error)
	StartPayment(ctx context.Context, session *models.Session, appointmentID string, request *requests.StartPayment) (*responses.PaymentOrder, error)
	VerifyPayment(ctx context.Context, session *models.Session, appointmentID string) (*responses.PaymentVerification, error)
	PaymentStatus(ctx context.Context, session *models.Session, appointmentID string) (*responses.PaymentStatus, error)
	HandleWebhook(ctx context.Context, request *requests.PaymentWebhook) (*responses.Appointment, error)
	Receipt(ctx context.Context, session *models.Session, appointmentID string) ([]byte, string, error)
	ReconcilePending(ctx context.Context, limit int) (int, error)
}

type PaymentGatewayService interface {
	Name() string
	CreateOrder(ctx context.Context, appointmentID string, amount int64, payer *models.Payer) (*models.PaymentOrder, error)
	VerifyOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	// ParseWebhook checks the signature and extracts the order id.
	ParseWebhook(ctx context.Context, request *requests.PaymentWebhook) (*models.PaymentWebhook, error)
}

type ReceiptRenderer interface {
	Render(appointment *models.Appointment, provider *models.Provider) ([]byte, error)
}
