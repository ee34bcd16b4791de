package payment_gateway

import (
	"context"
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"strings"

	"github.com/goccy/go-json"
	"github.com/razorpay/razorpay-go"
	razorpayutils "github.com/razorpay/razorpay-go/utils"
	"go.uber.org/zap"
)

const GatewayRazorpay = "razorpay"

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
		Payment struct {
			Entity struct {
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type razorpayService struct {
	Client        *razorpay.Client
	KeyID         string
	WebhookSecret string
	Currency      string
	Log           *zap.Logger
}

func NewRazorpayService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	return &razorpayService{
		Client:        razorpay.NewClient(internalConfig.Razorpay.KeyID, internalConfig.Razorpay.KeySecret),
		KeyID:         internalConfig.Razorpay.KeyID,
		WebhookSecret: internalConfig.Razorpay.WebhookSecret,
		Currency:      internalConfig.PaymentGateway.Currency,
		Log:           logger,
	}
}

func (s *razorpayService) Name() string {
	return GatewayRazorpay
}

// CreateOrder creates a Razorpay order. Checkout needs the public key id and
// the order id, so the key id is returned as the session token.
func (s *razorpayService) CreateOrder(ctx context.Context, appointmentID string, amount int64, payer *models.Payer) (*models.PaymentOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("razorpayService.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.Int64(constvars.LoggingAmountKey, amount),
	)

	data := map[string]interface{}{
		"amount":   amount,
		"currency": s.Currency,
		"receipt":  newOrderID(appointmentID),
		"notes": map[string]interface{}{
			"appointment_id": appointmentID,
			"customer_id":    payer.CustomerID,
		},
	}

	body, err := s.Client.Order.Create(data, nil)
	if err != nil {
		s.Log.Error("razorpayService.CreateOrder error creating order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrUpstream(err, GatewayRazorpay)
	}

	paymentOrder, err := s.toPaymentOrder(body)
	if err != nil {
		return nil, err
	}
	paymentOrder.AppointmentID = appointmentID

	s.Log.Info("razorpayService.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentOrderIDKey, paymentOrder.OrderID),
	)
	return paymentOrder, nil
}

func (s *razorpayService) VerifyOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("razorpayService.VerifyOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentOrderIDKey, orderID),
	)

	body, err := s.Client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		s.Log.Error("razorpayService.VerifyOrder error fetching order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrUpstream(err, GatewayRazorpay)
	}

	paymentOrder, err := s.toPaymentOrder(body)
	if err != nil {
		return nil, err
	}
	if notes, ok := body["notes"].(map[string]interface{}); ok {
		paymentOrder.AppointmentID, _ = notes["appointment_id"].(string)
	}

	s.Log.Info("razorpayService.VerifyOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentStatusKey, string(paymentOrder.Status)),
	)
	return paymentOrder, nil
}

// ParseWebhook checks X-Razorpay-Signature, the hex HMAC-SHA256 of the raw body.
func (s *razorpayService) ParseWebhook(ctx context.Context, request *requests.PaymentWebhook) (*models.PaymentWebhook, error) {
	if request.Signature == "" {
		return nil, exceptions.ErrInvalidWebhook(fmt.Errorf("missing webhook signature header"))
	}
	if !razorpayutils.VerifyWebhookSignature(string(request.Body), request.Signature, s.WebhookSecret) {
		return nil, exceptions.ErrInvalidWebhook(fmt.Errorf("webhook signature mismatch"))
	}

	webhook := new(razorpayWebhook)
	if err := json.Unmarshal(request.Body, webhook); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}

	orderID := webhook.Payload.Order.Entity.ID
	if orderID == "" {
		orderID = webhook.Payload.Payment.Entity.OrderID
	}
	if orderID == "" {
		return nil, exceptions.ErrInvalidWebhook(fmt.Errorf("webhook has no order id"))
	}

	return &models.PaymentWebhook{OrderID: orderID, EventType: webhook.Event}, nil
}

func (s *razorpayService) toPaymentOrder(body map[string]interface{}) (*models.PaymentOrder, error) {
	orderID, _ := body["id"].(string)
	if orderID == "" {
		return nil, exceptions.ErrUpstream(fmt.Errorf("order response has no id"), GatewayRazorpay)
	}
	status, _ := body["status"].(string)
	currency, _ := body["currency"].(string)

	return &models.PaymentOrder{
		OrderID:      orderID,
		SessionToken: s.KeyID,
		Amount:       toInt64(body["amount"]),
		Currency:     currency,
		Status:       mapRazorpayStatus(status),
	}, nil
}

func mapRazorpayStatus(status string) models.PaymentOrderStatus {
	switch strings.ToLower(status) {
	case "created", "attempted":
		return models.PaymentOrderStatusCreated
	case "paid":
		return models.PaymentOrderStatusPaid
	}
	return models.PaymentOrderStatus(strings.ToUpper(status))
}

func toInt64(value interface{}) int64 {
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}
