package payment_gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const GatewayCashfree = "cashfree"

type cashfreeCustomer struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone"`
}

type cashfreeOrderMeta struct {
	ReturnUrl string `json:"return_url,omitempty"`
}

type cashfreeCreateOrderRequest struct {
	OrderID         string            `json:"order_id"`
	OrderAmount     float64           `json:"order_amount"`
	OrderCurrency   string            `json:"order_currency"`
	CustomerDetails cashfreeCustomer  `json:"customer_details"`
	OrderMeta       cashfreeOrderMeta `json:"order_meta"`
	OrderTags       map[string]string `json:"order_tags,omitempty"`
}

type cashfreeOrder struct {
	OrderID          string            `json:"order_id"`
	OrderAmount      float64           `json:"order_amount"`
	OrderCurrency    string            `json:"order_currency"`
	OrderStatus      string            `json:"order_status"`
	PaymentSessionID string            `json:"payment_session_id"`
	OrderTags        map[string]string `json:"order_tags"`
}

type cashfreeErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
}

type cashfreeWebhook struct {
	Type string `json:"type"`
	Data struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
	} `json:"data"`
}

type cashfreeService struct {
	BaseUrl       string
	ClientID      string
	ClientSecret  string
	ApiVersion    string
	WebhookSecret string
	Currency      string
	ReturnUrl     string
	HTTPClient    *http.Client
	Limiter       *rate.Limiter
	Log           *zap.Logger
}

func NewCashfreeService(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentGatewayService {
	gatewayConfig := internalConfig.PaymentGateway
	requestsPerSecond := gatewayConfig.RequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	return &cashfreeService{
		BaseUrl:       strings.TrimSuffix(gatewayConfig.BaseUrl, "/"),
		ClientID:      gatewayConfig.ClientID,
		ClientSecret:  gatewayConfig.ClientSecret,
		ApiVersion:    gatewayConfig.ApiVersion,
		WebhookSecret: gatewayConfig.WebhookSecret,
		Currency:      gatewayConfig.Currency,
		ReturnUrl:     gatewayConfig.ReturnUrl,
		HTTPClient: &http.Client{
			Timeout: time.Duration(gatewayConfig.RequestTimeoutInSeconds) * time.Second,
		},
		Limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		Log:     logger,
	}
}

func (s *cashfreeService) Name() string {
	return GatewayCashfree
}

func (s *cashfreeService) CreateOrder(ctx context.Context, appointmentID string, amount int64, payer *models.Payer) (*models.PaymentOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("cashfreeService.CreateOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAppointmentIDKey, appointmentID),
		zap.Int64(constvars.LoggingAmountKey, amount),
	)

	request := cashfreeCreateOrderRequest{
		OrderID:       newOrderID(appointmentID),
		OrderAmount:   minorToMajor(amount),
		OrderCurrency: s.Currency,
		CustomerDetails: cashfreeCustomer{
			CustomerID:    payer.CustomerID,
			CustomerName:  payer.Name,
			CustomerEmail: payer.Email,
			CustomerPhone: payer.Phone,
		},
		OrderMeta: cashfreeOrderMeta{ReturnUrl: s.ReturnUrl},
		OrderTags: map[string]string{"appointment_id": appointmentID},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	order := new(cashfreeOrder)
	err = s.do(ctx, http.MethodPost, "/orders", body, order)
	if err != nil {
		s.Log.Error("cashfreeService.CreateOrder error creating order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	paymentOrder := s.toPaymentOrder(order)
	if paymentOrder.AppointmentID == "" {
		paymentOrder.AppointmentID = appointmentID
	}

	s.Log.Info("cashfreeService.CreateOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentOrderIDKey, paymentOrder.OrderID),
		zap.String(constvars.LoggingPaymentStatusKey, string(paymentOrder.Status)),
	)
	return paymentOrder, nil
}

func (s *cashfreeService) VerifyOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("cashfreeService.VerifyOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentOrderIDKey, orderID),
	)

	order := new(cashfreeOrder)
	err := s.do(ctx, http.MethodGet, "/orders/"+orderID, nil, order)
	if err != nil {
		s.Log.Error("cashfreeService.VerifyOrder error fetching order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	paymentOrder := s.toPaymentOrder(order)
	s.Log.Info("cashfreeService.VerifyOrder succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentOrderIDKey, paymentOrder.OrderID),
		zap.String(constvars.LoggingPaymentStatusKey, string(paymentOrder.Status)),
	)
	return paymentOrder, nil
}

// ParseWebhook checks x-webhook-signature, the base64 HMAC-SHA256 of timestamp
// followed by the raw body.
func (s *cashfreeService) ParseWebhook(ctx context.Context, request *requests.PaymentWebhook) (*models.PaymentWebhook, error) {
	if request.Signature == "" || request.Timestamp == "" {
		return nil, exceptions.ErrInvalidWebhook(fmt.Errorf("missing webhook signature headers"))
	}

	payload := append([]byte(request.Timestamp), request.Body...)
	expected := utils.SignHMACBase64(payload, s.WebhookSecret)
	if !utils.SecureCompare(expected, request.Signature) {
		return nil, exceptions.ErrInvalidWebhook(fmt.Errorf("webhook signature mismatch"))
	}

	webhook := new(cashfreeWebhook)
	if err := json.Unmarshal(request.Body, webhook); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	if webhook.Data.Order.OrderID == "" {
		return nil, exceptions.ErrInvalidWebhook(fmt.Errorf("webhook has no order id"))
	}

	return &models.PaymentWebhook{
		OrderID:   webhook.Data.Order.OrderID,
		EventType: webhook.Type,
	}, nil
}

func (s *cashfreeService) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	if err := s.Limiter.Wait(ctx); err != nil {
		return exceptions.ErrServerDeadlineExceeded(err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseUrl+path, reader)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set("Accept", constvars.MIMEApplicationJSON)
	req.Header.Set("x-client-id", s.ClientID)
	req.Header.Set("x-client-secret", s.ClientSecret)
	req.Header.Set("x-api-version", s.ApiVersion)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return exceptions.ErrSendHTTPRequest(err, GatewayCashfree)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errorResponse cashfreeErrorResponse
		json.NewDecoder(resp.Body).Decode(&errorResponse)
		return exceptions.ErrUpstream(
			fmt.Errorf("status %d: %s %s", resp.StatusCode, errorResponse.Code, errorResponse.Message),
			GatewayCashfree,
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return exceptions.ErrUpstream(err, GatewayCashfree)
	}
	return nil
}

func (s *cashfreeService) toPaymentOrder(order *cashfreeOrder) *models.PaymentOrder {
	return &models.PaymentOrder{
		OrderID:       order.OrderID,
		SessionToken:  order.PaymentSessionID,
		Amount:        majorToMinor(order.OrderAmount),
		Currency:      order.OrderCurrency,
		Status:        mapCashfreeStatus(order.OrderStatus),
		AppointmentID: order.OrderTags["appointment_id"],
	}
}

func mapCashfreeStatus(status string) models.PaymentOrderStatus {
	switch strings.ToUpper(status) {
	case "ACTIVE":
		return models.PaymentOrderStatusCreated
	case "PAID":
		return models.PaymentOrderStatusPaid
	case "EXPIRED", "TERMINATED", "TERMINATION_REQUESTED":
		return models.PaymentOrderStatusFailed
	}
	return models.PaymentOrderStatus(strings.ToUpper(status))
}

func minorToMajor(amount int64) float64 {
	return float64(amount) / 100
}

func majorToMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
