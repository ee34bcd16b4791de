package payment_gateway

import (
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/contracts"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NewPaymentGatewayService picks the adapter named by PAYMENT_GATEWAY_PROVIDER.
func NewPaymentGatewayService(internalConfig *config.InternalConfig, logger *zap.Logger) (contracts.PaymentGatewayService, error) {
	switch strings.ToLower(internalConfig.PaymentGateway.Provider) {
	case GatewayCashfree, "":
		return NewCashfreeService(internalConfig, logger), nil
	case GatewayRazorpay:
		return NewRazorpayService(internalConfig, logger), nil
	}
	return nil, fmt.Errorf("unknown payment gateway provider %q", internalConfig.PaymentGateway.Provider)
}

// newOrderID gives every attempt a fresh merchant order id, so a retried
// payment never reuses an expired order.
func newOrderID(appointmentID string) string {
	compact := strings.ReplaceAll(appointmentID, "-", "")
	if len(compact) > 20 {
		compact = compact[:20]
	}
	return fmt.Sprintf("MDBK_%s_%d", compact, time.Now().UnixNano()/int64(time.Millisecond))
}
