package models

type PaymentOrderStatus string

const (
	PaymentOrderStatusCreated PaymentOrderStatus = "CREATED"
	PaymentOrderStatusPaid    PaymentOrderStatus = "PAID"
	PaymentOrderStatusFailed  PaymentOrderStatus = "FAILED"
)

// PaymentOrder is rebuilt from the gateway response each time; only its id is
// kept on the appointment.
type PaymentOrder struct {
	OrderID       string             `json:"order_id"`
	SessionToken  string             `json:"session_token"`
	Amount        int64              `json:"amount"`
	Currency      string             `json:"currency"`
	Status        PaymentOrderStatus `json:"status"`
	AppointmentID string             `json:"appointment_id"`
}

func (o *PaymentOrder) IsPaid() bool {
	return o != nil && o.Status == PaymentOrderStatusPaid
}

type Payer struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

// PaymentWebhook is what a gateway reports after a verified webhook call.
type PaymentWebhook struct {
	OrderID   string `json:"order_id"`
	EventType string `json:"event_type"`
}
