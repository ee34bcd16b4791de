package responses

import "medibook-service/internal/app/models"

type PaymentOrder struct {
	AppointmentID string                    `json:"appointment_id"`
	OrderID       string                    `json:"order_id"`
	SessionToken  string                    `json:"session_token"`
	Amount        int64                     `json:"amount"`
	Currency      string                    `json:"currency"`
	Status        models.PaymentOrderStatus `json:"status"`
	Gateway       string                    `json:"gateway"`
}

type PaymentVerification struct {
	Appointment Appointment               `json:"appointment"`
	OrderStatus models.PaymentOrderStatus `json:"order_status"`
	Paid        bool                      `json:"paid"`
}

type PaymentStatus struct {
	AppointmentID     string                   `json:"appointment_id"`
	AppointmentStatus models.AppointmentStatus `json:"appointment_status"`
	PaymentRequired   bool                     `json:"payment_required"`
	Paid              bool                     `json:"paid"`
	PaymentOrderID    string                   `json:"payment_order_id,omitempty"`
}
