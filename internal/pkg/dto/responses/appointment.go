package responses

import (
	"medibook-service/internal/app/models"
	"time"
)

type Appointment struct {
	ID                 string                   `json:"id"`
	ProviderID         string                   `json:"provider_id"`
	ProviderKind       models.ProviderKind      `json:"provider_kind"`
	UserID             string                   `json:"user_id"`
	UserName           string                   `json:"user_name"`
	Phone              string                   `json:"phone"`
	Gender             string                   `json:"gender"`
	DOB                string                   `json:"dob"`
	Date               string                   `json:"date"`
	Time               string                   `json:"time"`
	Purpose            string                   `json:"purpose"`
	Price              int64                    `json:"price"` // minor units
	Status             models.AppointmentStatus `json:"status"`
	PaymentRequired    bool                     `json:"payment_required"`
	PaymentOutstanding bool                     `json:"payment_outstanding"`
	PaymentOrderID     string                   `json:"payment_order_id,omitempty"`
	MeetURL            string                   `json:"meet_url,omitempty"`
	Reports            []string                 `json:"reports"`
	Bills              []string                 `json:"bills"`
	Prescriptions      []string                 `json:"prescriptions"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}
