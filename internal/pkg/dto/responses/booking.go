package responses

import "medibook-service/internal/app/models"

// BookingStep is returned after every wizard call: the whole draft plus the
// choices the next screen needs.
type BookingStep struct {
	Draft     models.BookingDraft `json:"draft"`
	Providers []models.Provider   `json:"providers,omitempty"`
	Services  []models.Service    `json:"services,omitempty"`
	Message   string              `json:"message,omitempty"`
}

type BookingConfirmation struct {
	Appointment     Appointment `json:"appointment"`
	PaymentRequired bool        `json:"payment_required"`
}
