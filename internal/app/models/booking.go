package models

import "time"

type BookingStep string

const (
	BookingStepIdentity  BookingStep = "identity"
	BookingStepProvider  BookingStep = "provider"
	BookingStepSchedule  BookingStep = "schedule"
	BookingStepConfirmed BookingStep = "confirmed"
)

func (s BookingStep) Order() int {
	switch s {
	case BookingStepIdentity:
		return 1
	case BookingStepProvider:
		return 2
	case BookingStepSchedule:
		return 3
	case BookingStepConfirmed:
		return 4
	}
	return 0
}

type BookingIdentity struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
}

// BookingDraft is the whole wizard state. Step only says where the patient
// currently is; data collected in any step stays in the draft until confirm.
type BookingDraft struct {
	UserID         string           `json:"user_id"`
	Step           BookingStep      `json:"step"`
	Identity       *BookingIdentity `json:"identity,omitempty"`
	PostalCode     string           `json:"postal_code,omitempty"`
	SearchResults  []string         `json:"search_results,omitempty"`
	NoResults      bool             `json:"no_results"`
	ProviderID     string           `json:"provider_id,omitempty"`
	Date           string           `json:"date,omitempty"`
	AvailableSlots []string         `json:"available_slots,omitempty"`
	NoSlots        bool             `json:"no_slots"`
	Slot           string           `json:"slot,omitempty"`
	ServiceID      string           `json:"service_id,omitempty"`
	AppointmentID  string           `json:"appointment_id,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}
