package models

import "time"

type AppointmentStatus string

// The same vocabulary is used for doctor consultations and health-center
// appointments. Confirmed means the booking is settled (paid or free),
// approved means the provider accepted the visit.
const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusApproved  AppointmentStatus = "approved"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
)

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentStatusConfirmed,
		AppointmentStatusApproved,
		AppointmentStatusRejected,
		AppointmentStatusCancelled,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusApproved,
		AppointmentStatusRejected,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	},
	AppointmentStatusApproved: {
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	},
}

func ParseAppointmentStatus(value string) (AppointmentStatus, bool) {
	status := AppointmentStatus(value)
	switch status {
	case AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusApproved,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusRejected:
		return status, true
	}
	return "", false
}

func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// IsLive reports whether the appointment still holds its slot.
func (s AppointmentStatus) IsLive() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusRejected
}

// IsSettled reports whether the booking has left pending without being
// cancelled or rejected.
func (s AppointmentStatus) IsSettled() bool {
	return s == AppointmentStatusConfirmed || s == AppointmentStatusApproved || s == AppointmentStatusCompleted
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type DocumentKind string

const (
	DocumentKindReports       DocumentKind = "reports"
	DocumentKindBills         DocumentKind = "bills"
	DocumentKindPrescriptions DocumentKind = "prescriptions"
)

func ParseDocumentKind(value string) (DocumentKind, bool) {
	kind := DocumentKind(value)
	switch kind {
	case DocumentKindReports, DocumentKindBills, DocumentKindPrescriptions:
		return kind, true
	}
	return "", false
}

type Appointment struct {
	ID             string            `json:"id"`
	ProviderID     string            `json:"provider_id"`
	ProviderKind   ProviderKind      `json:"provider_kind"`
	UserID         string            `json:"user_id"`
	UserName       string            `json:"user_name"`
	Phone          string            `json:"phone"`
	Gender         string            `json:"gender"`
	DOB            time.Time         `json:"dob"`
	Date           time.Time         `json:"date"`
	Time           string            `json:"time"`
	Purpose        string            `json:"purpose"`
	Price          int64             `json:"price"`
	Status         AppointmentStatus `json:"status"`
	PaymentOrderID string            `json:"payment_order_id,omitempty"`
	MeetURL        string            `json:"meet_url,omitempty"`
	Reports        []string          `json:"reports"`
	Bills          []string          `json:"bills"`
	Prescriptions  []string          `json:"prescriptions"`
	TimeModel
}

// RequiresPayment is derived from the stored price only, so callers can tell
// whether payment is still owed without any in-memory payment state.
func (a *Appointment) RequiresPayment() bool {
	return a.Price > 0
}

func (a *Appointment) IsPaymentOutstanding() bool {
	return a.RequiresPayment() && a.Status == AppointmentStatusPending
}

func (a *Appointment) Documents(kind DocumentKind) []string {
	switch kind {
	case DocumentKindReports:
		return a.Reports
	case DocumentKindBills:
		return a.Bills
	case DocumentKindPrescriptions:
		return a.Prescriptions
	}
	return nil
}
