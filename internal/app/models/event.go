package models

import "time"

type AppointmentEventType string

const (
	AppointmentEventCreated       AppointmentEventType = "appointment.created"
	AppointmentEventStatusChanged AppointmentEventType = "appointment.status_changed"
	AppointmentEventPaymentFailed AppointmentEventType = "appointment.payment_not_completed"
	AppointmentEventMeetingLinked AppointmentEventType = "appointment.meeting_linked"
)

type AppointmentEvent struct {
	ID            string               `json:"id"`
	Type          AppointmentEventType `json:"type"`
	AppointmentID string               `json:"appointment_id"`
	ProviderID    string               `json:"provider_id"`
	UserID        string               `json:"user_id"`
	Status        AppointmentStatus    `json:"status"`
	OccurredAt    time.Time            `json:"occurred_at"`
}
