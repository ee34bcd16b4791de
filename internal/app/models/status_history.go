package models

import "time"

type StatusHistoryEntry struct {
	AppointmentID string            `json:"appointment_id" bson:"appointment_id"`
	From          AppointmentStatus `json:"from" bson:"from"`
	To            AppointmentStatus `json:"to" bson:"to"`
	Actor         string            `json:"actor" bson:"actor"`
	ActorID       string            `json:"actor_id,omitempty" bson:"actor_id,omitempty"`
	Reason        string            `json:"reason,omitempty" bson:"reason,omitempty"`
	At            time.Time         `json:"at" bson:"at"`
}

// Actor identifies who asked for a status change. Kind is one of patient,
// provider, moderator or system.
type Actor struct {
	Kind   string
	ID     string
	Reason string
}

func ActorFromSession(session *Session, reason string) Actor {
	return Actor{Kind: session.Role, ID: session.UserID, Reason: reason}
}
