package models

import "time"

type Session struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"`
	ProviderID string    `json:"provider_id,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}
