package requests

type CreateSession struct {
	UserID     string `json:"user_id" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty"`
	Role       string `json:"role" validate:"required,oneof=patient provider moderator"`
	ProviderID string `json:"provider_id" validate:"required_if=Role provider"`
}
