package requests

type RegisterProvider struct {
	Kind       string `json:"kind" validate:"required,oneof=doctor health_center"`
	Name       string `json:"name" validate:"required,max=160"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,phone_number"`
	Address    string `json:"address" validate:"required,max=500"`
	PostalCode string `json:"postal_code" validate:"required,postal_code"`
}

type ApproveProvider struct {
	Approved *bool `json:"approved" validate:"required"`
}

// ProviderSearch looks providers up by postal code, or by device coordinates
// when no postal code is given.
type ProviderSearch struct {
	PostalCode string   `json:"postal_code" validate:"omitempty,postal_code"`
	Latitude   *float64 `json:"latitude" validate:"required_without=PostalCode,omitempty,latitude"`
	Longitude  *float64 `json:"longitude" validate:"required_without=PostalCode,omitempty,longitude"`
}
