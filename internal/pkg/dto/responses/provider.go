package responses

import "medibook-service/internal/app/models"

type ProviderSearch struct {
	PostalCode string            `json:"postal_code"`
	Empty      bool              `json:"empty"`
	Providers  []models.Provider `json:"providers"`
}
