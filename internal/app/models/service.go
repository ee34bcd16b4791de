package models

type ServiceStatus string

const (
	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"
)

// Service is a priced purpose of visit offered by a provider. Price is in
// minor currency units.
type Service struct {
	ID          string        `json:"id"`
	ProviderID  string        `json:"provider_id"`
	ServiceName string        `json:"service_name"`
	Price       int64         `json:"price"`
	Status      ServiceStatus `json:"status"`
	TimeModel
}

func (s *Service) IsActive() bool {
	return s != nil && s.Status == ServiceStatusActive
}
