package models

type AvailabilityStatus string

const (
	AvailabilityStatusAvailable   AvailabilityStatus = "available"
	AvailabilityStatusUnavailable AvailabilityStatus = "unavailable"
)

type AvailabilityDay struct {
	ProviderID string             `json:"provider_id"`
	DayOfWeek  string             `json:"day_of_week"`
	Status     AvailabilityStatus `json:"status"`
	SlotTime   []string           `json:"slot_time"`
}

// UnavailableDay is the default for a weekday that has no stored row.
func UnavailableDay(providerID, dayOfWeek string) AvailabilityDay {
	return AvailabilityDay{
		ProviderID: providerID,
		DayOfWeek:  dayOfWeek,
		Status:     AvailabilityStatusUnavailable,
		SlotTime:   []string{},
	}
}
