package requests

type AvailabilityDay struct {
	DayOfWeek string   `json:"day_of_week" validate:"required,weekday"`
	Status    string   `json:"status" validate:"required,oneof=available unavailable"`
	SlotTime  []string `json:"slot_time" validate:"omitempty,dive,max=64"`
}

type ReplaceAvailability struct {
	Days []AvailabilityDay `json:"days" validate:"required,min=1,max=7,dive"`
}
