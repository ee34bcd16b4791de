package requests

type BookingIdentity struct {
	FullName    string `json:"full_name" validate:"required,max=120"`
	Phone       string `json:"phone" validate:"required,phone_number"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	DateOfBirth string `json:"date_of_birth" validate:"required,past_date"`
}

type BookingSelectProvider struct {
	ProviderID string `json:"provider_id" validate:"required"`
}

// BookingSchedule picks a date; Slot and ServiceID may be sent together with
// the date or in a later call once the patient saw the resolved slots.
type BookingSchedule struct {
	Date      string `json:"date" validate:"required,date_only"`
	Slot      string `json:"slot" validate:"required_with=ServiceID"`
	ServiceID string `json:"service_id" validate:"required_with=Slot"`
}

type BookingGoToStep struct {
	Step string `json:"step" validate:"required,oneof=identity provider schedule"`
}
