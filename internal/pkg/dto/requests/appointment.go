package requests

type UpdateAppointmentStatus struct {
	Status string `json:"status" validate:"required,oneof=confirmed approved completed cancelled rejected"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}
