package utils

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/responses"
)

func MapAppointmentToResponse(appointment *models.Appointment) responses.Appointment {
	response := responses.Appointment{
		ID:                 appointment.ID,
		ProviderID:         appointment.ProviderID,
		ProviderKind:       appointment.ProviderKind,
		UserID:             appointment.UserID,
		UserName:           appointment.UserName,
		Phone:              appointment.Phone,
		Gender:             appointment.Gender,
		Date:               appointment.Date.Format(constvars.DateLayout),
		Time:               appointment.Time,
		Purpose:            appointment.Purpose,
		Price:              appointment.Price,
		Status:             appointment.Status,
		PaymentRequired:    appointment.RequiresPayment(),
		PaymentOutstanding: appointment.IsPaymentOutstanding(),
		PaymentOrderID:     appointment.PaymentOrderID,
		MeetURL:            appointment.MeetURL,
		Reports:            nonNil(appointment.Reports),
		Bills:              nonNil(appointment.Bills),
		Prescriptions:      nonNil(appointment.Prescriptions),
		CreatedAt:          appointment.CreatedAt,
		UpdatedAt:          appointment.UpdatedAt,
	}
	if !appointment.DOB.IsZero() {
		response.DOB = appointment.DOB.Format(constvars.DateLayout)
	}
	return response
}

func MapAppointmentsToResponse(appointments []models.Appointment) []responses.Appointment {
	result := make([]responses.Appointment, 0, len(appointments))
	for i := range appointments {
		result = append(result, MapAppointmentToResponse(&appointments[i]))
	}
	return result
}

func MapPaymentOrderToResponse(order *models.PaymentOrder, gateway string) responses.PaymentOrder {
	return responses.PaymentOrder{
		AppointmentID: order.AppointmentID,
		OrderID:       order.OrderID,
		SessionToken:  order.SessionToken,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Status:        order.Status,
		Gateway:       gateway,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
