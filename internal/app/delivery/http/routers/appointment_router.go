package routers

import (
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/pkg/constvars"
	"time"

	"github.com/go-chi/chi/v5"
)

const paymentQuotaGroup = "payment-calls"

func attachAppointmentRoutes(router chi.Router, middlewares *middlewares.Middlewares, ctrls *Controllers, paymentCallsPerMinute int) {
	router.Use(middlewares.Authenticate)

	router.Get("/", ctrls.Appointment.FindMine)
	router.Route("/{"+constvars.URLParamAppointmentID+"}", func(r chi.Router) {
		r.Get("/", ctrls.Appointment.FindByID)
		r.Delete("/", ctrls.Appointment.DeleteAppointment)
		r.Post("/status", ctrls.Appointment.UpdateStatus)
		r.Get("/history", ctrls.Appointment.StatusHistory)
		r.Post("/meeting-link", ctrls.Appointment.GenerateMeetingLink)

		paymentQuota := middlewares.LimitPerSession(paymentQuotaGroup, time.Minute, paymentCallsPerMinute)
		r.With(paymentQuota).Post("/payment", ctrls.Payment.StartPayment)
		r.Get("/payment", ctrls.Payment.PaymentStatus)
		r.With(paymentQuota).Post("/payment/verify", ctrls.Payment.VerifyPayment)
		r.Get("/receipt", ctrls.Payment.Receipt)

		r.Post("/documents/{"+constvars.URLParamDocumentKind+"}", ctrls.Document.UploadDocument)
	})
}
