package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachBookingRoutes(router chi.Router, middlewares *middlewares.Middlewares, bookingController *controllers.BookingController) {
	router.Use(middlewares.Authenticate)

	router.Get("/draft", bookingController.GetDraft)
	router.Delete("/draft", bookingController.Discard)
	router.Post("/identity", bookingController.SubmitIdentity)
	router.Post("/provider-search", bookingController.SearchProviders)
	router.Post("/provider", bookingController.SelectProvider)
	router.Post("/schedule", bookingController.SelectSchedule)
	router.Post("/step", bookingController.GoToStep)
	router.Post("/confirm", bookingController.Confirm)
}
