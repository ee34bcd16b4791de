package routers

import (
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/pkg/constvars"

	"github.com/go-chi/chi/v5"
)

func attachProviderRoutes(router chi.Router, middlewares *middlewares.Middlewares, ctrls *Controllers) {
	router.Get("/", ctrls.Provider.SearchByPostalCode)
	router.Get("/nearby", ctrls.Provider.SearchNearby)
	router.With(middlewares.Authenticate).Post("/", ctrls.Provider.RegisterProvider)

	router.Route("/{"+constvars.URLParamProviderID+"}", func(r chi.Router) {
		r.With(middlewares.Authenticate).Post("/approve", ctrls.Provider.ApproveProvider)

		r.Get("/availability", ctrls.Availability.GetAvailability)
		r.With(middlewares.Authenticate).Put("/availability", ctrls.Availability.ReplaceAvailability)
		r.Get("/slots", ctrls.Availability.FindSlots)

		r.With(middlewares.OptionalAuthenticate).Get("/services", ctrls.Catalog.ListServices)
		r.With(middlewares.Authenticate).Put("/services", ctrls.Catalog.UpsertService)
		r.With(middlewares.Authenticate).Delete("/services/{"+constvars.URLParamServiceID+"}", ctrls.Catalog.DeleteService)

		r.With(middlewares.Authenticate).Get("/appointments", ctrls.Appointment.FindByProvider)
	})
}
