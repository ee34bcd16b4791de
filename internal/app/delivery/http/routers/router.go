package routers

import (
	"fmt"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

type Controllers struct {
	Session      *controllers.SessionController
	Provider     *controllers.ProviderController
	Availability *controllers.AvailabilityController
	Catalog      *controllers.CatalogController
	Booking      *controllers.BookingController
	Appointment  *controllers.AppointmentController
	Payment      *controllers.PaymentController
	Document     *controllers.DocumentController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	ctrls *Controllers,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(chiMiddleware.RealIP)
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	normalLimiter, apiKeyLimiter := middlewares.CreateRateLimiters()

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/sessions", func(r chi.Router) {
				attachSessionRoutes(r, middlewares, ctrls.Session, normalLimiter, apiKeyLimiter)
			})

			// Webhooks come from the gateway, not from browsers.
			r.Route("/payments", func(r chi.Router) {
				attachPaymentWebhookRoutes(r, middlewares, ctrls.Payment)
			})

			r.Group(func(r chi.Router) {
				r.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))

				r.Route("/providers", func(r chi.Router) {
					attachProviderRoutes(r, middlewares, ctrls)
				})

				r.Route("/bookings", func(r chi.Router) {
					attachBookingRoutes(r, middlewares, ctrls.Booking)
				})

				r.Route("/appointments", func(r chi.Router) {
					attachAppointmentRoutes(r, middlewares, ctrls, internalConfig.App.PaymentCallsPerMinute)
				})
			})
		})
	})
}
