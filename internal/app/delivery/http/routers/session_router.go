package routers

import (
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func attachSessionRoutes(router chi.Router, middlewares *middlewares.Middlewares, sessionController *controllers.SessionController, normalLimiter, apiKeyLimiter func(http.Handler) http.Handler) {
	router.With(
		middlewares.RequireAPIKey,
		middlewares.ConditionalRateLimit(normalLimiter, apiKeyLimiter),
	).Post("/", sessionController.CreateSession)
}
