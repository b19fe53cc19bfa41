// Package http provides HTTP routing and middleware configuration
// for the notification relay.
package http

import (
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/julimigwi/Task-Tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// notification relay API.
//
// Routes:
//
//	GET  /health            → notifyHandler.Health (open)
//	POST /notify            → notifyHandler.Notify (sms by default)
//	POST /notify/{channel}  → notifyHandler.Notify
//	GET  /deliveries        → notifyHandler.Deliveries
//
// The notify and deliveries routes sit behind JSON content-type
// enforcement, request logging and bearer-token authentication; the
// browser client calls the relay cross-origin, so CORS wraps the
// whole router.
func NewRouter(
	notifyHandler *NotifyHandler,
	logger *zap.Logger,
	authSecret []byte,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	})
	r.Use(c.Handler)

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	// Health stays open for load balancers
	r.Get("/health", notifyHandler.Health)

	// Protected group: requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(authSecret))

		r.Group(func(r chi.Router) {
			// Only allow requests with Content-Type: application/json
			r.Use(chiMiddleware.AllowContentType("application/json"))
			r.Post("/notify", notifyHandler.Notify)
			r.Post("/notify/{channel}", notifyHandler.Notify)
		})

		r.Get("/deliveries", notifyHandler.Deliveries)
	})

	return r
}
