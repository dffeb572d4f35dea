package http

import (
	"context"
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"

	_ "eventhub/docs"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterDeps holds everything the router wires together.
type RouterDeps struct {
	Logger          *slog.Logger
	Verifier        domain.TokenVerifier
	Users           *controllers.UserController
	Events          *controllers.EventController
	AuthRateLimiter *middleware.RateLimiter
	AllowedOrigins  []string
	// Health reports storage reachability for /healthz. Nil means always healthy.
	Health func(ctx context.Context) error
}

// NewRouter initializes the HTTP router with all application routes and wraps
// it with metrics, request logging and CORS.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(d.Verifier, d.Logger)
	organizer := middleware.RequireRole(domain.RoleOrganizer, d.Logger)
	limiter := d.AuthRateLimiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(0, d.Logger)
	}
	limit := limiter.Limit

	// Users
	mux.HandleFunc("POST /users/register", limit(d.Users.Register))
	mux.HandleFunc("POST /users/login", limit(d.Users.Login))

	// Events
	mux.HandleFunc("GET /events", auth(d.Events.ListEvents))
	mux.HandleFunc("GET /events/{id}", auth(d.Events.GetEvent))
	mux.HandleFunc("POST /events", auth(organizer(d.Events.CreateEvent)))
	mux.HandleFunc("PATCH /events/{id}", auth(organizer(d.Events.UpdateEvent)))
	mux.HandleFunc("DELETE /events/{id}", auth(organizer(d.Events.DeleteEvent)))
	mux.HandleFunc("POST /events/{id}/register", auth(d.Events.RegisterForEvent))

	// Operations
	mux.HandleFunc("GET /healthz", healthHandler(d.Logger, d.Health))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	handler := middleware.CORS(d.AllowedOrigins, mux)
	handler = middleware.LoggingMiddleware(d.Logger, handler)
	return metrics.HTTPMiddleware(mux, handler)
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthHandler(logger *slog.Logger, check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "err", err)
				helpers.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		helpers.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}
