package routes

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"TODO_WEB-APP/internal/handlers"
	"TODO_WEB-APP/internal/middleware"
	"TODO_WEB-APP/internal/session"
)

// Handlers groups the handlers the router dispatches to
type Handlers struct {
	Auth   *handlers.AuthHandler
	Tasks  *handlers.TasksHandler
	Health *handlers.HealthHandler

	// Google is nil when Google login is not configured
	Google *handlers.GoogleAuthHandler
}

// SetupRoutes configures all application routes
func SetupRoutes(mux *http.ServeMux, h Handlers) {
	// Health check routes
	mux.HandleFunc("GET /healthz", h.Health.HealthCheck)
	mux.HandleFunc("GET /livez", h.Health.LivenessCheck)
	mux.HandleFunc("GET /readyz", h.Health.ReadinessCheck)

	// Authentication routes
	mux.HandleFunc("GET /{$}", h.Auth.Index)
	mux.HandleFunc("GET /signup", h.Auth.SignupForm)
	mux.HandleFunc("POST /signup", h.Auth.Signup)
	mux.HandleFunc("POST /login", h.Auth.Login)
	mux.HandleFunc("GET /logout", h.Auth.Logout)

	if h.Google != nil {
		mux.HandleFunc("GET /auth/google/login", h.Google.GoogleLogin)
		mux.HandleFunc("GET /auth/google/callback", h.Google.GoogleCallback)
	}

	// Task routes
	mux.HandleFunc("GET /dashboard", middleware.RequireSession(h.Tasks.Dashboard))
	mux.HandleFunc("POST /add", middleware.RequireSession(h.Tasks.AddTask))
	mux.HandleFunc("POST /done/{taskId}", middleware.RequireSession(h.Tasks.MarkDone))
	mux.HandleFunc("POST /pending/{taskId}", middleware.RequireSession(h.Tasks.MarkPending))
	mux.HandleFunc("POST /delete/{taskId}", middleware.RequireSession(h.Tasks.DeleteTask))

	// API docs
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
}

// NewRouter builds the application handler: routes behind the session
// loader and the request logger.
func NewRouter(h Handlers, sessions *session.Manager, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	SetupRoutes(mux, h)

	var handler http.Handler = mux
	handler = middleware.LoadSession(sessions, logger)(handler)
	handler = middleware.RequestLogger(logger)(handler)
	return handler
}
