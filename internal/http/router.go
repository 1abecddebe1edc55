package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rental-backend/internal/handlers"
	"rental-backend/internal/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Product   *handlers.ProductHandler
	Rental    *handlers.RentalHandler
	Template  *handlers.TemplateHandler
	Dashboard *handlers.DashboardHandler
	Health    *handlers.HealthHandler
}

// NewRouter registers every route. limiter may be nil.
func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Operations
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API routes sit on the root router: a PathPrefix subrouter turns a
	// method mismatch into 404.
	limit := func(h http.Handler) http.Handler {
		if limiter == nil {
			return h
		}
		return limiter.Handler(h)
	}
	api := func(path string, h http.Handler, methods ...string) {
		r.Handle("/api"+path, limit(h)).Methods(methods...)
	}
	public := func(f http.HandlerFunc) http.Handler { return f }
	authed := func(f http.HandlerFunc) http.Handler { return authMiddleware.Authenticate(f) }
	admin := func(f http.HandlerFunc) http.Handler { return authMiddleware.RequireAdmin(f) }

	// Auth
	api("/auth/login", public(h.Auth.Login), "POST")
	api("/auth/register", public(h.Auth.Register), "POST")
	api("/auth/me", authed(h.Auth.Me), "GET")

	// Products - reads public, writes admin
	api("/products", public(h.Product.ListProducts), "GET")
	api("/products/{id:[0-9]+}", public(h.Product.GetProduct), "GET")
	api("/products", admin(h.Product.CreateProduct), "POST")
	api("/products/{id:[0-9]+}", admin(h.Product.UpdateProduct), "PUT")
	api("/products/{id:[0-9]+}", admin(h.Product.DeleteProduct), "DELETE")

	// Rentals - booking form and agreement page are public
	api("/rentals", public(h.Rental.CreateRental), "POST")
	api("/agreements/{reference}", public(h.Rental.GetAgreement), "GET")
	api("/rentals", authed(h.Rental.ListRentals), "GET")
	api("/rentals/export", authed(h.Rental.ExportRentals), "GET")
	api("/rentals/{id:[0-9]+}", authed(h.Rental.GetRental), "GET")
	api("/rentals/{id:[0-9]+}/extend", authed(h.Rental.ExtendRental), "PUT")
	api("/rentals/{id:[0-9]+}", admin(h.Rental.DeleteRental), "DELETE")

	// Agreement template
	api("/templates", authed(h.Template.GetTemplate), "GET")
	api("/templates", admin(h.Template.SaveTemplate), "PUT", "POST")
	api("/templates/tokens", authed(h.Template.Tokens), "GET")
	api("/templates/preview", admin(h.Template.Preview), "POST")

	// Users - admin, except changing one's own password
	api("/users", admin(h.User.ListUsers), "GET")
	api("/users", admin(h.User.CreateUser), "POST")
	api("/users/{id:[0-9]+}/password", authed(h.User.ChangePassword), "PUT")
	api("/users/{id:[0-9]+}", admin(h.User.DeleteUser), "DELETE")

	// Dashboard
	api("/dashboard/stats", authed(h.Dashboard.Stats), "GET")

	return r
}

// Wrap adds the outermost middleware, which also runs for unmatched routes
func Wrap(router http.Handler, cors func(http.Handler) http.Handler) http.Handler {
	h := router
	if cors != nil {
		h = cors(h)
	}
	h = middleware.PanicRecovery(h)
	return middleware.NewRequestLogger().Handler(h)
}
