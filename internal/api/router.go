package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/orgstack/orghub/internal/api/middleware"
	"github.com/orgstack/orghub/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	RootHandler   http.HandlerFunc
	HealthHandler http.HandlerFunc

	CreateOrganization http.HandlerFunc
	GetOrganization    http.HandlerFunc
	UpdateOrganization http.HandlerFunc
	DeleteOrganization http.HandlerFunc
	Login              http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit.Limit)
	}

	r.Get("/", orNotImplemented(deps.RootHandler))
	r.Get("/health", orNotImplemented(deps.HealthHandler))

	r.Post("/org/create", orNotImplemented(deps.CreateOrganization))
	r.Get("/org/get", orNotImplemented(deps.GetOrganization))
	r.Put("/org/update", orNotImplemented(deps.UpdateOrganization))
	r.Delete("/org/delete", orNotImplemented(deps.DeleteOrganization))

	r.Post("/admin/login", orNotImplemented(deps.Login))

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
