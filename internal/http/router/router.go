package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-delivery/internal/http/handlers"
	mw "service-delivery/internal/http/middleware"
	"service-delivery/internal/http/middleware/ratelimit"
	"service-delivery/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
func New(
	logger logx.Logger,
	rl *ratelimit.Middleware,
	base *handlers.Handlers,
	partners *handlers.PartnerHandler,
	assignments *handlers.AssignmentHandler,
	requests *handlers.RequestHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(5 * time.Second))
	r.Use(mw.Observability(logger))
	if rl != nil {
		r.Use(rl.Handler())
	}

	r.Get("/ping", base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(base.NotFound))

	r.Route("/partners", func(r chi.Router) {
		r.Post("/", partners.Create)
		r.Get("/", partners.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", partners.GetByID)
			r.Patch("/", partners.Update)
			r.Get("/orders/available", partners.AvailableOrders)
			r.Get("/statistics", partners.Statistics)
			r.Get("/assignments", assignments.ListByPartner)
			r.Get("/requests", requests.ListByPartner)
		})
	})

	r.Route("/assignments", func(r chi.Router) {
		r.Post("/", assignments.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", assignments.GetByID)
			r.Post("/transition", assignments.Transition)
		})
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", requests.Create)
		r.Post("/{id}/accept", requests.Accept)
	})

	return r
}
