package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "healthconsultant/docs"
	"healthconsultant/internal/delivery/http/controllers"
	"healthconsultant/internal/delivery/http/middleware"
	"healthconsultant/internal/delivery/http/views"
)

// RouterConfig carries the controllers and middleware settings for NewRouter.
type RouterConfig struct {
	Logger             *slog.Logger
	Pages              *controllers.PageController
	API                *controllers.APIController
	SummaryLimiter     *middleware.RateLimiter
	CORSAllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.NotFound(cfg.Pages.NotFound)

	// HTML pages
	r.Get("/", cfg.Pages.Home)
	r.Get("/patients", cfg.Pages.ListPatients)
	r.Get("/patients/new", cfg.Pages.NewPatientForm)
	r.Post("/patients", cfg.Pages.CreatePatient)
	r.Get("/consultations", cfg.Pages.ListConsultations)
	r.Get("/consultations/new", cfg.Pages.NewConsultationForm)
	r.Post("/consultations", cfg.Pages.CreateConsultation)
	r.With(cfg.SummaryLimiter.Middleware).Post("/consultations/{id}/generate-summary", cfg.Pages.GenerateSummary)
	r.Handle("/static/*", views.StaticHandler("/static/"))

	// JSON API
	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.CORS(cfg.CORSAllowedOrigins))
		api.Get("/patients", cfg.API.ListPatients)
		api.Post("/patients", cfg.API.CreatePatient)
		api.Get("/patients/directory", cfg.API.PatientDirectory)
		api.Get("/consultations", cfg.API.ListConsultations)
		api.Post("/consultations", cfg.API.CreateConsultation)
		api.Get("/consultations/{id}", cfg.API.GetConsultation)
		api.With(cfg.SummaryLimiter.Middleware).Post("/consultations/{id}/generate-summary", cfg.API.GenerateSummary)
		api.Get("/consultations/{id}/summary", cfg.API.SummaryStatus)
	})

	// Ops
	r.Get("/health", cfg.API.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
