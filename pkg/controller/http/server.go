package http

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/sirico/pkg/usecase"
)

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	enableSentry  bool
	enableMetrics bool
}

type Options func(*Server)

// WithSentry installs the Sentry hub middleware so that handler errors are
// reported with request context
func WithSentry(enabled bool) Options {
	return func(s *Server) {
		s.enableSentry = enabled
	}
}

// WithMetrics exposes the Prometheus registry at /metrics
func WithMetrics(enabled bool) Options {
	return func(s *Server) {
		s.enableMetrics = enabled
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		enableMetrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if s.enableSentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(metricsRecorder)
		r.Use(middleware.AllowContentType("application/json"))

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", listTemplatesHandler(uc.Template))
			r.Post("/", saveTemplateHandler(uc.Template))
			r.Get("/{id}", getTemplateHandler(uc.Template))
			r.Put("/{id}", updateTemplateHandler(uc.Template))
			r.Delete("/{id}", deleteTemplateHandler(uc.Template))
		})

		r.Post("/score", scoreHandler(uc.Template))

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", listAssessmentsHandler(uc.Assessment))
			r.Post("/", createAssessmentHandler(uc.Assessment))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", getAssessmentHandler(uc.Assessment))
				r.Delete("/", deleteAssessmentHandler(uc.Assessment))
				r.Put("/template", rebindTemplateHandler(uc.Assessment))
				r.Post("/recompute", recomputeAssessmentHandler(uc.RiskEntry))
				r.Get("/matrix", exportMatrixHandler(uc.Matrix))

				r.Get("/objectives", listObjectivesHandler(uc.Objective))
				r.Post("/objectives", createObjectiveHandler(uc.Objective))

				r.Get("/entries", listEntriesHandler(uc.RiskEntry))
				r.Post("/entries", createEntryHandler(uc.RiskEntry))

				r.Get("/narratives", listNarrativesHandler(uc.Narrative))
				if uc.Narrative.Enabled() {
					r.Post("/narratives", generateNarrativeHandler(uc.Narrative))
				}
			})
		})

		r.Route("/objectives/{id}", func(r chi.Router) {
			r.Get("/", getObjectiveHandler(uc.Objective))
			r.Put("/", updateObjectiveHandler(uc.Objective))
			r.Delete("/", deleteObjectiveHandler(uc.Objective))
			r.Post("/rollup", recomputeRollupHandler(uc.RiskEntry))
		})

		r.Route("/entries/{id}", func(r chi.Router) {
			r.Get("/", getEntryHandler(uc.RiskEntry))
			r.Put("/", updateEntryHandler(uc.RiskEntry))
			r.Delete("/", deleteEntryHandler(uc.RiskEntry))
		})

		r.Get("/narratives/{narrativeID}", getNarrativeHandler(uc.Narrative))
	})

	if s.enableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
