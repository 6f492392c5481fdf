package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-pm/meridian/internal/auth"
	"github.com/meridian-pm/meridian/internal/documents"
	"github.com/meridian-pm/meridian/internal/finance"
	"github.com/meridian-pm/meridian/internal/observability"
	"github.com/meridian-pm/meridian/internal/projects"
	"github.com/meridian-pm/meridian/internal/reports"
	"github.com/meridian-pm/meridian/internal/shared"
	"github.com/meridian-pm/meridian/internal/tasks"
	"github.com/meridian-pm/meridian/internal/users"
	"github.com/meridian-pm/meridian/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler      *auth.Handler
	UsersHandler     *users.Handler
	ProjectsHandler  *projects.Handler
	TasksHandler     *tasks.Handler
	DocumentsHandler *documents.Handler
	FinanceHandler   *finance.Handler
	ReportsHandler   *reports.Handler
	JobHandler       *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	if params.ProjectsHandler != nil {
		r.Route("/projects", func(r chi.Router) {
			params.ProjectsHandler.MountRoutes(r, func(r chi.Router) {
				if params.TasksHandler != nil {
					r.Route("/tasks", params.TasksHandler.MountRoutes)
				}
				if params.DocumentsHandler != nil {
					r.Route("/documents", params.DocumentsHandler.MountRoutes)
				}
				if params.FinanceHandler != nil {
					r.Route("/finance", params.FinanceHandler.MountRoutes)
				}
				if params.ReportsHandler != nil {
					r.Route("/reports", params.ReportsHandler.MountRoutes)
				}
			})
		})
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
