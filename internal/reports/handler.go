package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/finance"
	"github.com/meridian-pm/meridian/internal/platform/httpx"
)

// Handler manages report endpoints nested under a project.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers report routes under /projects/{projectID}/reports.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireProject(authz.CapViewReports)).Get("/status", h.statusReport)
	r.With(h.guard.RequireProject(authz.CapGenerateReports)).Post("/status/pdf", h.statusReportPDF)
}

type statusReportResponse struct {
	ProjectName string    `json:"projectName"`
	Status      string    `json:"status"`
	GeneratedAt time.Time `json:"generatedAt"`
	MemberCount int       `json:"memberCount"`
	Tasks       struct {
		Total int `json:"total"`
		Open  int `json:"open"`
		Done  int `json:"done"`
	} `json:"tasks"`
	Finance struct {
		Income  string `json:"income"`
		Expense string `json:"expense"`
		Balance string `json:"balance"`
	} `json:"finance"`
}

func toStatusResponse(rep *StatusReport) statusReportResponse {
	var out statusReportResponse
	out.ProjectName = rep.ProjectName
	out.Status = rep.Status
	out.GeneratedAt = rep.GeneratedAt
	out.MemberCount = rep.MemberCount
	out.Tasks.Total = rep.TasksTotal
	out.Tasks.Open = rep.TasksOpen
	out.Tasks.Done = rep.TasksDone
	out.Finance.Income = finance.FormatAmount(rep.IncomeCents)
	out.Finance.Expense = finance.FormatAmount(rep.ExpenseCents)
	out.Finance.Balance = finance.FormatAmount(rep.BalanceCents)
	return out
}

func (h *Handler) statusReport(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	projectID, _ := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	rep, err := h.service.StatusReport(r.Context(), *subject, projectID)
	if err != nil {
		h.logger.Error("build status report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toStatusResponse(rep))
}

func (h *Handler) statusReportPDF(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	projectID, _ := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	rep, err := h.service.StatusReport(r.Context(), *subject, projectID)
	if err != nil {
		h.logger.Error("build status report", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.service.RenderPDF(r.Context(), rep)
	if err != nil {
		h.logger.Error("render status report pdf", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "report rendering is unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=status.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
