package finance

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/platform/httpx"
)

// Handler manages finance endpoints nested under a project.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	guard    authz.Middleware
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validate: validator.New()}
}

// MountRoutes registers finance routes under /projects/{projectID}/finance.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireProject(authz.CapViewFinances)).Get("/", h.listEntries)
	r.With(h.guard.RequireProject(authz.CapCreateFinanceEntries)).Post("/", h.createEntry)
	r.With(h.guard.RequireProject(authz.CapEditFinances)).Put("/{entryID}", h.updateEntry)
	r.With(h.guard.RequireProject(authz.CapDeleteFinanceEntries)).Delete("/{entryID}", h.deleteEntry)
	r.With(h.guard.RequireProject(authz.CapExportFinances)).Get("/export", h.exportEntries)
}

type entryResponse struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	AmountCents int64     `json:"amountCents"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	Description string    `json:"description"`
	CreatorID   int64     `json:"creatorId"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Kind:        string(e.Kind),
		AmountCents: e.AmountCents,
		Amount:      FormatAmount(e.AmountCents),
		Currency:    e.Currency,
		Description: e.Description,
		CreatorID:   e.CreatorID,
		OccurredAt:  e.OccurredAt,
	}
}

func params(r *http.Request) (projectID, entryID int64) {
	projectID, _ = strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	entryID, _ = strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	return projectID, entryID
}

func (h *Handler) listEntries(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	projectID, _ := params(r)
	list, sum, err := h.service.ListEntries(r.Context(), *subject, projectID)
	if err != nil {
		h.logger.Error("list finance entries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]entryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEntryResponse(e))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"entries": out,
		"summary": map[string]any{
			"income":  FormatAmount(sum.IncomeCents),
			"expense": FormatAmount(sum.ExpenseCents),
			"balance": FormatAmount(sum.BalanceCents()),
		},
	})
}

type createEntryRequest struct {
	Kind        string     `json:"kind" validate:"required,oneof=INCOME EXPENSE"`
	AmountCents int64      `json:"amountCents" validate:"required,gt=0"`
	Currency    string     `json:"currency" validate:"required,len=3"`
	Description string     `json:"description" validate:"max=500"`
	OccurredAt  *time.Time `json:"occurredAt"`
}

func (h *Handler) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	subject := authz.SubjectFromContext(r.Context())
	projectID, _ := params(r)
	entry := Entry{
		Kind:        Kind(req.Kind),
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Description: req.Description,
	}
	if req.OccurredAt != nil {
		entry.OccurredAt = *req.OccurredAt
	}
	created, err := h.service.CreateEntry(r.Context(), *subject, projectID, entry)
	if err != nil {
		h.logger.Error("create finance entry", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toEntryResponse(*created))
}

type updateEntryRequest struct {
	AmountCents int64     `json:"amountCents" validate:"required,gt=0"`
	Description string    `json:"description" validate:"max=500"`
	OccurredAt  time.Time `json:"occurredAt" validate:"required"`
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req updateEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	projectID, entryID := params(r)
	if err := h.service.UpdateEntry(r.Context(), projectID, entryID, req.AmountCents, req.Description, req.OccurredAt); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	projectID, entryID := params(r)
	if err := h.service.DeleteEntry(r.Context(), projectID, entryID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

func (h *Handler) exportEntries(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	projectID, _ := params(r)
	data, err := h.service.ExportCSV(r.Context(), *subject, projectID)
	if err != nil {
		h.logger.Error("export finance entries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="finance.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
