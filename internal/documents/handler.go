package documents

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

// Handler manages document endpoints nested under a project.
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

// MountRoutes registers document routes under /projects/{projectID}/documents.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireProject(authz.CapViewDocuments)).Get("/", h.listDocuments)
	r.With(h.guard.RequireProject(authz.CapViewDocuments)).Get("/{documentID}", h.getDocument)
	r.With(h.guard.RequireProject(authz.CapCreateDocuments)).Post("/", h.createDocument)
	r.With(h.guard.RequireProject(authz.CapEditDocuments)).Put("/{documentID}", h.renameDocument)
	r.With(h.guard.RequireProject(authz.CapShareDocuments)).Put("/{documentID}/share", h.shareDocument)
	r.With(h.guard.RequireProject(authz.CapDeleteDocuments)).Delete("/{documentID}", h.deleteDocument)
}

type documentResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StorageKey  string    `json:"storageKey"`
	ContentType string    `json:"contentType"`
	Shared      bool      `json:"shared"`
	CreatorID   int64     `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toDocumentResponse(d Document) documentResponse {
	return documentResponse{
		ID:          d.ID,
		Name:        d.Name,
		StorageKey:  d.StorageKey,
		ContentType: d.ContentType,
		Shared:      d.Shared,
		CreatorID:   d.CreatorID,
		CreatedAt:   d.CreatedAt,
	}
}

func params(r *http.Request) (projectID, documentID int64) {
	projectID, _ = strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	documentID, _ = strconv.ParseInt(chi.URLParam(r, "documentID"), 10, 64)
	return projectID, documentID
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	projectID, _ := params(r)
	list, err := h.service.ListDocuments(r.Context(), *subject, projectID)
	if err != nil {
		h.logger.Error("list documents", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]documentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDocumentResponse(d))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"documents": out})
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	projectID, documentID := params(r)
	doc, err := h.service.GetDocument(r.Context(), projectID, documentID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toDocumentResponse(*doc))
}

type createDocumentRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
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
	doc, err := h.service.CreateDocument(r.Context(), *subject, projectID, req.Name, req.ContentType)
	if err != nil {
		h.logger.Error("create document", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toDocumentResponse(*doc))
}

type renameDocumentRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (h *Handler) renameDocument(w http.ResponseWriter, r *http.Request) {
	var req renameDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	projectID, documentID := params(r)
	if err := h.service.RenameDocument(r.Context(), projectID, documentID, req.Name); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type shareDocumentRequest struct {
	Shared bool `json:"shared"`
}

func (h *Handler) shareDocument(w http.ResponseWriter, r *http.Request) {
	var req shareDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	projectID, documentID := params(r)
	if err := h.service.ShareDocument(r.Context(), projectID, documentID, req.Shared); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	projectID, documentID := params(r)
	if err := h.service.DeleteDocument(r.Context(), projectID, documentID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
