package projects

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-pm/meridian/internal/authz"
	"github.com/meridian-pm/meridian/internal/platform/httpx"
	"github.com/meridian-pm/meridian/internal/shared"
)

// Handler manages project endpoints.
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

// MountRoutes registers project routes. Project-scoped routes resolve
// the membership row and run the visibility check before any
// capability is consulted. Nested mount functions run inside the
// /{projectID} subtree so sibling modules (tasks, documents, finance,
// reports) can hang their routes off the same parameter.
func (h *Handler) MountRoutes(r chi.Router, nested ...func(chi.Router)) {
	r.With(h.guard.Require(authz.CapViewProjects)).Get("/", h.listProjects)
	r.With(h.guard.Require(authz.CapCreateProjects)).Post("/", h.createProject)

	r.Route("/{projectID}", func(r chi.Router) {
		r.With(h.guard.RequireProject(authz.CapViewProjects)).Get("/", h.getProject)
		r.With(h.guard.RequireProject(authz.CapEditProjects)).Put("/", h.updateProject)
		r.With(h.guard.RequireProject(authz.CapDeleteProjects)).Delete("/", h.deleteProject)
		r.With(h.guard.RequireProject(authz.CapArchiveProjects)).Post("/archive", h.archiveProject)
		r.With(h.guard.RequireProject(authz.CapEditProjectClientRequisites)).Put("/requisites", h.updateRequisites)

		r.With(h.guard.RequireProject()).Get("/permissions", h.permissionsSnapshot)

		r.Route("/members", func(r chi.Router) {
			r.With(h.guard.RequireProject(authz.CapViewProjects)).Get("/", h.listMembers)
			r.With(h.guard.RequireProject(authz.CapManageProjectMembers)).Post("/", h.addMember)
			r.With(h.guard.RequireProject(authz.CapManageProjectMembers)).Delete("/{userID}", h.removeMember)
		})

		for _, mount := range nested {
			mount(r)
		}
	})
}

type projectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatorID   int64     `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProjectResponse(p Project) projectResponse {
	return projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		CreatorID:   p.CreatorID,
		CreatedAt:   p.CreatedAt,
	}
}

func projectIDParam(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	return id
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	list, err := h.service.ListProjects(r.Context(), *subject)
	if err != nil {
		h.logger.Error("list projects", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]projectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"projects": out})
}

type createProjectRequest struct {
	Name             string `json:"name" validate:"required,max=200"`
	Description      string `json:"description"`
	ClientRequisites string `json:"clientRequisites"`
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	subject := authz.SubjectFromContext(r.Context())
	p, err := h.service.CreateProject(r.Context(), *subject, req.Name, req.Description, req.ClientRequisites)
	if err != nil {
		h.logger.Error("create project", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toProjectResponse(*p))
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	p, err := h.service.GetProject(r.Context(), *subject, projectIDParam(r))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown project")
			return
		}
		h.logger.Error("get project", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProjectResponse(*p))
}

type updateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	subject := authz.SubjectFromContext(r.Context())
	p, err := h.service.UpdateProject(r.Context(), *subject, projectIDParam(r), req.Name, req.Description)
	if err != nil {
		h.logger.Error("update project", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProjectResponse(*p))
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	if err := h.service.DeleteProject(r.Context(), *subject, projectIDParam(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

func (h *Handler) archiveProject(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	if err := h.service.ArchiveProject(r.Context(), *subject, projectIDParam(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "archived"})
}

type requisitesRequest struct {
	ClientRequisites string `json:"clientRequisites" validate:"required"`
}

func (h *Handler) updateRequisites(w http.ResponseWriter, r *http.Request) {
	var req requisitesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	subject := authz.SubjectFromContext(r.Context())
	if err := h.service.UpdateClientRequisites(r.Context(), *subject, projectIDParam(r), req.ClientRequisites); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// permissionsSnapshot exposes the subject's effective permissions for
// the project so the UI can decide what to render. Advisory only;
// every mutation is re-checked server-side.
func (h *Handler) permissionsSnapshot(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{
		"permissions": authz.Effective(*subject).Snapshot(),
	})
}

type memberResponse struct {
	UserID  int64     `json:"userId"`
	Role    string    `json:"role"`
	AddedAt time.Time `json:"addedAt"`
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), projectIDParam(r))
	if err != nil {
		h.logger.Error("list members", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, memberResponse{UserID: m.UserID, Role: string(m.Role), AddedAt: m.AddedAt})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"members": out})
}

type addMemberRequest struct {
	UserID int64  `json:"userId" validate:"required,gt=0"`
	Role   string `json:"role" validate:"required"`
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.AddMember(r.Context(), projectIDParam(r), req.UserID, authz.ProjectRole(req.Role)); err != nil {
		h.logger.Error("add member", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"status": "ok"})
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown member")
		return
	}
	if err := h.service.RemoveMember(r.Context(), projectIDParam(r), userID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "removed"})
}
