package tasks

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

// Handler manages task endpoints nested under a project.
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

// MountRoutes registers task routes under /projects/{projectID}/tasks.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RequireProject(authz.CapViewTasks)).Get("/", h.listTasks)
	r.With(h.guard.RequireProject(authz.CapCreateTasks)).Post("/", h.createTask)
	r.With(h.guard.RequireProject(authz.CapEditTasks)).Put("/{taskID}", h.updateTask)
	r.With(h.guard.RequireProject(authz.CapAssignTasks)).Put("/{taskID}/assignee", h.assignTask)
	r.With(h.guard.RequireProject(authz.CapDeleteTasks)).Delete("/{taskID}", h.deleteTask)
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatorID   int64      `json:"creatorId"`
	AssigneeID  int64      `json:"assigneeId,omitempty"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toTaskResponse(t Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatorID:   t.CreatorID,
		AssigneeID:  t.AssigneeID,
		DueAt:       t.DueAt,
		CreatedAt:   t.CreatedAt,
	}
}

func params(r *http.Request) (projectID, taskID int64) {
	projectID, _ = strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	taskID, _ = strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
	return projectID, taskID
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	projectID, _ := params(r)
	list, err := h.service.ListTasks(r.Context(), *subject, projectID)
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]taskResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTaskResponse(t))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": out})
}

type createTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	AssigneeID  int64      `json:"assigneeId"`
	DueAt       *time.Time `json:"dueAt"`
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
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
	task, err := h.service.CreateTask(r.Context(), *subject, projectID, Task{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		DueAt:       req.DueAt,
	})
	if err != nil {
		h.logger.Error("create task", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toTaskResponse(*task))
}

type updateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"required"`
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	projectID, taskID := params(r)
	task, err := h.service.UpdateTask(r.Context(), projectID, taskID, req.Title, req.Description, Status(req.Status))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(*task))
}

type assignTaskRequest struct {
	AssigneeID int64 `json:"assigneeId" validate:"gte=0"`
}

func (h *Handler) assignTask(w http.ResponseWriter, r *http.Request) {
	var req assignTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	projectID, taskID := params(r)
	if err := h.service.AssignTask(r.Context(), projectID, taskID, req.AssigneeID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	projectID, taskID := params(r)
	if err := h.service.DeleteTask(r.Context(), projectID, taskID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
