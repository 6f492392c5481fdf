package users

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

// Handler manages user management endpoints.
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

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(authz.CapViewUsers))
		r.Get("/", h.listUsers)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(authz.CapCreateUsers))
		r.Post("/", h.createUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require(authz.CapChangeUserRoles))
		r.Put("/{userID}/role", h.changeRole)
	})
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	subject := authz.SubjectFromContext(r.Context())
	list, err := h.service.ListUsers(r.Context(), subject.CompanyID)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	pg := shared.NewPagination(page, perPage, len(list))

	start := (pg.Page - 1) * pg.PerPage
	if start > len(list) {
		start = len(list)
	}
	end := start + pg.PerPage
	if end > len(list) {
		end = len(list)
	}

	out := make([]userResponse, 0, end-start)
	for _, u := range list[start:end] {
		out = append(out, toUserResponse(u))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users": out,
		"pagination": map[string]int{
			"page":       pg.Page,
			"perPage":    pg.PerPage,
			"total":      pg.Total,
			"totalPages": pg.TotalPages,
		},
	})
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	subject := authz.SubjectFromContext(r.Context())
	user, err := h.service.CreateUser(r.Context(), subject.CompanyID, req.Email, req.Name, req.Password, authz.Role(req.Role))
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "email already registered")
			return
		}
		h.logger.Error("create user", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toUserResponse(*user))
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown user")
		return
	}
	var req changeRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	subject := authz.SubjectFromContext(r.Context())
	if err := h.service.ChangeRole(r.Context(), *subject, targetID, authz.Role(req.Role)); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown user")
		case errors.Is(err, ErrOwnRole):
			httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Operation", err.Error())
		default:
			h.logger.Error("change role", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
