package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pm/meridian/internal/platform/httpx"
	"github.com/meridian-pm/meridian/internal/shared"
)

// SubjectFromContext returns the subject attached by the middleware,
// or nil when the request did not pass through a guard.
func SubjectFromContext(ctx context.Context) *Subject {
	subject, _ := shared.SubjectFromContext(ctx).(*Subject)
	return subject
}

// DecisionObserver receives every guard outcome, allowed or denied.
// Satisfied by observability.Metrics.
type DecisionObserver interface {
	ObserveAuthzDecision(allowed bool, reason string)
}

// Middleware wires authorization guards into HTTP handlers. The
// current user id comes from the redis-backed session.
type Middleware struct {
	Resolver  *Resolver
	Logger    *slog.Logger
	Decisions DecisionObserver
}

// Require ensures the current user holds all listed capabilities.
func (m Middleware) Require(caps ...Capability) func(http.Handler) http.Handler {
	return m.guard(CombineAll, false, caps)
}

// RequireAny ensures the current user holds at least one capability.
func (m Middleware) RequireAny(caps ...Capability) func(http.Handler) http.Handler {
	return m.guard(CombineAny, false, caps)
}

// RequireProject scopes the check to the {projectID} route parameter:
// the subject is resolved with its project role and must pass the
// project access check before capabilities are evaluated.
func (m Middleware) RequireProject(caps ...Capability) func(http.Handler) http.Handler {
	return m.guard(CombineAll, true, caps)
}

func (m Middleware) guard(mode CombineMode, projectScoped bool, caps []Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := m.currentUserID(r)
			if !ok {
				m.deny(w, Decision{Reason: ReasonNotAuthenticated})
				return
			}

			var projectID int64
			if projectScoped {
				raw := chi.URLParam(r, "projectID")
				id, err := strconv.ParseInt(raw, 10, 64)
				if err != nil || id <= 0 {
					httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown project")
					return
				}
				projectID = id
			}

			g := Guard{Resolver: m.Resolver, Capabilities: caps, Mode: mode, ProjectID: projectID}
			decision, err := g.Check(r.Context(), userID)
			if err != nil && !errors.Is(err, ErrUnauthenticated) {
				if m.Logger != nil {
					m.Logger.Error("authz resolve", slog.Any("error", err))
				}
				m.observe(decision)
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			m.observe(decision)
			if !decision.Allowed {
				m.deny(w, decision)
				return
			}

			ctx := shared.ContextWithSubject(r.Context(), decision.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, decision Decision) {
	if decision.Reason == ReasonNotAuthenticated {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", decision.Reason)
		return
	}
	httpx.Problem(w, http.StatusForbidden, "Forbidden", decision.Reason)
}

func (m Middleware) observe(decision Decision) {
	if m.Decisions == nil {
		return
	}
	m.Decisions.ObserveAuthzDecision(decision.Allowed, decision.Reason)
}

func (m Middleware) currentUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz parse user id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}
