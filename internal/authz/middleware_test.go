package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pm/meridian/internal/shared"
)

func newSessionContext(t *testing.T, userID string) context.Context {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(context.Background(), req)
	require.NoError(t, err)
	if userID != "" {
		sess.SetUser(userID)
	}
	return shared.ContextWithSession(context.Background(), sess)
}

type decisionRecorder struct {
	allowed []bool
	reasons []string
}

func (d *decisionRecorder) ObserveAuthzDecision(allowed bool, reason string) {
	d.allowed = append(d.allowed, allowed)
	d.reasons = append(d.reasons, reason)
}

func TestMiddlewareRequireAllowed(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{
		1: {ID: 1, CompanyID: 2, Role: RoleAdmin},
	}}, nil)
	recorder := &decisionRecorder{}
	mw := Middleware{Resolver: resolver, Decisions: recorder}

	var captured *Subject
	handler := mw.Require(CapCreateProjects)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/projects", nil)
	req = req.WithContext(newSessionContext(t, "1"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNoContent, res.Code)
	require.NotNil(t, captured)
	assert.Equal(t, RoleAdmin, captured.Role)
	require.Len(t, recorder.allowed, 1)
	assert.True(t, recorder.allowed[0])
}

func TestMiddlewareNoSessionUserIsUnauthorized(t *testing.T) {
	resolver := newTestResolver(nil, nil)
	mw := Middleware{Resolver: resolver}

	handler := mw.Require(CapViewProjects)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req = req.WithContext(newSessionContext(t, ""))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), ReasonNotAuthenticated)
}

func TestMiddlewareInsufficientPermissionsIsForbidden(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{users: map[int64]*UserRecord{
		1: {ID: 1, CompanyID: 2, Role: RoleUser},
	}}, nil)
	recorder := &decisionRecorder{}
	mw := Middleware{Resolver: resolver, Decisions: recorder}

	handler := mw.Require(CapCreateProjects)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/projects", nil)
	req = req.WithContext(newSessionContext(t, "1"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Contains(t, res.Body.String(), ReasonInsufficientPermissions)
	require.Len(t, recorder.reasons, 1)
	assert.Equal(t, ReasonInsufficientPermissions, recorder.reasons[0])
}

func TestMiddlewareRequireProjectDeniesNonMember(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{1: {ID: 1, CompanyID: 2, Role: RoleUser}}},
		&stubMembershipStore{
			memberships: map[int64]*MembershipRecord{},
			projects:    map[int64]*ProjectRecord{5: {CompanyID: 2, CreatorID: 8}},
		},
	)
	mw := Middleware{Resolver: resolver}

	router := chi.NewRouter()
	router.With(mw.RequireProject(CapViewTasks)).Get("/projects/{projectID}/tasks", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/projects/5/tasks", nil)
	req = req.WithContext(newSessionContext(t, "1"))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Contains(t, res.Body.String(), ReasonNoProjectAccess)
}

func TestMiddlewareRequireProjectAllowsMember(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{1: {ID: 1, CompanyID: 2, Role: RoleUser}}},
		&stubMembershipStore{
			memberships: map[int64]*MembershipRecord{
				5: {ProjectRole: ProjectRoleMember, ProjectCreatorID: 8},
			},
			projects: map[int64]*ProjectRecord{5: {CompanyID: 2, CreatorID: 8}},
		},
	)
	mw := Middleware{Resolver: resolver}

	router := chi.NewRouter()
	router.With(mw.RequireProject(CapViewTasks)).Get("/projects/{projectID}/tasks", func(w http.ResponseWriter, r *http.Request) {
		subject := SubjectFromContext(r.Context())
		require.NotNil(t, subject)
		assert.Equal(t, ProjectRoleMember, *subject.ProjectRole)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/projects/5/tasks", nil)
	req = req.WithContext(newSessionContext(t, "1"))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

// An admin of one company must not reach write routes of another
// company's project just by knowing its id.
func TestMiddlewareRequireProjectDeniesForeignCompanyAdmin(t *testing.T) {
	resolver := newTestResolver(
		&stubUserStore{users: map[int64]*UserRecord{1: {ID: 1, CompanyID: 2, Role: RoleAdmin}}},
		&stubMembershipStore{
			memberships: map[int64]*MembershipRecord{},
			projects:    map[int64]*ProjectRecord{5: {CompanyID: 1, CreatorID: 8}},
		},
	)
	mw := Middleware{Resolver: resolver}

	router := chi.NewRouter()
	router.With(mw.RequireProject(CapEditProjects)).Put("/projects/{projectID}", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodPut, "/projects/5", nil)
	req = req.WithContext(newSessionContext(t, "1"))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Contains(t, res.Body.String(), ReasonNoProjectAccess)
}

func TestMiddlewareStoreFailureIsInternalError(t *testing.T) {
	resolver := newTestResolver(&stubUserStore{err: assert.AnError}, nil)
	mw := Middleware{Resolver: resolver}

	handler := mw.Require(CapViewProjects)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req = req.WithContext(newSessionContext(t, "1"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
}
