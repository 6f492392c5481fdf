package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridian-pm/meridian/internal/shared"
)

// Error taxonomy for subject resolution. Evaluation itself never
// errors; only the two external lookups can.
var (
	// ErrUnauthenticated means no valid identity, or the identity no
	// longer maps to a user record. Terminal for the request.
	ErrUnauthenticated = errors.New("authz: unauthenticated")
	// ErrResolutionFailure means a store lookup failed. Fail-closed:
	// the decision for the failed attempt is denied, never unknown.
	ErrResolutionFailure = errors.New("authz: resolution failure")
)

// UserRecord is the slice of the user store the resolver needs.
type UserRecord struct {
	ID        int64
	CompanyID int64
	Role      Role
}

// MembershipRecord is a (project, user) membership row.
type MembershipRecord struct {
	ProjectRole      ProjectRole
	ProjectCreatorID int64
}

// ProjectRecord is the slice of the project store the guards need to
// hold the tenant boundary on project-scoped checks.
type ProjectRecord struct {
	CompanyID int64
	CreatorID int64
}

// UserStore loads tenant role and company for a user id. A missing
// user is reported with shared.ErrNotFound.
type UserStore interface {
	FindUser(ctx context.Context, userID int64) (*UserRecord, error)
}

// MembershipStore loads the membership row for (projectID, userID)
// and the tenant facts of a project. Missing rows are reported with
// shared.ErrNotFound.
type MembershipStore interface {
	FindMembership(ctx context.Context, projectID, userID int64) (*MembershipRecord, error)
	FindProject(ctx context.Context, projectID int64) (*ProjectRecord, error)
}

// Resolver builds Subject values from the external stores. It holds
// no per-request state and is safe for concurrent use.
type Resolver struct {
	users       UserStore
	memberships MembershipStore
}

// NewResolver constructs a Resolver.
func NewResolver(users UserStore, memberships MembershipStore) *Resolver {
	return &Resolver{users: users, memberships: memberships}
}

// Resolve establishes the authorization facts for userID. When
// projectID > 0 the membership store is consulted as well; a missing
// membership leaves the subject without a project role and is not an
// error. Resolve never decides "forbidden"; that is the guards' job.
func (r *Resolver) Resolve(ctx context.Context, userID int64, projectID int64) (*Subject, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	user, err := r.users.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Deleted account with a live session: unauthenticated,
			// not forbidden.
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrResolutionFailure, err)
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("%w: user %d has unknown role %q", ErrResolutionFailure, userID, user.Role)
	}

	subject := &Subject{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
	}
	if projectID <= 0 {
		return subject, nil
	}

	membership, err := r.memberships.FindMembership(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return subject, nil
		}
		return nil, fmt.Errorf("%w: find membership: %v", ErrResolutionFailure, err)
	}
	pr := membership.ProjectRole
	subject.ProjectRole = &pr
	subject.IsProjectOwner = membership.ProjectCreatorID == userID
	return subject, nil
}

// Project loads the tenant facts for a project. A missing project is
// reported with shared.ErrNotFound; any other store failure is a
// resolution failure and fails closed.
func (r *Resolver) Project(ctx context.Context, projectID int64) (*ProjectRecord, error) {
	record, err := r.memberships.FindProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: find project: %v", ErrResolutionFailure, err)
	}
	return record, nil
}
