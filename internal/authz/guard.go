package authz

import (
	"context"
	"errors"

	"github.com/meridian-pm/meridian/internal/shared"
)

// Reason strings carried on denials. The HTTP layer maps them to
// status codes; the engine itself knows nothing about HTTP.
const (
	ReasonNotAuthenticated        = "not authenticated"
	ReasonInsufficientPermissions = "insufficient permissions"
	ReasonNoProjectAccess         = "no project access"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	Subject *Subject
	Reason  string
}

// CanAccessProject decides whether the subject may see a project at
// all. Distinct from capability checks: visibility is a precondition
// for any other project-scoped action.
func CanAccessProject(role Role, projectRole *ProjectRole, isProjectOwner bool) bool {
	switch role {
	case RoleOwner, RoleAdmin:
		return true
	case RoleManager, RoleUser:
		return projectRole != nil || isProjectOwner
	default:
		return false
	}
}

// CombineMode selects how a capability list is evaluated.
type CombineMode int

const (
	// CombineAll requires every capability.
	CombineAll CombineMode = iota
	// CombineAny requires at least one.
	CombineAny
)

// Guard is a reusable resolve-then-evaluate composition point so call
// sites never duplicate the sequence. Guards carry no business logic.
type Guard struct {
	Resolver     *Resolver
	Capabilities []Capability
	Mode         CombineMode

	// ProjectID > 0 scopes the check: the subject is resolved against
	// the project and must pass CanAccessProject before any capability
	// is consulted.
	ProjectID int64
}

// Check resolves the subject and evaluates the guard. Resolution
// failures are fail-closed denials.
func (g Guard) Check(ctx context.Context, userID int64) (Decision, error) {
	subject, err := g.Resolver.Resolve(ctx, userID, g.ProjectID)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return Decision{Allowed: false, Reason: ReasonNotAuthenticated}, err
		}
		return Decision{Allowed: false, Reason: ReasonInsufficientPermissions}, err
	}

	if g.ProjectID > 0 {
		project, err := g.Resolver.Project(ctx, g.ProjectID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return Decision{Allowed: false, Subject: subject, Reason: ReasonNoProjectAccess}, nil
			}
			return Decision{Allowed: false, Reason: ReasonInsufficientPermissions}, err
		}
		// A project in another company is indistinguishable from an
		// absent one, whatever the tenant role.
		if project.CompanyID != subject.CompanyID {
			return Decision{Allowed: false, Subject: subject, Reason: ReasonNoProjectAccess}, nil
		}
		if !CanAccessProject(subject.Role, subject.ProjectRole, subject.IsProjectOwner) {
			return Decision{Allowed: false, Subject: subject, Reason: ReasonNoProjectAccess}, nil
		}
	}

	var ok bool
	switch g.Mode {
	case CombineAny:
		ok = HasAny(*subject, g.Capabilities...)
	default:
		ok = HasAll(*subject, g.Capabilities...)
	}
	if !ok {
		return Decision{Allowed: false, Subject: subject, Reason: ReasonInsufficientPermissions}, nil
	}
	return Decision{Allowed: true, Subject: subject}, nil
}
