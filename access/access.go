// Package access decides whether a principal may perform a protected operation.
// Decisions are pure: no I/O, and principals are never modified.
package access

import (
	"fmt"

	"churchcms/models"
)

// Role is one of the closed set of user roles.
type Role string

const (
	Admin  Role = models.RoleAdmin
	Editor Role = models.RoleEditor
	Pastor Role = models.RolePastor
	Viewer Role = models.RoleViewer
)

// ParseRole rejects anything outside the known role set.
func ParseRole(s string) (Role, error) {
	if !models.IsValidRole(s) {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return Role(s), nil
}

// Principal is the authenticated identity behind a request. A nil *Principal
// means no one is signed in.
type Principal struct {
	UserID      string `json:"id"`
	Role        Role   `json:"role"`
	IsMainAdmin bool   `json:"isMainAdmin"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
}

// Requirement is what an operation demands of its caller: membership in a role set,
// or the main admin.
type Requirement struct {
	roles         map[Role]struct{}
	mainAdminOnly bool
}

// Roles admits principals holding any of roles. With no roles only the main admin passes.
func Roles(roles ...Role) Requirement {
	set := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return Requirement{roles: set}
}

// MainAdminOnly admits only the main admin.
func MainAdminOnly() Requirement {
	return Requirement{mainAdminOnly: true}
}

func (r Requirement) MainAdminOnly() bool { return r.mainAdminOnly }

// Allows reports whether role is in the requirement's role set.
func (r Requirement) Allows(role Role) bool {
	_, ok := r.roles[role]
	return ok
}

func (r Requirement) String() string {
	if r.mainAdminOnly {
		return "main-admin-only"
	}
	return fmt.Sprintf("roles%v", r.roleList())
}

func (r Requirement) roleList() []Role {
	out := make([]Role, 0, len(r.roles))
	for _, role := range []Role{Admin, Editor, Pastor, Viewer} {
		if r.Allows(role) {
			out = append(out, role)
		}
	}
	return out
}

// Outcome of a Decide call.
type Outcome int

const (
	Allowed Outcome = iota
	DeniedUnauthenticated
	DeniedForbidden
)

type Decision struct {
	Outcome Outcome
}

var (
	Allow           = Decision{Outcome: Allowed}
	Unauthenticated = Decision{Outcome: DeniedUnauthenticated}
	Forbidden       = Decision{Outcome: DeniedForbidden}
)

func (d Decision) Allowed() bool { return d.Outcome == Allowed }

// Err converts a denial into the application's error taxonomy; nil when allowed.
func (d Decision) Err() error {
	switch d.Outcome {
	case DeniedUnauthenticated:
		return models.NewUnauthenticatedError("authentication required")
	case DeniedForbidden:
		return models.NewForbiddenError("insufficient permissions")
	}
	return nil
}

// Decide evaluates p against req. The main admin passes every requirement.
func Decide(p *Principal, req Requirement) Decision {
	if p == nil {
		return Unauthenticated
	}
	if p.IsMainAdmin {
		return Allow
	}
	if req.mainAdminOnly {
		return Forbidden
	}
	if req.Allows(p.Role) {
		return Allow
	}
	return Forbidden
}
