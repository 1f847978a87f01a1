package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/roadwatch/hazard-service/internal/domain"
	apperrors "github.com/roadwatch/hazard-service/pkg/util"
)

// Permission is an (object, action) pair checked by the policy.
type Permission struct {
	Object string
	Action string
	// Write marks mutating permissions, which blocked users never hold.
	Write bool
}

var (
	PermSubmitReport    = Permission{Object: "report", Action: "submit", Write: true}
	PermListOwnReports  = Permission{Object: "report", Action: "list_own"}
	PermListAllReports  = Permission{Object: "report", Action: "list_all"}
	PermModerateReport  = Permission{Object: "report", Action: "moderate", Write: true}
	PermListReportTypes = Permission{Object: "report_type", Action: "list"}
)

// authenticatedRole is the implicit role every signed-in user inherits.
const authenticatedRole = "AUTHENTICATED"

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Policy is the single authorization guard used by every service operation.
type Policy struct {
	enforcer *casbin.Enforcer
}

// NewPolicy builds the role policy. When adminCanModerate is set ADMIN inherits MODERATOR.
func NewPolicy(adminCanModerate bool) (*Policy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("build enforcer: %w", err)
	}

	policies := [][]string{
		{authenticatedRole, PermSubmitReport.Object, PermSubmitReport.Action},
		{authenticatedRole, PermListOwnReports.Object, PermListOwnReports.Action},
		{authenticatedRole, PermListReportTypes.Object, PermListReportTypes.Action},
		{string(domain.RoleModerator), PermListAllReports.Object, PermListAllReports.Action},
		{string(domain.RoleModerator), PermModerateReport.Object, PermModerateReport.Action},
	}
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", p, err)
		}
	}

	groupings := [][]string{
		{string(domain.RoleDriver), authenticatedRole},
		{string(domain.RoleModerator), authenticatedRole},
		{string(domain.RoleAdmin), authenticatedRole},
	}
	if adminCanModerate {
		groupings = append(groupings, []string{string(domain.RoleAdmin), string(domain.RoleModerator)})
	}
	for _, g := range groupings {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("add grouping %v: %w", g, err)
		}
	}

	return &Policy{enforcer: enforcer}, nil
}

// Authorize returns Unauthorized for a missing actor and Forbidden when the
// actor is blocked from writing or its role lacks perm.
func (p *Policy) Authorize(actor *domain.User, perm Permission) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if perm.Write && actor.Blocked {
		return apperrors.NewForbidden("account is blocked")
	}
	allowed, err := p.enforcer.Enforce(string(actor.Role), perm.Object, perm.Action)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !allowed {
		return apperrors.NewForbidden(fmt.Sprintf("role %s may not %s %s", actor.Role, perm.Action, perm.Object))
	}
	return nil
}
