// Package access holds the client-side mirror of the server's role rules.
// The server re-validates every mutation independently; this table only keeps
// the client from attempting or displaying what the server would reject.
package access

import (
	"github.com/taskdesk/client/domain"
	"github.com/taskdesk/client/repository"
)

// Scope pairs the server-side narrowing hint with the local predicate that
// re-filters fetched tasks. Both derive from the same rule so they cannot
// drift apart.
type Scope struct {
	Hint  repository.ScopeHint
	Match func(t domain.Task) bool
}

// rule is one row of the role table.
type rule struct {
	scopeHint       repository.ScopeHint
	scopeMatch      func(t domain.Task, selfID string) bool
	assign          bool
	deleteAny       bool
	deleteOwn       bool
	manageUsers     bool
	assignableRoles []domain.Role
}

// rules is the single source of truth for role capabilities. Changing a
// capability is a one-row edit here, nowhere else.
var rules = map[domain.Role]rule{
	domain.RoleEmployee: {
		scopeHint: repository.ScopeAssigned,
		scopeMatch: func(t domain.Task, selfID string) bool {
			return t.AssignedTo != nil && t.AssignedTo.ID == selfID
		},
		deleteOwn: true,
	},
	domain.RoleManager: {
		scopeHint: repository.ScopeManager,
		// Manager view: tasks the manager created themself plus tasks
		// assigned to any non-admin identity.
		scopeMatch: func(t domain.Task, selfID string) bool {
			if t.CreatedBy.ID == selfID {
				return true
			}
			return t.AssignedTo != nil && t.AssignedTo.Role != domain.RoleAdmin
		},
		assign:          true,
		deleteOwn:       true,
		manageUsers:     true,
		assignableRoles: []domain.Role{domain.RoleEmployee, domain.RoleManager},
	},
	domain.RoleAdmin: {
		scopeHint:       repository.ScopeAll,
		scopeMatch:      func(domain.Task, string) bool { return true },
		assign:          true,
		deleteAny:       true,
		deleteOwn:       true,
		manageUsers:     true,
		assignableRoles: []domain.Role{domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin},
	},
}

// ViewScope returns the list scope for the given role and identity. Unknown
// roles get an empty scope that matches nothing.
func ViewScope(role domain.Role, selfID string) Scope {
	r, ok := rules[role]
	if !ok {
		return Scope{
			Hint:  repository.ScopeAssigned,
			Match: func(domain.Task) bool { return false },
		}
	}
	return Scope{
		Hint:  r.scopeHint,
		Match: func(t domain.Task) bool { return r.scopeMatch(t, selfID) },
	}
}

// CanAssign reports whether the role may assign tasks to other identities.
func CanAssign(role domain.Role) bool {
	return rules[role].assign
}

// CanDelete reports whether the role may delete the given task. Everyone may
// delete their own tasks; only admins may delete arbitrary ones.
func CanDelete(role domain.Role, task domain.Task, selfID string) bool {
	r, ok := rules[role]
	if !ok {
		return false
	}
	if r.deleteAny {
		return true
	}
	return r.deleteOwn && task.CreatedBy.ID == selfID
}

// CanManageUsers reports whether the role may list and create identities.
func CanManageUsers(role domain.Role) bool {
	return rules[role].manageUsers
}

// AssignableRoles returns the roles the given role may hand out when creating
// users or assigning tasks. Nil means none.
func AssignableRoles(role domain.Role) []domain.Role {
	r := rules[role]
	if len(r.assignableRoles) == 0 {
		return nil
	}
	out := make([]domain.Role, len(r.assignableRoles))
	copy(out, r.assignableRoles)
	return out
}

// CanBeAssignee reports whether an identity with the given role may be set
// as a task's assignee. Admins never appear as assignees.
func CanBeAssignee(role domain.Role) bool {
	return role.Valid() && role != domain.RoleAdmin
}

// CanAssignRole reports whether target is within the role's assignable set.
func CanAssignRole(role, target domain.Role) bool {
	for _, candidate := range rules[role].assignableRoles {
		if candidate == target {
			return true
		}
	}
	return false
}
