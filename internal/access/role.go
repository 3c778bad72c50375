// Package access implements the authorization core: the role hierarchy,
// the module catalog, fine-grained permission resolution, tenant lifecycle
// state, and the unified access decision engine that combines them.
//
// Everything in this package is pure computation over inputs supplied by
// the caller. State is loaded elsewhere (session, tenant, permission
// stores) and passed in explicitly; verdicts are never cached.
package access

import "strings"

// Role is a coarse authority level within a company.
type Role string

// Roles ordered by increasing authority.
const (
	RoleEmployee     Role = "employee"
	RoleManager      Role = "manager"
	RoleHRManager    Role = "hr_manager"
	RoleCompanyAdmin Role = "company_admin"
	RoleSuperAdmin   Role = "super_admin"
)

// roleRanks is the fixed authority order. Comparisons must go through
// ranks, never string equality.
var roleRanks = map[Role]int{
	RoleEmployee:     1,
	RoleManager:      2,
	RoleHRManager:    3,
	RoleCompanyAdmin: 4,
	RoleSuperAdmin:   5,
}

// Rank returns the numeric authority of the role. Unknown or empty roles
// rank zero and never satisfy any minimum.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Label returns the human-readable form used in denial messages.
func (r Role) Label() string {
	return strings.ReplaceAll(string(r), "_", " ")
}

// MeetsMinimum reports whether actual carries at least the authority of
// required. An empty or unknown actual role always fails.
func MeetsMinimum(actual, required Role) bool {
	if !actual.Valid() {
		return false
	}
	return actual.Rank() >= required.Rank()
}
