package access

// Resolver computes fine-grained permission decisions for one subject by
// merging explicit per-user overrides with the role's default grants.
//
// Precedence, highest first:
//  1. super_admin subjects are granted everything.
//  2. An explicit override for the exact (module, action) pair is used
//     verbatim, allowing or revoking regardless of the role default.
//  3. The role default grant table.
//  4. Otherwise deny.
type Resolver struct {
	role      Role
	overrides map[Permission]bool
	policy    RolePolicy
}

// NewResolver builds a resolver for a subject. overrides may be nil when
// the subject has none; a nil policy falls back to StandardPolicy.
func NewResolver(role Role, overrides map[Permission]bool, policy RolePolicy) *Resolver {
	if policy == nil {
		policy = StandardPolicy{}
	}
	return &Resolver{role: role, overrides: overrides, policy: policy}
}

// Resolve returns the grant decision together with its provenance.
func (r *Resolver) Resolve(module PermModule, action PermAction) Resolution {
	if r.role == RoleSuperAdmin {
		return Resolution{Granted: true, Source: SourceSuperAdmin}
	}
	key := Permission{Module: module, Action: action}
	if allowed, ok := r.overrides[key]; ok {
		if allowed {
			return Resolution{Granted: true, Source: SourceExplicitAllow}
		}
		return Resolution{Granted: false, Source: SourceExplicitDeny}
	}
	if r.policy.HasDefault(r.role, key) {
		return Resolution{Granted: true, Source: SourceRole}
	}
	return Resolution{Granted: false, Source: SourceNone}
}

// Can is the boolean projection of Resolve.
func (r *Resolver) Can(module PermModule, action PermAction) bool {
	return r.Resolve(module, action).Granted
}
