package access

import "fmt"

// DenialReason classifies why a check failed. Empty means granted.
type DenialReason string

// Denial reasons.
const (
	DenialNone          DenialReason = ""
	DenialRole          DenialReason = "role"
	DenialModule        DenialReason = "module"
	DenialFrozen        DenialReason = "frozen"
	DenialImpersonating DenialReason = "impersonating"
	DenialPermission    DenialReason = "permission"
)

// Verdict is the result of an access check. Denials are ordinary values,
// never errors; Message is the user-facing explanation and is owned here
// so call sites stay consistent.
type Verdict struct {
	HasAccess bool         `json:"has_access"`
	Reason    DenialReason `json:"denial_reason,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// Subject is the full authorization context of one caller against one
// tenant, assembled by the tenant/session layer and passed in explicitly.
type Subject struct {
	Role     Role
	Plan     *PlanFeatures
	State    TenantState
	Resolver *Resolver
}

// CheckOptions selects which constraints a check applies. Zero-value
// fields request no constraint; a call with no constraints at all grants.
type CheckOptions struct {
	RequiredRole   Role
	RequiredModule ModuleID
	Permission     *Permission
	WritesOnly     bool
}

const (
	msgImpersonating = "Read-only mode. Exit impersonation to make changes."
	msgFrozenWrite   = "Your subscription is inactive. Update billing to make changes."
	msgFrozen        = "Your subscription is inactive. Update billing to restore access."
	msgUpgrade       = "Your plan does not include this module. Upgrade to unlock it."
)

func granted() Verdict {
	return Verdict{HasAccess: true}
}

func denied(reason DenialReason, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}

// Check runs the unified decision algorithm. The branches evaluate in a
// fixed order and the first applicable one terminates:
//
//  1. WritesOnly consults tenant state only: impersonation blocks first,
//     then frozen. Role, module, and permission are ignored so that write
//     blocking can never be escaped by sufficient authority.
//  2. A fine-grained Permission constraint, when supplied, decides the
//     call. It is the most specific check and wins over role and module.
//  3. A RequiredRole constraint.
//  4. A RequiredModule plan-gate constraint.
//  5. With no constraint supplied, a frozen tenant still denies, after
//     the specific branches so their messages surface first.
//  6. Otherwise the call grants: no restriction was requested.
func (s Subject) Check(opts CheckOptions) Verdict {
	if opts.WritesOnly {
		if s.State.Impersonating {
			return denied(DenialImpersonating, msgImpersonating)
		}
		if s.State.Frozen {
			return denied(DenialFrozen, msgFrozenWrite)
		}
		return granted()
	}

	if opts.Permission != nil {
		if s.Resolver == nil || !s.Resolver.Can(opts.Permission.Module, opts.Permission.Action) {
			return denied(DenialPermission, fmt.Sprintf(
				"You don't have permission to %s %s",
				opts.Permission.Action.Label(), opts.Permission.Module,
			))
		}
		return granted()
	}

	if opts.RequiredRole != "" {
		if !MeetsMinimum(s.Role, opts.RequiredRole) {
			return denied(DenialRole, fmt.Sprintf("Requires %s role or higher.", opts.RequiredRole.Label()))
		}
		return granted()
	}

	if opts.RequiredModule != "" {
		if !HasModuleAccess(s.Plan, opts.RequiredModule) {
			return denied(DenialModule, msgUpgrade)
		}
		return granted()
	}

	if s.State.Frozen {
		return denied(DenialFrozen, msgFrozen)
	}

	return granted()
}

// CheckRole is the role-only convenience shape.
func (s Subject) CheckRole(required Role) Verdict {
	return s.Check(CheckOptions{RequiredRole: required})
}

// CheckModule is the plan-gate convenience shape.
func (s Subject) CheckModule(id ModuleID) Verdict {
	return s.Check(CheckOptions{RequiredModule: id})
}

// CheckPermission is the fine-grained convenience shape.
func (s Subject) CheckPermission(module PermModule, action PermAction) Verdict {
	return s.Check(CheckOptions{Permission: &Permission{Module: module, Action: action}})
}

// CheckWrite is the write-guard. Every mutation path must pass this in
// addition to whatever role, module, or permission gate applies; the two
// checks are independent. The verdict is advisory: authoritative
// enforcement lives in the data layer and must mirror it.
func (s Subject) CheckWrite() Verdict {
	return s.Check(CheckOptions{WritesOnly: true})
}

// CanWrite is the write-guard over a bare tenant state, for callers that
// have not assembled a full subject.
func CanWrite(state TenantState) Verdict {
	return Subject{State: state}.CheckWrite()
}
