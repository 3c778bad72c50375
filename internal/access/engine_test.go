package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func activeSubject(role Role) Subject {
	return Subject{
		Role:     role,
		Plan:     &PlanFeatures{Modules: []ModuleID{ModuleAll}},
		Resolver: NewResolver(role, nil, nil),
	}
}

func TestWriteGuardImpersonationAlwaysBlocks(t *testing.T) {
	// Impersonation blocks writes regardless of role, frozen state, or plan.
	for _, role := range []Role{RoleEmployee, RoleCompanyAdmin, RoleSuperAdmin} {
		for _, frozen := range []bool{false, true} {
			sub := activeSubject(role)
			sub.State = TenantState{Frozen: frozen, Impersonating: true}
			verdict := sub.Check(CheckOptions{WritesOnly: true})
			require.False(t, verdict.HasAccess)
			require.Equal(t, DenialImpersonating, verdict.Reason)
			require.Equal(t, "Read-only mode. Exit impersonation to make changes.", verdict.Message)
		}
	}
}

func TestWriteGuardFrozen(t *testing.T) {
	sub := activeSubject(RoleCompanyAdmin)
	sub.State = TenantState{Frozen: true}
	verdict := sub.CheckWrite()
	require.False(t, verdict.HasAccess)
	require.Equal(t, DenialFrozen, verdict.Reason)

	sub.State = TenantState{}
	verdict = sub.CheckWrite()
	require.True(t, verdict.HasAccess)
	require.Equal(t, DenialNone, verdict.Reason)
}

func TestWriteGuardIgnoresOtherConstraints(t *testing.T) {
	// WritesOnly is purely a tenant-state gate: an employee with no
	// permissions still passes when the tenant is writable.
	sub := Subject{Role: RoleEmployee, Resolver: NewResolver(RoleEmployee, nil, nil)}
	verdict := sub.Check(CheckOptions{
		WritesOnly:     true,
		RequiredRole:   RoleSuperAdmin,
		RequiredModule: ModulePayroll,
		Permission:     &Permission{Module: PermPayroll, Action: ActionLock},
	})
	require.True(t, verdict.HasAccess)
}

func TestPermissionCheckedBeforeRole(t *testing.T) {
	// Role is satisfied but the permission is denied: the more specific
	// denial must surface.
	sub := activeSubject(RoleCompanyAdmin)
	verdict := sub.Check(CheckOptions{
		RequiredRole: RoleEmployee,
		Permission:   &Permission{Module: PermPayroll, Action: ActionVerify},
	})
	require.False(t, verdict.HasAccess)
	require.Equal(t, DenialPermission, verdict.Reason)
}

func TestRoleDenialMessage(t *testing.T) {
	sub := activeSubject(RoleManager)
	verdict := sub.CheckRole(RoleHRManager)
	require.False(t, verdict.HasAccess)
	require.Equal(t, DenialRole, verdict.Reason)
	require.Equal(t, "Requires hr manager role or higher.", verdict.Message)
}

func TestPermissionDenialMessage(t *testing.T) {
	sub := activeSubject(RoleEmployee)
	verdict := sub.CheckPermission(PermPayroll, ActionApprove)
	require.False(t, verdict.HasAccess)
	require.Equal(t, DenialPermission, verdict.Reason)
	require.Contains(t, verdict.Message, "approve")
	require.Contains(t, verdict.Message, "payroll")
}

func TestModulePlanGate(t *testing.T) {
	sub := Subject{
		Role:     RoleHRManager,
		Plan:     &PlanFeatures{Modules: []ModuleID{ModuleLeave}},
		Resolver: NewResolver(RoleHRManager, nil, nil),
	}
	require.True(t, sub.CheckModule(ModuleLeave).HasAccess)

	verdict := sub.CheckModule(ModulePayroll)
	require.False(t, verdict.HasAccess)
	require.Equal(t, DenialModule, verdict.Reason)
	require.NotEmpty(t, verdict.Message)
}

func TestNoConstraintsGrants(t *testing.T) {
	verdict := activeSubject(RoleEmployee).Check(CheckOptions{})
	require.Equal(t, Verdict{HasAccess: true, Reason: DenialNone, Message: ""}, verdict)
}

func TestNoConstraintsFrozenTenant(t *testing.T) {
	// With nothing more specific requested the frozen state still denies.
	sub := activeSubject(RoleCompanyAdmin)
	sub.State = TenantState{Frozen: true}
	verdict := sub.Check(CheckOptions{})
	require.False(t, verdict.HasAccess)
	require.Equal(t, DenialFrozen, verdict.Reason)
}

func TestSpecificDenialWinsOverFrozen(t *testing.T) {
	sub := activeSubject(RoleEmployee)
	sub.State = TenantState{Frozen: true}
	verdict := sub.Check(CheckOptions{RequiredRole: RoleHRManager})
	require.Equal(t, DenialRole, verdict.Reason)
}

func TestPermissionGrantTerminates(t *testing.T) {
	sub := activeSubject(RoleHRManager)
	verdict := sub.Check(CheckOptions{Permission: &Permission{Module: PermEmployees, Action: ActionRead}})
	require.True(t, verdict.HasAccess)
	require.Empty(t, verdict.Message)
}

func TestMissingResolverDeniesPermission(t *testing.T) {
	sub := Subject{Role: RoleCompanyAdmin}
	verdict := sub.CheckPermission(PermEmployees, ActionRead)
	require.False(t, verdict.HasAccess)
	require.Equal(t, DenialPermission, verdict.Reason)
}

func TestCanWriteBareState(t *testing.T) {
	require.True(t, CanWrite(TenantState{}).HasAccess)
	require.Equal(t, DenialFrozen, CanWrite(TenantState{Frozen: true}).Reason)
	require.Equal(t, DenialImpersonating, CanWrite(TenantState{Frozen: true, Impersonating: true}).Reason)
}
