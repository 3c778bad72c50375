package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverrideGrantsWhatRoleLacks(t *testing.T) {
	target := Permission{Module: PermPayroll, Action: ActionProcess}
	require.False(t, StandardPolicy{}.HasDefault(RoleEmployee, target))

	bare := NewResolver(RoleEmployee, nil, nil)
	require.False(t, bare.Can(PermPayroll, ActionProcess))
	require.Equal(t, Resolution{Granted: false, Source: SourceNone}, bare.Resolve(PermPayroll, ActionProcess))

	withOverride := NewResolver(RoleEmployee, map[Permission]bool{target: true}, nil)
	require.True(t, withOverride.Can(PermPayroll, ActionProcess))
	require.Equal(t, Resolution{Granted: true, Source: SourceExplicitAllow}, withOverride.Resolve(PermPayroll, ActionProcess))
}

func TestOverrideRevokesWhatRoleGrants(t *testing.T) {
	target := Permission{Module: PermLeave, Action: ActionApprove}
	require.True(t, StandardPolicy{}.HasDefault(RoleManager, target))

	bare := NewResolver(RoleManager, nil, nil)
	require.Equal(t, Resolution{Granted: true, Source: SourceRole}, bare.Resolve(PermLeave, ActionApprove))

	withOverride := NewResolver(RoleManager, map[Permission]bool{target: false}, nil)
	require.False(t, withOverride.Can(PermLeave, ActionApprove))
	require.Equal(t, Resolution{Granted: false, Source: SourceExplicitDeny}, withOverride.Resolve(PermLeave, ActionApprove))
}

func TestOverrideOnlyHitsExactPair(t *testing.T) {
	deny := map[Permission]bool{{Module: PermLeave, Action: ActionApprove}: false}
	r := NewResolver(RoleManager, deny, nil)
	require.False(t, r.Can(PermLeave, ActionApprove))
	require.True(t, r.Can(PermLeave, ActionRead))
	require.True(t, r.Can(PermTimesheets, ActionApprove))
}

func TestSuperAdminBypassesEverything(t *testing.T) {
	denyAll := map[Permission]bool{
		{Module: PermPayroll, Action: ActionLock}:    false,
		{Module: PermSettings, Action: ActionManage}: false,
	}
	r := NewResolver(RoleSuperAdmin, denyAll, nil)
	for _, module := range []PermModule{PermEmployees, PermPayroll, PermSettings, PermBilling} {
		for _, action := range []PermAction{ActionRead, ActionDelete, ActionLock, ActionManage} {
			res := r.Resolve(module, action)
			require.True(t, res.Granted)
			require.Equal(t, SourceSuperAdmin, res.Source)
		}
	}
}

func TestRoleDefaultsAreSubsets(t *testing.T) {
	// Each step up the hierarchy keeps everything the previous role had.
	policy := StandardPolicy{}
	pairs := [][2]Role{
		{RoleEmployee, RoleManager},
		{RoleManager, RoleHRManager},
		{RoleHRManager, RoleCompanyAdmin},
	}
	for _, pair := range pairs {
		lower, higher := pair[0], pair[1]
		for p := range roleDefaults[lower] {
			require.Truef(t, policy.HasDefault(higher, p), "%s should keep %s.%s from %s", higher, p.Module, p.Action, lower)
		}
	}
}
