package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMeetsMinimumOrdering(t *testing.T) {
	roles := []Role{RoleEmployee, RoleManager, RoleHRManager, RoleCompanyAdmin, RoleSuperAdmin}
	for _, actual := range roles {
		for _, required := range roles {
			got := MeetsMinimum(actual, required)
			want := actual.Rank() >= required.Rank()
			require.Equalf(t, want, got, "actual=%s required=%s", actual, required)
		}
	}
}

func TestMeetsMinimumNoRole(t *testing.T) {
	for _, required := range []Role{RoleEmployee, RoleManager, RoleHRManager, RoleCompanyAdmin, RoleSuperAdmin} {
		require.False(t, MeetsMinimum("", required))
		require.False(t, MeetsMinimum("intern", required))
	}
}

func TestRoleLabel(t *testing.T) {
	require.Equal(t, "hr manager", RoleHRManager.Label())
	require.Equal(t, "company admin", RoleCompanyAdmin.Label())
	require.Equal(t, "employee", RoleEmployee.Label())
}
