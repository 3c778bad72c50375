package access

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasModuleAccessNilPlan(t *testing.T) {
	for id := range Catalog {
		require.False(t, HasModuleAccess(nil, id))
	}
}

func TestHasModuleAccessAllSentinel(t *testing.T) {
	plan := &PlanFeatures{Modules: []ModuleID{ModuleAll}}
	for id := range Catalog {
		require.True(t, HasModuleAccess(plan, id))
	}
}

func TestHasModuleAccessMembership(t *testing.T) {
	plan := &PlanFeatures{Modules: []ModuleID{ModuleLeave}}
	require.True(t, HasModuleAccess(plan, ModuleLeave))
	require.False(t, HasModuleAccess(plan, ModulePayroll))
}

func TestCatalogEntriesComplete(t *testing.T) {
	for id, info := range Catalog {
		require.Equal(t, id, info.ID)
		require.NotEmpty(t, info.Name)
		require.True(t, info.MinRole.Valid())
	}
}
