package tenants

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/shared"
)

type memoryCompanyStore struct {
	companies   map[int64]Company
	memberships map[[2]int64]Membership
}

func (s *memoryCompanyStore) GetCompany(ctx context.Context, id int64) (Company, error) {
	c, ok := s.companies[id]
	if !ok {
		return Company{}, shared.ErrNotFound
	}
	return c, nil
}

func (s *memoryCompanyStore) GetMembership(ctx context.Context, userID, companyID int64) (Membership, error) {
	m, ok := s.memberships[[2]int64{userID, companyID}]
	if !ok {
		return Membership{}, shared.ErrNotFound
	}
	return m, nil
}

type staticOverrides struct {
	overrides map[access.Permission]bool
}

func (s staticOverrides) OverridesFor(ctx context.Context, userID, companyID int64) (map[access.Permission]bool, error) {
	return s.overrides, nil
}

type staticImpersonation struct {
	adminID int64
}

func (s staticImpersonation) ActiveFor(ctx context.Context, userID, companyID int64) (bool, error) {
	return s.adminID != 0 && s.adminID == userID, nil
}

func newTestStore() *memoryCompanyStore {
	return &memoryCompanyStore{
		companies: map[int64]Company{
			1: {ID: 1, Name: "Acme", Plan: PlanGrowth, IsActive: true, SubscriptionStatus: access.SubscriptionActive},
			2: {ID: 2, Name: "Frost", Plan: PlanStarter, IsActive: true, SubscriptionStatus: access.SubscriptionPastDue},
		},
		memberships: map[[2]int64]Membership{
			{10, 1}: {UserID: 10, CompanyID: 1, Role: access.RoleHRManager},
			{11, 2}: {UserID: 11, CompanyID: 2, Role: access.RoleCompanyAdmin},
		},
	}
}

func TestResolveBuildsSubject(t *testing.T) {
	svc := NewService(newTestStore(), nil, nil, nil)
	tc, err := svc.Resolve(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Equal(t, access.RoleHRManager, tc.Subject.Role)
	require.False(t, tc.Subject.State.Frozen)
	require.True(t, tc.Subject.CheckModule(access.ModulePayroll).HasAccess)
	require.False(t, tc.Subject.CheckModule(access.ModuleRecruitment).HasAccess)
	require.True(t, tc.Subject.CheckWrite().HasAccess)
}

func TestResolvePastDueFreezesWrites(t *testing.T) {
	svc := NewService(newTestStore(), nil, nil, nil)
	tc, err := svc.Resolve(context.Background(), 11, 2)
	require.NoError(t, err)
	require.True(t, tc.Subject.State.Frozen)
	verdict := tc.Subject.CheckWrite()
	require.False(t, verdict.HasAccess)
	require.Equal(t, access.DenialFrozen, verdict.Reason)
}

func TestResolveImpersonationForcesReadOnly(t *testing.T) {
	store := newTestStore()
	store.memberships[[2]int64{7, 1}] = Membership{UserID: 7, CompanyID: 1, Role: access.RoleSuperAdmin}

	svc := NewService(store, nil, staticImpersonation{adminID: 7}, nil)
	tc, err := svc.Resolve(context.Background(), 7, 1)
	require.NoError(t, err)
	require.Equal(t, access.StateImpersonatedReadOnly, tc.Subject.State.WriteState())
	require.Equal(t, access.DenialImpersonating, tc.Subject.CheckWrite().Reason)
}

func TestResolveImpersonationLeavesOtherMembersWritable(t *testing.T) {
	svc := NewService(newTestStore(), nil, staticImpersonation{adminID: 7}, nil)
	tc, err := svc.Resolve(context.Background(), 10, 1)
	require.NoError(t, err)
	require.False(t, tc.Subject.State.Impersonating)
	require.Equal(t, access.StateActiveWritable, tc.Subject.State.WriteState())
	require.True(t, tc.Subject.CheckWrite().HasAccess)
}

func TestResolveAppliesOverrides(t *testing.T) {
	overrides := staticOverrides{overrides: map[access.Permission]bool{
		{Module: access.PermPayroll, Action: access.ActionLock}: true,
	}}
	svc := NewService(newTestStore(), overrides, nil, nil)
	tc, err := svc.Resolve(context.Background(), 10, 1)
	require.NoError(t, err)
	res := tc.Subject.Resolver.Resolve(access.PermPayroll, access.ActionLock)
	require.True(t, res.Granted)
	require.Equal(t, access.SourceExplicitAllow, res.Source)
}

func TestResolveUnknownMembership(t *testing.T) {
	svc := NewService(newTestStore(), nil, nil, nil)
	_, err := svc.Resolve(context.Background(), 99, 1)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestResolveUnknownPlanFailsClosed(t *testing.T) {
	store := newTestStore()
	company := store.companies[1]
	company.Plan = "legacy"
	store.companies[1] = company

	svc := NewService(store, nil, nil, nil)
	tc, err := svc.Resolve(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Nil(t, tc.Subject.Plan)
	require.False(t, tc.Subject.CheckModule(access.ModuleEmployees).HasAccess)
}

func TestResolveTrialingState(t *testing.T) {
	store := newTestStore()
	trialEnd := time.Now().Add(5 * 24 * time.Hour)
	store.companies[1] = Company{
		ID: 1, Name: "Acme", Plan: PlanGrowth, IsActive: true,
		SubscriptionStatus: access.SubscriptionTrialing, TrialEndsAt: &trialEnd,
	}
	svc := NewService(store, nil, nil, nil)
	tc, err := svc.Resolve(context.Background(), 10, 1)
	require.NoError(t, err)
	require.True(t, tc.Subject.State.Trialing)
	require.False(t, tc.Subject.State.Frozen)
}
