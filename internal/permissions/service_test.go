package permissions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/shared"
)

type memoryOverrideRepo struct {
	records map[[2]int64]map[access.Permission]Override
	nextID  int64
}

func newMemoryOverrideRepo() *memoryOverrideRepo {
	return &memoryOverrideRepo{records: make(map[[2]int64]map[access.Permission]Override)}
}

func (r *memoryOverrideRepo) key(userID, companyID int64) [2]int64 {
	return [2]int64{userID, companyID}
}

func (r *memoryOverrideRepo) ListForUser(ctx context.Context, userID, companyID int64) ([]Override, error) {
	var out []Override
	for _, o := range r.records[r.key(userID, companyID)] {
		out = append(out, o)
	}
	return out, nil
}

func (r *memoryOverrideRepo) Upsert(ctx context.Context, o Override) (Override, error) {
	key := r.key(o.UserID, o.CompanyID)
	if r.records[key] == nil {
		r.records[key] = make(map[access.Permission]Override)
	}
	perm := access.Permission{Module: o.Module, Action: o.Action}
	if existing, ok := r.records[key][perm]; ok {
		o.ID = existing.ID
		o.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		o.ID = r.nextID
		o.CreatedAt = time.Now()
	}
	o.UpdatedAt = time.Now()
	r.records[key][perm] = o
	return o, nil
}

func (r *memoryOverrideRepo) Delete(ctx context.Context, userID, companyID int64, module access.PermModule, action access.PermAction) error {
	key := r.key(userID, companyID)
	perm := access.Permission{Module: module, Action: action}
	if _, ok := r.records[key][perm]; !ok {
		return shared.ErrNotFound
	}
	delete(r.records[key], perm)
	return nil
}

type memoryAudit struct {
	logs []shared.AuditLog
}

func (a *memoryAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func TestSetSupersedesPriorOverride(t *testing.T) {
	svc := NewService(newMemoryOverrideRepo(), nil)
	ctx := context.Background()

	first, err := svc.Set(ctx, Override{UserID: 7, CompanyID: 1, Module: access.PermPayroll, Action: access.ActionApprove, Allowed: true})
	require.NoError(t, err)
	require.True(t, first.Allowed)

	second, err := svc.Set(ctx, Override{UserID: 7, CompanyID: 1, Module: access.PermPayroll, Action: access.ActionApprove, Allowed: false})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.False(t, second.Allowed)

	overrides, err := svc.OverridesFor(ctx, 7, 1)
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	require.False(t, overrides[access.Permission{Module: access.PermPayroll, Action: access.ActionApprove}])
}

func TestRemoveRevertsToRoleDefault(t *testing.T) {
	svc := NewService(newMemoryOverrideRepo(), nil)
	ctx := context.Background()

	_, err := svc.Set(ctx, Override{UserID: 7, CompanyID: 1, Module: access.PermLeave, Action: access.ActionApprove, Allowed: false})
	require.NoError(t, err)

	overrides, err := svc.OverridesFor(ctx, 7, 1)
	require.NoError(t, err)
	resolver := access.NewResolver(access.RoleManager, overrides, nil)
	require.False(t, resolver.Can(access.PermLeave, access.ActionApprove))

	require.NoError(t, svc.Remove(ctx, 1, 7, 1, access.PermLeave, access.ActionApprove))

	overrides, err = svc.OverridesFor(ctx, 7, 1)
	require.NoError(t, err)
	resolver = access.NewResolver(access.RoleManager, overrides, nil)
	res := resolver.Resolve(access.PermLeave, access.ActionApprove)
	require.True(t, res.Granted)
	require.Equal(t, access.SourceRole, res.Source)
}

func TestSetRejectsUnknownAction(t *testing.T) {
	svc := NewService(newMemoryOverrideRepo(), nil)
	_, err := svc.Set(context.Background(), Override{UserID: 7, CompanyID: 1, Module: access.PermLeave, Action: "destroy", Allowed: true})
	require.Error(t, err)
}

func TestOverrideChangesAreAudited(t *testing.T) {
	audit := &memoryAudit{}
	svc := NewService(newMemoryOverrideRepo(), audit)
	ctx := context.Background()

	_, err := svc.Set(ctx, Override{UserID: 7, CompanyID: 1, Module: access.PermPayroll, Action: access.ActionLock, Allowed: true, CreatedBy: 3})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, 3, 7, 1, access.PermPayroll, access.ActionLock))

	require.Len(t, audit.logs, 2)
	require.Equal(t, "permission_override.set", audit.logs[0].Action)
	require.Equal(t, "permission_override.remove", audit.logs[1].Action)
	require.Equal(t, int64(1), audit.logs[0].CompanyID)
}
