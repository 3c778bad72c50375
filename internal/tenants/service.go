package tenants

import (
	"context"
	"time"

	"github.com/cadence-hr/cadence/internal/access"
)

// CompanyStore is the persistence surface the service needs.
type CompanyStore interface {
	GetCompany(ctx context.Context, id int64) (Company, error)
	GetMembership(ctx context.Context, userID, companyID int64) (Membership, error)
}

// OverrideLoader supplies per-user permission overrides, owned by the
// permissions package.
type OverrideLoader interface {
	OverridesFor(ctx context.Context, userID, companyID int64) (map[access.Permission]bool, error)
}

// ImpersonationChecker reports whether the resolving user is the platform
// admin currently impersonating the company. The flag is per caller, so an
// open support session never freezes the tenant's own members.
type ImpersonationChecker interface {
	ActiveFor(ctx context.Context, userID, companyID int64) (bool, error)
}

// Service assembles the authorization subject for a caller against the
// active tenant. The subject is rebuilt on every request; nothing here
// is cached because any underlying flag can flip mid-session.
type Service struct {
	store         CompanyStore
	overrides     OverrideLoader
	impersonation ImpersonationChecker
	policy        access.RolePolicy
	now           func() time.Time
}

// NewService constructs a Service. overrides and impersonation may be nil
// in tests; policy nil means the standard role defaults.
func NewService(store CompanyStore, overrides OverrideLoader, impersonation ImpersonationChecker, policy access.RolePolicy) *Service {
	return &Service{
		store:         store,
		overrides:     overrides,
		impersonation: impersonation,
		policy:        policy,
		now:           time.Now,
	}
}

// TenantContext is the resolved tenant view handed to handlers.
type TenantContext struct {
	UserID  int64
	Company Company
	Subject access.Subject
}

// Resolve loads the company, the caller's membership, overrides, and the
// lifecycle state, and builds the access subject from them.
func (s *Service) Resolve(ctx context.Context, userID, companyID int64) (TenantContext, error) {
	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return TenantContext{}, err
	}

	membership, err := s.store.GetMembership(ctx, userID, companyID)
	if err != nil {
		return TenantContext{}, err
	}

	var overrides map[access.Permission]bool
	if s.overrides != nil {
		overrides, err = s.overrides.OverridesFor(ctx, userID, companyID)
		if err != nil {
			return TenantContext{}, err
		}
	}

	impersonating := false
	if s.impersonation != nil {
		impersonating, err = s.impersonation.ActiveFor(ctx, userID, companyID)
		if err != nil {
			return TenantContext{}, err
		}
	}

	state := access.DeriveTenantState(company.Subscription(), impersonating, s.now())

	return TenantContext{
		UserID:  userID,
		Company: company,
		Subject: access.Subject{
			Role:     membership.Role,
			Plan:     FeaturesForPlan(company.Plan),
			State:    state,
			Resolver: access.NewResolver(membership.Role, overrides, s.policy),
		},
	}, nil
}
