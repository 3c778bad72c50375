package permissions

import (
	"context"
	"fmt"

	"github.com/cadence-hr/cadence/internal/access"
	"github.com/cadence-hr/cadence/internal/shared"
)

// RepositoryPort is the persistence surface the service needs.
type RepositoryPort interface {
	ListForUser(ctx context.Context, userID, companyID int64) ([]Override, error)
	Upsert(ctx context.Context, o Override) (Override, error)
	Delete(ctx context.Context, userID, companyID int64, module access.PermModule, action access.PermAction) error
}

// AuditPort records override changes for compliance.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service orchestrates permission override management. It also feeds the
// tenant layer the override set used to build resolvers.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

var validActions = map[access.PermAction]struct{}{
	access.ActionRead: {}, access.ActionCreate: {}, access.ActionUpdate: {},
	access.ActionDelete: {}, access.ActionApprove: {}, access.ActionProcess: {},
	access.ActionVerify: {}, access.ActionExport: {}, access.ActionManage: {},
	access.ActionLock: {},
}

func validateKey(module access.PermModule, action access.PermAction) error {
	if module == "" {
		return fmt.Errorf("permissions: module required")
	}
	if _, ok := validActions[action]; !ok {
		return fmt.Errorf("permissions: unknown action %q", action)
	}
	return nil
}

// OverridesFor returns the override set keyed for the resolver.
func (s *Service) OverridesFor(ctx context.Context, userID, companyID int64) (map[access.Permission]bool, error) {
	records, err := s.repo.ListForUser(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	overrides := make(map[access.Permission]bool, len(records))
	for _, o := range records {
		overrides[access.Permission{Module: o.Module, Action: o.Action}] = o.Allowed
	}
	return overrides, nil
}

// List returns the raw override records for an admin surface.
func (s *Service) List(ctx context.Context, userID, companyID int64) ([]Override, error) {
	return s.repo.ListForUser(ctx, userID, companyID)
}

// Set writes an override, superseding any prior record for the key.
func (s *Service) Set(ctx context.Context, o Override) (Override, error) {
	if err := validateKey(o.Module, o.Action); err != nil {
		return Override{}, err
	}
	saved, err := s.repo.Upsert(ctx, o)
	if err != nil {
		return Override{}, err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   o.CreatedBy,
			CompanyID: o.CompanyID,
			Action:    "permission_override.set",
			Entity:    "permission_override",
			EntityID:  fmt.Sprintf("%d:%s.%s", o.UserID, o.Module, o.Action),
			Meta:      map[string]any{"allowed": o.Allowed},
		})
	}
	return saved, nil
}

// Remove deletes an override so access reverts to the role default.
func (s *Service) Remove(ctx context.Context, actorID, userID, companyID int64, module access.PermModule, action access.PermAction) error {
	if err := validateKey(module, action); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, companyID, module, action); err != nil {
		return err
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			ActorID:   actorID,
			CompanyID: companyID,
			Action:    "permission_override.remove",
			Entity:    "permission_override",
			EntityID:  fmt.Sprintf("%d:%s.%s", userID, module, action),
		})
	}
	return nil
}
