package permissions

import (
	"time"

	"github.com/cadence-hr/cadence/internal/access"
)

// Override is an explicit per-user permission record. When present it
// supersedes the role default for its exact (module, action) pair.
type Override struct {
	ID        int64
	UserID    int64
	CompanyID int64
	Module    access.PermModule
	Action    access.PermAction
	Allowed   bool
	CreatedBy int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Provenance returns the source tag the override produces when applied.
func (o Override) Provenance() access.Source {
	if o.Allowed {
		return access.SourceExplicitAllow
	}
	return access.SourceExplicitDeny
}
