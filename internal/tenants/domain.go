package tenants

import (
	"time"

	"github.com/cadence-hr/cadence/internal/access"
)

// Company is a tenant account, the unit of data isolation.
type Company struct {
	ID                 int64
	Name               string
	Slug               string
	IsActive           bool
	Plan               string
	SubscriptionStatus access.SubscriptionStatus
	TrialEndsAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Membership ties a user to a company with a role.
type Membership struct {
	UserID    int64
	CompanyID int64
	Role      access.Role
	CreatedAt time.Time
}

// Plan identifiers.
const (
	PlanStarter    = "starter"
	PlanGrowth     = "growth"
	PlanEnterprise = "enterprise"
)

// planFeatures is the static plan table. Enterprise carries the
// all-modules sentinel.
var planFeatures = map[string]access.PlanFeatures{
	PlanStarter: {
		Modules:      []access.ModuleID{access.ModuleEmployees, access.ModuleLeave, access.ModuleDocuments},
		MaxEmployees: 25,
	},
	PlanGrowth: {
		Modules: []access.ModuleID{
			access.ModuleEmployees, access.ModuleLeave, access.ModuleTimesheets,
			access.ModuleDocuments, access.ModulePerformance, access.ModuleReports,
			access.ModulePayroll,
		},
		MaxEmployees: 200,
	},
	PlanEnterprise: {
		Modules:      []access.ModuleID{access.ModuleAll},
		MaxEmployees: 0,
	},
}

// FeaturesForPlan returns the feature surface for a plan name, or nil for
// unknown plans so downstream checks fail closed.
func FeaturesForPlan(plan string) *access.PlanFeatures {
	features, ok := planFeatures[plan]
	if !ok {
		return nil
	}
	return &features
}

// Subscription converts the company's billing columns into the core's
// subscription input.
func (c Company) Subscription() access.Subscription {
	return access.Subscription{
		Status:      c.SubscriptionStatus,
		Active:      c.IsActive,
		TrialEndsAt: c.TrialEndsAt,
	}
}
