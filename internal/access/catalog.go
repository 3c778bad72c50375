package access

// ModuleID identifies a coarse feature area of the product.
type ModuleID string

// Feature modules.
const (
	ModuleEmployees   ModuleID = "employees"
	ModuleLeave       ModuleID = "leave"
	ModuleTimesheets  ModuleID = "timesheets"
	ModulePayroll     ModuleID = "payroll"
	ModuleDocuments   ModuleID = "documents"
	ModuleRecruitment ModuleID = "recruitment"
	ModulePerformance ModuleID = "performance"
	ModuleReports     ModuleID = "reports"
	ModuleSettings    ModuleID = "settings"
	ModuleBilling     ModuleID = "billing"
)

// ModuleAll is the plan sentinel granting every module.
const ModuleAll ModuleID = "all"

// ModuleInfo describes the coarse gating rules for one module: the
// minimum role required to enter it and, when PlanFeature is set, the
// plan feature that must be part of the subscription.
type ModuleInfo struct {
	ID          ModuleID
	Name        string
	MinRole     Role
	PlanFeature ModuleID // empty means available on every plan
}

// Catalog is the static module table. Loaded once, immutable.
var Catalog = map[ModuleID]ModuleInfo{
	ModuleEmployees:   {ID: ModuleEmployees, Name: "Employees", MinRole: RoleEmployee},
	ModuleLeave:       {ID: ModuleLeave, Name: "Leave", MinRole: RoleEmployee, PlanFeature: ModuleLeave},
	ModuleTimesheets:  {ID: ModuleTimesheets, Name: "Time Tracking", MinRole: RoleEmployee, PlanFeature: ModuleTimesheets},
	ModulePayroll:     {ID: ModulePayroll, Name: "Payroll", MinRole: RoleHRManager, PlanFeature: ModulePayroll},
	ModuleDocuments:   {ID: ModuleDocuments, Name: "Documents", MinRole: RoleEmployee, PlanFeature: ModuleDocuments},
	ModuleRecruitment: {ID: ModuleRecruitment, Name: "Recruitment", MinRole: RoleHRManager, PlanFeature: ModuleRecruitment},
	ModulePerformance: {ID: ModulePerformance, Name: "Performance", MinRole: RoleManager, PlanFeature: ModulePerformance},
	ModuleReports:     {ID: ModuleReports, Name: "Reports", MinRole: RoleHRManager, PlanFeature: ModuleReports},
	ModuleSettings:    {ID: ModuleSettings, Name: "Settings", MinRole: RoleCompanyAdmin},
	ModuleBilling:     {ID: ModuleBilling, Name: "Billing", MinRole: RoleCompanyAdmin},
}

// PlanFeatures is the feature surface of a subscription plan.
type PlanFeatures struct {
	Modules      []ModuleID
	MaxEmployees int
}

// HasModuleAccess reports whether the plan unlocks the module. A nil plan
// grants nothing; a plan listing ModuleAll grants everything. This covers
// plan gating only; the module's MinRole is a separate check.
func HasModuleAccess(plan *PlanFeatures, id ModuleID) bool {
	if plan == nil {
		return false
	}
	for _, m := range plan.Modules {
		if m == ModuleAll || m == id {
			return true
		}
	}
	return false
}
