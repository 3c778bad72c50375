package access

// RolePolicy answers whether a role grants a permission by default.
// Implementations are owned by the role/permission-template layer; the
// resolver only consults them after the override table.
type RolePolicy interface {
	// HasDefault reports whether the role's default grant table contains
	// the permission. Absence means the permission falls through to deny.
	HasDefault(role Role, p Permission) bool
}

// StandardPolicy is the built-in role default table.
type StandardPolicy struct{}

// HasDefault implements RolePolicy over the static grant table.
func (StandardPolicy) HasDefault(role Role, p Permission) bool {
	grants, ok := roleDefaults[role]
	if !ok {
		return false
	}
	_, ok = grants[p]
	return ok
}

func grantSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

var employeeGrants = []Permission{
	{PermEmployees, ActionRead},
	{PermLeave, ActionRead},
	{PermLeave, ActionCreate},
	{PermTimesheets, ActionRead},
	{PermTimesheets, ActionCreate},
	{PermTimesheets, ActionUpdate},
	{PermDocuments, ActionRead},
	{PermPayroll, ActionRead},
	{PermPerformance, ActionRead},
}

var managerGrants = append(append([]Permission{}, employeeGrants...),
	Permission{PermLeave, ActionApprove},
	Permission{PermTimesheets, ActionApprove},
	Permission{PermPerformance, ActionCreate},
	Permission{PermPerformance, ActionUpdate},
	Permission{PermPerformance, ActionApprove},
	Permission{PermReports, ActionRead},
)

var hrManagerGrants = append(append([]Permission{}, managerGrants...),
	Permission{PermEmployees, ActionCreate},
	Permission{PermEmployees, ActionUpdate},
	Permission{PermEmployees, ActionDelete},
	Permission{PermLeave, ActionUpdate},
	Permission{PermLeave, ActionDelete},
	Permission{PermDocuments, ActionCreate},
	Permission{PermDocuments, ActionUpdate},
	Permission{PermDocuments, ActionVerify},
	Permission{PermPayroll, ActionProcess},
	Permission{PermRecruitment, ActionRead},
	Permission{PermRecruitment, ActionCreate},
	Permission{PermRecruitment, ActionUpdate},
	Permission{PermReports, ActionExport},
)

var companyAdminGrants = append(append([]Permission{}, hrManagerGrants...),
	Permission{PermPayroll, ActionApprove},
	Permission{PermPayroll, ActionLock},
	Permission{PermDocuments, ActionDelete},
	Permission{PermRecruitment, ActionDelete},
	Permission{PermSettings, ActionRead},
	Permission{PermSettings, ActionManage},
	Permission{PermBilling, ActionRead},
	Permission{PermBilling, ActionManage},
)

// roleDefaults maps each role to its default grant set. super_admin is
// absent on purpose: the resolver bypasses the table entirely for it.
var roleDefaults = map[Role]map[Permission]struct{}{
	RoleEmployee:     grantSet(employeeGrants...),
	RoleManager:      grantSet(managerGrants...),
	RoleHRManager:    grantSet(hrManagerGrants...),
	RoleCompanyAdmin: grantSet(companyAdminGrants...),
}
