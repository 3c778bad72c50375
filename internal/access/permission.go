package access

// PermModule is the module axis of the fine-grained permission key space.
// It overlaps the coarse ModuleID catalog by name but is resolved through
// an independent path.
type PermModule string

// Fine-grained permission modules.
const (
	PermEmployees   PermModule = "employees"
	PermLeave       PermModule = "leave"
	PermTimesheets  PermModule = "timesheets"
	PermPayroll     PermModule = "payroll"
	PermDocuments   PermModule = "documents"
	PermRecruitment PermModule = "recruitment"
	PermPerformance PermModule = "performance"
	PermReports     PermModule = "reports"
	PermSettings    PermModule = "settings"
	PermBilling     PermModule = "billing"
)

// PermAction is the action axis of the permission key space.
type PermAction string

// Permission actions.
const (
	ActionRead    PermAction = "read"
	ActionCreate  PermAction = "create"
	ActionUpdate  PermAction = "update"
	ActionDelete  PermAction = "delete"
	ActionApprove PermAction = "approve"
	ActionProcess PermAction = "process"
	ActionVerify  PermAction = "verify"
	ActionExport  PermAction = "export"
	ActionManage  PermAction = "manage"
	ActionLock    PermAction = "lock"
)

// actionLabels are the verbs used in denial messages.
var actionLabels = map[PermAction]string{
	ActionRead:    "view",
	ActionCreate:  "create",
	ActionUpdate:  "edit",
	ActionDelete:  "delete",
	ActionApprove: "approve",
	ActionProcess: "process",
	ActionVerify:  "verify",
	ActionExport:  "export",
	ActionManage:  "manage",
	ActionLock:    "lock",
}

// Label returns the verb shown to users when the action is denied.
func (a PermAction) Label() string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}

// Permission is a single (module, action) unit of the fine-grained key
// space. Every pair is independent.
type Permission struct {
	Module PermModule
	Action PermAction
}

// Source records why a permission resolved the way it did.
type Source string

// Provenance values, ordered by precedence.
const (
	SourceSuperAdmin    Source = "super_admin"
	SourceExplicitAllow Source = "explicit_allow"
	SourceExplicitDeny  Source = "explicit_deny"
	SourceRole          Source = "role"
	SourceNone          Source = "none"
)

// Resolution pairs the grant decision with its provenance so admin
// surfaces can explain why a permission is granted or denied.
type Resolution struct {
	Granted bool
	Source  Source
}
