package models

// Permission codes gate every data-touching operation server-side. The
// menu only decides what to render; the API enforces these regardless.
const (
	PermTableView   = "table:view"
	PermTableAdd    = "table:add"
	PermTableUpdate = "table:update"
	PermTableDelete = "table:delete"
	PermImportRun   = "import:run"
	PermTransferRun = "transfer:run"
	PermReportView  = "report:view"
	PermLogView     = "log:view"
	PermUserManage  = "user:manage"
)

// AllPermissions is the full capability set, granted to seeded admins.
var AllPermissions = []string{
	PermTableView,
	PermTableAdd,
	PermTableUpdate,
	PermTableDelete,
	PermImportRun,
	PermTransferRun,
	PermReportView,
	PermLogView,
	PermUserManage,
}

// ValidPermission reports whether code is part of the catalog.
func ValidPermission(code string) bool {
	for _, p := range AllPermissions {
		if p == code {
			return true
		}
	}
	return false
}
