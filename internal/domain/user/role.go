package user

type Role string

const (
	RoleOwner     Role = "owner"      // Company owner - full access
	RoleHRManager Role = "hr_manager" // Approves and pays payroll
	RoleHRStaff   Role = "hr_staff"   // Runs and validates payroll
	RoleEmployee  Role = "employee"   // Regular employee
)

// roleLevel orders roles for threshold checks. Higher wins.
var roleLevel = map[Role]int{
	RoleEmployee:  0,
	RoleHRStaff:   1,
	RoleHRManager: 2,
	RoleOwner:     3,
}

// AtLeast reports whether role meets or exceeds the minimum role.
// Unknown roles never qualify.
func AtLeast(role, min Role) bool {
	rl, ok := roleLevel[role]
	if !ok {
		return false
	}
	ml, ok := roleLevel[min]
	if !ok {
		return false
	}
	return rl >= ml
}

type Permission string

const (
	PermissionPayrollView     Permission = "payroll.view"
	PermissionPayrollRun      Permission = "payroll.run"
	PermissionPayrollValidate Permission = "payroll.validate"
	PermissionPayrollApprove  Permission = "payroll.approve"
	PermissionPayrollPay      Permission = "payroll.pay"
	PermissionSettingsManage  Permission = "payroll.settings_manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionPayrollView,
		PermissionPayrollRun,
		PermissionPayrollValidate,
		PermissionPayrollApprove,
		PermissionPayrollPay,
		PermissionSettingsManage,
	},
	RoleHRManager: {
		PermissionPayrollView,
		PermissionPayrollRun,
		PermissionPayrollValidate,
		PermissionPayrollApprove,
		PermissionPayrollPay,
		PermissionSettingsManage,
	},
	RoleHRStaff: {
		PermissionPayrollView,
		PermissionPayrollRun,
		PermissionPayrollValidate,
	},
	RoleEmployee: {},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
