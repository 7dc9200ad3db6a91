package model

// Privilege codes checked by the middleware and the services.
const (
	PrivProductView       = "product:view"
	PrivProductManage     = "product:manage"
	PrivProductCreate     = "product:create"
	PrivStockAdd          = "stock:add"
	PrivStockReconcile    = "stock:reconcile"
	PrivSaleCreate        = "sale:create"
	PrivSaleViewAll       = "sale:view_all"
	PrivSaleViewOwn       = "sale:view_own"
	PrivReportView        = "report:view"
	PrivDashboardAdmin    = "dashboard:admin"
	PrivDashboardEmployee = "dashboard:employee"
	PrivUserManage        = "user:manage"
)

// AllPrivileges lists every privilege; admins hold all of them.
var AllPrivileges = []string{
	PrivProductView,
	PrivProductManage,
	PrivProductCreate,
	PrivStockAdd,
	PrivStockReconcile,
	PrivSaleCreate,
	PrivSaleViewAll,
	PrivSaleViewOwn,
	PrivReportView,
	PrivDashboardAdmin,
	PrivDashboardEmployee,
	PrivUserManage,
}

// RolePrivileges is the static grant table per role.
var RolePrivileges = map[Role][]string{
	RoleAdmin: AllPrivileges,
	RoleEmployee: {
		PrivProductView,
		PrivSaleCreate,
		PrivSaleViewOwn,
		PrivDashboardEmployee,
	},
}

// Privileges returns the privilege codes granted to the role.
func (r Role) Privileges() []string {
	return RolePrivileges[r]
}

// HasPrivilege checks if the role grants a specific privilege
func (r Role) HasPrivilege(code string) bool {
	for _, p := range RolePrivileges[r] {
		if p == code {
			return true
		}
	}
	return false
}
