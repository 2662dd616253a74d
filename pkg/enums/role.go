package enums

import "fmt"

// Role identifies the actor kinds that read and mutate shared records.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleServiceManager  Role = "service_manager"
	RoleTechnician      Role = "technician"
	RoleDispatchManager Role = "dispatch_manager"
	RoleStockManager    Role = "stock_manager"
	RoleFinanceManager  Role = "finance_manager"
	RoleSupervisor      Role = "supervisor"
)

var validRoles = []Role{
	RoleCustomer,
	RoleServiceManager,
	RoleTechnician,
	RoleDispatchManager,
	RoleStockManager,
	RoleFinanceManager,
	RoleSupervisor,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
