package helper

import "backend-antrian-pst/internal/config"

func HasRole(role string, allowedRoles ...string) bool {
	for _, allowedRole := range allowedRoles {
		if role == allowedRole {
			return true
		}
	}
	return false
}

func IsElevated(role string) bool {
	return role == config.RoleSuperAdmin
}

func IsStaff(role string) bool {
	return HasRole(role, config.RoleSuperAdmin, config.RoleAdmin)
}
