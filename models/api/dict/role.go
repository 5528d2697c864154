package dictapimodels

import "raci-approval-backend/models"

func GetRoles() []RoleView {
	return []RoleView{
		GetRole(models.AdminRole),
		GetRole(models.HodRole),
		GetRole(models.EmployeeRole),
	}
}

func GetRole(role models.UserRole) RoleView {
	return RoleView{
		Code: string(role),
		Name: role.ToHuman(),
	}
}

// GetRaciRoles роли матрицы в порядке колонок
func GetRaciRoles() []RoleView {
	result := make([]RoleView, 0, len(models.RaciRoles))
	for _, role := range models.RaciRoles {
		result = append(result, RoleView{
			Code: string(role),
			Name: role.ToHuman(),
		})
	}
	return result
}

type RoleView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
