package models

type UserRole string

const (
	AdminRole    UserRole = "ADMIN"
	HodRole      UserRole = "HOD"
	EmployeeRole UserRole = "EMPLOYEE"
)

var roleHumanName = map[UserRole]string{
	AdminRole:    "Администратор",
	HodRole:      "Руководитель подразделения",
	EmployeeRole: "Сотрудник",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}

const SystemUser = "Система"
