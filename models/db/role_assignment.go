package dbmodels

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"

	"github.com/shopspring/decimal"
)

// RoleAssignment назначение сотрудника на роль в задаче.
// В задаче на каждую роль один сотрудник и сотрудник не более чем в одной роли.
type RoleAssignment struct {
	BaseModel
	EventID    uint             `gorm:"index"`
	TaskID     uint             `gorm:"uniqueIndex:idx_task_role;uniqueIndex:idx_task_employee"`
	Role       models.RaciRole  `gorm:"type:varchar(20);uniqueIndex:idx_task_role"`
	EmployeeID uint             `gorm:"uniqueIndex:idx_task_employee"`
	Employee   *Employee        `gorm:"foreignKey:EmployeeID"`
	MinLimit   *decimal.Decimal `gorm:"type:numeric(18,2)"`
	MaxLimit   *decimal.Decimal `gorm:"type:numeric(18,2)"`
}

func (r RoleAssignment) Assignment() raci.Assignment {
	return raci.Assignment{TaskID: r.TaskID, Role: r.Role, EmployeeID: r.EmployeeID}
}

func (r RoleAssignment) Limit() raci.Limit {
	return raci.Limit{
		Min: raci.LimitValueFromPtr(r.MinLimit),
		Max: raci.LimitValueFromPtr(r.MaxLimit),
	}
}

// NewRoleAssignments строки хранения для проверенной матрицы
func NewRoleAssignments(m raci.Matrix) []RoleAssignment {
	result := []RoleAssignment{}
	for _, assignment := range m.Assignments() {
		rec := RoleAssignment{
			EventID:    m.EventID,
			TaskID:     assignment.TaskID,
			Role:       assignment.Role,
			EmployeeID: assignment.EmployeeID,
		}
		if limit, ok := m.Limits[assignment.LimitKey()]; ok {
			rec.MinLimit = limit.Min.DecimalPtr()
			rec.MaxLimit = limit.Max.DecimalPtr()
		}
		result = append(result, rec)
	}
	return result
}
