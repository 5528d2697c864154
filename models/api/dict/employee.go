package dictapimodels

import (
	"raci-approval-backend/models"
	apimodels "raci-approval-backend/models/api"
	dbmodels "raci-approval-backend/models/db"
	"strings"

	"github.com/pkg/errors"
)

type EmployeeData struct {
	DepartmentID uint            `json:"department_id" validate:"required"`
	Name         string          `json:"name" validate:"required,max=255"`
	Designation  string          `json:"designation" validate:"max=255"`
	Email        string          `json:"email" validate:"omitempty,email"`
	IsHod        bool            `json:"is_hod"`
	Role         models.UserRole `json:"role" validate:"omitempty,oneof=ADMIN HOD EMPLOYEE"`
	// Password пароль для входа, в ответах не возвращается
	Password string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

func (e EmployeeData) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("не указано имя сотрудника")
	}
	if e.IsHod && e.Email == "" {
		return errors.New("для руководителя подразделения необходимо указать email")
	}
	if e.Password != "" && e.Email == "" {
		return errors.New("для входа по паролю необходимо указать email")
	}
	return apimodels.ValidateStruct(e)
}

type EmployeeView struct {
	EmployeeData
	ID             uint   `json:"id"`
	DepartmentName string `json:"department_name,omitempty"`
	RoleName       string `json:"role_name"`
}

func EmployeeConvert(rec dbmodels.Employee) EmployeeView {
	result := EmployeeView{
		EmployeeData: EmployeeData{
			DepartmentID: rec.DepartmentID,
			Name:         rec.Name,
			Designation:  rec.Designation,
			Email:        rec.Email,
			IsHod:        rec.IsHod,
			Role:         rec.Role,
		},
		ID:       rec.ID,
		RoleName: rec.Role.ToHuman(),
	}
	if rec.Department != nil {
		result.DepartmentName = rec.Department.Name
	}
	return result
}
