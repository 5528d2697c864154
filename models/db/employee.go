package dbmodels

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Employee struct {
	BaseDepartmentModel
	Department  *Department     `gorm:"foreignKey:DepartmentID"`
	Name        string          `gorm:"type:varchar(255)"`
	Designation string          `gorm:"type:varchar(255)"`
	Email       string          `gorm:"type:varchar(255)"`
	IsHod       bool            `gorm:"index"`
	Role        models.UserRole `gorm:"type:varchar(50)"`
	Password    string          `gorm:"type:varchar(255)" json:"-"`
	LastLogin   *time.Time
}

func (e Employee) Validate() error {
	if err := e.BaseDepartmentModel.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("не указано имя сотрудника")
	}
	return nil
}

func (e Employee) ToDomain() raci.Employee {
	return raci.Employee{
		ID:           e.ID,
		Name:         e.Name,
		Designation:  e.Designation,
		Email:        e.Email,
		DepartmentID: e.DepartmentID,
		IsHod:        e.IsHod,
	}
}

func EmployeesToDomain(list []Employee) []raci.Employee {
	result := make([]raci.Employee, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToDomain())
	}
	return result
}

// EventEmployee сотрудник, явно прикрепленный к мероприятию
type EventEmployee struct {
	BaseModel
	EventID    uint      `gorm:"uniqueIndex:idx_event_employee"`
	EmployeeID uint      `gorm:"uniqueIndex:idx_event_employee"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID"`
}
