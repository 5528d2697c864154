package employeestore

import (
	dbmodels "raci-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Employee) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Employee, err error)
	GetByIDs(ids []uint) (list []dbmodels.Employee, err error)
	FindByEmail(email string) (rec *dbmodels.Employee, err error)
	Update(id uint, updMap map[string]interface{}) error
	ListByDepartment(departmentID uint) (list []dbmodels.Employee, err error)
	ListHods(departmentID uint) (list []dbmodels.Employee, err error)
	ListByEvent(eventID uint) (list []dbmodels.Employee, err error)
	// SetEventEmployees заменяет список сотрудников мероприятия
	SetEventEmployees(eventID uint, employeeIDs []uint) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Employee) (id uint, err error) {
	err = rec.Validate()
	if err != nil {
		return 0, err
	}
	err = i.db.
		Omit("Department").
		Save(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Employee, error) {
	rec := dbmodels.Employee{}
	err := i.db.
		Where("id = ?", id).
		Preload("Department").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetByIDs(ids []uint) (list []dbmodels.Employee, err error) {
	list = []dbmodels.Employee{}
	if len(ids) == 0 {
		return list, nil
	}
	err = i.db.
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) FindByEmail(email string) (*dbmodels.Employee, error) {
	rec := dbmodels.Employee{}
	err := i.db.
		Where("LOWER(email) = LOWER(?)", email).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Employee{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) ListByDepartment(departmentID uint) (list []dbmodels.Employee, err error) {
	list = []dbmodels.Employee{}
	err = i.db.
		Where("department_id = ?", departmentID).
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListHods(departmentID uint) (list []dbmodels.Employee, err error) {
	list = []dbmodels.Employee{}
	err = i.db.
		Where("department_id = ?", departmentID).
		Where("is_hod = ?", true).
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByEvent(eventID uint) (list []dbmodels.Employee, err error) {
	list = []dbmodels.Employee{}
	err = i.db.
		Joins("JOIN event_employees ee ON ee.employee_id = employees.id").
		Where("ee.event_id = ?", eventID).
		Order("employees.id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) SetEventEmployees(eventID uint, employeeIDs []uint) error {
	err := i.db.
		Clauses(clause.Returning{}).
		Where("event_id = ?", eventID).
		Delete(&dbmodels.EventEmployee{}).
		Error
	if err != nil {
		return err
	}
	if len(employeeIDs) == 0 {
		return nil
	}
	list := make([]dbmodels.EventEmployee, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		list = append(list, dbmodels.EventEmployee{
			EventID:    eventID,
			EmployeeID: employeeID,
		})
	}
	return i.db.
		Omit("Employee").
		Create(&list).
		Error
}
