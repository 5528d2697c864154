package employeeprovider

import (
	"raci-approval-backend/db"
	"raci-approval-backend/lib/dicts/department/store"
	employeestore "raci-approval-backend/lib/dicts/employee/store"
	"raci-approval-backend/lib/raci"
	authutils "raci-approval-backend/lib/utils/auth-utils"
	initchecker "raci-approval-backend/lib/utils/init-checker"
	"raci-approval-backend/models"
	dictapimodels "raci-approval-backend/models/api/dict"
	dbmodels "raci-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Provider справочник сотрудников и источник согласующих
type Provider interface {
	Create(request dictapimodels.EmployeeData) (id uint, err error)
	Get(id uint) (item dictapimodels.EmployeeView, err error)
	List(departmentID uint) (list []dictapimodels.EmployeeView, err error)
	Approvers(departmentID uint) (list []dictapimodels.EmployeeView, err error)
	ListByDepartment(departmentID uint) ([]raci.Employee, error)
	ListByEvent(eventID uint) ([]raci.Employee, error)
	ResolveApprovers(departmentID uint) ([]raci.Employee, error)
	GetByIDs(ids []uint) ([]raci.Employee, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store:           employeestore.NewInstance(db.DB),
		departmentStore: store.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
		"departmentStore", instance.departmentStore,
	)
	Instance = instance
}

type impl struct {
	store           employeestore.Provider
	departmentStore store.Provider
}

func (i impl) Create(request dictapimodels.EmployeeData) (id uint, err error) {
	department, err := i.departmentStore.GetByID(request.DepartmentID)
	if err != nil {
		return 0, err
	}
	if department == nil {
		return 0, errors.Wrap(raci.ErrNotFound, "подразделение не найдено")
	}
	if request.Email != "" {
		existed, err := i.store.FindByEmail(request.Email)
		if err != nil {
			return 0, err
		}
		if existed != nil {
			return 0, errors.Errorf("сотрудник с email %v уже существует", request.Email)
		}
	}
	role := request.Role
	if role == "" {
		role = models.EmployeeRole
		if request.IsHod {
			role = models.HodRole
		}
	}
	rec := dbmodels.Employee{
		BaseDepartmentModel: dbmodels.BaseDepartmentModel{
			DepartmentID: request.DepartmentID,
		},
		Name:        request.Name,
		Designation: request.Designation,
		Email:       request.Email,
		IsHod:       request.IsHod,
		Role:        role,
	}
	if request.Password != "" {
		rec.Password, err = authutils.HashPassword(request.Password)
		if err != nil {
			return 0, errors.Wrap(err, "ошибка хеширования пароля")
		}
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return 0, err
	}
	log.
		WithField("department_id", request.DepartmentID).
		WithField("rec_id", id).
		Info("создан сотрудник")
	return id, nil
}

func (i impl) Get(id uint) (item dictapimodels.EmployeeView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return dictapimodels.EmployeeView{}, err
	}
	if rec == nil {
		return dictapimodels.EmployeeView{}, errors.Wrap(raci.ErrNotFound, "сотрудник не найден")
	}
	return dictapimodels.EmployeeConvert(*rec), nil
}

func (i impl) List(departmentID uint) (list []dictapimodels.EmployeeView, err error) {
	recList, err := i.store.ListByDepartment(departmentID)
	if err != nil {
		return nil, err
	}
	return convertList(recList), nil
}

func (i impl) Approvers(departmentID uint) (list []dictapimodels.EmployeeView, err error) {
	recList, err := i.store.ListHods(departmentID)
	if err != nil {
		return nil, err
	}
	return convertList(recList), nil
}

func (i impl) ListByDepartment(departmentID uint) ([]raci.Employee, error) {
	recList, err := i.store.ListByDepartment(departmentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудников подразделения")
	}
	return dbmodels.EmployeesToDomain(recList), nil
}

func (i impl) ListByEvent(eventID uint) ([]raci.Employee, error) {
	recList, err := i.store.ListByEvent(eventID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудников мероприятия")
	}
	return dbmodels.EmployeesToDomain(recList), nil
}

// ResolveApprovers руководители подразделения, email проверяется при отправке
func (i impl) ResolveApprovers(departmentID uint) ([]raci.Employee, error) {
	recList, err := i.store.ListHods(departmentID)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения руководителей подразделения")
	}
	return dbmodels.EmployeesToDomain(recList), nil
}

func (i impl) GetByIDs(ids []uint) ([]raci.Employee, error) {
	recList, err := i.store.GetByIDs(ids)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения сотрудников")
	}
	return dbmodels.EmployeesToDomain(recList), nil
}

func convertList(recList []dbmodels.Employee) []dictapimodels.EmployeeView {
	result := make([]dictapimodels.EmployeeView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, dictapimodels.EmployeeConvert(rec))
	}
	return result
}
