package db

import (
	"raci-approval-backend/config"
	departmentstore "raci-approval-backend/lib/dicts/department/store"
	employeestore "raci-approval-backend/lib/dicts/employee/store"
	authutils "raci-approval-backend/lib/utils/auth-utils"
	"raci-approval-backend/models"
	dbmodels "raci-approval-backend/models/db"

	log "github.com/sirupsen/logrus"
)

const employeesPreloadFile = "./static_preload/employees.csv"

func InitPreload() {
	addAdmin()
	fillEmployees(employeesPreloadFile)
}

func addAdmin() {
	if config.Conf.Admin.Email == "" || config.Conf.Admin.Password == "" {
		log.Warn("администратор не добавлен, отсутствуют настройки ADMIN_EMAIL/ADMIN_PASSWORD")
		return
	}
	employeeStore := employeestore.NewInstance(DB)
	existedRec, err := employeeStore.FindByEmail(config.Conf.Admin.Email)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	if existedRec != nil {
		return
	}
	departmentID, err := departmentByName(departmentstore.NewInstance(DB), config.Conf.Admin.DepartmentName)
	if err != nil {
		log.WithError(err).Error("ошибка добавления подразделения администратора")
		return
	}
	password, err := authutils.HashPassword(config.Conf.Admin.Password)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	rec := dbmodels.Employee{
		BaseDepartmentModel: dbmodels.BaseDepartmentModel{
			DepartmentID: departmentID,
		},
		Name:     config.Conf.Admin.Name,
		Email:    config.Conf.Admin.Email,
		Role:     models.AdminRole,
		Password: password,
	}
	_, err = employeeStore.Create(rec)
	if err != nil {
		log.WithError(err).Error("ошибка добавления администратора")
		return
	}
	log.Info("администратор добавлен")
}

func departmentByName(store departmentstore.Provider, name string) (uint, error) {
	list, err := store.List()
	if err != nil {
		return 0, err
	}
	for _, rec := range list {
		if rec.Name == name {
			return rec.ID, nil
		}
	}
	return store.Create(dbmodels.Department{Name: name})
}
