package db

import (
	dbmodels "raci-approval-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	log.Info("Запуск миграций")
	models := []struct {
		name  string
		model interface{}
	}{
		{"Department", &dbmodels.Department{}},
		{"Employee", &dbmodels.Employee{}},
		{"Event", &dbmodels.Event{}},
		{"EventEmployee", &dbmodels.EventEmployee{}},
		{"Task", &dbmodels.Task{}},
		{"RoleAssignment", &dbmodels.RoleAssignment{}},
		{"ApprovalRecord", &dbmodels.ApprovalRecord{}},
		{"ApprovalHistory", &dbmodels.ApprovalHistory{}},
		{"FileStorage", &dbmodels.FileStorage{}},
		{"PushData", &dbmodels.PushData{}},
	}
	for _, item := range models {
		if err := DB.AutoMigrate(item.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %v", item.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}
