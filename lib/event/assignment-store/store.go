package assignmentstore

import (
	dbmodels "raci-approval-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	List(eventID uint) (list []dbmodels.RoleAssignment, err error)
	// Replace заменяет все назначения мероприятия, вызывается внутри транзакции
	Replace(eventID uint, list []dbmodels.RoleAssignment) error
	DeleteByTask(eventID, taskID uint) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) List(eventID uint) (list []dbmodels.RoleAssignment, err error) {
	list = []dbmodels.RoleAssignment{}
	err = i.db.
		Where("event_id = ?", eventID).
		Preload("Employee").
		Order("task_id ASC, id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Replace(eventID uint, list []dbmodels.RoleAssignment) error {
	err := i.db.
		Where("event_id = ?", eventID).
		Delete(&dbmodels.RoleAssignment{}).
		Error
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return nil
	}
	return i.db.
		Omit("Employee").
		Create(&list).
		Error
}

func (i impl) DeleteByTask(eventID, taskID uint) error {
	return i.db.
		Where("event_id = ?", eventID).
		Where("task_id = ?", taskID).
		Delete(&dbmodels.RoleAssignment{}).
		Error
}
