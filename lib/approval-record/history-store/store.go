package approvalhistorystore

import (
	dbmodels "raci-approval-backend/models/db"

	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.ApprovalHistory) (id uint, err error)
	DeleteByEvent(eventID uint) error
	List(eventID uint) (list []dbmodels.ApprovalHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalHistory) (id uint, err error) {
	err = i.db.
		Omit("Actor").
		Save(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) DeleteByEvent(eventID uint) error {
	return i.db.
		Where("event_id = ?", eventID).
		Delete(&dbmodels.ApprovalHistory{}).
		Error
}

func (i impl) List(eventID uint) (list []dbmodels.ApprovalHistory, err error) {
	list = []dbmodels.ApprovalHistory{}
	err = i.db.
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Preload("Actor").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
