package taskstore

import (
	dbmodels "raci-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Task) (id uint, err error)
	GetByID(eventID, id uint) (rec *dbmodels.Task, err error)
	Update(eventID, id uint, updMap map[string]interface{}) error
	Delete(eventID, id uint) error
	List(eventID uint) (list []dbmodels.Task, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Task) (id uint, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(eventID, id uint) (*dbmodels.Task, error) {
	rec := dbmodels.Task{}
	err := i.db.
		Where("id = ?", id).
		Where("event_id = ?", eventID).
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

func (i impl) Update(eventID, id uint, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Task{}).
		Where("id = ?", id).
		Where("event_id = ?", eventID).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Delete(eventID, id uint) error {
	err := i.db.
		Where("event_id = ?", eventID).
		Delete(&dbmodels.Task{BaseModel: dbmodels.BaseModel{ID: id}}).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(eventID uint) (list []dbmodels.Task, err error) {
	list = []dbmodels.Task{}
	err = i.db.
		Where("event_id = ?", eventID).
		Order("sort_order ASC, id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
