package filesdbstorage

import (
	dbmodels "raci-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	SaveFile(rec dbmodels.FileStorage) (id uint, err error)
	GetByID(eventID, id uint) (rec *dbmodels.FileStorage, err error)
	ListByEvent(eventID uint) (list []dbmodels.FileStorage, err error)
}

type impl struct {
	db *gorm.DB
}

func NewInstance(db *gorm.DB) Provider {
	return &impl{db: db}
}

func (i impl) SaveFile(rec dbmodels.FileStorage) (id uint, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(eventID, id uint) (rec *dbmodels.FileStorage, err error) {
	rec = &dbmodels.FileStorage{}
	err = i.db.
		Model(&dbmodels.FileStorage{}).
		Where("event_id = ? AND id = ?", eventID, id).
		First(rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) ListByEvent(eventID uint) (list []dbmodels.FileStorage, err error) {
	err = i.db.
		Model(&dbmodels.FileStorage{}).
		Where("event_id = ?", eventID).
		Order("created_at desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
