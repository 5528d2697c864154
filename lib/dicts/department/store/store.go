package store

import (
	dbmodels "raci-approval-backend/models/db"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Create(rec dbmodels.Department) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Department, err error)
	List() (list []dbmodels.Department, err error)
	Update(id uint, updMap map[string]interface{}) error
	Delete(id uint) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Department) (id uint, err error) {
	err = rec.Validate()
	if err != nil {
		return 0, err
	}

	err = i.isUnique(rec.ParentID, 0, rec.Name)
	if err != nil {
		return 0, err
	}
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Department, error) {
	rec := dbmodels.Department{}
	err := i.db.
		Where("id = ?", id).
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

func (i impl) List() (list []dbmodels.Department, err error) {
	list = []dbmodels.Department{}
	err = i.db.
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	name, ok := updMap["name"]
	if ok {
		rec, err := i.GetByID(id)
		if err != nil {
			return err
		}
		if rec == nil {
			return errors.New("запись не найдена")
		}
		err = i.isUnique(rec.ParentID, id, name.(string))
		if err != nil {
			return err
		}
	}
	err := i.db.
		Model(&dbmodels.Department{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) Delete(id uint) error {
	rec := dbmodels.Department{
		BaseModel: dbmodels.BaseModel{
			ID: id,
		},
	}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

// isUnique название уникально среди подразделений одного уровня
func (i impl) isUnique(parentID *uint, id uint, name string) error {
	var count int64
	tx := i.db.
		Model(&dbmodels.Department{}).
		Where("LOWER(name) = LOWER(?)", name)
	if parentID == nil {
		tx = tx.Where("parent_id IS NULL")
	} else {
		tx = tx.Where("parent_id = ?", *parentID)
	}
	if id != 0 {
		tx = tx.Where("id <> ?", id)
	}
	err := tx.Count(&count).Error
	if err != nil {
		return err
	}
	if count != 0 {
		return errors.New("подразделение с таким названием уже существует")
	}
	return nil
}
