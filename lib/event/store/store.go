package eventstore

import (
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Provider interface {
	Create(rec dbmodels.Event) (id uint, err error)
	GetByID(id uint) (rec *dbmodels.Event, err error)
	GetForUpdate(id uint) (rec *dbmodels.Event, err error)
	Update(id uint, updMap map[string]interface{}) error
	ChangeStatus(id uint, from []models.EventStatus, updMap map[string]interface{}) (changed bool, err error)
	Delete(id uint) error
	List(filter raciapimodels.EventFilter) (list []dbmodels.Event, err error)
	ListCount(filter raciapimodels.EventFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Event) (id uint, err error) {
	err = rec.Validate()
	if err != nil {
		return 0, err
	}
	err = i.db.
		Omit(clause.Associations).
		Save(&rec).
		Error
	if err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id uint) (*dbmodels.Event, error) {
	rec := dbmodels.Event{}
	err := i.db.
		Where("id = ?", id).
		Preload("Department").
		Preload("Author").
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC, id ASC")
		}).
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

// GetForUpdate блокировка строки мероприятия до конца транзакции
func (i impl) GetForUpdate(id uint) (*dbmodels.Event, error) {
	rec := dbmodels.Event{}
	err := i.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
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

func (i impl) Update(id uint, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.Event{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

// ChangeStatus условное обновление: строка меняется, только если текущий статус входит в from
func (i impl) ChangeStatus(id uint, from []models.EventStatus, updMap map[string]interface{}) (bool, error) {
	result := i.db.
		Model(&dbmodels.Event{}).
		Where("id = ?", id).
		Where("status IN ?", from).
		Updates(updMap)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (i impl) Delete(id uint) error {
	rec := dbmodels.Event{
		BaseDepartmentModel: dbmodels.BaseDepartmentModel{
			BaseModel: dbmodels.BaseModel{ID: id},
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

func (i impl) ListCount(filter raciapimodels.EventFilter) (count int64, err error) {
	var rowCount int64
	tx := i.db.
		Model(dbmodels.Event{})
	tx = i.addFilter(tx, filter)
	err = tx.Count(&rowCount).Error
	if err != nil {
		log.WithError(err).Error("ошибка получения общего количества мероприятий")
		return 0, errors.New("ошибка получения общего количества мероприятий")
	}
	return rowCount, nil
}

func (i impl) List(filter raciapimodels.EventFilter) (list []dbmodels.Event, err error) {
	list = []dbmodels.Event{}
	tx := i.db.
		Model(dbmodels.Event{}).
		Preload("Department").
		Preload("Author")
	tx = i.addFilter(tx, filter)
	page, limit := filter.GetPage()
	err = tx.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) addFilter(tx *gorm.DB, filter raciapimodels.EventFilter) *gorm.DB {
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.DepartmentID != 0 {
		tx = tx.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.AuthorID != 0 {
		tx = tx.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Search != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	return tx
}
