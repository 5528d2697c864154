package dbmodels

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Department struct {
	BaseModel
	ParentID *uint  `gorm:"index"`
	Name     string `gorm:"type:varchar(255)"`
}

func (d *Department) AfterDelete(tx *gorm.DB) (err error) {
	if d.ID == 0 {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("parent_id = ?", d.ID).Delete(&Department{})
	return
}

func (d *Department) Validate() error {
	if d.Name == "" {
		return errors.New("не указано название подразделения")
	}
	return nil
}
