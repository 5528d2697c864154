package dbmodels

import (
	"time"

	"github.com/pkg/errors"
)

type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BaseDepartmentModel struct {
	BaseModel
	DepartmentID uint `gorm:"index" json:"department_id"`
}

func (b BaseDepartmentModel) Validate() error {
	if b.DepartmentID == 0 {
		return errors.New("отсутсвует ссылка на подразделение")
	}
	return nil
}
