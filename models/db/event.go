package dbmodels

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Event struct {
	BaseDepartmentModel
	Department      *Department        `gorm:"foreignKey:DepartmentID"`
	Name            string             `gorm:"type:varchar(255)"`
	Description     string             `gorm:"type:text"`
	AuthorID        uint               `gorm:"index"`
	Author          *Employee          `gorm:"foreignKey:AuthorID"`
	Status          models.EventStatus `gorm:"type:varchar(20);index"`
	RejectionReason string             `gorm:"type:text"`
	SubmittedAt     *time.Time
	ResolvedAt      *time.Time
	Tasks           []Task `gorm:"foreignKey:EventID"`
}

func (e *Event) AfterDelete(tx *gorm.DB) (err error) {
	if e.ID == 0 {
		return nil
	}
	tx.Clauses(clause.Returning{}).Where("event_id = ?", e.ID).Delete(&RoleAssignment{})
	tx.Clauses(clause.Returning{}).Where("event_id = ?", e.ID).Delete(&Task{})
	tx.Clauses(clause.Returning{}).Where("event_id = ?", e.ID).Delete(&EventEmployee{})
	tx.Clauses(clause.Returning{}).Where("event_id = ?", e.ID).Delete(&ApprovalRecord{})
	return
}

func (e Event) Validate() error {
	if err := e.BaseDepartmentModel.Validate(); err != nil {
		return err
	}
	if e.Name == "" {
		return errors.New("не указано название мероприятия")
	}
	return nil
}

type Task struct {
	BaseModel
	EventID     uint   `gorm:"index"`
	Name        string `gorm:"type:varchar(255)"`
	Description string `gorm:"type:text"`
	SortOrder   int
}

func (t Task) ToDomain() raci.Task {
	return raci.Task{
		ID:          t.ID,
		EventID:     t.EventID,
		Name:        t.Name,
		Description: t.Description,
	}
}

func TasksToDomain(list []Task) []raci.Task {
	result := make([]raci.Task, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToDomain())
	}
	return result
}
