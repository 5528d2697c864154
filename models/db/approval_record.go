package dbmodels

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	"time"

	"github.com/shopspring/decimal"
)

type ApprovalRecord struct {
	BaseModel
	EventID    uint                 `gorm:"uniqueIndex:idx_approval_record"`
	Event      *Event               `gorm:"foreignKey:EventID"`
	Level      models.ApprovalLevel `gorm:"uniqueIndex:idx_approval_record"`
	TaskID     uint                 `gorm:"uniqueIndex:idx_approval_record"`
	Task       *Task                `gorm:"foreignKey:TaskID"`
	Role       models.RaciRole      `gorm:"type:varchar(20);uniqueIndex:idx_approval_record"`
	EmployeeID uint                 `gorm:"uniqueIndex:idx_approval_record"`
	Employee   *Employee            `gorm:"foreignKey:EmployeeID"`
	ApproverID *uint                `gorm:"uniqueIndex:idx_approval_record;index"`
	Approver   *Employee            `gorm:"foreignKey:ApproverID"`
	MinLimit   *decimal.Decimal     `gorm:"type:numeric(18,2)"`
	MaxLimit   *decimal.Decimal     `gorm:"type:numeric(18,2)"`
	State      models.ApprovalState `gorm:"type:varchar(20);index"`
	Reason     string               `gorm:"type:text"`
	DecidedAt  *time.Time
	RemindedAt *time.Time
}

func (r ApprovalRecord) ToDomain() raci.ApprovalRecord {
	return raci.ApprovalRecord{
		ID:         r.ID,
		EventID:    r.EventID,
		Level:      r.Level,
		TaskID:     r.TaskID,
		Role:       r.Role,
		EmployeeID: r.EmployeeID,
		ApproverID: r.ApproverID,
		Limit: raci.Limit{
			Min: raci.LimitValueFromPtr(r.MinLimit),
			Max: raci.LimitValueFromPtr(r.MaxLimit),
		},
		State:     r.State,
		Reason:    r.Reason,
		DecidedAt: r.DecidedAt,
		CreatedAt: r.CreatedAt,
	}
}

func ApprovalRecordsToDomain(list []ApprovalRecord) []raci.ApprovalRecord {
	result := make([]raci.ApprovalRecord, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToDomain())
	}
	return result
}

func NewApprovalRecord(rec raci.ApprovalRecord) ApprovalRecord {
	return ApprovalRecord{
		BaseModel: BaseModel{
			ID: rec.ID,
		},
		EventID:    rec.EventID,
		Level:      rec.Level,
		TaskID:     rec.TaskID,
		Role:       rec.Role,
		EmployeeID: rec.EmployeeID,
		ApproverID: rec.ApproverID,
		MinLimit:   rec.Limit.Min.DecimalPtr(),
		MaxLimit:   rec.Limit.Max.DecimalPtr(),
		State:      rec.State,
		Reason:     rec.Reason,
		DecidedAt:  rec.DecidedAt,
	}
}

type ApprovalHistory struct {
	BaseModel
	EventID  uint                 `gorm:"index"`
	RecordID *uint                `gorm:"index"`
	ActorID  *uint                `gorm:"index"`
	Actor    *Employee            `gorm:"foreignKey:ActorID"`
	Action   models.HistoryAction `gorm:"type:varchar(20)"`
	State    models.ApprovalState `gorm:"type:varchar(20)"`
	Comment  string               `gorm:"type:text"`
	Changes  EntityChanges        `gorm:"type:jsonb"`
}
