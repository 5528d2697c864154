package approvalrecordstore

import (
	"raci-approval-backend/models"
	dbmodels "raci-approval-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	CreateBatch(list []dbmodels.ApprovalRecord) (result []dbmodels.ApprovalRecord, err error)
	DeleteByEvent(eventID uint) error
	GetByID(id uint) (rec *dbmodels.ApprovalRecord, err error)
	ListByEvent(eventID uint) (list []dbmodels.ApprovalRecord, err error)
	ListByApprover(approverID uint, state models.ApprovalState) (list []dbmodels.ApprovalRecord, err error)
	// Decide условное обновление записи в статусе PENDING, false - решение уже принято
	Decide(id uint, state models.ApprovalState, reason string, decidedAt time.Time) (updated bool, err error)
	ListStalePending(createdBefore, remindedBefore time.Time) (list []dbmodels.ApprovalRecord, err error)
	MarkReminded(ids []uint, at time.Time) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) CreateBatch(list []dbmodels.ApprovalRecord) ([]dbmodels.ApprovalRecord, error) {
	if len(list) == 0 {
		return list, nil
	}
	err := i.db.
		Omit("Event", "Task", "Employee", "Approver").
		Create(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) DeleteByEvent(eventID uint) error {
	return i.db.
		Where("event_id = ?", eventID).
		Delete(&dbmodels.ApprovalRecord{}).
		Error
}

func (i impl) GetByID(id uint) (*dbmodels.ApprovalRecord, error) {
	rec := dbmodels.ApprovalRecord{}
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

func (i impl) ListByEvent(eventID uint) (list []dbmodels.ApprovalRecord, err error) {
	list = []dbmodels.ApprovalRecord{}
	err = i.db.
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListByApprover(approverID uint, state models.ApprovalState) (list []dbmodels.ApprovalRecord, err error) {
	list = []dbmodels.ApprovalRecord{}
	tx := i.db.
		Where("approver_id = ?", approverID)
	if state != "" {
		tx = tx.Where("state = ?", state)
	}
	err = tx.
		Preload("Event").
		Preload("Task").
		Preload("Employee").
		Preload("Approver").
		Order("created_at DESC, id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Decide(id uint, state models.ApprovalState, reason string, decidedAt time.Time) (bool, error) {
	result := i.db.
		Model(&dbmodels.ApprovalRecord{}).
		Where("id = ?", id).
		Where("state = ?", models.AStatePending).
		Updates(map[string]interface{}{
			"state":      state,
			"reason":     reason,
			"decided_at": decidedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (i impl) ListStalePending(createdBefore, remindedBefore time.Time) (list []dbmodels.ApprovalRecord, err error) {
	list = []dbmodels.ApprovalRecord{}
	err = i.db.
		Joins("JOIN events ON events.id = approval_records.event_id AND events.status = ?", models.EventStatusPending).
		Where("approval_records.state = ?", models.AStatePending).
		Where("approval_records.approver_id IS NOT NULL").
		Where("approval_records.created_at < ?", createdBefore).
		Where("approval_records.reminded_at IS NULL OR approval_records.reminded_at < ?", remindedBefore).
		Preload("Event").
		Preload("Task").
		Preload("Employee").
		Preload("Approver").
		Order("approval_records.approver_id ASC, approval_records.id ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkReminded(ids []uint, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return i.db.
		Model(&dbmodels.ApprovalRecord{}).
		Where("id IN ?", ids).
		Update("reminded_at", at).
		Error
}
