package raciapimodels

import (
	"raci-approval-backend/lib/raci"
	limitcodec "raci-approval-backend/lib/raci/limit-codec"
	"raci-approval-backend/models"
	apimodels "raci-approval-backend/models/api"
	dbmodels "raci-approval-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type SubmitData struct {
	ApproverIDs []uint         `json:"approver_ids" validate:"unique,dive,gt=0"` // Согласующие, по умолчанию все руководители подразделения
	Matrix      *MatrixPayload `json:"matrix,omitempty"`                         // Матрица для сохранения перед отправкой
}

func (s SubmitData) Validate() error {
	if s.Matrix != nil {
		if err := s.Matrix.Validate(); err != nil {
			return err
		}
	}
	return apimodels.ValidateStruct(s)
}

type DecisionData struct {
	Decision models.ApprovalState `json:"decision"`
	Reason   string               `json:"reason"`
}

type RejectData struct {
	Reason string `json:"reason" validate:"required"`
}

func (r RejectData) Validate() error {
	if err := apimodels.ValidateStruct(r); err != nil {
		return errors.New("при отклонении необходимо указать причину")
	}
	return nil
}

type ApproveData struct {
	Reason string `json:"reason"`
}

func (a ApproveData) Validate() error {
	return nil
}

type ApprovalRecordView struct {
	ID           uint                 `json:"id"`
	EventID      uint                 `json:"event_id"`
	EventName    string               `json:"event_name,omitempty"`
	Level        models.ApprovalLevel `json:"level"`
	TaskID       uint                 `json:"task_id"`
	TaskName     string               `json:"task_name,omitempty"`
	Role         models.RaciRole      `json:"role"`
	EmployeeID   uint                 `json:"employee_id"`
	EmployeeName string               `json:"employee_name,omitempty"`
	ApproverID   *uint                `json:"approver_id,omitempty"`
	ApproverName string               `json:"approver_name,omitempty"`
	Limit        *raci.Limit          `json:"financial_limits,omitempty"`
	State        models.ApprovalState `json:"state"`
	StateName    string               `json:"state_name"`
	Reason       string               `json:"reason,omitempty"`
	DecidedAt    *time.Time           `json:"decided_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

func ApprovalRecordConvert(rec raci.ApprovalRecord, employees map[uint]raci.Employee) ApprovalRecordView {
	result := ApprovalRecordView{
		ID:         rec.ID,
		EventID:    rec.EventID,
		Level:      rec.Level,
		TaskID:     rec.TaskID,
		Role:       rec.Role,
		EmployeeID: rec.EmployeeID,
		ApproverID: rec.ApproverID,
		State:      rec.State,
		StateName:  rec.State.ToHuman(),
		Reason:     rec.Reason,
		DecidedAt:  rec.DecidedAt,
		CreatedAt:  rec.CreatedAt,
	}
	if !rec.Limit.IsEmpty() {
		limit := rec.Limit
		result.Limit = &limit
	}
	if employee, ok := employees[rec.EmployeeID]; ok {
		result.EmployeeName = employee.Name
	}
	if approver, ok := employees[rec.ApproverIDValue()]; ok && rec.ApproverID != nil {
		result.ApproverName = approver.Name
	}
	return result
}

// ApprovalRecordDbConvert запись с подгруженными связями (входящие согласующего)
func ApprovalRecordDbConvert(rec dbmodels.ApprovalRecord) ApprovalRecordView {
	employees := map[uint]raci.Employee{}
	if rec.Employee != nil {
		employees[rec.Employee.ID] = rec.Employee.ToDomain()
	}
	if rec.Approver != nil {
		employees[rec.Approver.ID] = rec.Approver.ToDomain()
	}
	result := ApprovalRecordConvert(rec.ToDomain(), employees)
	if rec.Event != nil {
		result.EventName = rec.Event.Name
	}
	if rec.Task != nil {
		result.TaskName = rec.Task.Name
	}
	return result
}

type ApprovalAssigneeView struct {
	AssigneeData
	State     models.ApprovalState `json:"state"`
	StateName string               `json:"state_name"`
	Records   []ApprovalRecordView `json:"records"`
}

type ApprovalTaskView struct {
	TaskID uint                              `json:"task_id"`
	Name   string                            `json:"name"`
	Roles  map[string][]ApprovalAssigneeView `json:"roles"`
}

// ApprovalMatrixView матрица с состоянием согласования каждого назначения
type ApprovalMatrixView struct {
	EventID         uint                  `json:"event_id"`
	Status          models.EventStatus    `json:"status"`
	StatusName      string                `json:"status_name"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
	Submitted       bool                  `json:"submitted"`
	Tasks           []ApprovalTaskView    `json:"tasks"`
	FinancialLimits map[string]raci.Limit `json:"financial_limits"`
}

func ApprovalMatrixConvert(am raci.ApprovalMatrix, submitted bool, employees map[uint]raci.Employee) ApprovalMatrixView {
	result := ApprovalMatrixView{
		EventID:         am.Matrix.EventID,
		Status:          am.Status,
		StatusName:      am.Status.ToHuman(),
		RejectionReason: am.RejectionReason,
		Submitted:       submitted,
		Tasks:           make([]ApprovalTaskView, 0, len(am.Matrix.Tasks)),
		FinancialLimits: limitcodec.Encode(am.Matrix.Limits),
	}
	for _, row := range am.Matrix.Tasks {
		item := ApprovalTaskView{
			TaskID: row.Task.ID,
			Name:   row.Task.Name,
			Roles:  map[string][]ApprovalAssigneeView{},
		}
		for _, role := range models.RaciRoles {
			employeeID, ok := row.Slots[role]
			if !ok {
				continue
			}
			assignment := raci.Assignment{TaskID: row.Task.ID, Role: role, EmployeeID: employeeID}
			assignee := ApprovalAssigneeView{
				AssigneeData: assigneeConvert(assignment, am.Matrix.Limits, employees),
				Records:      []ApprovalRecordView{},
			}
			if approval, ok := am.Approvals[assignment.LimitKey()]; ok {
				assignee.State = approval.State
				assignee.StateName = approval.State.ToHuman()
				for _, rec := range approval.Records {
					assignee.Records = append(assignee.Records, ApprovalRecordConvert(rec, employees))
				}
			}
			item.Roles[string(role)] = []ApprovalAssigneeView{assignee}
		}
		result.Tasks = append(result.Tasks, item)
	}
	return result
}

type SubmitResult struct {
	Event   EventView            `json:"event"`
	Records []ApprovalRecordView `json:"records"`
}

type ApprovalHistoryView struct {
	ID        uint                   `json:"id"`
	EventID   uint                   `json:"event_id"`
	RecordID  *uint                  `json:"record_id,omitempty"`
	ActorID   *uint                  `json:"actor_id,omitempty"`
	ActorName string                 `json:"actor_name,omitempty"`
	Action    models.HistoryAction   `json:"action"`
	State     models.ApprovalState   `json:"state,omitempty"`
	Comment   string                 `json:"comment,omitempty"`
	Changes   dbmodels.EntityChanges `json:"changes"`
	CreatedAt time.Time              `json:"created_at"`
}

func ApprovalHistoryConvert(rec dbmodels.ApprovalHistory) ApprovalHistoryView {
	result := ApprovalHistoryView{
		ID:        rec.ID,
		EventID:   rec.EventID,
		RecordID:  rec.RecordID,
		ActorID:   rec.ActorID,
		Action:    rec.Action,
		State:     rec.State,
		Comment:   rec.Comment,
		Changes:   rec.Changes,
		CreatedAt: rec.CreatedAt,
	}
	if rec.Actor != nil {
		result.ActorName = rec.Actor.Name
	}
	return result
}
