package approvalstate

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/lib/raci/aggregator"
	"raci-approval-backend/models"
	"strings"
	"time"
)

// Apply переход записи PENDING -> APPROVED | REJECTED. Завершенные записи не меняются.
func Apply(rec *raci.ApprovalRecord, decision models.ApprovalState, reason string, approverID uint, at time.Time) (raci.ApprovalRecord, error) {
	if rec == nil {
		return raci.ApprovalRecord{}, raci.NewDecisionError(raci.RecordNotFound, 0)
	}
	if rec.State.IsTerminal() {
		return *rec, raci.NewDecisionError(raci.AlreadyDecided, rec.ID)
	}
	if !decision.IsDecision() {
		return *rec, raci.NewDecisionError(raci.InvalidDecision, rec.ID)
	}
	if rec.ApproverID == nil || *rec.ApproverID != approverID {
		return *rec, raci.NewDecisionError(raci.NotAssignedApprover, rec.ID)
	}
	reason = strings.TrimSpace(reason)
	if decision == models.AStateRejected && reason == "" {
		return *rec, raci.NewDecisionError(raci.ReasonRequired, rec.ID)
	}
	result := *rec
	decidedAt := at
	result.State = decision
	result.Reason = reason
	result.DecidedAt = &decidedAt
	return result, nil
}

func CanEdit(status models.EventStatus) error {
	if !status.AllowEdit() {
		return raci.ErrEventNotEditable
	}
	return nil
}

// CanSubmit повторная отправка возможна только после отклонения
func CanSubmit(status models.EventStatus) error {
	if !status.AllowSubmit() {
		return raci.NewSubmissionRejected(raci.InvalidEventState,
			"отправка на согласование невозможна в статусе %q", status.ToHuman())
	}
	return nil
}

func CanDelete(status models.EventStatus) error {
	if !status.AllowDelete() {
		return raci.ErrEventNotEditable
	}
	return nil
}

// CheckSubmittable хотя бы одно назначение и у каждой заполненной задачи есть R или A
func CheckSubmittable(m raci.Matrix) error {
	filled := false
	withoutOwner := []uint{}
	for _, row := range m.Tasks {
		if row.IsEmpty() {
			continue
		}
		filled = true
		if !row.HasOwner() {
			withoutOwner = append(withoutOwner, row.Task.ID)
		}
	}
	if !filled {
		return raci.NewSubmissionRejected(raci.NoAssignments, "в матрице нет ни одного назначения")
	}
	if len(withoutOwner) != 0 {
		err := raci.NewSubmissionRejected(raci.NoOwnerAssigned,
			"в задачах %v не назначен ни Responsible, ни Accountable", withoutOwner)
		err.TaskIDs = withoutOwner
		return err
	}
	return nil
}

// ResolveApprovers выбранные согласующие должны входить в список руководителей подразделения,
// без явного выбора согласуют все руководители. Согласующий без email недопустим.
func ResolveApprovers(candidates []raci.Employee, requested []uint) ([]raci.Employee, error) {
	byID := make(map[uint]raci.Employee, len(candidates))
	for _, employee := range candidates {
		byID[employee.ID] = employee
	}
	result := []raci.Employee{}
	if len(requested) == 0 {
		result = append(result, candidates...)
	} else {
		seen := map[uint]bool{}
		unknown := []uint{}
		for _, id := range requested {
			if seen[id] {
				continue
			}
			seen[id] = true
			employee, ok := byID[id]
			if !ok {
				unknown = append(unknown, id)
				continue
			}
			result = append(result, employee)
		}
		if len(unknown) != 0 {
			return nil, raci.NewSubmissionRejected(raci.UnknownApprover,
				"сотрудники %v не являются руководителями подразделения", unknown)
		}
	}
	if len(result) == 0 {
		return nil, raci.NewSubmissionRejected(raci.NoApproverResolvable, "не найден ни один согласующий")
	}
	result = raci.SortEmployees(result)
	for _, approver := range result {
		if strings.TrimSpace(approver.Email) == "" {
			return nil, &raci.ApproverEmailMissingError{EmployeeID: approver.ID, Name: approver.Name}
		}
	}
	return result, nil
}

type Submission struct {
	Approvers []raci.Employee
	Records   []raci.ApprovalRecord
}

// PrepareSubmission проверки перед отправкой и записи согласования. Ничего не сохраняет.
func PrepareSubmission(status models.EventStatus, m raci.Matrix, approverCandidates []raci.Employee, requested []uint, at time.Time) (Submission, error) {
	if err := CanSubmit(status); err != nil {
		return Submission{}, err
	}
	if err := CheckSubmittable(m); err != nil {
		return Submission{}, err
	}
	approvers, err := ResolveApprovers(approverCandidates, requested)
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		Approvers: approvers,
		Records:   aggregator.Flatten(m, approvers, at),
	}, nil
}
