package aggregator

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	"sort"
	"strings"
	"time"
)

const reasonSeparator = "; "

// Flatten записи согласования для отправленной матрицы.
// R и A получают по записи PENDING на каждого согласующего, C и I согласуются автоматически.
func Flatten(m raci.Matrix, approvers []raci.Employee, at time.Time) []raci.ApprovalRecord {
	sortedApprovers := raci.SortEmployees(approvers)
	result := []raci.ApprovalRecord{}
	for _, assignment := range m.Assignments() {
		limit := m.Limits[assignment.LimitKey()]
		if !assignment.Role.IsOwner() {
			decidedAt := at
			result = append(result, raci.ApprovalRecord{
				EventID:    m.EventID,
				Level:      models.ApprovalLevelInformational,
				TaskID:     assignment.TaskID,
				Role:       assignment.Role,
				EmployeeID: assignment.EmployeeID,
				State:      models.AStateApproved,
				DecidedAt:  &decidedAt,
				CreatedAt:  at,
			})
			continue
		}
		for _, approver := range sortedApprovers {
			approverID := approver.ID
			result = append(result, raci.ApprovalRecord{
				EventID:    m.EventID,
				Level:      assignment.Role.ApprovalLevel(),
				TaskID:     assignment.TaskID,
				Role:       assignment.Role,
				EmployeeID: assignment.EmployeeID,
				ApproverID: &approverID,
				Limit:      limit,
				State:      models.AStatePending,
				CreatedAt:  at,
			})
		}
	}
	return result
}

type Outcome struct {
	Status          models.EventStatus
	RejectionReason string
	Total           int
	Approved        int
	Rejected        int
	Pending         int
}

// Aggregate статус мероприятия по записям согласования.
// Результат не зависит от порядка записей и порядка принятия решений.
func Aggregate(records []raci.ApprovalRecord) Outcome {
	outcome := Outcome{Total: len(records)}
	reasons := []string{}
	for _, rec := range raci.SortRecords(records) {
		switch rec.State {
		case models.AStateApproved:
			outcome.Approved++
		case models.AStateRejected:
			outcome.Rejected++
			if reason := strings.TrimSpace(rec.Reason); reason != "" {
				reasons = append(reasons, reason)
			}
		default:
			outcome.Pending++
		}
	}
	switch {
	case outcome.Rejected != 0:
		outcome.Status = models.EventStatusRejected
		outcome.RejectionReason = strings.Join(reasons, reasonSeparator)
	case outcome.Total != 0 && outcome.Approved == outcome.Total:
		outcome.Status = models.EventStatusApproved
	default:
		outcome.Status = models.EventStatusPending
	}
	return outcome
}

// AssignmentState состояние назначения по записям всех согласующих
func AssignmentState(records []raci.ApprovalRecord) models.ApprovalState {
	if len(records) == 0 {
		return models.AStatePending
	}
	approved := 0
	for _, rec := range records {
		switch rec.State {
		case models.AStateRejected:
			return models.AStateRejected
		case models.AStateApproved:
			approved++
		}
	}
	if approved == len(records) {
		return models.AStateApproved
	}
	return models.AStatePending
}

// Group обратное к Flatten преобразование: записи группируются по мероприятию и задаче
// в матрицу с состоянием согласования каждого назначения.
// Задачи выводятся в порядке tasks, задачи без описания добавляются в конец по возрастанию id.
func Group(records []raci.ApprovalRecord, tasks []raci.Task) map[uint]raci.ApprovalMatrix {
	byEvent := map[uint][]raci.ApprovalRecord{}
	for _, rec := range raci.SortRecords(records) {
		byEvent[rec.EventID] = append(byEvent[rec.EventID], rec)
	}

	result := make(map[uint]raci.ApprovalMatrix, len(byEvent))
	for eventID, eventRecords := range byEvent {
		result[eventID] = groupEvent(eventID, eventRecords, tasks)
	}
	return result
}

func groupEvent(eventID uint, records []raci.ApprovalRecord, tasks []raci.Task) raci.ApprovalMatrix {
	known := map[uint]bool{}
	eventTasks := []raci.Task{}
	for _, task := range tasks {
		if task.EventID != 0 && task.EventID != eventID {
			continue
		}
		known[task.ID] = true
		eventTasks = append(eventTasks, task)
	}
	extra := []uint{}
	for _, rec := range records {
		if !known[rec.TaskID] {
			known[rec.TaskID] = true
			extra = append(extra, rec.TaskID)
		}
	}
	sort.Slice(extra, func(a, b int) bool { return extra[a] < extra[b] })
	for _, taskID := range extra {
		eventTasks = append(eventTasks, raci.Task{ID: taskID, EventID: eventID})
	}

	m := raci.NewMatrix(eventID, eventTasks)
	byAssignment := map[raci.LimitKey][]raci.ApprovalRecord{}
	for _, rec := range records {
		key := rec.LimitKeyOf()
		byAssignment[key] = append(byAssignment[key], rec)
	}
	for _, key := range sortedKeys(byAssignment) {
		m.Assign(key.Assignment())
		for _, rec := range byAssignment[key] {
			if !rec.Limit.IsEmpty() {
				m.Limits[key] = rec.Limit
				break
			}
		}
	}

	approvals := make(map[raci.LimitKey]raci.AssignmentApproval, len(byAssignment))
	for key, list := range byAssignment {
		approvals[key] = raci.AssignmentApproval{
			Assignment: key.Assignment(),
			State:      AssignmentState(list),
			Records:    list,
		}
	}
	outcome := Aggregate(records)
	return raci.ApprovalMatrix{
		Matrix:          m,
		Approvals:       approvals,
		Status:          outcome.Status,
		RejectionReason: outcome.RejectionReason,
	}
}

func sortedKeys(items map[raci.LimitKey][]raci.ApprovalRecord) []raci.LimitKey {
	keys := make([]raci.LimitKey, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		return keys[a].Less(keys[b])
	})
	return keys
}
