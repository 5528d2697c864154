// Package raci содержит доменную модель матрицы RACI: задачи, назначения ролей,
// финансовые лимиты и записи согласования. Пакет не выполняет ввод-вывод.
package raci

import (
	"raci-approval-backend/models"
	"sort"
	"time"
)

type Task struct {
	ID          uint
	EventID     uint
	Name        string
	Description string
}

type Employee struct {
	ID           uint
	Name         string
	Designation  string
	Email        string
	DepartmentID uint
	IsHod        bool
}

// Assignment сотрудник EmployeeID исполняет роль Role в задаче TaskID
type Assignment struct {
	TaskID     uint
	Role       models.RaciRole
	EmployeeID uint
}

func (a Assignment) LimitKey() LimitKey {
	return LimitKey{TaskID: a.TaskID, Role: a.Role, EmployeeID: a.EmployeeID}
}

// LimitKey адрес финансового лимита (задача, роль, сотрудник)
type LimitKey struct {
	TaskID     uint
	Role       models.RaciRole
	EmployeeID uint
}

func (k LimitKey) Assignment() Assignment {
	return Assignment{TaskID: k.TaskID, Role: k.Role, EmployeeID: k.EmployeeID}
}

func (k LimitKey) Less(other LimitKey) bool {
	if k.TaskID != other.TaskID {
		return k.TaskID < other.TaskID
	}
	if k.Role != other.Role {
		return k.Role.Order() < other.Role.Order()
	}
	return k.EmployeeID < other.EmployeeID
}

// SortedLimitKeys ключи лимитов в детерминированном порядке
func SortedLimitKeys(limits map[LimitKey]Limit) []LimitKey {
	keys := make([]LimitKey, 0, len(limits))
	for key := range limits {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		return keys[a].Less(keys[b])
	})
	return keys
}

// Candidate предлагаемая матрица до проверки.
// Assignments перечислены в порядке применения: последнее назначение сотрудника в задаче побеждает.
type Candidate struct {
	EventID     uint
	Tasks       []Task
	Assignments []Assignment
	Limits      map[LimitKey]Limit
}

// ApprovalRecord решение одного согласующего по одному назначению
type ApprovalRecord struct {
	ID         uint
	EventID    uint
	Level      models.ApprovalLevel
	TaskID     uint
	Role       models.RaciRole
	EmployeeID uint
	ApproverID *uint
	Limit      Limit
	State      models.ApprovalState
	Reason     string
	DecidedAt  *time.Time
	CreatedAt  time.Time
}

func (r ApprovalRecord) Assignment() Assignment {
	return Assignment{TaskID: r.TaskID, Role: r.Role, EmployeeID: r.EmployeeID}
}

func (r ApprovalRecord) ApproverIDValue() uint {
	if r.ApproverID == nil {
		return 0
	}
	return *r.ApproverID
}

// Less порядок записей, не зависящий от порядка поступления решений
func (r ApprovalRecord) Less(other ApprovalRecord) bool {
	if r.ID != other.ID {
		return r.ID < other.ID
	}
	if r.Assignment() != other.Assignment() {
		return r.LimitKeyOf().Less(other.LimitKeyOf())
	}
	return r.ApproverIDValue() < other.ApproverIDValue()
}

func (r ApprovalRecord) LimitKeyOf() LimitKey {
	return r.Assignment().LimitKey()
}

func SortRecords(records []ApprovalRecord) []ApprovalRecord {
	result := make([]ApprovalRecord, len(records))
	copy(result, records)
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].Less(result[b])
	})
	return result
}

func SortEmployees(list []Employee) []Employee {
	result := make([]Employee, len(list))
	copy(result, list)
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].ID < result[b].ID
	})
	return result
}
