package raci

import (
	"raci-approval-backend/models"
)

// TaskRow строка матрицы.
// Слот роли хранит ровно одного сотрудника: хранилище исторически допускает массивы,
// но активным всегда считается один выбранный сотрудник на роль в задаче.
type TaskRow struct {
	Task  Task
	Slots map[models.RaciRole]uint
}

func (r TaskRow) IsEmpty() bool {
	return len(r.Slots) == 0
}

// HasOwner в задаче есть Responsible или Accountable
func (r TaskRow) HasOwner() bool {
	for role := range r.Slots {
		if role.IsOwner() {
			return true
		}
	}
	return false
}

// Matrix каноническое представление матрицы RACI одного мероприятия
type Matrix struct {
	EventID uint
	Tasks   []TaskRow
	Limits  map[LimitKey]Limit
}

func NewMatrix(eventID uint, tasks []Task) Matrix {
	m := Matrix{
		EventID: eventID,
		Tasks:   make([]TaskRow, 0, len(tasks)),
		Limits:  map[LimitKey]Limit{},
	}
	seen := map[uint]bool{}
	for _, task := range tasks {
		if seen[task.ID] {
			continue
		}
		seen[task.ID] = true
		m.Tasks = append(m.Tasks, TaskRow{
			Task:  task,
			Slots: map[models.RaciRole]uint{},
		})
	}
	return m
}

func (m Matrix) rowIndex(taskID uint) int {
	for idx, row := range m.Tasks {
		if row.Task.ID == taskID {
			return idx
		}
	}
	return -1
}

func (m Matrix) HasTask(taskID uint) bool {
	return m.rowIndex(taskID) >= 0
}

// Assign назначает сотрудника на роль. Если сотрудник уже занимал другую роль
// в этой задаче, он снимается с неё вместе с лимитом.
func (m *Matrix) Assign(a Assignment) bool {
	idx := m.rowIndex(a.TaskID)
	if idx < 0 {
		return false
	}
	row := m.Tasks[idx]
	for role, employeeID := range row.Slots {
		if employeeID == a.EmployeeID && role != a.Role {
			delete(row.Slots, role)
			delete(m.Limits, LimitKey{TaskID: a.TaskID, Role: role, EmployeeID: employeeID})
		}
	}
	if prev, ok := row.Slots[a.Role]; ok && prev != a.EmployeeID {
		delete(m.Limits, LimitKey{TaskID: a.TaskID, Role: a.Role, EmployeeID: prev})
	}
	row.Slots[a.Role] = a.EmployeeID
	return true
}

func (m Matrix) Assignee(taskID uint, role models.RaciRole) (uint, bool) {
	idx := m.rowIndex(taskID)
	if idx < 0 {
		return 0, false
	}
	employeeID, ok := m.Tasks[idx].Slots[role]
	return employeeID, ok
}

func (m Matrix) HasAssignment(key LimitKey) bool {
	employeeID, ok := m.Assignee(key.TaskID, key.Role)
	return ok && employeeID == key.EmployeeID
}

// Assignments назначения в порядке задач, внутри задачи R, A, C, I
func (m Matrix) Assignments() []Assignment {
	result := []Assignment{}
	for _, row := range m.Tasks {
		for _, role := range models.RaciRoles {
			employeeID, ok := row.Slots[role]
			if !ok {
				continue
			}
			result = append(result, Assignment{TaskID: row.Task.ID, Role: role, EmployeeID: employeeID})
		}
	}
	return result
}

func (m Matrix) TaskList() []Task {
	result := make([]Task, 0, len(m.Tasks))
	for _, row := range m.Tasks {
		result = append(result, row.Task)
	}
	return result
}

// Candidate обратное преобразование для повторной проверки
func (m Matrix) Candidate() Candidate {
	limits := make(map[LimitKey]Limit, len(m.Limits))
	for key, limit := range m.Limits {
		limits[key] = limit
	}
	return Candidate{
		EventID:     m.EventID,
		Tasks:       m.TaskList(),
		Assignments: m.Assignments(),
		Limits:      limits,
	}
}

type PoolSource string

const (
	PoolSourceEvent      PoolSource = "event"
	PoolSourceDepartment PoolSource = "department"
	PoolSourceNone       PoolSource = "none"
)

// MatrixView матрица для отображения вместе с доступными сотрудниками
type MatrixView struct {
	Matrix     Matrix
	Pool       []Employee
	PoolSource PoolSource
	// Assignable false при пустом списке сотрудников: матрицу можно построить, но не заполнить
	Assignable bool
}

// AssignmentApproval назначение с решениями согласующих
type AssignmentApproval struct {
	Assignment Assignment
	State      models.ApprovalState
	Records    []ApprovalRecord
}

// ApprovalMatrix матрица, восстановленная из записей согласования
type ApprovalMatrix struct {
	Matrix          Matrix
	Approvals       map[LimitKey]AssignmentApproval
	Status          models.EventStatus
	RejectionReason string
}
