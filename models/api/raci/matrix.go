package raciapimodels

import (
	"raci-approval-backend/lib/raci"
	limitcodec "raci-approval-backend/lib/raci/limit-codec"
	"raci-approval-backend/models"

	"github.com/pkg/errors"
)

// AssigneeData сотрудник в ячейке матрицы.
// Хранилище допускает несколько сотрудников на роль, активным считается первый.
type AssigneeData struct {
	EmployeeID      uint        `json:"employee_id"`
	Name            string      `json:"name,omitempty"`
	Designation     string      `json:"designation,omitempty"`
	FinancialLimits *raci.Limit `json:"financial_limits,omitempty"`
}

type MatrixTaskData struct {
	TaskID uint                      `json:"task_id"`
	Name   string                    `json:"name,omitempty"`
	Roles  map[string][]AssigneeData `json:"roles"`
}

// MatrixPayload сохраненная матрица: задачи с ролями и плоская карта лимитов task-{taskId}-{role}-{employeeId}
type MatrixPayload struct {
	Tasks           []MatrixTaskData      `json:"tasks"`
	FinancialLimits map[string]raci.Limit `json:"financial_limits,omitempty"`
}

func (m MatrixPayload) Validate() error {
	seen := map[uint]bool{}
	for _, task := range m.Tasks {
		if task.TaskID == 0 {
			return errors.New("отсутсвует идентификатор задачи")
		}
		if seen[task.TaskID] {
			return errors.Errorf("задача %v указана несколько раз", task.TaskID)
		}
		seen[task.TaskID] = true
	}
	return nil
}

// SelectionData выбор сотрудника в ячейке при редактировании, применяются по порядку
type SelectionData struct {
	TaskID     uint   `json:"task_id"`
	Role       string `json:"role"`
	EmployeeID uint   `json:"employee_id"`
}

type SessionData struct {
	Selections      []SelectionData       `json:"selections"`
	FinancialLimits map[string]raci.Limit `json:"financial_limits,omitempty"`
}

func (s SessionData) Validate() error {
	for _, sel := range s.Selections {
		if sel.TaskID == 0 || sel.EmployeeID == 0 {
			return errors.New("в выборе не указана задача или сотрудник")
		}
	}
	return nil
}

type PoolEmployeeView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Email       string `json:"email"`
	IsHod       bool   `json:"is_hod"`
}

type MatrixView struct {
	EventID         uint                  `json:"event_id"`
	Tasks           []MatrixTaskData      `json:"tasks"`
	FinancialLimits map[string]raci.Limit `json:"financial_limits"`
	Employees       []PoolEmployeeView    `json:"employees"`
	PoolSource      raci.PoolSource       `json:"pool_source"`
	Assignable      bool                  `json:"assignable"`
}

func PoolEmployeeConvert(employee raci.Employee) PoolEmployeeView {
	return PoolEmployeeView{
		ID:          employee.ID,
		Name:        employee.Name,
		Designation: employee.Designation,
		Email:       employee.Email,
		IsHod:       employee.IsHod,
	}
}

// MatrixTasksConvert строки матрицы в форме MatrixPayload, пригодной для повторного сохранения
func MatrixTasksConvert(m raci.Matrix, employees map[uint]raci.Employee) []MatrixTaskData {
	result := make([]MatrixTaskData, 0, len(m.Tasks))
	for _, row := range m.Tasks {
		item := MatrixTaskData{
			TaskID: row.Task.ID,
			Name:   row.Task.Name,
			Roles:  map[string][]AssigneeData{},
		}
		for _, role := range models.RaciRoles {
			employeeID, ok := row.Slots[role]
			if !ok {
				continue
			}
			item.Roles[string(role)] = []AssigneeData{
				assigneeConvert(raci.Assignment{TaskID: row.Task.ID, Role: role, EmployeeID: employeeID}, m.Limits, employees),
			}
		}
		result = append(result, item)
	}
	return result
}

func assigneeConvert(a raci.Assignment, limits map[raci.LimitKey]raci.Limit, employees map[uint]raci.Employee) AssigneeData {
	assignee := AssigneeData{
		EmployeeID: a.EmployeeID,
	}
	if employee, ok := employees[a.EmployeeID]; ok {
		assignee.Name = employee.Name
		assignee.Designation = employee.Designation
	}
	if limit, ok := limits[a.LimitKey()]; ok {
		value := limit
		assignee.FinancialLimits = &value
	}
	return assignee
}

func MatrixViewConvert(view raci.MatrixView, employees map[uint]raci.Employee) MatrixView {
	result := MatrixView{
		EventID:         view.Matrix.EventID,
		Tasks:           MatrixTasksConvert(view.Matrix, employees),
		FinancialLimits: limitcodec.Encode(view.Matrix.Limits),
		Employees:       make([]PoolEmployeeView, 0, len(view.Pool)),
		PoolSource:      view.PoolSource,
		Assignable:      view.Assignable,
	}
	for _, employee := range view.Pool {
		result.Employees = append(result.Employees, PoolEmployeeConvert(employee))
	}
	return result
}

// EmployeeIndex справочник сотрудников по идентификатору для отображения имен
func EmployeeIndex(lists ...[]raci.Employee) map[uint]raci.Employee {
	result := map[uint]raci.Employee{}
	for _, list := range lists {
		for _, employee := range list {
			result[employee.ID] = employee
		}
	}
	return result
}
