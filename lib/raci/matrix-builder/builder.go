package matrixbuilder

import (
	"raci-approval-backend/lib/raci"
	limitcodec "raci-approval-backend/lib/raci/limit-codec"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	"sort"

	log "github.com/sirupsen/logrus"
)

// FromSession выборы применяются в порядке поступления, как при перетаскивании сотрудника между колонками
func FromSession(eventID uint, tasks []raci.Task, session raciapimodels.SessionData) raci.Candidate {
	candidate := raci.Candidate{
		EventID:     eventID,
		Tasks:       tasks,
		Assignments: make([]raci.Assignment, 0, len(session.Selections)),
		Limits:      limitcodec.Decode(session.FinancialLimits),
	}
	for _, selection := range session.Selections {
		candidate.Assignments = append(candidate.Assignments, raci.Assignment{
			TaskID:     selection.TaskID,
			Role:       parseRole(selection.Role),
			EmployeeID: selection.EmployeeID,
		})
	}
	return candidate
}

// FromPayload сохраненная матрица. На роль в задаче берется первый сотрудник,
// лимиты из плоской карты перекрывают вложенные.
func FromPayload(eventID uint, tasks []raci.Task, payload raciapimodels.MatrixPayload) raci.Candidate {
	candidate := raci.Candidate{
		EventID:     eventID,
		Tasks:       tasks,
		Assignments: []raci.Assignment{},
		Limits:      map[raci.LimitKey]raci.Limit{},
	}
	for _, row := range payload.Tasks {
		for _, roleKey := range orderedRoleKeys(row.Roles) {
			assignees := row.Roles[roleKey]
			if len(assignees) == 0 {
				continue
			}
			if len(assignees) > 1 {
				log.
					WithField("event_id", eventID).
					WithField("task_id", row.TaskID).
					WithField("role", roleKey).
					Debugf("На роль указано %d сотрудников, используется первый", len(assignees))
			}
			first := assignees[0]
			assignment := raci.Assignment{
				TaskID:     row.TaskID,
				Role:       parseRole(roleKey),
				EmployeeID: first.EmployeeID,
			}
			candidate.Assignments = append(candidate.Assignments, assignment)
			if first.FinancialLimits != nil && !first.FinancialLimits.IsEmpty() {
				candidate.Limits[assignment.LimitKey()] = *first.FinancialLimits
			}
		}
	}
	for key, limit := range limitcodec.Decode(payload.FinancialLimits) {
		candidate.Limits[key] = limit
	}
	return candidate
}

// FromAssignments восстановление из сохраненных назначений
func FromAssignments(eventID uint, tasks []raci.Task, assignments []raci.Assignment, limits map[raci.LimitKey]raci.Limit) raci.Candidate {
	candidate := raci.Candidate{
		EventID:     eventID,
		Tasks:       tasks,
		Assignments: make([]raci.Assignment, len(assignments)),
		Limits:      make(map[raci.LimitKey]raci.Limit, len(limits)),
	}
	copy(candidate.Assignments, assignments)
	for key, limit := range limits {
		candidate.Limits[key] = limit
	}
	return candidate
}

// ResolvePool сотрудники мероприятия, иначе сотрудники подразделения.
// Пустой список не ошибка: матрицу можно построить, но не заполнить.
func ResolvePool(eventEmployees, departmentRoster []raci.Employee) ([]raci.Employee, raci.PoolSource) {
	if len(eventEmployees) != 0 {
		return uniqueEmployees(eventEmployees), raci.PoolSourceEvent
	}
	if len(departmentRoster) != 0 {
		return uniqueEmployees(departmentRoster), raci.PoolSourceDepartment
	}
	return []raci.Employee{}, raci.PoolSourceNone
}

// Build терпимое построение для чтения: битые ссылки и лимиты отбрасываются с предупреждением,
// чтобы согласующий увидел остальную матрицу. known - сотрудники вне списка, на которых допустимо ссылаться.
func Build(candidate raci.Candidate, pool []raci.Employee, source raci.PoolSource, known ...raci.Employee) raci.MatrixView {
	logger := log.WithField("event_id", candidate.EventID)
	employees := map[uint]bool{}
	for _, employee := range pool {
		employees[employee.ID] = true
	}
	for _, employee := range known {
		employees[employee.ID] = true
	}

	m := raci.NewMatrix(candidate.EventID, candidate.Tasks)
	for _, assignment := range candidate.Assignments {
		entry := logger.
			WithField("task_id", assignment.TaskID).
			WithField("role", assignment.Role).
			WithField("employee_id", assignment.EmployeeID)
		switch {
		case !assignment.Role.IsValid():
			entry.Warn("Назначение с неизвестной ролью пропущено")
			continue
		case !m.HasTask(assignment.TaskID):
			entry.Warn("Назначение на отсутствующую задачу пропущено")
			continue
		case !employees[assignment.EmployeeID]:
			entry.Warn("Назначение на неизвестного сотрудника пропущено")
			continue
		}
		m.Assign(assignment)
	}

	limits := map[raci.LimitKey]raci.Limit{}
	for _, key := range raci.SortedLimitKeys(candidate.Limits) {
		limit, ok := canonicalLimit(candidate.Limits[key])
		entry := logger.WithField("limit_key", limitcodec.Key(key))
		switch {
		case !key.Role.CarriesLimit():
			entry.Warn("Финансовый лимит для роли без полномочий пропущен")
			continue
		case !ok:
			entry.Warn("Некорректный финансовый лимит пропущен")
			continue
		case limit.IsEmpty():
			continue
		}
		limits[key] = limit
	}
	m.Limits = limitcodec.Attach(m, limits)

	resultPool := raci.SortEmployees(pool)
	return raci.MatrixView{
		Matrix:     m,
		Pool:       resultPool,
		PoolSource: source,
		Assignable: len(resultPool) != 0,
	}
}

func canonicalLimit(limit raci.Limit) (raci.Limit, bool) {
	result := raci.Limit{}
	if limit.Min.IsSet() {
		value, err := limit.Min.Decimal()
		if err != nil || value.IsNegative() {
			return raci.Limit{}, false
		}
		result.Min = raci.NewLimitValue(value)
	}
	if limit.Max.IsSet() {
		value, err := limit.Max.Decimal()
		if err != nil || value.IsNegative() {
			return raci.Limit{}, false
		}
		result.Max = raci.NewLimitValue(value)
	}
	if result.Min.IsSet() && result.Max.IsSet() {
		minValue, _ := result.Min.Decimal()
		maxValue, _ := result.Max.Decimal()
		if minValue.GreaterThan(maxValue) {
			return raci.Limit{}, false
		}
	}
	return result, true
}

func parseRole(value string) models.RaciRole {
	if role, ok := models.ParseRaciRole(value); ok {
		return role
	}
	return models.RaciRole(value)
}

// orderedRoleKeys ключи ролей в порядке колонок R, A, C, I; неизвестные в конце по алфавиту
func orderedRoleKeys(roles map[string][]raciapimodels.AssigneeData) []string {
	keys := make([]string, 0, len(roles))
	for key := range roles {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(a, b int) bool {
		orderA := parseRole(keys[a]).Order()
		orderB := parseRole(keys[b]).Order()
		if orderA != orderB {
			return orderA < orderB
		}
		return keys[a] < keys[b]
	})
	return keys
}

func uniqueEmployees(list []raci.Employee) []raci.Employee {
	seen := map[uint]bool{}
	result := make([]raci.Employee, 0, len(list))
	for _, employee := range list {
		if seen[employee.ID] {
			continue
		}
		seen[employee.ID] = true
		result = append(result, employee)
	}
	return raci.SortEmployees(result)
}
