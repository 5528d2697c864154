package racivalidator

import (
	"fmt"
	"raci-approval-backend/lib/raci"
	limitcodec "raci-approval-backend/lib/raci/limit-codec"

	log "github.com/sirupsen/logrus"
)

// Validate проверяет предлагаемую матрицу.
// При любом нарушении матрица отклоняется целиком, частичного принятия нет.
func Validate(candidate raci.Candidate, pool []raci.Employee) (raci.Matrix, raci.Violations) {
	employees := make(map[uint]bool, len(pool))
	for _, employee := range pool {
		employees[employee.ID] = true
	}

	m := raci.NewMatrix(candidate.EventID, candidate.Tasks)
	violations := raci.Violations{}
	for _, assignment := range candidate.Assignments {
		if !assignment.Role.IsValid() {
			violations = append(violations, raci.Violation{
				Code:       raci.UnknownRole,
				TaskID:     assignment.TaskID,
				Role:       assignment.Role,
				EmployeeID: assignment.EmployeeID,
				Field:      "role",
				Message:    fmt.Sprintf("Неизвестная роль %q", string(assignment.Role)),
			})
			continue
		}
		if !m.HasTask(assignment.TaskID) {
			violations = append(violations, raci.Violation{
				Code:       raci.UnknownTask,
				TaskID:     assignment.TaskID,
				Role:       assignment.Role,
				EmployeeID: assignment.EmployeeID,
				Field:      "task_id",
				Message:    fmt.Sprintf("Задача %d не найдена в мероприятии", assignment.TaskID),
			})
			continue
		}
		if !employees[assignment.EmployeeID] {
			violations = append(violations, raci.Violation{
				Code:       raci.UnknownEmployee,
				TaskID:     assignment.TaskID,
				Role:       assignment.Role,
				EmployeeID: assignment.EmployeeID,
				Field:      "employee_id",
				Message:    fmt.Sprintf("Сотрудник %d отсутствует в списке сотрудников мероприятия", assignment.EmployeeID),
			})
			continue
		}
		m.Assign(assignment)
	}

	for _, key := range raci.SortedLimitKeys(candidate.Limits) {
		limit := candidate.Limits[key]
		if !key.Role.IsValid() {
			violations = append(violations, limitViolation(key, raci.UnknownRole, "",
				fmt.Sprintf("Неизвестная роль %q в ключе лимита", string(key.Role))))
			continue
		}
		if limit.IsEmpty() {
			continue
		}
		if !key.Role.CarriesLimit() {
			violations = append(violations, limitViolation(key, raci.LimitNotApplicableForRole, "",
				fmt.Sprintf("Финансовый лимит недопустим для роли %v", key.Role.ToHuman())))
			continue
		}
		if !m.HasAssignment(key) {
			log.
				WithField("event_id", candidate.EventID).
				WithField("limit_key", limitcodec.Key(key)).
				Warn("Финансовый лимит без назначения, значение отброшено")
			continue
		}
		normalized, limitViolations := checkLimit(key, limit)
		if len(limitViolations) != 0 {
			violations = append(violations, limitViolations...)
			continue
		}
		if !normalized.IsEmpty() {
			m.Limits[key] = normalized
		}
	}

	if len(violations) != 0 {
		return raci.Matrix{}, violations
	}
	return m, nil
}

// checkLimit проверяет границы и приводит их к каноничному виду
func checkLimit(key raci.LimitKey, limit raci.Limit) (raci.Limit, raci.Violations) {
	violations := raci.Violations{}
	result := raci.Limit{}
	bounds := []struct {
		field string
		value raci.LimitValue
		dst   *raci.LimitValue
	}{
		{field: "min", value: limit.Min, dst: &result.Min},
		{field: "max", value: limit.Max, dst: &result.Max},
	}
	for _, bound := range bounds {
		if !bound.value.IsSet() {
			continue
		}
		value, err := bound.value.Decimal()
		if err != nil {
			violations = append(violations, limitViolation(key, raci.InvalidLimitValue, bound.field,
				fmt.Sprintf("Значение %q не является числом", string(bound.value))))
			continue
		}
		if value.IsNegative() {
			violations = append(violations, limitViolation(key, raci.InvalidLimitValue, bound.field,
				fmt.Sprintf("Значение %v не может быть отрицательным", value.String())))
			continue
		}
		if !value.Round(raci.LimitScale).Equal(value) {
			violations = append(violations, limitViolation(key, raci.InvalidLimitValue, bound.field,
				fmt.Sprintf("Значение %v содержит больше %d знаков после запятой", value.String(), raci.LimitScale)))
			continue
		}
		if value.GreaterThanOrEqual(raci.LimitUpperBound) {
			violations = append(violations, limitViolation(key, raci.InvalidLimitValue, bound.field,
				fmt.Sprintf("Значение %v превышает допустимое", value.String())))
			continue
		}
		*bound.dst = raci.NewLimitValue(value)
	}
	if len(violations) != 0 {
		return raci.Limit{}, violations
	}
	if result.Min.IsSet() && result.Max.IsSet() {
		minValue, _ := result.Min.Decimal()
		maxValue, _ := result.Max.Decimal()
		if minValue.GreaterThan(maxValue) {
			violations = append(violations, limitViolation(key, raci.InvalidLimitRange, "min",
				fmt.Sprintf("Минимальная сумма %v больше максимальной %v", minValue.String(), maxValue.String())))
			return raci.Limit{}, violations
		}
	}
	return result, nil
}

func limitViolation(key raci.LimitKey, code raci.ViolationCode, field, msg string) raci.Violation {
	path := "financial_limits." + limitcodec.Key(key)
	if field != "" {
		path += "." + field
	}
	return raci.Violation{
		Code:       code,
		TaskID:     key.TaskID,
		Role:       key.Role,
		EmployeeID: key.EmployeeID,
		Field:      path,
		Message:    msg,
	}
}

// HasDuplicateRoles true, если сотрудник занимает больше одной роли в задаче
func HasDuplicateRoles(m raci.Matrix) bool {
	for _, row := range m.Tasks {
		seen := map[uint]bool{}
		for _, employeeID := range row.Slots {
			if seen[employeeID] {
				return true
			}
			seen[employeeID] = true
		}
	}
	return false
}
