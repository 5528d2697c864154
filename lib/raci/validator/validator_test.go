package racivalidator

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testTasks = []raci.Task{
		{ID: 1, EventID: 100, Name: "Подготовка бюджета"},
		{ID: 2, EventID: 100, Name: "Закупка оборудования"},
		{ID: 3, EventID: 100, Name: "Отчет"},
	}
	testPool = []raci.Employee{
		{ID: 10, Name: "Alice", Email: "alice@example.com"},
		{ID: 11, Name: "Bob", Email: "bob@example.com"},
		{ID: 12, Name: "Carol", Email: "carol@example.com"},
	}
)

func key(taskID uint, role models.RaciRole, employeeID uint) raci.LimitKey {
	return raci.LimitKey{TaskID: taskID, Role: role, EmployeeID: employeeID}
}

func TestValidate(t *testing.T) {
	t.Run(`accepts valid matrix and normalizes limits`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10},
				{TaskID: 1, Role: models.RoleAccountable, EmployeeID: 11},
				{TaskID: 2, Role: models.RoleConsulted, EmployeeID: 12},
			},
			Limits: map[raci.LimitKey]raci.Limit{
				key(1, models.RoleResponsible, 10): {Min: "0", Max: "5000.00"},
				key(1, models.RoleAccountable, 11): {Max: " 12000 "},
			},
		}
		m, violations := Validate(candidate, testPool)
		require.Empty(t, violations)
		require.Len(t, m.Tasks, 3)
		require.Equal(t, raci.Limit{Min: "0", Max: "5000"}, m.Limits[key(1, models.RoleResponsible, 10)])
		require.Equal(t, raci.Limit{Max: "12000"}, m.Limits[key(1, models.RoleAccountable, 11)])
		require.True(t, m.Tasks[2].IsEmpty())
	})

	t.Run(`idempotent on accepted output`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleInformed, EmployeeID: 10},
				{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10},
				{TaskID: 2, Role: models.RoleAccountable, EmployeeID: 11},
				{TaskID: 2, Role: models.RoleInformed, EmployeeID: 12},
			},
			Limits: map[raci.LimitKey]raci.Limit{
				key(1, models.RoleResponsible, 10): {Min: "10.50", Max: "100"},
				key(2, models.RoleAccountable, 11): {Min: "1e3"},
			},
		}
		first, violations := Validate(candidate, testPool)
		require.Empty(t, violations)

		second, violations := Validate(first.Candidate(), testPool)
		require.Empty(t, violations)
		require.Equal(t, first, second)
	})

	t.Run(`last applied role wins`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10},
				{TaskID: 1, Role: models.RoleConsulted, EmployeeID: 10},
				{TaskID: 1, Role: models.RoleAccountable, EmployeeID: 10},
				{TaskID: 2, Role: models.RoleResponsible, EmployeeID: 10},
				{TaskID: 2, Role: models.RoleResponsible, EmployeeID: 11},
			},
		}
		m, violations := Validate(candidate, testPool)
		require.Empty(t, violations)
		require.False(t, HasDuplicateRoles(m))
		require.Equal(t, []raci.Assignment{
			{TaskID: 1, Role: models.RoleAccountable, EmployeeID: 10},
			{TaskID: 2, Role: models.RoleResponsible, EmployeeID: 11},
		}, m.Assignments())
	})

	t.Run(`moving employee drops limit of previous role`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10},
				{TaskID: 1, Role: models.RoleAccountable, EmployeeID: 10},
			},
			Limits: map[raci.LimitKey]raci.Limit{
				key(1, models.RoleResponsible, 10): {Max: "100"},
			},
		}
		m, violations := Validate(candidate, testPool)
		require.Empty(t, violations)
		require.Empty(t, m.Limits)
	})

	t.Run(`unknown employee and task`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 99},
				{TaskID: 9, Role: models.RoleResponsible, EmployeeID: 10},
				{TaskID: 1, Role: models.RaciRole("owner"), EmployeeID: 10},
			},
		}
		m, violations := Validate(candidate, testPool)
		require.Len(t, violations, 3)
		require.True(t, violations.HasCode(raci.UnknownEmployee))
		require.True(t, violations.HasCode(raci.UnknownTask))
		require.True(t, violations.HasCode(raci.UnknownRole))
		require.Empty(t, m.Tasks)
	})

	t.Run(`limit on consulted`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleConsulted, EmployeeID: 12},
			},
			Limits: map[raci.LimitKey]raci.Limit{
				key(1, models.RoleConsulted, 12): {Max: "100"},
			},
		}
		_, violations := Validate(candidate, testPool)
		require.Len(t, violations, 1)
		require.Equal(t, raci.LimitNotApplicableForRole, violations[0].Code)
		require.Equal(t, "financial_limits.task-1-consulted-12", violations[0].Field)
	})

	t.Run(`invalid limit values`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10},
				{TaskID: 1, Role: models.RoleAccountable, EmployeeID: 11},
				{TaskID: 2, Role: models.RoleResponsible, EmployeeID: 12},
			},
			Limits: map[raci.LimitKey]raci.Limit{
				key(1, models.RoleResponsible, 10): {Min: "abc"},
				key(1, models.RoleAccountable, 11): {Min: "-5"},
				key(2, models.RoleResponsible, 12): {Min: "500", Max: "100"},
			},
		}
		_, violations := Validate(candidate, testPool)
		require.Len(t, violations, 3)
		require.Equal(t, raci.InvalidLimitValue, violations[0].Code)
		require.Equal(t, "financial_limits.task-1-responsible-10.min", violations[0].Field)
		require.Equal(t, raci.InvalidLimitValue, violations[1].Code)
		require.Equal(t, raci.InvalidLimitRange, violations[2].Code)
	})

	t.Run(`limit outside storage precision`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10},
				{TaskID: 1, Role: models.RoleAccountable, EmployeeID: 11},
			},
			Limits: map[raci.LimitKey]raci.Limit{
				key(1, models.RoleResponsible, 10): {Min: "0.004", Max: "1e20"},
			},
		}
		_, violations := Validate(candidate, testPool)
		require.Len(t, violations, 2)
		require.Equal(t, raci.InvalidLimitValue, violations[0].Code)
		require.Equal(t, "financial_limits.task-1-responsible-10.min", violations[0].Field)
		require.Equal(t, raci.InvalidLimitValue, violations[1].Code)
		require.Equal(t, "financial_limits.task-1-responsible-10.max", violations[1].Field)

		candidate.Limits = map[raci.LimitKey]raci.Limit{
			key(1, models.RoleResponsible, 10): {Min: "0.10", Max: "9999999999999999.99"},
		}
		m, violations := Validate(candidate, testPool)
		require.Empty(t, violations)
		require.Equal(t, raci.Limit{Min: "0.1", Max: "9999999999999999.99"}, m.Limits[key(1, models.RoleResponsible, 10)])
	})

	t.Run(`orphan limit dropped`, func(t *testing.T) {
		candidate := raci.Candidate{
			EventID: 100,
			Tasks:   testTasks,
			Assignments: []raci.Assignment{
				{TaskID: 1, Role: models.RoleResponsible, EmployeeID: 10},
			},
			Limits: map[raci.LimitKey]raci.Limit{
				key(7, models.RoleResponsible, 42): {Max: "100"},
			},
		}
		m, violations := Validate(candidate, testPool)
		require.Empty(t, violations)
		require.Empty(t, m.Limits)
	})

	t.Run(`empty tasks permitted`, func(t *testing.T) {
		m, violations := Validate(raci.Candidate{EventID: 100, Tasks: testTasks}, nil)
		require.Empty(t, violations)
		require.Len(t, m.Tasks, 3)
		require.Empty(t, m.Assignments())
	})
}
