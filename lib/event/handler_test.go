package eventhandler

import (
	"bytes"
	"context"
	"fmt"
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/lib/utils/lock"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const departmentID = 3

var fixedNow = time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)

type fakeXls struct{}

func (fakeXls) ExportMatrix(event raciapimodels.EventView, view raciapimodels.ApprovalMatrixView) (*bytes.Buffer, error) {
	return bytes.NewBufferString("xlsx"), nil
}

type testEnv struct {
	h        impl
	db       *memDB
	notifier *fakeNotifier
	alice    uint
	bob      uint
	henry    uint
	eventID  uint
	taskID   uint
}

func newTestEnv(t *testing.T) testEnv {
	db := newMemDB()
	notifier := &fakeNotifier{}
	env := testEnv{
		db:       db,
		notifier: notifier,
		h: impl{
			repo:        db.repositories(),
			tx:          &fakeTx{db: db},
			directory:   fakeDirectory{db},
			departments: fakeDepartments{known: map[uint]string{departmentID: "Финансы"}},
			notifier:    notifier,
			xls:         fakeXls{},
			lockWait:    50 * time.Millisecond,
			now:         func() time.Time { return fixedNow },
		},
	}
	employees := fakeEmployees{db}
	newEmployee := func(name, email string, isHod bool) uint {
		id, err := employees.Create(dbmodels.Employee{
			BaseDepartmentModel: dbmodels.BaseDepartmentModel{DepartmentID: departmentID},
			Name:                name,
			Email:               email,
			IsHod:               isHod,
		})
		require.NoError(t, err)
		return id
	}
	env.alice = newEmployee("Alice", "alice@example.com", false)
	env.bob = newEmployee("Bob", "bob@example.com", false)
	env.henry = newEmployee("Henry", "henry@example.com", true)

	var err error
	env.eventID, err = env.h.Create(env.alice, raciapimodels.EventCreateData{
		DepartmentID: departmentID,
		Name:         "Закупка оборудования",
	})
	require.NoError(t, err)
	env.taskID, err = env.h.AddTask(env.eventID, raciapimodels.TaskData{Name: "Бюджет"})
	require.NoError(t, err)
	return env
}

func (e testEnv) aliceBobPayload() raciapimodels.MatrixPayload {
	return raciapimodels.MatrixPayload{
		Tasks: []raciapimodels.MatrixTaskData{{
			TaskID: e.taskID,
			Roles: map[string][]raciapimodels.AssigneeData{
				string(models.RoleResponsible): {{EmployeeID: e.alice, FinancialLimits: &raci.Limit{Min: "0", Max: "5000"}}},
				string(models.RoleAccountable): {{EmployeeID: e.bob}},
			},
		}},
	}
}

func (e testEnv) submitAliceBob(t *testing.T) raciapimodels.SubmitResult {
	payload := e.aliceBobPayload()
	result, err := e.h.Submit(context.Background(), e.eventID, e.alice, raciapimodels.SubmitData{Matrix: &payload})
	require.NoError(t, err)
	return result
}

func recordFor(t *testing.T, records []raciapimodels.ApprovalRecordView, employeeID uint) raciapimodels.ApprovalRecordView {
	for _, rec := range records {
		if rec.EmployeeID == employeeID {
			return rec
		}
	}
	require.Failf(t, "запись не найдена", "employee_id=%d", employeeID)
	return raciapimodels.ApprovalRecordView{}
}

func submissionReason(t *testing.T, err error) raci.SubmissionReason {
	var rejected *raci.SubmissionRejectedError
	require.True(t, errors.As(err, &rejected), "ожидалась ошибка SubmissionRejected, получено %v", err)
	return rejected.Reason
}

func TestSubmit(t *testing.T) {
	t.Run("records created for owners", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.submitAliceBob(t)

		require.Equal(t, models.EventStatusPending, result.Event.Status)
		require.NotNil(t, result.Event.SubmittedAt)
		require.Len(t, result.Records, 2)
		for _, rec := range result.Records {
			require.Equal(t, models.AStatePending, rec.State)
			require.NotNil(t, rec.ApproverID)
			require.Equal(t, env.henry, *rec.ApproverID)
			require.Equal(t, "Бюджет", rec.TaskName)
		}
		aliceRec := recordFor(t, result.Records, env.alice)
		require.NotNil(t, aliceRec.Limit)
		require.Equal(t, raci.Limit{Min: "0", Max: "5000"}, *aliceRec.Limit)

		require.Len(t, env.notifier.submitted, 1)
		history, err := env.h.History(env.eventID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.Equal(t, models.HistoryActionSubmitted, history[0].Action)
	})

	t.Run("task without owner", func(t *testing.T) {
		env := newTestEnv(t)
		payload := raciapimodels.MatrixPayload{
			Tasks: []raciapimodels.MatrixTaskData{{
				TaskID: env.taskID,
				Roles: map[string][]raciapimodels.AssigneeData{
					string(models.RoleInformed): {{EmployeeID: env.bob}},
				},
			}},
		}
		_, err := env.h.Submit(context.Background(), env.eventID, env.alice, raciapimodels.SubmitData{Matrix: &payload})
		require.Error(t, err)
		require.Equal(t, raci.NoOwnerAssigned, submissionReason(t, err))

		event, err := env.h.Get(env.eventID)
		require.NoError(t, err)
		require.Equal(t, models.EventStatusDraft, event.Status)
		require.Empty(t, env.db.records)
		require.Empty(t, env.db.assignments)
		require.Empty(t, env.notifier.submitted)
	})

	t.Run("unknown employee", func(t *testing.T) {
		env := newTestEnv(t)
		payload := env.aliceBobPayload()
		payload.Tasks[0].Roles[string(models.RoleConsulted)] = []raciapimodels.AssigneeData{{EmployeeID: 999}}
		_, err := env.h.Submit(context.Background(), env.eventID, env.alice, raciapimodels.SubmitData{Matrix: &payload})
		require.Error(t, err)

		var rejected *raci.SubmissionRejectedError
		require.True(t, errors.As(err, &rejected))
		require.Equal(t, raci.ValidationFailed, rejected.Reason)
		require.True(t, rejected.Violations.HasCode(raci.UnknownEmployee))
		require.Empty(t, env.db.records)
	})

	t.Run("no approver", func(t *testing.T) {
		env := newTestEnv(t)
		hod := env.db.employees[env.henry]
		hod.IsHod = false
		env.db.employees[env.henry] = hod

		payload := env.aliceBobPayload()
		_, err := env.h.Submit(context.Background(), env.eventID, env.alice, raciapimodels.SubmitData{Matrix: &payload})
		require.Error(t, err)
		require.Equal(t, raci.NoApproverResolvable, submissionReason(t, err))
	})

	t.Run("already pending", func(t *testing.T) {
		env := newTestEnv(t)
		env.submitAliceBob(t)
		_, err := env.h.Submit(context.Background(), env.eventID, env.alice, raciapimodels.SubmitData{})
		require.Error(t, err)
		require.Equal(t, raci.InvalidEventState, submissionReason(t, err))
	})

	t.Run("submission in progress", func(t *testing.T) {
		env := newTestEnv(t)
		payload := env.aliceBobPayload()
		var submitErr error
		success, err := lock.WithDelay(context.Background(), submitLockKey(env.eventID), time.Second, func() error {
			_, submitErr = env.h.Submit(context.Background(), env.eventID, env.alice, raciapimodels.SubmitData{Matrix: &payload})
			return nil
		})
		require.NoError(t, err)
		require.True(t, success)
		require.Error(t, submitErr)
		require.Equal(t, raci.SubmissionInProgress, submissionReason(t, submitErr))
		require.Empty(t, env.db.records)
	})

	t.Run("stored matrix after rejection", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.submitAliceBob(t)
		_, err := env.h.Decide(context.Background(), recordFor(t, result.Records, env.alice).ID, env.henry,
			raciapimodels.DecisionData{Decision: models.AStateRejected, Reason: "budget too low"})
		require.NoError(t, err)

		again, err := env.h.Submit(context.Background(), env.eventID, env.alice, raciapimodels.SubmitData{})
		require.NoError(t, err)
		require.Equal(t, models.EventStatusPending, again.Event.Status)
		require.Empty(t, again.Event.RejectionReason)
		require.Len(t, again.Records, 2)
		require.Len(t, env.db.records, 2)
		for _, rec := range again.Records {
			require.Equal(t, models.AStatePending, rec.State)
		}
	})

	t.Run("stored matrix outside event pool", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.h.SaveMatrix(env.eventID, env.aliceBobPayload())
		require.NoError(t, err)
		require.NoError(t, env.h.AttachEmployees(env.eventID, raciapimodels.EventEmployeesData{
			EmployeeIDs: []uint{env.alice},
		}))

		_, err = env.h.Submit(context.Background(), env.eventID, env.alice, raciapimodels.SubmitData{})
		require.Error(t, err)
		var rejected *raci.SubmissionRejectedError
		require.True(t, errors.As(err, &rejected))
		require.Equal(t, raci.ValidationFailed, rejected.Reason)
		require.True(t, rejected.Violations.HasCode(raci.UnknownEmployee))

		event, err := env.h.Get(env.eventID)
		require.NoError(t, err)
		require.Equal(t, models.EventStatusDraft, event.Status)
		require.Empty(t, env.db.records)
		require.Empty(t, env.notifier.submitted)
	})
}

func TestDecide(t *testing.T) {
	t.Run("rejection resolves event", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.submitAliceBob(t)

		event, err := env.h.Decide(context.Background(), recordFor(t, result.Records, env.bob).ID, env.henry,
			raciapimodels.DecisionData{Decision: models.AStateApproved})
		require.NoError(t, err)
		require.Equal(t, models.EventStatusPending, event.Status)
		require.Empty(t, env.notifier.resolved)

		event, err = env.h.Decide(context.Background(), recordFor(t, result.Records, env.alice).ID, env.henry,
			raciapimodels.DecisionData{Decision: models.AStateRejected, Reason: "budget too low"})
		require.NoError(t, err)
		require.Equal(t, models.EventStatusRejected, event.Status)
		require.Equal(t, "budget too low", event.RejectionReason)
		require.NotNil(t, event.ResolvedAt)
		require.Equal(t, []models.EventStatus{models.EventStatusRejected}, env.notifier.resolved)
		require.Len(t, env.notifier.decided, 2)

		history, err := env.h.History(env.eventID)
		require.NoError(t, err)
		actions := []models.HistoryAction{}
		for _, rec := range history {
			actions = append(actions, rec.Action)
		}
		require.Equal(t, []models.HistoryAction{
			models.HistoryActionSubmitted,
			models.HistoryActionApproved,
			models.HistoryActionRejected,
			models.HistoryActionResolved,
		}, actions)
	})

	t.Run("all approved", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.submitAliceBob(t)
		var event raciapimodels.EventView
		for _, rec := range result.Records {
			var err error
			event, err = env.h.Decide(context.Background(), rec.ID, env.henry,
				raciapimodels.DecisionData{Decision: models.AStateApproved})
			require.NoError(t, err)
		}
		require.Equal(t, models.EventStatusApproved, event.Status)
		require.Empty(t, event.RejectionReason)
		require.NotNil(t, event.ResolvedAt)
		require.Equal(t, []models.EventStatus{models.EventStatusApproved}, env.notifier.resolved)
	})

	t.Run("already decided", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.submitAliceBob(t)
		recID := recordFor(t, result.Records, env.bob).ID
		_, err := env.h.Decide(context.Background(), recID, env.henry, raciapimodels.DecisionData{Decision: models.AStateApproved})
		require.NoError(t, err)

		_, err = env.h.Decide(context.Background(), recID, env.henry,
			raciapimodels.DecisionData{Decision: models.AStateRejected, Reason: "передумал"})
		require.ErrorIs(t, err, raci.ErrAlreadyDecided)
		require.Equal(t, models.AStateApproved, env.db.records[recID].State)
	})

	t.Run("reason required", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.submitAliceBob(t)
		recID := recordFor(t, result.Records, env.alice).ID
		_, err := env.h.Decide(context.Background(), recID, env.henry,
			raciapimodels.DecisionData{Decision: models.AStateRejected, Reason: "  "})
		require.ErrorIs(t, err, raci.NewDecisionError(raci.ReasonRequired, 0))
		require.Equal(t, models.AStatePending, env.db.records[recID].State)
	})

	t.Run("not assigned approver", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.submitAliceBob(t)
		_, err := env.h.Decide(context.Background(), recordFor(t, result.Records, env.alice).ID, env.bob,
			raciapimodels.DecisionData{Decision: models.AStateApproved})
		require.ErrorIs(t, err, raci.NewDecisionError(raci.NotAssignedApprover, 0))
	})

	t.Run("unknown record", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.h.Decide(context.Background(), 12345, env.henry,
			raciapimodels.DecisionData{Decision: models.AStateApproved})
		require.ErrorIs(t, err, raci.NewDecisionError(raci.RecordNotFound, 12345))
	})

	t.Run("invalid decision", func(t *testing.T) {
		env := newTestEnv(t)
		result := env.submitAliceBob(t)
		_, err := env.h.Decide(context.Background(), result.Records[0].ID, env.henry,
			raciapimodels.DecisionData{Decision: models.AStatePending})
		require.ErrorIs(t, err, raci.NewDecisionError(raci.InvalidDecision, 0))
	})
}

func TestMatrixEditing(t *testing.T) {
	t.Run("save and read back", func(t *testing.T) {
		env := newTestEnv(t)
		saved, err := env.h.SaveMatrix(env.eventID, env.aliceBobPayload())
		require.NoError(t, err)
		require.True(t, saved.Assignable)

		view, err := env.h.GetMatrix(env.eventID)
		require.NoError(t, err)
		require.Equal(t, saved.Tasks, view.Tasks)
		require.Equal(t, saved.FinancialLimits, view.FinancialLimits)
		require.Len(t, env.db.assignments, 2)
	})

	t.Run("invalid matrix not saved", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.h.SaveMatrix(env.eventID, env.aliceBobPayload())
		require.NoError(t, err)

		payload := env.aliceBobPayload()
		payload.Tasks[0].Roles[string(models.RoleInformed)] = []raciapimodels.AssigneeData{{
			EmployeeID:      env.henry,
			FinancialLimits: &raci.Limit{Max: "10"},
		}}
		_, err = env.h.SaveMatrix(env.eventID, payload)
		var violations raci.Violations
		require.True(t, errors.As(err, &violations))
		require.True(t, violations.HasCode(raci.LimitNotApplicableForRole))
		require.Len(t, env.db.assignments, 2)
	})

	t.Run("pending event not editable", func(t *testing.T) {
		env := newTestEnv(t)
		env.submitAliceBob(t)
		_, err := env.h.SaveMatrix(env.eventID, env.aliceBobPayload())
		require.ErrorIs(t, err, raci.ErrEventNotEditable)
		_, err = env.h.AddTask(env.eventID, raciapimodels.TaskData{Name: "Еще задача"})
		require.ErrorIs(t, err, raci.ErrEventNotEditable)
		require.ErrorIs(t, env.h.Delete(env.eventID), raci.ErrEventNotEditable)
	})

	t.Run("delete task drops its assignments", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.h.SaveMatrix(env.eventID, env.aliceBobPayload())
		require.NoError(t, err)
		require.NoError(t, env.h.DeleteTask(env.eventID, env.taskID))
		require.Empty(t, env.db.assignments)
		require.ErrorIs(t, env.h.DeleteTask(env.eventID, env.taskID), raci.ErrNotFound)
	})

	t.Run("event employees narrow the pool", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.h.AttachEmployees(env.eventID, raciapimodels.EventEmployeesData{
			EmployeeIDs: []uint{env.alice},
		}))
		_, err := env.h.SaveMatrix(env.eventID, env.aliceBobPayload())
		var violations raci.Violations
		require.True(t, errors.As(err, &violations))
		require.True(t, violations.HasCode(raci.UnknownEmployee))

		err = env.h.AttachEmployees(env.eventID, raciapimodels.EventEmployeesData{EmployeeIDs: []uint{777}})
		require.ErrorIs(t, err, raci.ErrNotFound)
	})
}

func TestBuildMatrixView(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.h.SaveMatrix(env.eventID, env.aliceBobPayload())
	require.NoError(t, err)

	view, err := env.h.BuildMatrixView(env.eventID)
	require.NoError(t, err)
	require.False(t, view.Submitted)
	require.Equal(t, models.EventStatusDraft, view.Status)

	env.submitAliceBob(t)
	view, err = env.h.BuildMatrixView(env.eventID)
	require.NoError(t, err)
	require.True(t, view.Submitted)
	require.Equal(t, models.EventStatusPending, view.Status)
	require.Len(t, view.Tasks, 1)

	name, body, err := env.h.Export(env.eventID, ExportXlsx)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("raci-event-%d.xlsx", env.eventID), name)
	require.Equal(t, []byte("xlsx"), body)

	files, err := env.h.Files(env.eventID)
	require.NoError(t, err)
	require.Empty(t, files)
	_, _, _, err = env.h.GetFile(context.Background(), env.eventID, 1)
	require.ErrorIs(t, err, raci.ErrNotFound)
}

func TestCreate(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.h.Create(env.alice, raciapimodels.EventCreateData{DepartmentID: 99, Name: "Нет подразделения"})
	require.ErrorIs(t, err, raci.ErrNotFound)

	list, count, err := env.h.List(raciapimodels.EventFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
	require.Len(t, list, 1)
	require.Equal(t, "Закупка оборудования", list[0].Name)
}

func TestParseExportFormat(t *testing.T) {
	format, err := ParseExportFormat("PDF")
	require.NoError(t, err)
	require.Equal(t, ExportPdf, format)

	format, err = ParseExportFormat("")
	require.NoError(t, err)
	require.Equal(t, ExportXlsx, format)

	_, err = ParseExportFormat("doc")
	require.Error(t, err)
}

func TestCanManage(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name         string
		userID       uint
		departmentID uint
		role         models.UserRole
		allowed      bool
	}{
		{"author", env.alice, 3, models.EmployeeRole, true},
		{"other employee", env.bob, 3, models.EmployeeRole, false},
		{"department hod", env.henry, 3, models.HodRole, true},
		{"hod of other department", 42, 5, models.HodRole, false},
		{"admin", 100, 0, models.AdminRole, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := env.h.CanManage(env.eventID, tc.userID, tc.departmentID, tc.role)
			require.NoError(t, err)
			require.Equal(t, tc.allowed, allowed)
		})
	}

	_, err := env.h.CanManage(999, env.alice, 3, models.EmployeeRole)
	require.ErrorIs(t, err, raci.ErrNotFound)
}
