package eventhandler

import (
	"raci-approval-backend/lib/raci"
	approvalstate "raci-approval-backend/lib/raci/approval-state"
	matrixbuilder "raci-approval-backend/lib/raci/matrix-builder"
	racivalidator "raci-approval-backend/lib/raci/validator"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
)

// matrixState сохраненная матрица мероприятия и пул сотрудников для назначения
type matrixState struct {
	tasks    []raci.Task
	pool     []raci.Employee
	source   raci.PoolSource
	assigned []raci.Employee
	stored   raci.Candidate
}

func (s matrixState) view(m raci.Matrix) raci.MatrixView {
	return raci.MatrixView{
		Matrix:     m,
		Pool:       s.pool,
		PoolSource: s.source,
		Assignable: len(s.pool) != 0,
	}
}

func (s matrixState) employees() map[uint]raci.Employee {
	return raciapimodels.EmployeeIndex(s.pool, s.assigned)
}

func (i impl) GetMatrix(eventID uint) (raciapimodels.MatrixView, error) {
	event, err := i.getRec(i.repo, eventID)
	if err != nil {
		return raciapimodels.MatrixView{}, err
	}
	state, err := i.loadMatrix(i.repo, event)
	if err != nil {
		return raciapimodels.MatrixView{}, err
	}
	view := matrixbuilder.Build(state.stored, state.pool, state.source, state.assigned...)
	return raciapimodels.MatrixViewConvert(view, state.employees()), nil
}

// SaveMatrix матрица сохраняется целиком или не сохраняется совсем, нарушения возвращаются как raci.Violations
func (i impl) SaveMatrix(eventID uint, payload raciapimodels.MatrixPayload) (raciapimodels.MatrixView, error) {
	var result raciapimodels.MatrixView
	err := i.tx.Transaction(func(repo Repositories) error {
		event, err := i.getRecForUpdate(repo, eventID)
		if err != nil {
			return err
		}
		if err = approvalstate.CanEdit(event.Status); err != nil {
			return err
		}
		m, state, err := i.applyPayload(repo, event, payload)
		if err != nil {
			return err
		}
		result = raciapimodels.MatrixViewConvert(state.view(m), state.employees())
		return nil
	})
	if err != nil {
		return raciapimodels.MatrixView{}, err
	}
	i.GetLogger(eventID).Info("сохранена матрица RACI")
	return result, nil
}

// ValidateMatrix проверка сессии редактирования без сохранения
func (i impl) ValidateMatrix(eventID uint, session raciapimodels.SessionData) (raciapimodels.MatrixView, error) {
	event, err := i.getRec(i.repo, eventID)
	if err != nil {
		return raciapimodels.MatrixView{}, err
	}
	state, err := i.loadMatrix(i.repo, event)
	if err != nil {
		return raciapimodels.MatrixView{}, err
	}
	m, violations := racivalidator.Validate(matrixbuilder.FromSession(event.ID, state.tasks, session), state.pool)
	if len(violations) != 0 {
		return raciapimodels.MatrixView{}, violations
	}
	return raciapimodels.MatrixViewConvert(state.view(m), state.employees()), nil
}

func (i impl) applyPayload(repo Repositories, event *dbmodels.Event, payload raciapimodels.MatrixPayload) (raci.Matrix, matrixState, error) {
	state, err := i.loadMatrix(repo, event)
	if err != nil {
		return raci.Matrix{}, matrixState{}, err
	}
	m, violations := racivalidator.Validate(matrixbuilder.FromPayload(event.ID, state.tasks, payload), state.pool)
	if len(violations) != 0 {
		i.GetLogger(event.ID).
			WithField("violations", len(violations)).
			Info("матрица отклонена при проверке")
		return raci.Matrix{}, matrixState{}, violations
	}
	if err = repo.Assignments.Replace(event.ID, dbmodels.NewRoleAssignments(m)); err != nil {
		return raci.Matrix{}, matrixState{}, err
	}
	return m, state, nil
}

// storedMatrix сохраненная матрица, проверенная по текущему пулу сотрудников
func (i impl) storedMatrix(repo Repositories, event *dbmodels.Event) (raci.Matrix, error) {
	state, err := i.loadMatrix(repo, event)
	if err != nil {
		return raci.Matrix{}, err
	}
	m, violations := racivalidator.Validate(state.stored, state.pool)
	if len(violations) != 0 {
		i.GetLogger(event.ID).
			WithField("violations", len(violations)).
			Info("сохраненная матрица не прошла проверку")
		return raci.Matrix{}, violations
	}
	return m, nil
}

func (i impl) loadMatrix(repo Repositories, event *dbmodels.Event) (matrixState, error) {
	taskList, err := repo.Tasks.List(event.ID)
	if err != nil {
		return matrixState{}, err
	}
	state := matrixState{
		tasks: dbmodels.TasksToDomain(taskList),
	}
	state.pool, state.source, err = i.resolvePool(event)
	if err != nil {
		return matrixState{}, err
	}
	rows, err := repo.Assignments.List(event.ID)
	if err != nil {
		return matrixState{}, err
	}
	assignments := make([]raci.Assignment, 0, len(rows))
	limits := map[raci.LimitKey]raci.Limit{}
	for _, row := range rows {
		assignment := row.Assignment()
		assignments = append(assignments, assignment)
		if limit := row.Limit(); !limit.IsEmpty() {
			limits[assignment.LimitKey()] = limit
		}
		if row.Employee != nil {
			state.assigned = append(state.assigned, row.Employee.ToDomain())
		}
	}
	state.stored = matrixbuilder.FromAssignments(event.ID, state.tasks, assignments, limits)
	return state, nil
}

// resolvePool сотрудники мероприятия, при их отсутствии сотрудники подразделения
func (i impl) resolvePool(event *dbmodels.Event) ([]raci.Employee, raci.PoolSource, error) {
	eventEmployees, err := i.directory.ListByEvent(event.ID)
	if err != nil {
		return nil, raci.PoolSourceNone, err
	}
	var roster []raci.Employee
	if len(eventEmployees) == 0 {
		roster, err = i.directory.ListByDepartment(event.DepartmentID)
		if err != nil {
			return nil, raci.PoolSourceNone, err
		}
	}
	pool, source := matrixbuilder.ResolvePool(eventEmployees, roster)
	return pool, source, nil
}
