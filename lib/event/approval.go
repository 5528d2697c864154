package eventhandler

import (
	"context"
	"fmt"
	"raci-approval-backend/lib/metrics"
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/lib/raci/aggregator"
	approvalstate "raci-approval-backend/lib/raci/approval-state"
	matrixbuilder "raci-approval-backend/lib/raci/matrix-builder"
	"raci-approval-backend/lib/utils/helpers"
	"raci-approval-backend/lib/utils/lock"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	"strings"

	"github.com/pkg/errors"
)

func submitLockKey(eventID uint) string {
	return fmt.Sprintf("event-submit-%d", eventID)
}

// Submit отправка матрицы на согласование. Проверки, смена статуса и создание записей выполняются в одной транзакции.
func (i impl) Submit(ctx context.Context, eventID, userID uint, data raciapimodels.SubmitData) (raciapimodels.SubmitResult, error) {
	logger := i.GetLogger(eventID).WithField("user_id", userID)
	var submission approvalstate.Submission
	var created []dbmodels.ApprovalRecord
	success, err := lock.WithDelay(ctx, submitLockKey(eventID), i.lockWait, func() error {
		return i.tx.Transaction(func(repo Repositories) error {
			var err error
			submission, created, err = i.submit(repo, eventID, userID, data)
			return err
		})
	})
	if err == nil && !success {
		err = raci.NewSubmissionRejected(raci.SubmissionInProgress, "мероприятие уже отправляется на согласование")
	}
	if err != nil {
		metrics.RecordSubmission(submissionResult(err))
		logger.
			WithError(err).
			Warn("матрица не отправлена на согласование")
		return raciapimodels.SubmitResult{}, err
	}
	metrics.RecordSubmission("accepted")
	logger.
		WithField("approvers", len(submission.Approvers)).
		WithField("records", len(created)).
		Info("матрица отправлена на согласование")

	event, err := i.getRec(i.repo, eventID)
	if err != nil {
		return raciapimodels.SubmitResult{}, err
	}
	domain := dbmodels.ApprovalRecordsToDomain(created)
	records := i.recordViews(domain, dbmodels.TasksToDomain(event.Tasks), i.employeeIndex(domain))
	i.notifier.Submitted(*event, submission.Approvers, records)
	return raciapimodels.SubmitResult{
		Event:   raciapimodels.EventConvert(*event),
		Records: records,
	}, nil
}

func (i impl) submit(repo Repositories, eventID, userID uint, data raciapimodels.SubmitData) (approvalstate.Submission, []dbmodels.ApprovalRecord, error) {
	event, err := i.getRecForUpdate(repo, eventID)
	if err != nil {
		return approvalstate.Submission{}, nil, err
	}
	if err = approvalstate.CanSubmit(event.Status); err != nil {
		return approvalstate.Submission{}, nil, err
	}
	var m raci.Matrix
	if data.Matrix != nil {
		m, _, err = i.applyPayload(repo, event, *data.Matrix)
	} else {
		m, err = i.storedMatrix(repo, event)
	}
	var violations raci.Violations
	if errors.As(err, &violations) {
		rejected := raci.NewSubmissionRejected(raci.ValidationFailed, "матрица не прошла проверку")
		rejected.Violations = violations
		return approvalstate.Submission{}, nil, rejected
	}
	if err != nil {
		return approvalstate.Submission{}, nil, err
	}
	candidates, err := i.directory.ResolveApprovers(event.DepartmentID)
	if err != nil {
		return approvalstate.Submission{}, nil, err
	}
	now := i.now()
	submission, err := approvalstate.PrepareSubmission(event.Status, m, candidates, data.ApproverIDs, now)
	if err != nil {
		return approvalstate.Submission{}, nil, err
	}

	changed, err := repo.Events.ChangeStatus(eventID, models.SubmitFromStatuses, map[string]interface{}{
		"status":           models.EventStatusPending,
		"rejection_reason": "",
		"submitted_at":     now,
		"resolved_at":      nil,
	})
	if err != nil {
		return approvalstate.Submission{}, nil, err
	}
	if !changed {
		return approvalstate.Submission{}, nil, raci.NewSubmissionRejected(raci.InvalidEventState,
			"статус мероприятия изменился, повторите отправку")
	}
	if err = repo.Records.DeleteByEvent(eventID); err != nil {
		return approvalstate.Submission{}, nil, err
	}
	recs := make([]dbmodels.ApprovalRecord, 0, len(submission.Records))
	for _, rec := range submission.Records {
		recs = append(recs, dbmodels.NewApprovalRecord(rec))
	}
	created, err := repo.Records.CreateBatch(recs)
	if err != nil {
		return approvalstate.Submission{}, nil, errors.Wrap(err, "ошибка сохранения записей согласования")
	}

	names := make([]string, 0, len(submission.Approvers))
	for _, approver := range submission.Approvers {
		names = append(names, approver.Name)
	}
	history := dbmodels.ApprovalHistory{
		EventID: eventID,
		ActorID: &userID,
		Action:  models.HistoryActionSubmitted,
		Comment: fmt.Sprintf("Согласующие: %v", strings.Join(names, ", ")),
	}
	history.Changes.Add("status", event.Status, models.EventStatusPending)
	if _, err = repo.History.Create(history); err != nil {
		return approvalstate.Submission{}, nil, errors.Wrap(err, "ошибка сохранения истории согласования")
	}
	return submission, created, nil
}

type decisionResult struct {
	event    *dbmodels.Event
	record   raci.ApprovalRecord
	outcome  aggregator.Outcome
	resolved bool
}

// Decide решение согласующего по записи. Статус мероприятия пересчитывается под блокировкой строки мероприятия.
func (i impl) Decide(ctx context.Context, recordID, approverID uint, data raciapimodels.DecisionData) (raciapimodels.EventView, error) {
	if !data.Decision.IsDecision() {
		return raciapimodels.EventView{}, raci.NewDecisionError(raci.InvalidDecision, recordID)
	}
	var result decisionResult
	err := i.tx.Transaction(func(repo Repositories) error {
		var err error
		result, err = i.decide(repo, recordID, approverID, data)
		return err
	})
	if err != nil {
		return raciapimodels.EventView{}, err
	}
	logger := i.GetLogger(result.event.ID).
		WithField("record_id", recordID).
		WithField("approver_id", approverID).
		WithField("decision", result.record.State)
	logger.Info("принято решение по записи согласования")
	metrics.RecordDecision(string(result.record.State))

	event, err := i.getRec(i.repo, result.event.ID)
	if err != nil {
		return raciapimodels.EventView{}, err
	}
	tasks := dbmodels.TasksToDomain(event.Tasks)
	decided := []raci.ApprovalRecord{result.record}
	i.notifier.Decided(*event, i.recordViews(decided, tasks, i.employeeIndex(decided))[0])

	if result.resolved {
		metrics.RecordResolution(string(result.outcome.Status))
		logger.
			WithField("status", result.outcome.Status).
			Info("согласование мероприятия завершено")
		i.notifier.Resolved(*event, i.eventApprovers(event.ID))
		if result.outcome.Status == models.EventStatusApproved {
			i.archiveApproved(ctx, event.ID)
		}
	}
	return raciapimodels.EventConvert(*event), nil
}

func (i impl) decide(repo Repositories, recordID, approverID uint, data raciapimodels.DecisionData) (decisionResult, error) {
	rec, err := repo.Records.GetByID(recordID)
	if err != nil {
		return decisionResult{}, err
	}
	if rec == nil {
		return decisionResult{}, raci.NewDecisionError(raci.RecordNotFound, recordID)
	}
	event, err := i.getRecForUpdate(repo, rec.EventID)
	if err != nil {
		return decisionResult{}, err
	}
	domain := rec.ToDomain()
	decided, err := approvalstate.Apply(&domain, data.Decision, data.Reason, approverID, i.now())
	if err != nil {
		return decisionResult{}, err
	}
	updated, err := repo.Records.Decide(recordID, decided.State, decided.Reason, *decided.DecidedAt)
	if err != nil {
		return decisionResult{}, err
	}
	if !updated {
		return decisionResult{}, raci.NewDecisionError(raci.AlreadyDecided, recordID)
	}

	action := models.HistoryActionApproved
	if decided.State == models.AStateRejected {
		action = models.HistoryActionRejected
	}
	history := dbmodels.ApprovalHistory{
		EventID:  event.ID,
		RecordID: &recordID,
		ActorID:  &approverID,
		Action:   action,
		State:    decided.State,
		Comment:  decided.Reason,
	}
	history.Changes.Add("state", domain.State, decided.State)
	if _, err = repo.History.Create(history); err != nil {
		return decisionResult{}, errors.Wrap(err, "ошибка сохранения истории согласования")
	}

	list, err := repo.Records.ListByEvent(event.ID)
	if err != nil {
		return decisionResult{}, err
	}
	outcome := aggregator.Aggregate(dbmodels.ApprovalRecordsToDomain(list))
	result := decisionResult{
		event:   event,
		record:  decided,
		outcome: outcome,
	}
	if outcome.Status == event.Status && outcome.RejectionReason == event.RejectionReason {
		return result, nil
	}
	updMap := map[string]interface{}{
		"status":           outcome.Status,
		"rejection_reason": outcome.RejectionReason,
	}
	if outcome.Status.IsResolved() && !event.Status.IsResolved() {
		updMap["resolved_at"] = i.now()
		result.resolved = true
	}
	if err = repo.Events.Update(event.ID, updMap); err != nil {
		return decisionResult{}, err
	}
	if outcome.Status != event.Status {
		resolvedHistory := dbmodels.ApprovalHistory{
			EventID: event.ID,
			Action:  models.HistoryActionResolved,
			Comment: outcome.RejectionReason,
		}
		resolvedHistory.Changes.Add("status", event.Status, outcome.Status)
		if _, err = repo.History.Create(resolvedHistory); err != nil {
			return decisionResult{}, errors.Wrap(err, "ошибка сохранения истории согласования")
		}
	}
	return result, nil
}

// BuildMatrixView матрица с состоянием согласования. До отправки возвращается сохраненная матрица без записей.
func (i impl) BuildMatrixView(eventID uint) (raciapimodels.ApprovalMatrixView, error) {
	event, err := i.getRec(i.repo, eventID)
	if err != nil {
		return raciapimodels.ApprovalMatrixView{}, err
	}
	records, err := i.repo.Records.ListByEvent(eventID)
	if err != nil {
		return raciapimodels.ApprovalMatrixView{}, err
	}
	if event.Status != models.EventStatusDraft && len(records) != 0 {
		domain := dbmodels.ApprovalRecordsToDomain(records)
		grouped := aggregator.Group(domain, dbmodels.TasksToDomain(event.Tasks))
		return raciapimodels.ApprovalMatrixConvert(grouped[eventID], true, i.employeeIndex(domain)), nil
	}
	state, err := i.loadMatrix(i.repo, event)
	if err != nil {
		return raciapimodels.ApprovalMatrixView{}, err
	}
	view := raci.ApprovalMatrix{
		Matrix:          matrixbuilder.Build(state.stored, state.pool, state.source, state.assigned...).Matrix,
		Approvals:       map[raci.LimitKey]raci.AssignmentApproval{},
		Status:          event.Status,
		RejectionReason: event.RejectionReason,
	}
	return raciapimodels.ApprovalMatrixConvert(view, false, state.employees()), nil
}

func (i impl) History(eventID uint) ([]raciapimodels.ApprovalHistoryView, error) {
	if _, err := i.getRec(i.repo, eventID); err != nil {
		return nil, err
	}
	list, err := i.repo.History.List(eventID)
	if err != nil {
		return nil, err
	}
	result := make([]raciapimodels.ApprovalHistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, raciapimodels.ApprovalHistoryConvert(rec))
	}
	return result, nil
}

func (i impl) recordViews(records []raci.ApprovalRecord, tasks []raci.Task, employees map[uint]raci.Employee) []raciapimodels.ApprovalRecordView {
	taskNames := make(map[uint]string, len(tasks))
	for _, task := range tasks {
		taskNames[task.ID] = task.Name
	}
	result := make([]raciapimodels.ApprovalRecordView, 0, len(records))
	for _, rec := range records {
		view := raciapimodels.ApprovalRecordConvert(rec, employees)
		view.TaskName = taskNames[rec.TaskID]
		result = append(result, view)
	}
	return result
}

// employeeIndex сотрудники и согласующие записей; ошибка справочника не мешает построить представление
func (i impl) employeeIndex(records []raci.ApprovalRecord) map[uint]raci.Employee {
	ids := []uint{}
	for _, rec := range records {
		ids = append(ids, rec.EmployeeID, rec.ApproverIDValue())
	}
	ids = helpers.UniqueIDs(ids...)
	if len(ids) == 0 {
		return map[uint]raci.Employee{}
	}
	list, err := i.directory.GetByIDs(ids)
	if err != nil {
		i.GetLogger(records[0].EventID).
			WithError(err).
			Warn("не удалось получить сотрудников для записей согласования")
		return map[uint]raci.Employee{}
	}
	return raciapimodels.EmployeeIndex(list)
}

func (i impl) eventApprovers(eventID uint) []raci.Employee {
	records, err := i.repo.Records.ListByEvent(eventID)
	if err != nil {
		i.GetLogger(eventID).WithError(err).Warn("не удалось получить согласующих мероприятия")
		return nil
	}
	ids := []uint{}
	for _, rec := range records {
		if rec.ApproverID != nil {
			ids = append(ids, *rec.ApproverID)
		}
	}
	ids = helpers.UniqueIDs(ids...)
	if len(ids) == 0 {
		return nil
	}
	approvers, err := i.directory.GetByIDs(ids)
	if err != nil {
		i.GetLogger(eventID).WithError(err).Warn("не удалось получить согласующих мероприятия")
		return nil
	}
	return approvers
}

func submissionResult(err error) string {
	var rejected *raci.SubmissionRejectedError
	var missing *raci.ApproverEmailMissingError
	switch {
	case errors.As(err, &rejected), errors.As(err, &missing):
		return "rejected"
	default:
		return "error"
	}
}
