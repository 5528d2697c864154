package reminderworker

import (
	"context"
	"raci-approval-backend/config"
	"raci-approval-backend/db"
	approvalnotify "raci-approval-backend/lib/approval-notify"
	approvalrecordstore "raci-approval-backend/lib/approval-record/store"
	"raci-approval-backend/lib/metrics"
	baseworker "raci-approval-backend/lib/utils/base-worker"
	"raci-approval-backend/lib/utils/helpers"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	"time"
)

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl:   *baseworker.NewInstance("ApprovalReminderWorker", time.Minute, time.Duration(config.Conf.Approval.ReminderIntervalMin)*time.Minute),
		store:      approvalrecordstore.NewInstance(db.DB),
		notifier:   approvalnotify.Instance,
		staleAfter: time.Duration(config.Conf.Approval.ReminderStaleAfterHour) * time.Hour,
		now:        time.Now,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store      approvalrecordstore.Provider
	notifier   approvalnotify.Provider
	staleAfter time.Duration
	now        func() time.Time
}

// handle одно письмо каждому согласующему со всеми его записями, ожидающими решения дольше staleAfter.
// Повторное напоминание по записи не раньше чем через staleAfter.
func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := i.now()
	threshold := now.Add(-i.staleAfter)
	list, err := i.store.ListStalePending(threshold, threshold)
	if err != nil {
		logger.WithError(err).Error("Ошибка получения записей, ожидающих решения")
		return
	}
	sent := 0
	for _, group := range groupByApprover(list) {
		if helpers.IsContextDone(ctx) {
			break
		}
		approver := group[0].Approver
		if approver == nil {
			continue
		}
		views := make([]raciapimodels.ApprovalRecordView, 0, len(group))
		ids := make([]uint, 0, len(group))
		for _, rec := range group {
			views = append(views, raciapimodels.ApprovalRecordDbConvert(rec))
			ids = append(ids, rec.ID)
		}
		if err = i.notifier.Remind(approver.ToDomain(), views); err != nil {
			logger.
				WithError(err).
				WithField("approver_id", approver.ID).
				Error("Ошибка отправки напоминания согласующему")
			continue
		}
		if err = i.store.MarkReminded(ids, now); err != nil {
			logger.
				WithError(err).
				WithField("approver_id", approver.ID).
				Error("Ошибка сохранения времени напоминания")
			continue
		}
		sent++
	}
	metrics.RecordReminders(sent)
	if sent != 0 {
		logger.
			WithField("approvers", sent).
			Info("Отправлены напоминания о согласовании")
	}
}

// groupByApprover порядок групп по approver_id, как вернуло хранилище.
// Записи мероприятий, согласование которых уже завершено, пропускаются.
func groupByApprover(list []dbmodels.ApprovalRecord) [][]dbmodels.ApprovalRecord {
	result := [][]dbmodels.ApprovalRecord{}
	index := map[uint]int{}
	for _, rec := range list {
		if rec.ApproverID == nil {
			continue
		}
		if rec.Event != nil && rec.Event.Status != models.EventStatusPending {
			continue
		}
		pos, ok := index[*rec.ApproverID]
		if !ok {
			pos = len(result)
			index[*rec.ApproverID] = pos
			result = append(result, []dbmodels.ApprovalRecord{})
		}
		result[pos] = append(result[pos], rec)
	}
	return result
}
