package approvalrecordhandler

import (
	"raci-approval-backend/db"
	approvalhistorystore "raci-approval-backend/lib/approval-record/history-store"
	approvalrecordstore "raci-approval-backend/lib/approval-record/store"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	// ListForApprover записи согласующего, по умолчанию только ожидающие решения
	ListForApprover(approverID uint, state models.ApprovalState) ([]raciapimodels.ApprovalRecordView, error)
	History(eventID uint) ([]raciapimodels.ApprovalHistoryView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(approvalrecordstore.NewInstance(db.DB), approvalhistorystore.NewInstance(db.DB))
}

func NewInstance(store approvalrecordstore.Provider, historyStore approvalhistorystore.Provider) Provider {
	return impl{
		store:        store,
		historyStore: historyStore,
	}
}

type impl struct {
	store        approvalrecordstore.Provider
	historyStore approvalhistorystore.Provider
}

func (i impl) ListForApprover(approverID uint, state models.ApprovalState) ([]raciapimodels.ApprovalRecordView, error) {
	if state == "" {
		state = models.AStatePending
	}
	list, err := i.store.ListByApprover(approverID, state)
	if err != nil {
		log.
			WithField("approver_id", approverID).
			WithError(err).
			Error("ошибка получения записей согласующего")
		return nil, err
	}
	result := make([]raciapimodels.ApprovalRecordView, 0, len(list))
	for _, rec := range list {
		result = append(result, raciapimodels.ApprovalRecordDbConvert(rec))
	}
	return result, nil
}

func (i impl) History(eventID uint) ([]raciapimodels.ApprovalHistoryView, error) {
	list, err := i.historyStore.List(eventID)
	if err != nil {
		return nil, err
	}
	result := make([]raciapimodels.ApprovalHistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, raciapimodels.ApprovalHistoryConvert(rec))
	}
	return result, nil
}
