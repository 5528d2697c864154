package approvalrecordhandler

import (
	"raci-approval-backend/models"
	dbmodels "raci-approval-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeRecords struct {
	list []dbmodels.ApprovalRecord
	err  error
}

func (f *fakeRecords) CreateBatch(list []dbmodels.ApprovalRecord) ([]dbmodels.ApprovalRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRecords) DeleteByEvent(eventID uint) error {
	return nil
}

func (f *fakeRecords) GetByID(id uint) (*dbmodels.ApprovalRecord, error) {
	return nil, nil
}

func (f *fakeRecords) ListByEvent(eventID uint) ([]dbmodels.ApprovalRecord, error) {
	return nil, nil
}

func (f *fakeRecords) ListByApprover(approverID uint, state models.ApprovalState) ([]dbmodels.ApprovalRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := []dbmodels.ApprovalRecord{}
	for _, rec := range f.list {
		if rec.ApproverID != nil && *rec.ApproverID == approverID && rec.State == state {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeRecords) Decide(id uint, state models.ApprovalState, reason string, decidedAt time.Time) (bool, error) {
	return false, nil
}

func (f *fakeRecords) ListStalePending(createdBefore, remindedBefore time.Time) ([]dbmodels.ApprovalRecord, error) {
	return nil, nil
}

func (f *fakeRecords) MarkReminded(ids []uint, at time.Time) error {
	return nil
}

type fakeHistory struct {
	list []dbmodels.ApprovalHistory
}

func (f *fakeHistory) Create(rec dbmodels.ApprovalHistory) (uint, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeHistory) DeleteByEvent(eventID uint) error {
	return nil
}

func (f *fakeHistory) List(eventID uint) ([]dbmodels.ApprovalHistory, error) {
	result := []dbmodels.ApprovalHistory{}
	for _, rec := range f.list {
		if rec.EventID == eventID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func TestListForApprover(t *testing.T) {
	approverID := uint(50)
	otherID := uint(51)
	records := &fakeRecords{list: []dbmodels.ApprovalRecord{
		{
			BaseModel:  dbmodels.BaseModel{ID: 1},
			EventID:    10,
			Event:      &dbmodels.Event{Name: "Конференция"},
			Level:      models.ApprovalLevelHod,
			TaskID:     100,
			Task:       &dbmodels.Task{Name: "Бюджет"},
			Role:       models.RoleResponsible,
			EmployeeID: 7,
			ApproverID: &approverID,
			State:      models.AStatePending,
		},
		{BaseModel: dbmodels.BaseModel{ID: 2}, EventID: 10, ApproverID: &approverID, State: models.AStateApproved},
		{BaseModel: dbmodels.BaseModel{ID: 3}, EventID: 10, ApproverID: &otherID, State: models.AStatePending},
	}}
	handler := NewInstance(records, &fakeHistory{})

	t.Run(`pending by default`, func(t *testing.T) {
		list, err := handler.ListForApprover(approverID, "")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, uint(1), list[0].ID)
		require.Equal(t, "Конференция", list[0].EventName)
		require.Equal(t, "Бюджет", list[0].TaskName)
	})
	t.Run(`explicit state`, func(t *testing.T) {
		list, err := handler.ListForApprover(approverID, models.AStateApproved)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, uint(2), list[0].ID)
	})
	t.Run(`store error`, func(t *testing.T) {
		failing := NewInstance(&fakeRecords{err: errors.New("db down")}, &fakeHistory{})
		_, err := failing.ListForApprover(approverID, "")
		require.Error(t, err)
	})
}

func TestHistory(t *testing.T) {
	actorID := uint(50)
	history := &fakeHistory{list: []dbmodels.ApprovalHistory{
		{BaseModel: dbmodels.BaseModel{ID: 1}, EventID: 10, ActorID: &actorID, Actor: &dbmodels.Employee{Name: "Head"}, Action: models.HistoryActionSubmitted},
		{BaseModel: dbmodels.BaseModel{ID: 2}, EventID: 11, Action: models.HistoryActionSubmitted},
	}}
	handler := NewInstance(&fakeRecords{}, history)

	list, err := handler.History(10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Head", list[0].ActorName)
	require.Equal(t, models.HistoryActionSubmitted, list[0].Action)
}
