package reminderworker

import (
	"context"
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	stale    []dbmodels.ApprovalRecord
	bounds   []time.Time
	reminded []uint
}

func (f *fakeStore) CreateBatch(list []dbmodels.ApprovalRecord) ([]dbmodels.ApprovalRecord, error) {
	return list, nil
}

func (f *fakeStore) DeleteByEvent(eventID uint) error { return nil }

func (f *fakeStore) GetByID(id uint) (*dbmodels.ApprovalRecord, error) { return nil, nil }

func (f *fakeStore) ListByEvent(eventID uint) ([]dbmodels.ApprovalRecord, error) { return nil, nil }

func (f *fakeStore) ListByApprover(approverID uint, state models.ApprovalState) ([]dbmodels.ApprovalRecord, error) {
	return nil, nil
}

func (f *fakeStore) Decide(id uint, state models.ApprovalState, reason string, decidedAt time.Time) (bool, error) {
	return false, nil
}

func (f *fakeStore) ListStalePending(createdBefore, remindedBefore time.Time) ([]dbmodels.ApprovalRecord, error) {
	f.bounds = []time.Time{createdBefore, remindedBefore}
	return f.stale, nil
}

func (f *fakeStore) MarkReminded(ids []uint, at time.Time) error {
	f.reminded = append(f.reminded, ids...)
	return nil
}

type fakeNotifier struct {
	failFor  uint
	reminded map[uint]int
}

func (f *fakeNotifier) Submitted(event dbmodels.Event, approvers []raci.Employee, records []raciapimodels.ApprovalRecordView) {
}

func (f *fakeNotifier) Decided(event dbmodels.Event, rec raciapimodels.ApprovalRecordView) {}

func (f *fakeNotifier) Resolved(event dbmodels.Event, approvers []raci.Employee) {}

func (f *fakeNotifier) Remind(approver raci.Employee, records []raciapimodels.ApprovalRecordView) error {
	if approver.ID == f.failFor {
		return errors.New("smtp недоступен")
	}
	f.reminded[approver.ID] = len(records)
	return nil
}

func pendingRecord(id, approverID uint) dbmodels.ApprovalRecord {
	approver := dbmodels.Employee{Name: "Согласующий", Email: "hod@example.com"}
	approver.ID = approverID
	rec := dbmodels.ApprovalRecord{
		EventID:    1,
		TaskID:     1,
		Role:       models.RoleResponsible,
		EmployeeID: 10,
		ApproverID: &approverID,
		Approver:   &approver,
		State:      models.AStatePending,
	}
	rec.ID = id
	return rec
}

func TestHandle(t *testing.T) {
	now := time.Date(2024, 5, 14, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{
		stale: []dbmodels.ApprovalRecord{
			pendingRecord(1, 7),
			pendingRecord(2, 7),
			pendingRecord(3, 8),
			pendingRecord(4, 9),
		},
	}
	notifier := &fakeNotifier{failFor: 8, reminded: map[uint]int{}}
	worker := impl{
		store:      store,
		notifier:   notifier,
		staleAfter: 24 * time.Hour,
		now:        func() time.Time { return now },
	}
	worker.handle(context.Background())

	require.Equal(t, []time.Time{now.Add(-24 * time.Hour), now.Add(-24 * time.Hour)}, store.bounds)
	require.Equal(t, map[uint]int{7: 2, 9: 1}, notifier.reminded)
	require.Equal(t, []uint{1, 2, 4}, store.reminded)
}

func TestGroupByApprover(t *testing.T) {
	withoutApprover := pendingRecord(5, 1)
	withoutApprover.ApproverID = nil
	groups := groupByApprover([]dbmodels.ApprovalRecord{
		pendingRecord(1, 2),
		withoutApprover,
		pendingRecord(2, 1),
		pendingRecord(3, 2),
	})
	require.Len(t, groups, 2)
	require.Len(t, groups[0], 2)
	require.Equal(t, uint(1), *groups[1][0].ApproverID)
}

func TestGroupByApproverSkipsResolvedEvents(t *testing.T) {
	resolved := pendingRecord(1, 7)
	resolved.Event = &dbmodels.Event{Status: models.EventStatusRejected}
	active := pendingRecord(2, 7)
	active.Event = &dbmodels.Event{Status: models.EventStatusPending}
	groups := groupByApprover([]dbmodels.ApprovalRecord{resolved, active, pendingRecord(3, 8)})
	require.Len(t, groups, 2)
	require.Len(t, groups[0], 1)
	require.Equal(t, uint(2), groups[0][0].ID)
	require.Equal(t, uint(3), groups[1][0].ID)
}
