package eventhandler

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	dictapimodels "raci-approval-backend/models/api/dict"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// memDB общее состояние фейковых хранилищ, Transaction откатывает его при ошибке
type memDB struct {
	nextID         uint
	events         map[uint]dbmodels.Event
	tasks          map[uint]dbmodels.Task
	assignments    []dbmodels.RoleAssignment
	employees      map[uint]dbmodels.Employee
	eventEmployees map[uint][]uint
	records        map[uint]dbmodels.ApprovalRecord
	history        []dbmodels.ApprovalHistory
}

func newMemDB() *memDB {
	return &memDB{
		events:         map[uint]dbmodels.Event{},
		tasks:          map[uint]dbmodels.Task{},
		employees:      map[uint]dbmodels.Employee{},
		eventEmployees: map[uint][]uint{},
		records:        map[uint]dbmodels.ApprovalRecord{},
	}
}

func (m *memDB) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memDB) clone() memDB {
	result := memDB{
		nextID:         m.nextID,
		events:         map[uint]dbmodels.Event{},
		tasks:          map[uint]dbmodels.Task{},
		assignments:    append([]dbmodels.RoleAssignment{}, m.assignments...),
		employees:      map[uint]dbmodels.Employee{},
		eventEmployees: map[uint][]uint{},
		records:        map[uint]dbmodels.ApprovalRecord{},
		history:        append([]dbmodels.ApprovalHistory{}, m.history...),
	}
	for k, v := range m.events {
		result.events[k] = v
	}
	for k, v := range m.tasks {
		result.tasks[k] = v
	}
	for k, v := range m.employees {
		result.employees[k] = v
	}
	for k, v := range m.eventEmployees {
		result.eventEmployees[k] = append([]uint{}, v...)
	}
	for k, v := range m.records {
		result.records[k] = v
	}
	return result
}

func (m *memDB) taskList(eventID uint) []dbmodels.Task {
	result := []dbmodels.Task{}
	for _, task := range m.tasks {
		if task.EventID == eventID {
			result = append(result, task)
		}
	}
	sort.Slice(result, func(a, b int) bool {
		if result[a].SortOrder != result[b].SortOrder {
			return result[a].SortOrder < result[b].SortOrder
		}
		return result[a].ID < result[b].ID
	})
	return result
}

func (m *memDB) repositories() Repositories {
	return Repositories{
		Events:      fakeEvents{m},
		Tasks:       fakeTasks{m},
		Assignments: fakeAssignments{m},
		Employees:   fakeEmployees{m},
		Records:     fakeRecords{m},
		History:     fakeHistory{m},
	}
}

type fakeTx struct {
	mu sync.Mutex
	db *memDB
}

func (f *fakeTx) Transaction(fn func(repo Repositories) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := f.db.clone()
	if err := fn(f.db.repositories()); err != nil {
		*f.db = snapshot
		return err
	}
	return nil
}

type fakeEvents struct{ db *memDB }

func (f fakeEvents) Create(rec dbmodels.Event) (uint, error) {
	rec.ID = f.db.id()
	f.db.events[rec.ID] = rec
	return rec.ID, nil
}

func (f fakeEvents) GetByID(id uint) (*dbmodels.Event, error) {
	rec, ok := f.db.events[id]
	if !ok {
		return nil, nil
	}
	rec.Tasks = f.db.taskList(id)
	return &rec, nil
}

func (f fakeEvents) GetForUpdate(id uint) (*dbmodels.Event, error) {
	return f.GetByID(id)
}

func (f fakeEvents) Update(id uint, updMap map[string]interface{}) error {
	rec, ok := f.db.events[id]
	if !ok {
		return nil
	}
	for key, value := range updMap {
		switch key {
		case "name":
			rec.Name = value.(string)
		case "description":
			rec.Description = value.(string)
		case "status":
			rec.Status = value.(models.EventStatus)
		case "rejection_reason":
			rec.RejectionReason = value.(string)
		case "submitted_at":
			rec.SubmittedAt = timePtr(value)
		case "resolved_at":
			rec.ResolvedAt = timePtr(value)
		}
	}
	f.db.events[id] = rec
	return nil
}

func timePtr(value interface{}) *time.Time {
	if at, ok := value.(time.Time); ok {
		return &at
	}
	return nil
}

func (f fakeEvents) ChangeStatus(id uint, from []models.EventStatus, updMap map[string]interface{}) (bool, error) {
	rec, ok := f.db.events[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if rec.Status == status {
			return true, f.Update(id, updMap)
		}
	}
	return false, nil
}

func (f fakeEvents) Delete(id uint) error {
	delete(f.db.events, id)
	return nil
}

func (f fakeEvents) List(filter raciapimodels.EventFilter) ([]dbmodels.Event, error) {
	result := []dbmodels.Event{}
	for _, rec := range f.db.events {
		result = append(result, rec)
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ID < result[b].ID })
	return result, nil
}

func (f fakeEvents) ListCount(filter raciapimodels.EventFilter) (int64, error) {
	return int64(len(f.db.events)), nil
}

type fakeTasks struct{ db *memDB }

func (f fakeTasks) Create(rec dbmodels.Task) (uint, error) {
	rec.ID = f.db.id()
	f.db.tasks[rec.ID] = rec
	return rec.ID, nil
}

func (f fakeTasks) GetByID(eventID, id uint) (*dbmodels.Task, error) {
	rec, ok := f.db.tasks[id]
	if !ok || rec.EventID != eventID {
		return nil, nil
	}
	return &rec, nil
}

func (f fakeTasks) Update(eventID, id uint, updMap map[string]interface{}) error {
	rec, ok := f.db.tasks[id]
	if !ok || rec.EventID != eventID {
		return nil
	}
	if value, ok := updMap["name"]; ok {
		rec.Name = value.(string)
	}
	if value, ok := updMap["description"]; ok {
		rec.Description = value.(string)
	}
	if value, ok := updMap["sort_order"]; ok {
		rec.SortOrder = value.(int)
	}
	f.db.tasks[id] = rec
	return nil
}

func (f fakeTasks) Delete(eventID, id uint) error {
	if rec, ok := f.db.tasks[id]; ok && rec.EventID == eventID {
		delete(f.db.tasks, id)
	}
	return nil
}

func (f fakeTasks) List(eventID uint) ([]dbmodels.Task, error) {
	return f.db.taskList(eventID), nil
}

type fakeAssignments struct{ db *memDB }

func (f fakeAssignments) List(eventID uint) ([]dbmodels.RoleAssignment, error) {
	result := []dbmodels.RoleAssignment{}
	for _, rec := range f.db.assignments {
		if rec.EventID != eventID {
			continue
		}
		if employee, ok := f.db.employees[rec.EmployeeID]; ok {
			rec.Employee = &employee
		}
		result = append(result, rec)
	}
	return result, nil
}

func (f fakeAssignments) Replace(eventID uint, list []dbmodels.RoleAssignment) error {
	kept := []dbmodels.RoleAssignment{}
	for _, rec := range f.db.assignments {
		if rec.EventID != eventID {
			kept = append(kept, rec)
		}
	}
	for _, rec := range list {
		rec.ID = f.db.id()
		kept = append(kept, rec)
	}
	f.db.assignments = kept
	return nil
}

func (f fakeAssignments) DeleteByTask(eventID, taskID uint) error {
	kept := []dbmodels.RoleAssignment{}
	for _, rec := range f.db.assignments {
		if rec.EventID != eventID || rec.TaskID != taskID {
			kept = append(kept, rec)
		}
	}
	f.db.assignments = kept
	return nil
}

type fakeEmployees struct{ db *memDB }

func (f fakeEmployees) Create(rec dbmodels.Employee) (uint, error) {
	rec.ID = f.db.id()
	f.db.employees[rec.ID] = rec
	return rec.ID, nil
}

func (f fakeEmployees) GetByID(id uint) (*dbmodels.Employee, error) {
	rec, ok := f.db.employees[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f fakeEmployees) GetByIDs(ids []uint) ([]dbmodels.Employee, error) {
	result := []dbmodels.Employee{}
	for _, id := range ids {
		if rec, ok := f.db.employees[id]; ok {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f fakeEmployees) FindByEmail(email string) (*dbmodels.Employee, error) {
	for _, rec := range f.db.employees {
		if strings.EqualFold(rec.Email, email) {
			return &rec, nil
		}
	}
	return nil, nil
}

func (f fakeEmployees) Update(id uint, updMap map[string]interface{}) error {
	return nil
}

func (f fakeEmployees) filter(match func(rec dbmodels.Employee) bool) []dbmodels.Employee {
	result := []dbmodels.Employee{}
	for _, rec := range f.db.employees {
		if match(rec) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ID < result[b].ID })
	return result
}

func (f fakeEmployees) ListByDepartment(departmentID uint) ([]dbmodels.Employee, error) {
	return f.filter(func(rec dbmodels.Employee) bool { return rec.DepartmentID == departmentID }), nil
}

func (f fakeEmployees) ListHods(departmentID uint) ([]dbmodels.Employee, error) {
	return f.filter(func(rec dbmodels.Employee) bool { return rec.DepartmentID == departmentID && rec.IsHod }), nil
}

func (f fakeEmployees) ListByEvent(eventID uint) ([]dbmodels.Employee, error) {
	return f.GetByIDs(f.db.eventEmployees[eventID])
}

func (f fakeEmployees) SetEventEmployees(eventID uint, employeeIDs []uint) error {
	f.db.eventEmployees[eventID] = append([]uint{}, employeeIDs...)
	return nil
}

type fakeRecords struct{ db *memDB }

func (f fakeRecords) CreateBatch(list []dbmodels.ApprovalRecord) ([]dbmodels.ApprovalRecord, error) {
	result := make([]dbmodels.ApprovalRecord, 0, len(list))
	for _, rec := range list {
		rec.ID = f.db.id()
		f.db.records[rec.ID] = rec
		result = append(result, rec)
	}
	return result, nil
}

func (f fakeRecords) DeleteByEvent(eventID uint) error {
	for id, rec := range f.db.records {
		if rec.EventID == eventID {
			delete(f.db.records, id)
		}
	}
	return nil
}

func (f fakeRecords) GetByID(id uint) (*dbmodels.ApprovalRecord, error) {
	rec, ok := f.db.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f fakeRecords) sorted(match func(rec dbmodels.ApprovalRecord) bool) []dbmodels.ApprovalRecord {
	result := []dbmodels.ApprovalRecord{}
	for _, rec := range f.db.records {
		if match(rec) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ID < result[b].ID })
	return result
}

func (f fakeRecords) ListByEvent(eventID uint) ([]dbmodels.ApprovalRecord, error) {
	return f.sorted(func(rec dbmodels.ApprovalRecord) bool { return rec.EventID == eventID }), nil
}

func (f fakeRecords) ListByApprover(approverID uint, state models.ApprovalState) ([]dbmodels.ApprovalRecord, error) {
	return f.sorted(func(rec dbmodels.ApprovalRecord) bool {
		return rec.ApproverID != nil && *rec.ApproverID == approverID && (state == "" || rec.State == state)
	}), nil
}

func (f fakeRecords) Decide(id uint, state models.ApprovalState, reason string, decidedAt time.Time) (bool, error) {
	rec, ok := f.db.records[id]
	if !ok || rec.State != models.AStatePending {
		return false, nil
	}
	rec.State = state
	rec.Reason = reason
	rec.DecidedAt = &decidedAt
	f.db.records[id] = rec
	return true, nil
}

func (f fakeRecords) ListStalePending(createdBefore, remindedBefore time.Time) ([]dbmodels.ApprovalRecord, error) {
	return f.sorted(func(rec dbmodels.ApprovalRecord) bool {
		return rec.State == models.AStatePending && f.db.events[rec.EventID].Status == models.EventStatusPending &&
			rec.CreatedAt.Before(createdBefore) &&
			(rec.RemindedAt == nil || rec.RemindedAt.Before(remindedBefore))
	}), nil
}

func (f fakeRecords) MarkReminded(ids []uint, at time.Time) error {
	for _, id := range ids {
		if rec, ok := f.db.records[id]; ok {
			rec.RemindedAt = &at
			f.db.records[id] = rec
		}
	}
	return nil
}

type fakeHistory struct{ db *memDB }

func (f fakeHistory) Create(rec dbmodels.ApprovalHistory) (uint, error) {
	rec.ID = f.db.id()
	f.db.history = append(f.db.history, rec)
	return rec.ID, nil
}

func (f fakeHistory) DeleteByEvent(eventID uint) error {
	kept := []dbmodels.ApprovalHistory{}
	for _, rec := range f.db.history {
		if rec.EventID != eventID {
			kept = append(kept, rec)
		}
	}
	f.db.history = kept
	return nil
}

func (f fakeHistory) List(eventID uint) ([]dbmodels.ApprovalHistory, error) {
	result := []dbmodels.ApprovalHistory{}
	for _, rec := range f.db.history {
		if rec.EventID == eventID {
			result = append(result, rec)
		}
	}
	return result, nil
}

// fakeDirectory справочник поверх тех же сотрудников memDB
type fakeDirectory struct{ db *memDB }

func (f fakeDirectory) store() fakeEmployees {
	return fakeEmployees{f.db}
}

func (f fakeDirectory) ListByDepartment(departmentID uint) ([]raci.Employee, error) {
	list, err := f.store().ListByDepartment(departmentID)
	return dbmodels.EmployeesToDomain(list), err
}

func (f fakeDirectory) ListByEvent(eventID uint) ([]raci.Employee, error) {
	list, err := f.store().ListByEvent(eventID)
	return dbmodels.EmployeesToDomain(list), err
}

func (f fakeDirectory) ResolveApprovers(departmentID uint) ([]raci.Employee, error) {
	list, err := f.store().ListHods(departmentID)
	return dbmodels.EmployeesToDomain(list), err
}

func (f fakeDirectory) GetByIDs(ids []uint) ([]raci.Employee, error) {
	list, err := f.store().GetByIDs(ids)
	return dbmodels.EmployeesToDomain(list), err
}

type fakeDepartments struct{ known map[uint]string }

func (f fakeDepartments) Get(id uint) (dictapimodels.DepartmentView, error) {
	name, ok := f.known[id]
	if !ok {
		return dictapimodels.DepartmentView{}, errors.Wrap(raci.ErrNotFound, "подразделение не найдено")
	}
	view := dictapimodels.DepartmentView{ID: id}
	view.Name = name
	return view, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	submitted [][]raciapimodels.ApprovalRecordView
	decided   []raciapimodels.ApprovalRecordView
	resolved  []models.EventStatus
}

func (f *fakeNotifier) Submitted(event dbmodels.Event, approvers []raci.Employee, records []raciapimodels.ApprovalRecordView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, records)
}

func (f *fakeNotifier) Decided(event dbmodels.Event, rec raciapimodels.ApprovalRecordView) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decided = append(f.decided, rec)
}

func (f *fakeNotifier) Resolved(event dbmodels.Event, approvers []raci.Employee) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = append(f.resolved, event.Status)
}

func (f *fakeNotifier) Remind(approver raci.Employee, records []raciapimodels.ApprovalRecordView) error {
	return nil
}
