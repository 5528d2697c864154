package eventhandler

import (
	approvalhistorystore "raci-approval-backend/lib/approval-record/history-store"
	approvalrecordstore "raci-approval-backend/lib/approval-record/store"
	employeestore "raci-approval-backend/lib/dicts/employee/store"
	assignmentstore "raci-approval-backend/lib/event/assignment-store"
	eventstore "raci-approval-backend/lib/event/store"
	taskstore "raci-approval-backend/lib/event/task-store"

	"gorm.io/gorm"
)

// Repositories хранилища, участвующие в одной транзакции
type Repositories struct {
	Events      eventstore.Provider
	Tasks       taskstore.Provider
	Assignments assignmentstore.Provider
	Employees   employeestore.Provider
	Records     approvalrecordstore.Provider
	History     approvalhistorystore.Provider
}

func NewRepositories(tx *gorm.DB) Repositories {
	return Repositories{
		Events:      eventstore.NewInstance(tx),
		Tasks:       taskstore.NewInstance(tx),
		Assignments: assignmentstore.NewInstance(tx),
		Employees:   employeestore.NewInstance(tx),
		Records:     approvalrecordstore.NewInstance(tx),
		History:     approvalhistorystore.NewInstance(tx),
	}
}

// TxRunner выполняет fn в транзакции, ошибка fn откатывает все изменения
type TxRunner interface {
	Transaction(fn func(repo Repositories) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) Transaction(fn func(repo Repositories) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
