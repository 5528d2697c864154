package eventhandler

import (
	"context"
	"fmt"
	"raci-approval-backend/config"
	"raci-approval-backend/db"
	approvalnotify "raci-approval-backend/lib/approval-notify"
	departmentprovider "raci-approval-backend/lib/dicts/department"
	employeeprovider "raci-approval-backend/lib/dicts/employee"
	xlsexport "raci-approval-backend/lib/export/xls"
	filestorage "raci-approval-backend/lib/file-storage"
	"raci-approval-backend/lib/raci"
	approvalstate "raci-approval-backend/lib/raci/approval-state"
	initchecker "raci-approval-backend/lib/utils/init-checker"
	"raci-approval-backend/models"
	dictapimodels "raci-approval-backend/models/api/dict"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(userID uint, data raciapimodels.EventCreateData) (id uint, err error)
	Get(id uint) (item raciapimodels.EventView, err error)
	List(filter raciapimodels.EventFilter) (list []raciapimodels.EventView, rowCount int64, err error)
	Update(id uint, data raciapimodels.EventEditData) error
	Delete(id uint) error

	AddTask(eventID uint, data raciapimodels.TaskData) (id uint, err error)
	UpdateTask(eventID, taskID uint, data raciapimodels.TaskData) error
	DeleteTask(eventID, taskID uint) error
	AttachEmployees(eventID uint, data raciapimodels.EventEmployeesData) error

	GetMatrix(eventID uint) (raciapimodels.MatrixView, error)
	SaveMatrix(eventID uint, payload raciapimodels.MatrixPayload) (raciapimodels.MatrixView, error)
	ValidateMatrix(eventID uint, session raciapimodels.SessionData) (raciapimodels.MatrixView, error)

	Submit(ctx context.Context, eventID, userID uint, data raciapimodels.SubmitData) (raciapimodels.SubmitResult, error)
	Decide(ctx context.Context, recordID, approverID uint, data raciapimodels.DecisionData) (raciapimodels.EventView, error)
	BuildMatrixView(eventID uint) (raciapimodels.ApprovalMatrixView, error)
	History(eventID uint) ([]raciapimodels.ApprovalHistoryView, error)

	Export(eventID uint, format ExportFormat) (fileName string, body []byte, err error)
	Files(eventID uint) ([]raciapimodels.FileView, error)
	GetFile(ctx context.Context, eventID, fileID uint) (fileName, contentType string, body []byte, err error)

	// CanManage автор, руководитель подразделения мероприятия или администратор
	CanManage(eventID, userID, departmentID uint, role models.UserRole) (bool, error)
}

// Directory справочник сотрудников и согласующих
type Directory interface {
	ListByDepartment(departmentID uint) ([]raci.Employee, error)
	ListByEvent(eventID uint) ([]raci.Employee, error)
	ResolveApprovers(departmentID uint) ([]raci.Employee, error)
	GetByIDs(ids []uint) ([]raci.Employee, error)
}

type Departments interface {
	Get(id uint) (item dictapimodels.DepartmentView, err error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		repo:        NewRepositories(db.DB),
		tx:          gormTxRunner{db: db.DB},
		directory:   employeeprovider.Instance,
		departments: departmentprovider.Instance,
		notifier:    approvalnotify.Instance,
		xls:         xlsexport.Instance,
		fontDir:     config.Conf.App.FontDir,
		lockWait:    time.Duration(config.Conf.Approval.SubmitLockWaitSec) * time.Second,
		archiveOn:   config.Conf.S3.ArchiveApproved != nil && *config.Conf.S3.ArchiveApproved,
		now:         time.Now,
	}
	if filestorage.Instance != nil {
		instance.archive = filestorage.Instance
	}
	initchecker.CheckInit(
		"directory", instance.directory,
		"departments", instance.departments,
		"notifier", instance.notifier,
		"xls", instance.xls,
	)
	Instance = instance
}

type impl struct {
	repo        Repositories
	tx          TxRunner
	directory   Directory
	departments Departments
	notifier    approvalnotify.Provider
	xls         xlsexport.Provider
	archive     filestorage.Provider
	fontDir     string
	lockWait    time.Duration
	archiveOn   bool
	now         func() time.Time
}

func (i impl) GetLogger(eventID uint) *log.Entry {
	return log.WithField("event_id", eventID)
}

func (i impl) Create(userID uint, data raciapimodels.EventCreateData) (id uint, err error) {
	logger := log.
		WithField("user_id", userID).
		WithField("department_id", data.DepartmentID)
	if _, err = i.departments.Get(data.DepartmentID); err != nil {
		return 0, err
	}
	rec := dbmodels.Event{
		BaseDepartmentModel: dbmodels.BaseDepartmentModel{
			DepartmentID: data.DepartmentID,
		},
		Name:        data.Name,
		Description: data.Description,
		AuthorID:    userID,
		Status:      models.EventStatusDraft,
	}
	id, err = i.repo.Events.Create(rec)
	if err != nil {
		logger.
			WithField("request", fmt.Sprintf("%+v", data)).
			WithError(err).
			Error("ошибка создания мероприятия")
		return 0, err
	}
	logger.
		WithField("rec_id", id).
		Info("создано мероприятие")
	return id, nil
}

func (i impl) Get(id uint) (item raciapimodels.EventView, err error) {
	rec, err := i.getRec(i.repo, id)
	if err != nil {
		return raciapimodels.EventView{}, err
	}
	return raciapimodels.EventConvert(*rec), nil
}

func (i impl) List(filter raciapimodels.EventFilter) (list []raciapimodels.EventView, rowCount int64, err error) {
	rowCount, err = i.repo.Events.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}

	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []raciapimodels.EventView{}, rowCount, nil
	}

	recList, err := i.repo.Events.List(filter)
	if err != nil {
		log.
			WithError(err).
			Error("ошибка получения списка мероприятий")
		return nil, 0, err
	}
	result := make([]raciapimodels.EventView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, raciapimodels.EventConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Update(id uint, data raciapimodels.EventEditData) error {
	logger := i.GetLogger(id)
	updMap := map[string]interface{}{}
	if data.Name != nil {
		updMap["name"] = *data.Name
	}
	if data.Description != nil {
		updMap["description"] = *data.Description
	}
	err := i.tx.Transaction(func(repo Repositories) error {
		rec, err := i.getRecForUpdate(repo, id)
		if err != nil {
			return err
		}
		if err = approvalstate.CanEdit(rec.Status); err != nil {
			return err
		}
		if len(updMap) == 0 {
			return nil
		}
		return repo.Events.Update(id, updMap)
	})
	if err != nil {
		return err
	}
	logger.Info("обновлено мероприятие")
	return nil
}

func (i impl) Delete(id uint) error {
	logger := i.GetLogger(id)
	err := i.tx.Transaction(func(repo Repositories) error {
		rec, err := i.getRecForUpdate(repo, id)
		if err != nil {
			return err
		}
		if err = approvalstate.CanDelete(rec.Status); err != nil {
			return err
		}
		return repo.Events.Delete(id)
	})
	if err != nil {
		logger.
			WithError(err).
			Warn("мероприятие не удалено")
		return err
	}
	logger.Info("удалено мероприятие")
	return nil
}

func (i impl) AddTask(eventID uint, data raciapimodels.TaskData) (id uint, err error) {
	err = i.tx.Transaction(func(repo Repositories) error {
		rec, err := i.getRecForUpdate(repo, eventID)
		if err != nil {
			return err
		}
		if err = approvalstate.CanEdit(rec.Status); err != nil {
			return err
		}
		id, err = repo.Tasks.Create(dbmodels.Task{
			EventID:     eventID,
			Name:        data.Name,
			Description: data.Description,
			SortOrder:   data.SortOrder,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	i.GetLogger(eventID).
		WithField("task_id", id).
		Info("добавлена задача мероприятия")
	return id, nil
}

func (i impl) UpdateTask(eventID, taskID uint, data raciapimodels.TaskData) error {
	return i.tx.Transaction(func(repo Repositories) error {
		if err := i.checkTask(repo, eventID, taskID); err != nil {
			return err
		}
		updMap := map[string]interface{}{
			"name":        data.Name,
			"description": data.Description,
			"sort_order":  data.SortOrder,
		}
		return repo.Tasks.Update(eventID, taskID, updMap)
	})
}

// DeleteTask вместе с задачей удаляются ее назначения
func (i impl) DeleteTask(eventID, taskID uint) error {
	err := i.tx.Transaction(func(repo Repositories) error {
		if err := i.checkTask(repo, eventID, taskID); err != nil {
			return err
		}
		if err := repo.Assignments.DeleteByTask(eventID, taskID); err != nil {
			return err
		}
		return repo.Tasks.Delete(eventID, taskID)
	})
	if err != nil {
		return err
	}
	i.GetLogger(eventID).
		WithField("task_id", taskID).
		Info("удалена задача мероприятия")
	return nil
}

func (i impl) AttachEmployees(eventID uint, data raciapimodels.EventEmployeesData) error {
	if len(data.EmployeeIDs) != 0 {
		found, err := i.directory.GetByIDs(data.EmployeeIDs)
		if err != nil {
			return err
		}
		known := raciapimodels.EmployeeIndex(found)
		missing := []uint{}
		for _, id := range data.EmployeeIDs {
			if _, ok := known[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) != 0 {
			return errors.Wrapf(raci.ErrNotFound, "сотрудники %v не найдены", missing)
		}
	}
	err := i.tx.Transaction(func(repo Repositories) error {
		rec, err := i.getRecForUpdate(repo, eventID)
		if err != nil {
			return err
		}
		if err = approvalstate.CanEdit(rec.Status); err != nil {
			return err
		}
		return repo.Employees.SetEventEmployees(eventID, data.EmployeeIDs)
	})
	if err != nil {
		return err
	}
	i.GetLogger(eventID).
		WithField("employees", len(data.EmployeeIDs)).
		Info("обновлен список сотрудников мероприятия")
	return nil
}

func (i impl) checkTask(repo Repositories, eventID, taskID uint) error {
	rec, err := i.getRecForUpdate(repo, eventID)
	if err != nil {
		return err
	}
	if err = approvalstate.CanEdit(rec.Status); err != nil {
		return err
	}
	task, err := repo.Tasks.GetByID(eventID, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return errors.Wrap(raci.ErrNotFound, "задача не найдена")
	}
	return nil
}

func (i impl) getRec(repo Repositories, id uint) (*dbmodels.Event, error) {
	rec, err := repo.Events.GetByID(id)
	if err != nil {
		i.GetLogger(id).
			WithError(err).
			Error("ошибка получения мероприятия")
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(raci.ErrNotFound, "мероприятие не найдено")
	}
	return rec, nil
}

func (i impl) CanManage(eventID, userID, departmentID uint, role models.UserRole) (bool, error) {
	if role.IsAdmin() {
		return true, nil
	}
	rec, err := i.getRec(i.repo, eventID)
	if err != nil {
		return false, err
	}
	if rec.AuthorID == userID {
		return true, nil
	}
	return role == models.HodRole && rec.DepartmentID == departmentID, nil
}

func (i impl) getRecForUpdate(repo Repositories, id uint) (*dbmodels.Event, error) {
	rec, err := repo.Events.GetForUpdate(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.Wrap(raci.ErrNotFound, "мероприятие не найдено")
	}
	return rec, nil
}
