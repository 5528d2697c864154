package departmentprovider

import (
	"raci-approval-backend/db"
	"raci-approval-backend/lib/dicts/department/store"
	"raci-approval-backend/lib/raci"
	initchecker "raci-approval-backend/lib/utils/init-checker"
	dictapimodels "raci-approval-backend/models/api/dict"
	dbmodels "raci-approval-backend/models/db"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(request dictapimodels.DepartmentData) (id uint, err error)
	Update(id uint, request dictapimodels.DepartmentData) error
	Get(id uint) (item dictapimodels.DepartmentView, err error)
	FindByName(request dictapimodels.DepartmentFind) (list []dictapimodels.DepartmentTreeItem, err error)
	Delete(id uint) error
}

var Instance Provider

func NewHandler() {
	instance := impl{
		store: store.NewInstance(db.DB),
	}
	initchecker.CheckInit(
		"store", instance.store,
	)
	Instance = instance
}

type impl struct {
	store store.Provider
}

func (i impl) Create(request dictapimodels.DepartmentData) (id uint, err error) {
	if request.ParentID != nil {
		parent, err := i.store.GetByID(*request.ParentID)
		if err != nil {
			return 0, err
		}
		if parent == nil {
			return 0, errors.New("родительское подразделение не найдено")
		}
	}
	rec := dbmodels.Department{
		ParentID: request.ParentID,
		Name:     request.Name,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		return 0, err
	}
	log.
		WithField("department_name", rec.Name).
		WithField("rec_id", id).
		Info("создано подразделение")
	return id, nil
}

func (i impl) Update(id uint, request dictapimodels.DepartmentData) error {
	logger := log.WithField("rec_id", id)
	updMap := map[string]interface{}{
		"name": request.Name,
	}
	err := i.store.Update(id, updMap)
	if err != nil {
		return err
	}
	logger.Info("обновлено подразделение")
	return nil
}

func (i impl) Get(id uint) (item dictapimodels.DepartmentView, err error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return dictapimodels.DepartmentView{}, err
	}
	if rec == nil {
		return dictapimodels.DepartmentView{}, errors.Wrap(raci.ErrNotFound, "подразделение не найдено")
	}
	return dictapimodels.DepartmentConvert(*rec), nil
}

func (i impl) FindByName(request dictapimodels.DepartmentFind) (list []dictapimodels.DepartmentTreeItem, err error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, err
	}

	tree := []dictapimodels.DepartmentTreeItem{}
	for _, rec := range recList {
		if rec.ParentID != nil {
			continue
		}
		item := dictapimodels.DepartmentTreeItem{
			DepartmentView: dictapimodels.DepartmentConvert(rec),
			SubUnits:       getChildren(rec.ID, recList),
		}
		tree = append(tree, item)
	}

	if request.Name == "" {
		return tree, nil
	}
	result := make([]dictapimodels.DepartmentTreeItem, 0, len(tree))
	searchName := strings.ToLower(request.Name)
	for _, treeItem := range tree {
		found, subUnits := filterTree(searchName, treeItem)
		if found {
			treeItem.SubUnits = subUnits
			result = append(result, treeItem)
		}
	}
	return result, nil
}

func (i impl) Delete(id uint) error {
	logger := log.WithField("rec_id", id)
	err := i.store.Delete(id)
	if err != nil {
		return err
	}
	logger.Info("удалено подразделение")
	return nil
}

func getChildren(rootID uint, recList []dbmodels.Department) []dictapimodels.DepartmentTreeItem {
	result := []dictapimodels.DepartmentTreeItem{}
	for _, rec := range recList {
		if rec.ParentID == nil || *rec.ParentID != rootID {
			continue
		}
		item := dictapimodels.DepartmentTreeItem{
			DepartmentView: dictapimodels.DepartmentConvert(rec),
			SubUnits:       getChildren(rec.ID, recList),
		}
		result = append(result, item)
	}
	return result
}

func filterTree(searchName string, item dictapimodels.DepartmentTreeItem) (bool, []dictapimodels.DepartmentTreeItem) {
	foundSubUnits := []dictapimodels.DepartmentTreeItem{}
	for _, subUnit := range item.SubUnits {
		found, foundList := filterTree(searchName, subUnit)
		if found {
			subUnit.SubUnits = foundList
			foundSubUnits = append(foundSubUnits, subUnit)
		}
	}
	if len(foundSubUnits) > 0 {
		return true, foundSubUnits
	}
	if strings.Contains(strings.ToLower(item.Name), searchName) {
		return true, []dictapimodels.DepartmentTreeItem{}
	}
	return false, []dictapimodels.DepartmentTreeItem{}
}
