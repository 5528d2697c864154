package dictapimodels

import (
	apimodels "raci-approval-backend/models/api"
	dbmodels "raci-approval-backend/models/db"
	"strings"

	"github.com/pkg/errors"
)

type DepartmentData struct {
	Name     string `json:"name" validate:"required,max=255"`
	ParentID *uint  `json:"parent_id"`
}

type DepartmentView struct {
	DepartmentData
	ID uint `json:"id"`
}

func (c DepartmentData) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("не указано название подразделения")
	}
	return apimodels.ValidateStruct(c)
}

func DepartmentConvert(rec dbmodels.Department) DepartmentView {
	return DepartmentView{
		DepartmentData: DepartmentData{
			Name:     rec.Name,
			ParentID: rec.ParentID,
		},
		ID: rec.ID,
	}
}

type DepartmentFind struct {
	Name string `json:"name"`
}

type DepartmentTreeItem struct {
	DepartmentView
	SubUnits []DepartmentTreeItem `json:"sub_units"`
}
