package xlsexport

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportMatrix(t *testing.T) {
	approverID := uint(50)
	event := raciapimodels.EventView{ID: 5, Name: "Конференция", DepartmentName: "Маркетинг", AuthorName: "Alice"}
	view := raciapimodels.ApprovalMatrixView{
		EventID:         5,
		Status:          models.EventStatusRejected,
		StatusName:      models.EventStatusRejected.ToHuman(),
		RejectionReason: "budget too low",
		Submitted:       true,
		Tasks: []raciapimodels.ApprovalTaskView{
			{
				TaskID: 10,
				Name:   "Организация",
				Roles: map[string][]raciapimodels.ApprovalAssigneeView{
					"responsible": {{
						AssigneeData: raciapimodels.AssigneeData{
							EmployeeID:      1,
							Name:            "Alice",
							FinancialLimits: &raci.Limit{Min: "0", Max: "5000"},
						},
						State:     models.AStateRejected,
						StateName: models.AStateRejected.ToHuman(),
						Records: []raciapimodels.ApprovalRecordView{{
							ID:           1,
							ApproverID:   &approverID,
							ApproverName: "Head",
							StateName:    models.AStateRejected.ToHuman(),
							Reason:       "budget too low",
						}},
					}},
				},
			},
			{TaskID: 11, Name: "Пустая", Roles: map[string][]raciapimodels.ApprovalAssigneeView{}},
		},
	}

	buf, err := impl{}.ExportMatrix(event, view)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(matrixSheet)
	require.NoError(t, err)
	require.Equal(t, []string{"Мероприятие", "Конференция"}, rows[0])
	require.Equal(t, []string{"Причина отклонения", "budget too low"}, rows[4])
	require.Equal(t, matrixHeaders, rows[6])
	require.Equal(t, []string{"Организация", "Responsible", "Alice", "", "0", "5000", "Отклонено", "Head: Отклонено (budget too low)"}, rows[7])
	require.Equal(t, "Пустая", rows[8][0])
}
