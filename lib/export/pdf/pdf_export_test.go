package pdfexport

import (
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecisionsText(t *testing.T) {
	approverID := uint(50)
	records := []raciapimodels.ApprovalRecordView{
		{ID: 1, StateName: models.AStateApproved.ToHuman()},
		{ID: 2, ApproverID: &approverID, ApproverName: "Head", StateName: models.AStateRejected.ToHuman(), Reason: "нет бюджета"},
		{ID: 3, ApproverID: &approverID, ApproverName: "Deputy", StateName: models.AStatePending.ToHuman()},
	}
	require.Equal(t, "Head: Отклонено (нет бюджета); Deputy: Ожидает решения", decisionsText(records))
}

func TestGenerateApprovalSheet(t *testing.T) {
	t.Run(`missing fonts`, func(t *testing.T) {
		_, err := GenerateApprovalSheet(t.TempDir(), raciapimodels.EventView{Name: "Конференция"}, raciapimodels.ApprovalMatrixView{})
		require.Error(t, err)
	})
}
