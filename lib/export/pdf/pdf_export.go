package pdfexport

import (
	"bytes"
	"fmt"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const fontName = "Arial"

var columnWidths = []float64{55, 28, 45, 22, 22, 30, 75}

var headers = []string{"Задача", "Роль", "Сотрудник", "Мин. лимит", "Макс. лимит", "Статус", "Решения"}

// GenerateApprovalSheet лист согласования мероприятия, альбомная ориентация
func GenerateApprovalSheet(fontDir string, event raciapimodels.EventView, view raciapimodels.ApprovalMatrixView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApprovalSheet panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("L", "mm", "A4", fontDir)
	pdf.AddUTF8Font(fontName, "", "Arial.ttf")
	pdf.AddUTF8Font(fontName, "B", "Arial Bold.ttf")
	pdf.AddPage()
	pdf.SetFont(fontName, "B", 14)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	_, lineHt := pdf.GetFontSize()
	pdf.CellFormat(0, lineHt*1.5, fmt.Sprintf("Лист согласования: %v", event.Name), "", 1, "L", false, 0, "")

	pdf.SetFont(fontName, "", 11)
	_, lineHt = pdf.GetFontSize()
	info := []string{
		fmt.Sprintf("Подразделение: %v", event.DepartmentName),
		fmt.Sprintf("Автор: %v", event.AuthorName),
		fmt.Sprintf("Статус: %v", view.StatusName),
	}
	if view.RejectionReason != "" {
		info = append(info, fmt.Sprintf("Причина отклонения: %v", view.RejectionReason))
	}
	for _, line := range info {
		pdf.MultiCell(0, lineHt*1.4, line, "", "L", false)
	}
	pdf.Ln(4)

	writeTableHeader(pdf, lineHt)
	pdf.SetFont(fontName, "", 10)
	for _, task := range view.Tasks {
		for _, role := range models.RaciRoles {
			for _, assignee := range task.Roles[string(role)] {
				values := []string{task.Name, role.ToHuman(), assignee.Name, "", "", assignee.StateName, decisionsText(assignee.Records)}
				if assignee.FinancialLimits != nil {
					values[3] = string(assignee.FinancialLimits.Min)
					values[4] = string(assignee.FinancialLimits.Max)
				}
				for idx, value := range values {
					pdf.CellFormat(columnWidths[idx], lineHt*1.6, value, "1", 0, "L", false, 0, "")
				}
				pdf.Ln(-1)
			}
		}
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTableHeader(pdf *fpdf.Fpdf, lineHt float64) {
	pdf.SetFont(fontName, "B", 10)
	pdf.SetFillColor(221, 235, 247)
	for idx, title := range headers {
		pdf.CellFormat(columnWidths[idx], lineHt*1.6, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func decisionsText(records []raciapimodels.ApprovalRecordView) string {
	parts := []string{}
	for _, rec := range records {
		if rec.ApproverID == nil {
			continue
		}
		part := fmt.Sprintf("%v: %v", rec.ApproverName, rec.StateName)
		if rec.Reason != "" {
			part += fmt.Sprintf(" (%v)", rec.Reason)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}
