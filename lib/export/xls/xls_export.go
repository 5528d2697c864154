package xlsexport

import (
	"bytes"
	"fmt"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportMatrix(event raciapimodels.EventView, view raciapimodels.ApprovalMatrixView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const matrixSheet = "Матрица RACI"

var matrixHeaders = []string{"Задача", "Роль", "Сотрудник", "Должность", "Мин. лимит", "Макс. лимит", "Статус", "Решения"}

func (i impl) ExportMatrix(event raciapimodels.EventView, view raciapimodels.ApprovalMatrixView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeEventInfo(f, sheet, row, event, view)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования шапки в xlsx")
	}
	row++
	row, err = writeHeader(f, sheet, row, matrixHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	firstDataRow := row + 1
	row, err = writeMatrixData(f, sheet, view, row)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
	}
	if err = applyDataCellStyle(f, sheet, 1, firstDataRow, len(matrixHeaders), row); err != nil {
		return nil, errors.Wrap(err, "ошибка оформления таблицы в xlsx")
	}
	if err = f.SetSheetName(sheet, matrixSheet); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа xlsx")
	}
	return f.WriteToBuffer()
}

func writeEventInfo(f *excelize.File, sheet string, row int, event raciapimodels.EventView, view raciapimodels.ApprovalMatrixView) (int, error) {
	titles := []struct {
		title string
		value interface{}
	}{
		{"Мероприятие", event.Name},
		{"Подразделение", event.DepartmentName},
		{"Автор", event.AuthorName},
		{"Статус", view.StatusName},
	}
	if view.RejectionReason != "" {
		titles = append(titles, struct {
			title string
			value interface{}
		}{"Причина отклонения", view.RejectionReason})
	}
	var err error
	for _, item := range titles {
		row, err = writeTitle(f, sheet, row, item.title, item.value)
		if err != nil {
			return row, err
		}
	}
	return row, nil
}

func writeMatrixData(f *excelize.File, sheet string, view raciapimodels.ApprovalMatrixView, row int) (int, error) {
	for _, task := range view.Tasks {
		if len(task.Roles) == 0 {
			row++
			if err := writeColumn(f, sheet, 1, row, task.Name); err != nil {
				return row, err
			}
			continue
		}
		for _, role := range models.RaciRoles {
			for _, assignee := range task.Roles[string(role)] {
				row++
				values := []interface{}{
					task.Name,
					role.ToHuman(),
					assignee.Name,
					assignee.Designation,
					"",
					"",
					assignee.StateName,
					decisionsText(assignee.Records),
				}
				if assignee.FinancialLimits != nil {
					values[4] = string(assignee.FinancialLimits.Min)
					values[5] = string(assignee.FinancialLimits.Max)
				}
				for idx, value := range values {
					if err := writeColumn(f, sheet, idx+1, row, value); err != nil {
						return row, err
					}
				}
			}
		}
	}
	return row, nil
}

func decisionsText(records []raciapimodels.ApprovalRecordView) string {
	lines := []string{}
	for _, rec := range records {
		if rec.ApproverID == nil {
			continue
		}
		line := fmt.Sprintf("%v: %v", rec.ApproverName, rec.StateName)
		if rec.Reason != "" {
			line += fmt.Sprintf(" (%v)", rec.Reason)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
