package eventhandler

import (
	"context"
	"fmt"
	pdfexport "raci-approval-backend/lib/export/pdf"
	"raci-approval-backend/lib/raci"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	"strings"

	"github.com/pkg/errors"
)

type ExportFormat string

const (
	ExportXlsx ExportFormat = "xlsx"
	ExportPdf  ExportFormat = "pdf"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", ExportXlsx:
		return ExportXlsx, nil
	case ExportPdf:
		return ExportPdf, nil
	}
	return "", errors.Errorf("неподдерживаемый формат выгрузки: %v", value)
}

func (f ExportFormat) ContentType() string {
	if f == ExportPdf {
		return pdfContentType
	}
	return xlsxContentType
}

func (f ExportFormat) fileType() dbmodels.FileType {
	if f == ExportPdf {
		return dbmodels.MatrixArchivePdf
	}
	return dbmodels.MatrixArchiveXlsx
}

func exportFileName(eventID uint, format ExportFormat) string {
	return fmt.Sprintf("raci-event-%d.%s", eventID, format)
}

func (i impl) Export(eventID uint, format ExportFormat) (fileName string, body []byte, err error) {
	event, err := i.Get(eventID)
	if err != nil {
		return "", nil, err
	}
	view, err := i.BuildMatrixView(eventID)
	if err != nil {
		return "", nil, err
	}
	switch format {
	case ExportPdf:
		body, err = pdfexport.GenerateApprovalSheet(i.fontDir, event, view)
	case ExportXlsx:
		buf, xlsErr := i.xls.ExportMatrix(event, view)
		if xlsErr == nil {
			body = buf.Bytes()
		}
		err = xlsErr
	default:
		return "", nil, errors.Errorf("неподдерживаемый формат выгрузки: %v", format)
	}
	if err != nil {
		i.GetLogger(eventID).
			WithError(err).
			WithField("format", format).
			Error("ошибка выгрузки матрицы")
		return "", nil, errors.Wrap(err, "ошибка выгрузки матрицы")
	}
	return exportFileName(eventID, format), body, nil
}

func (i impl) Files(eventID uint) ([]raciapimodels.FileView, error) {
	if _, err := i.getRec(i.repo, eventID); err != nil {
		return nil, err
	}
	result := []raciapimodels.FileView{}
	if i.archive == nil {
		return result, nil
	}
	list, err := i.archive.ListFiles(eventID)
	if err != nil {
		return nil, err
	}
	for _, rec := range list {
		result = append(result, raciapimodels.FileConvert(rec))
	}
	return result, nil
}

func (i impl) GetFile(ctx context.Context, eventID, fileID uint) (fileName, contentType string, body []byte, err error) {
	if i.archive == nil {
		return "", "", nil, errors.Wrap(raci.ErrNotFound, "хранилище файлов не настроено")
	}
	rec, body, err := i.archive.GetFile(ctx, eventID, fileID)
	if err != nil {
		return "", "", nil, err
	}
	if rec == nil {
		return "", "", nil, errors.Wrap(raci.ErrNotFound, "файл не найден")
	}
	return rec.Name, rec.ContentType, body, nil
}

// archiveApproved копия согласованной матрицы в объектном хранилище. Ошибка не отменяет согласование.
func (i impl) archiveApproved(ctx context.Context, eventID uint) {
	if !i.archiveOn || i.archive == nil {
		return
	}
	logger := i.GetLogger(eventID)
	fileName, body, err := i.Export(eventID, ExportXlsx)
	if err != nil {
		logger.WithError(err).Error("ошибка архивации согласованной матрицы")
		return
	}
	rec, err := i.archive.UploadFile(ctx, dbmodels.UploadFileInfo{
		EventID:     eventID,
		FileName:    fileName,
		FileType:    ExportXlsx.fileType(),
		ContentType: ExportXlsx.ContentType(),
	}, body)
	if err != nil {
		logger.WithError(err).Error("ошибка архивации согласованной матрицы")
		return
	}
	logger.
		WithField("file_id", rec.ID).
		Info("согласованная матрица сохранена в архив")
}
