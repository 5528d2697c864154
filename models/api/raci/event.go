package raciapimodels

import (
	"raci-approval-backend/models"
	apimodels "raci-approval-backend/models/api"
	dbmodels "raci-approval-backend/models/db"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type EventCreateData struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description"`
	DepartmentID uint   `json:"department_id" validate:"required"`
}

func (e EventCreateData) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("не указано название мероприятия")
	}
	return apimodels.ValidateStruct(e)
}

type EventEditData struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

func (e EventEditData) Validate() error {
	if e.Name != nil && strings.TrimSpace(*e.Name) == "" {
		return errors.New("название мероприятия не может быть пустым")
	}
	return apimodels.ValidateStruct(e)
}

type EventFilter struct {
	apimodels.Pagination
	Status       models.EventStatus `json:"status"`        // Статус мероприятия
	DepartmentID uint               `json:"department_id"` // Подразделение
	Search       string             `json:"search"`        // Поиск по названию
	AuthorID     uint               `json:"author_id"`     // Автор
}

func (f EventFilter) Validate() error {
	if f.Status != "" && !f.Status.IsValid() {
		return errors.Errorf("неизвестный статус мероприятия %v", f.Status)
	}
	return nil
}

type EventView struct {
	ID              uint               `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	DepartmentID    uint               `json:"department_id"`
	DepartmentName  string             `json:"department_name"`
	AuthorID        uint               `json:"author_id"`
	AuthorName      string             `json:"author_name"`
	Status          models.EventStatus `json:"status"`
	StatusName      string             `json:"status_name"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	SubmittedAt     *time.Time         `json:"submitted_at,omitempty"`
	ResolvedAt      *time.Time         `json:"resolved_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	Tasks           []TaskView         `json:"tasks,omitempty"`
}

func EventConvert(rec dbmodels.Event) EventView {
	result := EventView{
		ID:              rec.ID,
		Name:            rec.Name,
		Description:     rec.Description,
		DepartmentID:    rec.DepartmentID,
		AuthorID:        rec.AuthorID,
		Status:          rec.Status,
		StatusName:      rec.Status.ToHuman(),
		RejectionReason: rec.RejectionReason,
		SubmittedAt:     rec.SubmittedAt,
		ResolvedAt:      rec.ResolvedAt,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.Department != nil {
		result.DepartmentName = rec.Department.Name
	}
	if rec.Author != nil {
		result.AuthorName = rec.Author.Name
	}
	for _, task := range rec.Tasks {
		result.Tasks = append(result.Tasks, TaskConvert(task))
	}
	return result
}

type TaskData struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

func (t TaskData) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("не указано название задачи")
	}
	return apimodels.ValidateStruct(t)
}

type TaskView struct {
	TaskData
	ID      uint `json:"id"`
	EventID uint `json:"event_id"`
}

func TaskConvert(rec dbmodels.Task) TaskView {
	return TaskView{
		TaskData: TaskData{
			Name:        rec.Name,
			Description: rec.Description,
			SortOrder:   rec.SortOrder,
		},
		ID:      rec.ID,
		EventID: rec.EventID,
	}
}

type EventEmployeesData struct {
	EmployeeIDs []uint `json:"employee_ids" validate:"unique,dive,gt=0"`
}

func (e EventEmployeesData) Validate() error {
	return apimodels.ValidateStruct(e)
}

type FileView struct {
	ID          uint              `json:"id"`
	EventID     uint              `json:"event_id"`
	Name        string            `json:"name"`
	Type        dbmodels.FileType `json:"type"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	CreatedAt   time.Time         `json:"created_at"`
}

func FileConvert(rec dbmodels.FileStorage) FileView {
	return FileView{
		ID:          rec.ID,
		EventID:     rec.EventID,
		Name:        rec.Name,
		Type:        rec.Type,
		ContentType: rec.ContentType,
		Size:        rec.Size,
		CreatedAt:   rec.CreatedAt,
	}
}
