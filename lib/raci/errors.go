package raci

import (
	"fmt"
	"raci-approval-backend/models"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound         = errors.New("запись не найдена")
	ErrEventNotEditable = errors.New("мероприятие недоступно для изменения в текущем статусе")
)

type ViolationCode string

const (
	UnknownEmployee           ViolationCode = "UnknownEmployee"
	UnknownTask               ViolationCode = "UnknownTask"
	UnknownRole               ViolationCode = "UnknownRole"
	LimitNotApplicableForRole ViolationCode = "LimitNotApplicableForRole"
	InvalidLimitRange         ViolationCode = "InvalidLimitRange"
	InvalidLimitValue         ViolationCode = "InvalidLimitValue"
)

// Violation нарушение правил матрицы с привязкой к полю
type Violation struct {
	Code       ViolationCode   `json:"code"`
	TaskID     uint            `json:"task_id,omitempty"`
	Role       models.RaciRole `json:"role,omitempty"`
	EmployeeID uint            `json:"employee_id,omitempty"`
	Field      string          `json:"field,omitempty"`
	Message    string          `json:"message"`
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

type Violations []Violation

func (v Violations) Error() string {
	messages := make([]string, 0, len(v))
	for _, item := range v {
		messages = append(messages, item.Error())
	}
	return strings.Join(messages, "; ")
}

func (v Violations) HasCode(code ViolationCode) bool {
	for _, item := range v {
		if item.Code == code {
			return true
		}
	}
	return false
}

type SubmissionReason string

const (
	NoAssignments        SubmissionReason = "NoAssignments"
	NoOwnerAssigned      SubmissionReason = "NoOwnerAssigned"
	NoApproverResolvable SubmissionReason = "NoApproverResolvable"
	UnknownApprover      SubmissionReason = "UnknownApprover"
	InvalidEventState    SubmissionReason = "InvalidEventState"
	SubmissionInProgress SubmissionReason = "SubmissionInProgress"
	ValidationFailed     SubmissionReason = "ValidationFailed"
)

// SubmissionRejectedError отказ в отправке матрицы на согласование
type SubmissionRejectedError struct {
	Reason     SubmissionReason `json:"reason"`
	Message    string           `json:"message"`
	TaskIDs    []uint           `json:"task_ids,omitempty"`
	Violations Violations       `json:"violations,omitempty"`
}

func (e *SubmissionRejectedError) Error() string {
	return fmt.Sprintf("SubmissionRejected(%s): %s", e.Reason, e.Message)
}

func NewSubmissionRejected(reason SubmissionReason, format string, args ...interface{}) *SubmissionRejectedError {
	return &SubmissionRejectedError{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// ApproverEmailMissingError согласующий без email не может получить запрос
type ApproverEmailMissingError struct {
	EmployeeID uint   `json:"employee_id"`
	Name       string `json:"name"`
}

func (e *ApproverEmailMissingError) Error() string {
	return fmt.Sprintf("ApproverEmailMissing: у согласующего %v (%d) не указан email", e.Name, e.EmployeeID)
}

type DecisionCode string

const (
	RecordNotFound      DecisionCode = "RecordNotFound"
	AlreadyDecided      DecisionCode = "AlreadyDecided"
	ReasonRequired      DecisionCode = "ReasonRequired"
	InvalidDecision     DecisionCode = "InvalidDecision"
	NotAssignedApprover DecisionCode = "NotAssignedApprover"
)

var decisionMessages = map[DecisionCode]string{
	RecordNotFound:      "запись согласования не найдена",
	AlreadyDecided:      "решение по записи уже принято",
	ReasonRequired:      "при отклонении необходимо указать причину",
	InvalidDecision:     "недопустимое решение",
	NotAssignedApprover: "запись назначена другому согласующему",
}

type DecisionError struct {
	Code     DecisionCode `json:"code"`
	RecordID uint         `json:"record_id,omitempty"`
}

func NewDecisionError(code DecisionCode, recordID uint) *DecisionError {
	return &DecisionError{Code: code, RecordID: recordID}
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("%s: %s (record_id=%d)", e.Code, decisionMessages[e.Code], e.RecordID)
}

// Is сравнивает по коду, RecordID в шаблоне необязателен
func (e *DecisionError) Is(target error) bool {
	t, ok := target.(*DecisionError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.RecordID == 0 || t.RecordID == e.RecordID)
}

var ErrAlreadyDecided = &DecisionError{Code: AlreadyDecided}
