package models

import "strings"

// RaciRole роль сотрудника в задаче
type RaciRole string

const (
	RoleResponsible RaciRole = "responsible"
	RoleAccountable RaciRole = "accountable"
	RoleConsulted   RaciRole = "consulted"
	RoleInformed    RaciRole = "informed"
)

// RaciRoles порядок колонок матрицы
var RaciRoles = []RaciRole{RoleResponsible, RoleAccountable, RoleConsulted, RoleInformed}

var raciRoleHumanName = map[RaciRole]string{
	RoleResponsible: "Responsible",
	RoleAccountable: "Accountable",
	RoleConsulted:   "Consulted",
	RoleInformed:    "Informed",
}

func (r RaciRole) ToHuman() string {
	if human, exist := raciRoleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func ParseRaciRole(value string) (RaciRole, bool) {
	role := RaciRole(strings.ToLower(strings.TrimSpace(value)))
	if !role.IsValid() {
		return "", false
	}
	return role, true
}

func (r RaciRole) IsValid() bool {
	_, exist := raciRoleHumanName[r]
	return exist
}

// CarriesLimit финансовые лимиты допустимы только для R и A
func (r RaciRole) CarriesLimit() bool {
	return r == RoleResponsible || r == RoleAccountable
}

// IsOwner роль отвечает за исполнение задачи
func (r RaciRole) IsOwner() bool {
	return r.CarriesLimit()
}

func (r RaciRole) ApprovalLevel() ApprovalLevel {
	if r.IsOwner() {
		return ApprovalLevelHod
	}
	return ApprovalLevelInformational
}

func (r RaciRole) Order() int {
	for idx, role := range RaciRoles {
		if role == r {
			return idx
		}
	}
	return len(RaciRoles)
}

type EventStatus string

const (
	EventStatusDraft    EventStatus = "draft"
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusRejected EventStatus = "rejected"
)

var eventStatusHumanName = map[EventStatus]string{
	EventStatusDraft:    "Черновик",
	EventStatusPending:  "На согласовании",
	EventStatusApproved: "Согласовано",
	EventStatusRejected: "Отклонено",
}

func (s EventStatus) ToHuman() string {
	if human, exist := eventStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s EventStatus) IsValid() bool {
	_, exist := eventStatusHumanName[s]
	return exist
}

// AllowEdit задачи и назначения меняются только в черновике или после отклонения
func (s EventStatus) AllowEdit() bool {
	return s == EventStatusDraft || s == EventStatusRejected
}

func (s EventStatus) AllowSubmit() bool {
	return s == EventStatusDraft || s == EventStatusRejected
}

func (s EventStatus) AllowDelete() bool {
	return s == EventStatusDraft
}

func (s EventStatus) IsResolved() bool {
	return s == EventStatusApproved || s == EventStatusRejected
}

// SubmitFromStatuses статусы, из которых разрешена отправка на согласование
var SubmitFromStatuses = []EventStatus{EventStatusDraft, EventStatusRejected}

type ApprovalState string

const (
	AStatePending  ApprovalState = "PENDING"
	AStateApproved ApprovalState = "APPROVED"
	AStateRejected ApprovalState = "REJECTED"
)

var approvalStateHumanName = map[ApprovalState]string{
	AStatePending:  "Ожидает решения",
	AStateApproved: "Согласовано",
	AStateRejected: "Отклонено",
}

func (s ApprovalState) ToHuman() string {
	if human, exist := approvalStateHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s ApprovalState) IsValid() bool {
	_, ok := approvalStateHumanName[s]
	return ok
}

func (s ApprovalState) IsTerminal() bool {
	return s == AStateApproved || s == AStateRejected
}

// IsDecision состояние может быть результатом решения согласующего
func (s ApprovalState) IsDecision() bool {
	return s.IsTerminal()
}

type ApprovalLevel int

const (
	// ApprovalLevelInformational C/I согласуются автоматически при отправке
	ApprovalLevelInformational ApprovalLevel = 0
	// ApprovalLevelHod R/A требуют решения руководителя подразделения
	ApprovalLevelHod ApprovalLevel = 1
)

type HistoryAction string

const (
	HistoryActionSubmitted HistoryAction = "SUBMITTED"
	HistoryActionApproved  HistoryAction = "APPROVED"
	HistoryActionRejected  HistoryAction = "REJECTED"
	HistoryActionResolved  HistoryAction = "RESOLVED"
)
