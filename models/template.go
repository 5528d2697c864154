package models

// ApprovalTemplateData данные для писем о согласовании мероприятия
type ApprovalTemplateData struct {
	RecipientName   string
	EventName       string
	DepartmentName  string
	AuthorName      string
	StatusName      string
	RejectionReason string
	Link            string
	PendingCount    int
	Items           []ApprovalTemplateItem
}

type ApprovalTemplateItem struct {
	TaskName     string
	RoleName     string
	EmployeeName string
	StateName    string
	Reason       string
}
