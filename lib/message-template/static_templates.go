package messagetemplate

import (
	"bytes"
	"raci-approval-backend/models"
	"text/template"

	"github.com/pkg/errors"
)

const (
	approvalRequestTitle  = "Согласование мероприятия"
	approvalDecisionTitle = "Решение по мероприятию"
	approvalResolvedTitle = "Итог согласования мероприятия"
	approvalReminderTitle = "Напоминание о согласовании"
)

const approvalRequestTpl = `Здравствуйте, {{.RecipientName}}!

{{.AuthorName}} направил(а) на согласование матрицу RACI мероприятия "{{.EventName}}" ({{.DepartmentName}}).
{{range .Items}}
- {{.TaskName}}: {{.RoleName}} {{.EmployeeName}}{{end}}

Перейти к согласованию: {{.Link}}
`

const approvalDecisionTpl = `Здравствуйте, {{.RecipientName}}!

По мероприятию "{{.EventName}}" принято решение.
{{range .Items}}
- {{.TaskName}}: {{.RoleName}} {{.EmployeeName}}: {{.StateName}}{{if .Reason}} ({{.Reason}}){{end}}{{end}}

Текущий статус: {{.StatusName}}
{{.Link}}
`

const approvalResolvedTpl = `Здравствуйте, {{.RecipientName}}!

Согласование мероприятия "{{.EventName}}" завершено: {{.StatusName}}.
{{if .RejectionReason}}Причина: {{.RejectionReason}}
{{end}}
{{.Link}}
`

const approvalReminderTpl = `Здравствуйте, {{.RecipientName}}!

Ожидают вашего решения назначений: {{.PendingCount}}.
{{range .Items}}
- {{.TaskName}}: {{.RoleName}} {{.EmployeeName}}{{end}}

Перейти к согласованию: {{.Link}}
`

var templates = map[string]*template.Template{
	approvalRequestTitle:  template.Must(template.New("approval_request").Parse(approvalRequestTpl)),
	approvalDecisionTitle: template.Must(template.New("approval_decision").Parse(approvalDecisionTpl)),
	approvalResolvedTitle: template.Must(template.New("approval_resolved").Parse(approvalResolvedTpl)),
	approvalReminderTitle: template.Must(template.New("approval_reminder").Parse(approvalReminderTpl)),
}

func BuildApprovalRequestMsg(data models.ApprovalTemplateData) (title, msg string, err error) {
	return build(approvalRequestTitle, data)
}

func BuildApprovalDecisionMsg(data models.ApprovalTemplateData) (title, msg string, err error) {
	return build(approvalDecisionTitle, data)
}

func BuildApprovalResolvedMsg(data models.ApprovalTemplateData) (title, msg string, err error) {
	return build(approvalResolvedTitle, data)
}

func BuildApprovalReminderMsg(data models.ApprovalTemplateData) (title, msg string, err error) {
	return build(approvalReminderTitle, data)
}

func build(title string, data models.ApprovalTemplateData) (string, string, error) {
	tpl, ok := templates[title]
	if !ok {
		return "", "", errors.Errorf("шаблон письма не найден: %v", title)
	}
	buf := new(bytes.Buffer)
	if err := tpl.Execute(buf, data); err != nil {
		return "", "", errors.Wrapf(err, "ошибка формирования письма %v", title)
	}
	return title, buf.String(), nil
}
