package approvalnotify

import (
	"fmt"
	"raci-approval-backend/config"
	messagetemplate "raci-approval-backend/lib/message-template"
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/lib/smtp"
	connectionhub "raci-approval-backend/lib/ws/hub/connection-hub"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	wsmodels "raci-approval-backend/models/ws"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Provider уведомления участников согласования. Ошибки доставки только логируются.
type Provider interface {
	Submitted(event dbmodels.Event, approvers []raci.Employee, records []raciapimodels.ApprovalRecordView)
	Decided(event dbmodels.Event, rec raciapimodels.ApprovalRecordView)
	Resolved(event dbmodels.Event, approvers []raci.Employee)
	Remind(approver raci.Employee, records []raciapimodels.ApprovalRecordView) error
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(smtp.Instance, connectionhub.Instance, config.Conf.App.PublicURL)
}

func NewInstance(mail smtp.Provider, hub connectionhub.Provider, publicURL string) Provider {
	return impl{
		mail:      mail,
		hub:       hub,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

type impl struct {
	mail      smtp.Provider
	hub       connectionhub.Provider
	publicURL string
}

func (i impl) Submitted(event dbmodels.Event, approvers []raci.Employee, records []raciapimodels.ApprovalRecordView) {
	logger := i.getLogger(event)
	for _, approver := range approvers {
		items := []models.ApprovalTemplateItem{}
		for _, rec := range records {
			if rec.ApproverID == nil || *rec.ApproverID != approver.ID {
				continue
			}
			items = append(items, templateItem(rec))
		}
		data := i.templateData(event, approver.Name)
		data.Items = items
		data.PendingCount = len(items)
		title, msg, err := messagetemplate.BuildApprovalRequestMsg(data)
		if err != nil {
			logger.WithError(err).Error("ошибка формирования письма согласующему")
			continue
		}
		i.sendMail(logger, approver.Email, title, msg)
		i.push(approver.ID, event.ID, wsmodels.CodeApprovalRequested,
			fmt.Sprintf("Мероприятие \"%v\" ожидает вашего согласования", event.Name))
	}
}

func (i impl) Decided(event dbmodels.Event, rec raciapimodels.ApprovalRecordView) {
	i.push(event.AuthorID, event.ID, wsmodels.CodeRecordDecided,
		fmt.Sprintf("%v: %v, %v %v", event.Name, rec.StateName, rec.TaskName, rec.EmployeeName))
}

func (i impl) Resolved(event dbmodels.Event, approvers []raci.Employee) {
	logger := i.getLogger(event)
	pushMsg := fmt.Sprintf("Согласование мероприятия \"%v\" завершено: %v", event.Name, event.Status.ToHuman())
	if event.Author != nil {
		title, msg, err := messagetemplate.BuildApprovalResolvedMsg(i.templateData(event, event.Author.Name))
		if err != nil {
			logger.WithError(err).Error("ошибка формирования письма автору")
		} else {
			i.sendMail(logger, event.Author.Email, title, msg)
		}
	}
	i.push(event.AuthorID, event.ID, wsmodels.CodeEventResolved, pushMsg)
	for _, approver := range approvers {
		if approver.ID == event.AuthorID {
			continue
		}
		i.push(approver.ID, event.ID, wsmodels.CodeEventResolved, pushMsg)
	}
}

func (i impl) Remind(approver raci.Employee, records []raciapimodels.ApprovalRecordView) error {
	data := models.ApprovalTemplateData{
		RecipientName: approver.Name,
		Link:          i.publicURL + "/approvals",
		PendingCount:  len(records),
	}
	for _, rec := range records {
		data.Items = append(data.Items, templateItem(rec))
	}
	title, msg, err := messagetemplate.BuildApprovalReminderMsg(data)
	if err != nil {
		return err
	}
	if i.mail != nil && approver.Email != "" {
		if err = i.mail.SendEMail(approver.Email, title, msg); err != nil {
			return err
		}
	}
	i.push(approver.ID, 0, wsmodels.CodeApprovalReminder,
		fmt.Sprintf("Ожидают вашего решения назначений: %v", len(records)))
	return nil
}

func (i impl) templateData(event dbmodels.Event, recipient string) models.ApprovalTemplateData {
	data := models.ApprovalTemplateData{
		RecipientName:   recipient,
		EventName:       event.Name,
		StatusName:      event.Status.ToHuman(),
		RejectionReason: event.RejectionReason,
		Link:            fmt.Sprintf("%v/events/%v", i.publicURL, event.ID),
	}
	if event.Department != nil {
		data.DepartmentName = event.Department.Name
	}
	if event.Author != nil {
		data.AuthorName = event.Author.Name
	}
	return data
}

func (i impl) sendMail(logger *log.Entry, to, title, msg string) {
	if i.mail == nil || to == "" {
		return
	}
	if err := i.mail.SendEMail(to, title, msg); err != nil {
		logger.
			WithField("to", to).
			WithError(err).
			Error("ошибка отправки письма")
	}
}

func (i impl) push(userID, eventID uint, code, msg string) {
	if i.hub == nil || userID == 0 {
		return
	}
	i.hub.SendMessage(wsmodels.ServerMessage{
		ToUserID: userID,
		Code:     code,
		Msg:      msg,
		EventID:  eventID,
	})
}

func (i impl) getLogger(event dbmodels.Event) *log.Entry {
	return log.WithField("event_id", event.ID)
}

func templateItem(rec raciapimodels.ApprovalRecordView) models.ApprovalTemplateItem {
	return models.ApprovalTemplateItem{
		TaskName:     rec.TaskName,
		RoleName:     rec.Role.ToHuman(),
		EmployeeName: rec.EmployeeName,
		StateName:    rec.StateName,
		Reason:       rec.Reason,
	}
}
