package approvalnotify

import (
	"raci-approval-backend/lib/raci"
	"raci-approval-backend/models"
	raciapimodels "raci-approval-backend/models/api/raci"
	dbmodels "raci-approval-backend/models/db"
	wsmodels "raci-approval-backend/models/ws"
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      string
	subject string
	message string
}

type fakeMail struct {
	sent []sentMail
}

func (f *fakeMail) SendEMail(to, subject, message string) error {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, message: message})
	return nil
}

type fakeHub struct {
	messages []wsmodels.ServerMessage
}

func (f *fakeHub) AddClient(userID uint, conn *websocket.Conn) {}
func (f *fakeHub) DeleteClient(userID uint)                     {}
func (f *fakeHub) SendClose(userID uint)                        {}
func (f *fakeHub) IsConnected(userID uint) bool                 { return false }
func (f *fakeHub) SendMessage(msg wsmodels.ServerMessage) {
	f.messages = append(f.messages, msg)
}

func testEvent() dbmodels.Event {
	event := dbmodels.Event{
		Name:     "Конференция",
		AuthorID: 1,
		Author:   &dbmodels.Employee{Name: "Alice", Email: "alice@example.com"},
		Status:   models.EventStatusApproved,
	}
	event.ID = 5
	return event
}

func TestSubmitted(t *testing.T) {
	mail := &fakeMail{}
	hub := &fakeHub{}
	notifier := NewInstance(mail, hub, "http://localhost:3000/")

	first, second := uint(50), uint(51)
	approvers := []raci.Employee{
		{ID: 50, Name: "Head", Email: "head@example.com"},
		{ID: 51, Name: "Deputy", Email: "deputy@example.com"},
	}
	records := []raciapimodels.ApprovalRecordView{
		{ID: 1, ApproverID: &first, TaskName: "Организация", Role: models.RoleResponsible, EmployeeName: "Alice"},
		{ID: 2, ApproverID: &second, TaskName: "Организация", Role: models.RoleResponsible, EmployeeName: "Alice"},
		{ID: 3, TaskName: "Организация", Role: models.RoleInformed, EmployeeName: "Bob"},
	}
	notifier.Submitted(testEvent(), approvers, records)

	require.Len(t, mail.sent, 2)
	require.Equal(t, "head@example.com", mail.sent[0].to)
	require.Contains(t, mail.sent[0].message, "http://localhost:3000/events/5")
	require.NotContains(t, mail.sent[0].message, "Bob")
	require.Len(t, hub.messages, 2)
	require.Equal(t, wsmodels.CodeApprovalRequested, hub.messages[1].Code)
	require.Equal(t, uint(51), hub.messages[1].ToUserID)
}

func TestResolved(t *testing.T) {
	mail := &fakeMail{}
	hub := &fakeHub{}
	notifier := NewInstance(mail, hub, "http://localhost:3000")

	notifier.Resolved(testEvent(), []raci.Employee{{ID: 50}, {ID: 1}})
	require.Len(t, mail.sent, 1)
	require.Equal(t, "alice@example.com", mail.sent[0].to)
	require.Len(t, hub.messages, 2)
	require.Equal(t, uint(1), hub.messages[0].ToUserID)
	require.Equal(t, uint(50), hub.messages[1].ToUserID)
}
