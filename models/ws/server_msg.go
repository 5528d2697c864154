package wsmodels

type ServerMessage struct {
	ToUserID uint   `json:"-"`
	Time     string `json:"time"`               // время события
	Code     string `json:"code"`               // код события
	Msg      string `json:"msg"`                // текст события
	EventID  uint   `json:"event_id,omitempty"` // мероприятие
}

const (
	CodeApprovalRequested = "APPROVAL_REQUESTED"
	CodeRecordDecided     = "APPROVAL_DECIDED"
	CodeEventResolved     = "EVENT_RESOLVED"
	CodeApprovalReminder  = "APPROVAL_REMINDER"
)
