package dbmodels

// PushData сообщение для пользователя, не подключенного к websocket в момент события
type PushData struct {
	BaseModel
	UserID  uint   `gorm:"index:idx_user"`
	EventID uint   `gorm:"index"`
	Code    string `gorm:"type:varchar(50)"`
	Msg     string
}
