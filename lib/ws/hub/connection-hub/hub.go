package connectionhub

import (
	"raci-approval-backend/db"
	"raci-approval-backend/lib/metrics"
	pushdatastore "raci-approval-backend/lib/ws/push-store"
	dbmodels "raci-approval-backend/models/db"
	wsmodels "raci-approval-backend/models/ws"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	AddClient(userID uint, conn *websocket.Conn)
	DeleteClient(userID uint)
	SendMessage(msg wsmodels.ServerMessage)
	SendClose(userID uint)
	IsConnected(userID uint) bool
}

var Instance Provider

func Init() {
	Instance = NewInstance(pushdatastore.NewInstance(db.DB))
}

func NewInstance(store pushdatastore.Provider) Provider {
	return &impl{
		clients: map[uint]clientSession{},
		store:   store,
	}
}

type impl struct {
	mu      sync.RWMutex
	clients map[uint]clientSession
	store   pushdatastore.Provider
}

func (i *impl) DeleteClient(userID uint) {
	i.mu.Lock()
	sess, ok := i.clients[userID]
	if ok {
		delete(i.clients, userID)
	}
	count := len(i.clients)
	i.mu.Unlock()
	if !ok {
		return
	}
	sess.stop()
	metrics.SetWsClients(count)
}

func (i *impl) AddClient(userID uint, conn *websocket.Conn) {
	i.mu.Lock()
	oldSess, ok := i.clients[userID]
	i.clients[userID] = newSession(conn)
	count := len(i.clients)
	i.mu.Unlock()
	if ok {
		oldSess.stop()
	}
	metrics.SetWsClients(count)
	go i.sendDelayedMessages(userID)
}

// SendMessage сообщение для отключенного пользователя сохраняется и отправляется при подключении
func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	if msg.Time == "" {
		msg.Time = time.Now().Format("02.01.2006 15:04:05")
	}
	i.mu.RLock()
	sess, ok := i.clients[msg.ToUserID]
	i.mu.RUnlock()
	if ok && sess.enqueue(msg) {
		return
	}
	rec := dbmodels.PushData{
		UserID:  msg.ToUserID,
		EventID: msg.EventID,
		Code:    msg.Code,
		Msg:     msg.Msg,
	}
	if err := i.store.Create(rec); err != nil {
		log.
			WithField("user_id", msg.ToUserID).
			WithError(err).
			Error("ошибка сохранения неотправленного события")
	}
}

func (i *impl) SendClose(userID uint) {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if ok {
		sess.stop()
	}
}

func (i *impl) IsConnected(userID uint) bool {
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if !ok || sess.conn == nil || sess.conn.Conn == nil {
		return false
	}
	return true
}

func (i *impl) sendDelayedMessages(userID uint) {
	logger := log.WithField("user_id", userID)
	list, err := i.store.List(userID)
	if err != nil {
		logger.WithError(err).Error("ошибка получения списка не отправленных событий")
		return
	}
	i.mu.RLock()
	sess, ok := i.clients[userID]
	i.mu.RUnlock()
	if !ok {
		return
	}
	sentIDs := []uint{}
	for _, item := range list {
		msg := wsmodels.ServerMessage{
			ToUserID: userID,
			Time:     item.CreatedAt.Format("02.01.2006 15:04:05"),
			Code:     item.Code,
			Msg:      item.Msg,
			EventID:  item.EventID,
		}
		if !sess.enqueue(msg) {
			break
		}
		sentIDs = append(sentIDs, item.ID)
	}
	if err = i.store.Delete(sentIDs); err != nil {
		logger.WithError(err).Error("ошибка удаления отправленных событий")
	}
}
