package connectionhub

import (
	dbmodels "raci-approval-backend/models/db"
	wsmodels "raci-approval-backend/models/ws"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type memPushStore struct {
	mu   sync.Mutex
	list []dbmodels.PushData
}

func (m *memPushStore) Create(rec dbmodels.PushData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.ID = uint(len(m.list) + 1)
	m.list = append(m.list, rec)
	return nil
}

func (m *memPushStore) List(userID uint) ([]dbmodels.PushData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []dbmodels.PushData{}
	for _, rec := range m.list {
		if rec.UserID == userID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (m *memPushStore) Delete(ids []uint) error {
	return nil
}

func TestSendMessage(t *testing.T) {
	t.Run(`offline user message stored`, func(t *testing.T) {
		store := &memPushStore{}
		hub := NewInstance(store)
		require.False(t, hub.IsConnected(7))

		hub.SendMessage(wsmodels.ServerMessage{ToUserID: 7, Code: wsmodels.CodeApprovalRequested, Msg: "новое согласование", EventID: 3})
		list, err := store.List(7)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, uint(3), list[0].EventID)
		require.Equal(t, wsmodels.CodeApprovalRequested, list[0].Code)
	})

	t.Run(`concurrent senders`, func(t *testing.T) {
		store := &memPushStore{}
		hub := NewInstance(store)
		wg := sync.WaitGroup{}
		for idx := 0; idx < 20; idx++ {
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				hub.SendMessage(wsmodels.ServerMessage{ToUserID: userID, Code: wsmodels.CodeEventResolved})
				hub.DeleteClient(userID)
			}(uint(idx % 3))
		}
		wg.Wait()
		require.Len(t, store.list, 20)
	})
}
