package lock

import (
	"context"
	"sync"
	"time"
)

// keyLocks блокировки по ключу внутри процесса; ключ свободен, когда его нет в карте
var (
	mu       sync.Mutex
	keyLocks = map[string]chan struct{}{}
)

func tryAcquire(key string) (<-chan struct{}, bool) {
	mu.Lock()
	defer mu.Unlock()
	if released, exist := keyLocks[key]; exist {
		return released, false
	}
	keyLocks[key] = make(chan struct{})
	return nil, true
}

func release(key string) {
	mu.Lock()
	defer mu.Unlock()
	if released, exist := keyLocks[key]; exist {
		close(released)
		delete(keyLocks, key)
	}
}

// IsLocked ключ захвачен в текущий момент
func IsLocked(key string) bool {
	mu.Lock()
	defer mu.Unlock()
	_, exist := keyLocks[key]
	return exist
}

// WithDelay выполняет safeCode под блокировкой key, ожидая освобождения не дольше wait.
// success=false: блокировку получить не удалось, safeCode не вызывался.
func WithDelay(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	for {
		released, ok := tryAcquire(key)
		if ok {
			break
		}
		select {
		case <-released:
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		}
	}
	defer release(key)
	return true, safeCode()
}
