package baseworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run("panic does not stop worker", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var calls int32
		worker := NewInstance("TestWorker", time.Millisecond, time.Millisecond)
		done := make(chan struct{})
		go func() {
			defer close(done)
			worker.Run(ctx, func(ctx context.Context) {
				if atomic.AddInt32(&calls, 1) == 1 {
					panic("сбой")
				}
			})
		}()
		require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 3 }, time.Second, time.Millisecond)
		cancel()
		<-done
	})

	t.Run("stopped before first run", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		called := false
		NewInstance("TestWorker", time.Hour, time.Hour).Run(ctx, func(ctx context.Context) {
			called = true
		})
		require.False(t, called)
	})
}
