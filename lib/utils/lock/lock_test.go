package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithDelay(t *testing.T) {
	t.Run("free key", func(t *testing.T) {
		called := false
		success, err := WithDelay(context.Background(), "free", time.Second, func() error {
			called = true
			require.True(t, IsLocked("free"))
			return nil
		})
		require.NoError(t, err)
		require.True(t, success)
		require.True(t, called)
		require.False(t, IsLocked("free"))
	})

	t.Run("error passed through and key released", func(t *testing.T) {
		success, err := WithDelay(context.Background(), "failed", time.Second, func() error {
			return errors.New("ошибка")
		})
		require.True(t, success)
		require.EqualError(t, err, "ошибка")
		require.False(t, IsLocked("failed"))
	})

	t.Run("timeout while key held", func(t *testing.T) {
		hold := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = WithDelay(context.Background(), "busy", time.Second, func() error {
				<-hold
				return nil
			})
		}()
		require.Eventually(t, func() bool { return IsLocked("busy") }, time.Second, 5*time.Millisecond)

		called := false
		success, err := WithDelay(context.Background(), "busy", 20*time.Millisecond, func() error {
			called = true
			return nil
		})
		require.NoError(t, err)
		require.False(t, success)
		require.False(t, called)

		close(hold)
		<-done
		require.False(t, IsLocked("busy"))
	})

	t.Run("canceled context", func(t *testing.T) {
		hold := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = WithDelay(context.Background(), "canceled", time.Second, func() error {
				<-hold
				return nil
			})
		}()
		require.Eventually(t, func() bool { return IsLocked("canceled") }, time.Second, 5*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		success, err := WithDelay(ctx, "canceled", time.Second, func() error { return nil })
		require.NoError(t, err)
		require.False(t, success)

		close(hold)
		<-done
	})

	t.Run("serialized access", func(t *testing.T) {
		var active, maxActive int32
		wg := sync.WaitGroup{}
		for n := 0; n < 10; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				success, err := WithDelay(context.Background(), "serial", 5*time.Second, func() error {
					cur := atomic.AddInt32(&active, 1)
					for {
						prev := atomic.LoadInt32(&maxActive)
						if cur <= prev || atomic.CompareAndSwapInt32(&maxActive, prev, cur) {
							break
						}
					}
					time.Sleep(time.Millisecond)
					atomic.AddInt32(&active, -1)
					return nil
				})
				require.NoError(t, err)
				require.True(t, success)
			}()
		}
		wg.Wait()
		require.Equal(t, int32(1), atomic.LoadInt32(&maxActive))
	})
}
