package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_Limit(t *testing.T) {
	wp := NewWorkerPool(3)
	assert.Equal(t, 3, wp.Limit())

	var running, peak, done atomic.Int32
	for i := 0; i < 20; i++ {
		_, err := wp.Do(context.Background(), func(context.Context) error {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			done.Add(1)
			return nil
		})
		require.NoError(t, err)
	}

	require.NoError(t, wp.Wait())
	assert.Equal(t, int32(20), done.Load())
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, 0, wp.Num())

	_, err := wp.Do(context.Background(), nil)
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestWorkerPool_Errors(t *testing.T) {
	wp := NewWorkerPool(0)
	assert.Equal(t, 10, wp.Limit())

	first := errors.New("first")
	second := errors.New("second")
	for _, err := range []error{first, nil, second} {
		_, doErr := wp.Do(context.Background(), func(context.Context) error { return err })
		require.NoError(t, doErr)
	}
	_, err := wp.Do(context.Background(), func(context.Context) error { panic("boom") })
	require.NoError(t, err)

	err = wp.Wait()
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.ErrorContains(t, err, "panic: boom")
}

func TestWorkerPool_ContextCancelled(t *testing.T) {
	wp := NewWorkerPool(1)
	release := make(chan struct{})
	_, err := wp.Do(context.Background(), func(context.Context) error {
		<-release
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = wp.Do(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.NoError(t, wp.Wait())
}
