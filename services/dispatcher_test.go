package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	pool := NewWorkerPool(16, 3, logger.NewNop())

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.True(t, pool.Submit("count", func(context.Context) {
			defer wg.Done()
			ran.Add(1)
		}))
	}
	wg.Wait()
	assert.EqualValues(t, 10, ran.Load())
	require.NoError(t, pool.Close(context.Background()))
}

func TestWorkerPoolDropsWhenFull(t *testing.T) {
	pool := NewWorkerPool(1, 1, logger.NewNop())
	release := make(chan struct{})
	started := make(chan struct{})

	require.True(t, pool.Submit("block", func(context.Context) {
		close(started)
		<-release
	}))
	<-started

	assert.True(t, pool.Submit("queued", func(context.Context) {}))
	assert.False(t, pool.Submit("dropped", func(context.Context) {}), "queue is full")

	close(release)
	require.NoError(t, pool.Close(context.Background()))
	assert.False(t, pool.Submit("late", func(context.Context) {}), "pool is closed")
}

func TestWorkerPoolSurvivesPanics(t *testing.T) {
	pool := NewWorkerPool(4, 1, logger.NewNop())
	done := make(chan struct{})

	pool.Submit("panic", func(context.Context) { panic("boom") })
	pool.Submit("after", func(context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not recover from panic")
	}
	require.NoError(t, pool.Close(context.Background()))
}

func TestWorkerPoolCloseDrainsQueue(t *testing.T) {
	pool := NewWorkerPool(8, 1, logger.NewNop())
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		pool.Submit("slow", func(context.Context) {
			time.Sleep(5 * time.Millisecond)
			ran.Add(1)
		})
	}
	require.NoError(t, pool.Close(context.Background()))
	assert.EqualValues(t, 5, ran.Load())
}

func TestWorkerPoolCloseHonoursDeadline(t *testing.T) {
	pool := NewWorkerPool(1, 1, logger.NewNop())
	release := make(chan struct{})
	defer close(release)
	pool.Submit("stuck", func(context.Context) { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Close(ctx), context.DeadlineExceeded)
}

func TestInlineDispatcher(t *testing.T) {
	ran := false
	assert.True(t, InlineDispatcher{}.Submit("inline", func(context.Context) { ran = true }))
	assert.True(t, ran)
}
