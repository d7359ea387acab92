package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures error logs
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {}
func (l *recordingLogger) Info(msg string, fields map[string]interface{})  {}
func (l *recordingLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func TestChatPool_SubmitBeforeStart(t *testing.T) {
	pool := NewChatPool(WorkerConfig{}, nil)

	err := pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {}})

	assert.Equal(t, ErrWorkerNotRunning, err)
}

func TestChatPool_RejectsEmptyJob(t *testing.T) {
	pool := NewChatPool(WorkerConfig{}, nil)
	require.NoError(t, pool.Start())
	defer pool.Stop(context.Background())

	assert.Equal(t, ErrInvalidJob, pool.Submit(nil))
	assert.Equal(t, ErrInvalidJob, pool.Submit(&Job{ChatID: 1}))
}

func TestChatPool_RunsJobs(t *testing.T) {
	pool := NewChatPool(WorkerConfig{MaxWorkers: 4, QueueSize: 10}, nil)
	require.NoError(t, pool.Start())

	var count int32
	for i := 0; i < 20; i++ {
		err := pool.Submit(&Job{
			ChatID: int64(i),
			Run: func(ctx context.Context) {
				atomic.AddInt32(&count, 1)
			},
		})
		require.NoError(t, err)
	}

	require.NoError(t, pool.Stop(context.Background()))
	assert.Equal(t, int32(20), atomic.LoadInt32(&count))
	assert.False(t, pool.Running())
}

func TestChatPool_PreservesOrderPerChat(t *testing.T) {
	pool := NewChatPool(WorkerConfig{MaxWorkers: 3, QueueSize: 50}, nil)
	require.NoError(t, pool.Start())

	var mu sync.Mutex
	var order []int
	for i := 0; i < 30; i++ {
		i := i
		require.NoError(t, pool.Submit(&Job{
			ChatID: 42,
			Run: func(ctx context.Context) {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
			},
		}))
	}
	require.NoError(t, pool.Stop(context.Background()))

	require.Len(t, order, 30)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestChatPool_RecoversFromPanic(t *testing.T) {
	logger := &recordingLogger{}
	pool := NewChatPool(WorkerConfig{MaxWorkers: 1, QueueSize: 5}, logger)
	require.NoError(t, pool.Start())

	var ran int32
	require.NoError(t, pool.Submit(&Job{ChatID: 7, Name: "boom", Run: func(ctx context.Context) {
		panic("boom")
	}}))
	require.NoError(t, pool.Submit(&Job{ChatID: 7, Run: func(ctx context.Context) {
		atomic.StoreInt32(&ran, 1)
	}}))
	require.NoError(t, pool.Stop(context.Background()))

	assert.Equal(t, int32(1), atomic.LoadInt32(&ran), "worker should survive a panicking job")
	assert.Equal(t, []string{"Chat job panicked"}, logger.errors)
}

func TestChatPool_QueueFull(t *testing.T) {
	pool := NewChatPool(WorkerConfig{MaxWorkers: 1, QueueSize: 1, SubmitTimeout: 10 * time.Millisecond}, nil)
	require.NoError(t, pool.Start())

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {
		close(started)
		<-release
	}}))
	<-started
	require.NoError(t, pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {}}))

	err := pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {}})
	assert.Equal(t, ErrQueueFull, err)

	close(release)
	require.NoError(t, pool.Stop(context.Background()))
}

func TestChatPool_StopReleasesBlockedSubmitter(t *testing.T) {
	pool := NewChatPool(WorkerConfig{MaxWorkers: 1, QueueSize: 1, SubmitTimeout: 5 * time.Second}, nil)
	require.NoError(t, pool.Start())

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {
		close(started)
		<-release
	}}))
	<-started
	require.NoError(t, pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {}}))

	submitErr := make(chan error, 1)
	go func() {
		submitErr <- pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {}})
	}()
	time.Sleep(20 * time.Millisecond)

	stopErr := make(chan error, 1)
	go func() {
		stopErr <- pool.Stop(context.Background())
	}()

	select {
	case err := <-submitErr:
		assert.Equal(t, ErrWorkerNotRunning, err)
	case <-time.After(time.Second):
		t.Fatal("blocked submit should return as soon as the pool stops")
	}

	close(release)
	select {
	case err := <-stopErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stop should finish once the running job returns")
	}
	assert.Equal(t, ErrWorkerNotRunning, pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {}}))
}

func TestChatPool_StopCancelsAfterDeadline(t *testing.T) {
	pool := NewChatPool(WorkerConfig{MaxWorkers: 1, QueueSize: 1}, nil)
	require.NoError(t, pool.Start())

	started := make(chan struct{})
	require.NoError(t, pool.Submit(&Job{ChatID: 1, Run: func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	}}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := pool.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestChatPool_ShardHandlesNegativeIDs(t *testing.T) {
	pool := NewChatPool(WorkerConfig{MaxWorkers: 4}, nil)

	for _, id := range []int64{-1001234567890, -1, 0, 1, 5} {
		shard := pool.shard(id)
		assert.GreaterOrEqual(t, shard, 0)
		assert.Less(t, shard, 4)
	}
	assert.Equal(t, pool.shard(-9), pool.shard(-9))
}

func TestChatPool_StartIsIdempotent(t *testing.T) {
	pool := NewChatPool(WorkerConfig{MaxWorkers: 2}, nil)

	require.NoError(t, pool.Start())
	require.NoError(t, pool.Start())
	require.NoError(t, pool.Stop(context.Background()))
	require.NoError(t, pool.Stop(context.Background()))
	assert.Equal(t, ErrPoolStopped, pool.Start())
}
