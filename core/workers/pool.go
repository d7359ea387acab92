// ABOUTME: Chat worker pool runs update handling in the background, one queue per shard
// ABOUTME: Jobs for the same chat always land on the same worker so replies keep their order

package workers

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"songfinder-bot/core/interfaces"
)

// Job is one unit of work for a chat
type Job struct {
	// ChatID selects the worker; jobs sharing it run in submission order
	ChatID int64

	// Name is used in logs
	Name string

	// Run performs the work. ctx is cancelled when the pool stops.
	Run func(ctx context.Context)
}

// WorkerConfig holds configuration for the chat worker pool
type WorkerConfig struct {
	MaxWorkers    int
	QueueSize     int
	SubmitTimeout time.Duration
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		MaxWorkers:    10,
		QueueSize:     100,
		SubmitTimeout: 5 * time.Second,
	}
}

// ChatPool manages background update processing
type ChatPool struct {
	logger        interfaces.Logger
	queues        []chan *Job
	submitTimeout time.Duration
	wg            sync.WaitGroup
	submits       sync.WaitGroup
	stopping      chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc
	mu            sync.RWMutex
	running       bool
	stopped       bool
}

// NewChatPool creates a new chat worker pool
func NewChatPool(config WorkerConfig, logger interfaces.Logger) *ChatPool {
	defaults := DefaultWorkerConfig()
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = defaults.MaxWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.SubmitTimeout <= 0 {
		config.SubmitTimeout = defaults.SubmitTimeout
	}

	queues := make([]chan *Job, config.MaxWorkers)
	for i := range queues {
		queues[i] = make(chan *Job, config.QueueSize)
	}

	return &ChatPool{
		logger:        logger,
		queues:        queues,
		submitTimeout: config.SubmitTimeout,
		stopping:      make(chan struct{}),
	}
}

// Start starts the worker pool. A stopped pool cannot be restarted.
func (p *ChatPool) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if p.stopped {
		return ErrPoolStopped
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	for i, queue := range p.queues {
		p.wg.Add(1)
		go p.run(i, queue)
	}

	p.running = true
	return nil
}

// Stop stops accepting jobs, drains queued ones and waits for the workers.
// Jobs still running after ctx expires are cancelled.
func (p *ChatPool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.stopped = true
	close(p.stopping)
	p.mu.Unlock()

	// Blocked submitters give up on stopping; queues close once none can send
	p.submits.Wait()
	for _, queue := range p.queues {
		close(queue)
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

// Submit queues a job on the worker owning its chat. When the queue is full
// it waits up to SubmitTimeout, or until the pool stops.
func (p *ChatPool) Submit(job *Job) error {
	if job == nil || job.Run == nil {
		return ErrInvalidJob
	}

	p.mu.RLock()
	if !p.running {
		p.mu.RUnlock()
		return ErrWorkerNotRunning
	}
	queue := p.queues[p.shard(job.ChatID)]
	p.submits.Add(1)
	p.mu.RUnlock()
	defer p.submits.Done()

	select {
	case queue <- job:
		return nil
	default:
	}

	timer := time.NewTimer(p.submitTimeout)
	defer timer.Stop()

	select {
	case queue <- job:
		return nil
	case <-p.stopping:
		return ErrWorkerNotRunning
	case <-timer.C:
		return ErrQueueFull
	}
}

// Running reports whether the pool accepts jobs
func (p *ChatPool) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

func (p *ChatPool) shard(chatID int64) int {
	n := int64(len(p.queues))
	idx := chatID % n
	if idx < 0 {
		idx += n
	}
	return int(idx)
}

// run is the main loop for each worker
func (p *ChatPool) run(id int, queue <-chan *Job) {
	defer p.wg.Done()

	for job := range queue {
		p.process(id, job)
	}
}

// process runs one job, a panic is logged and the worker keeps going
func (p *ChatPool) process(id int, job *Job) {
	defer func() {
		if r := recover(); r != nil && p.logger != nil {
			p.logger.Error("Chat job panicked", map[string]interface{}{
				"worker":  id,
				"chat_id": job.ChatID,
				"job":     job.Name,
				"panic":   fmt.Sprint(r),
				"stack":   string(debug.Stack()),
			})
		}
	}()

	start := time.Now()
	job.Run(p.ctx)

	if p.logger != nil {
		p.logger.Debug("Chat job finished", map[string]interface{}{
			"worker":      id,
			"chat_id":     job.ChatID,
			"job":         job.Name,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "worker pool is not running"}
	ErrQueueFull        = &WorkerError{Message: "job queue is full"}
	ErrInvalidJob       = &WorkerError{Message: "job has no work to run"}
	ErrPoolStopped      = &WorkerError{Message: "worker pool has been stopped"}
)

// WorkerError represents a worker-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
