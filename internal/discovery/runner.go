package discovery

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Runner executes detached background tasks on a fixed worker pool. Tasks
// receive a fresh context so they outlive the request that submitted them.
type Runner struct {
	tasks  chan func(context.Context)
	logger *zap.Logger
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewRunner(logger *zap.Logger, workers, queueSize int) *Runner {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		tasks:  make(chan func(context.Context), queueSize),
		logger: logger.Named("runner"),
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.work(ctx)
	}
	return r
}

func (r *Runner) work(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-r.tasks:
			if !ok {
				return
			}
			r.run(ctx, task)
		}
	}
}

func (r *Runner) run(ctx context.Context, task func(context.Context)) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("background task panicked", zap.Any("panic", rec))
		}
	}()
	task(ctx)
}

// Submit queues a task. Returns false when the queue is full; the caller
// decides whether that is an error or a skip.
func (r *Runner) Submit(task func(context.Context)) bool {
	select {
	case r.tasks <- task:
		return true
	default:
		return false
	}
}

// Shutdown stops accepting work and waits for in-flight tasks to drain.
func (r *Runner) Shutdown() {
	r.cancel()
	r.wg.Wait()
}
