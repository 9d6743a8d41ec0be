package worker

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"veoprompt/pkg/queue"
)

// Handler processes one item. The context is cancelled when the queue stops.
type Handler[T any] func(ctx context.Context, item T)

// Queue is a bounded FIFO drained by a fixed number of workers.
type Queue[T any] struct {
	name    string
	workers int
	items   chan T
	handle  Handler[T]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

var _ queue.Queue[struct{}] = (*Queue[struct{}])(nil)

func New[T any](name string, workers, size int, handle Handler[T]) *Queue[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue[T]{
		name:    name,
		workers: max(workers, 1),
		items:   make(chan T, max(size, 1)),
		handle:  handle,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (q *Queue[T]) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.stopped {
		return
	}
	q.started = true
	for i := range q.workers {
		q.wg.Go(func() { q.processLoop(i) })
	}
	log.Info("queue started", "queue", q.name, "workers", q.workers, "capacity", cap(q.items))
}

// Stop cancels in-progress items, drops queued ones and waits for the
// workers to exit.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
	log.Info("queue stopped", "queue", q.name, "dropped", len(q.items))
}

// Add enqueues without blocking.
func (q *Queue[T]) Add(item T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.stopped {
		return queue.ErrStopped
	}

	select {
	case q.items <- item:
		return nil
	default:
		return queue.ErrFull
	}
}

// Drain removes and returns the items left after Stop.
func (q *Queue[T]) Drain() []T {
	var out []T
	for {
		select {
		case item := <-q.items:
			out = append(out, item)
		default:
			return out
		}
	}
}

func (q *Queue[T]) Len() int {
	return len(q.items)
}

func (q *Queue[T]) processLoop(worker int) {
	for {
		select {
		case <-q.ctx.Done():
			return
		case item := <-q.items:
			log.Debug("processing item", "queue", q.name, "worker", worker)
			q.handle(q.ctx, item)
		}
	}
}
