package flight

import (
	"context"
	"sync"
)

// Registry tracks at most one in-flight job per key. A second Begin for a
// key that is still running is refused rather than coalesced.
type Registry[K comparable] struct {
	pending map[K]*job
	pmu     *sync.Mutex
}

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRegistry[K comparable]() Registry[K] {
	return Registry[K]{
		pending: make(map[K]*job),
		pmu:     new(sync.Mutex),
	}
}

// Begin registers a job for k. The returned context is cancelled by Cancel
// or by calling finish, which must be called exactly once when the job ends.
// ok is false when a job for k is already running.
func (r *Registry[K]) Begin(parent context.Context, k K) (ctx context.Context, finish func(), ok bool) {
	r.pmu.Lock()
	defer r.pmu.Unlock()

	if _, exists := r.pending[k]; exists {
		return nil, nil, false
	}

	ctx, cancel := context.WithCancel(parent)
	j := &job{cancel: cancel, done: make(chan struct{})}
	r.pending[k] = j

	var once sync.Once
	finish = func() {
		once.Do(func() {
			cancel()
			r.pmu.Lock()
			if cur, ok := r.pending[k]; ok && cur == j {
				delete(r.pending, k)
			}
			r.pmu.Unlock()
			close(j.done)
		})
	}
	return ctx, finish, true
}

// Cancel cancels the running job for k, if any. The job stays registered
// until its owner calls finish.
func (r *Registry[K]) Cancel(k K) bool {
	r.pmu.Lock()
	j, ok := r.pending[k]
	r.pmu.Unlock()
	if !ok {
		return false
	}
	j.cancel()
	return true
}

// Wait blocks until the job for k finishes or ctx is done.
func (r *Registry[K]) Wait(ctx context.Context, k K) error {
	r.pmu.Lock()
	j, ok := r.pending[k]
	r.pmu.Unlock()
	if !ok {
		return nil
	}

	select {
	case <-j.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry[K]) Running(k K) bool {
	r.pmu.Lock()
	defer r.pmu.Unlock()
	_, ok := r.pending[k]
	return ok
}

func (r *Registry[K]) Len() int {
	r.pmu.Lock()
	defer r.pmu.Unlock()
	return len(r.pending)
}

// CancelAll cancels every running job.
func (r *Registry[K]) CancelAll() {
	r.pmu.Lock()
	defer r.pmu.Unlock()
	for _, j := range r.pending {
		j.cancel()
	}
}
