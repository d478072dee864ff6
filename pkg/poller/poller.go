// Package poller tracks long running backend tasks by fetching their status on
// a fixed cadence until a terminal status is observed.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quka-ai/course-console/pkg/safe"
	"github.com/quka-ai/course-console/pkg/types"
)

const DefaultInterval = 2 * time.Second

// FetchFunc loads the current projection of a task.
type FetchFunc[T types.StatusGetter] func(ctx context.Context, taskID string) (T, error)

// Callbacks are invoked one at a time, never concurrently. They may call Stop
// or Start on the poller but must not block on Wait.
type Callbacks[T types.StatusGetter] struct {
	// OnUpdate receives every delivered payload, terminal ones included.
	OnUpdate func(T)
	// OnComplete fires once per run for completed and failed alike.
	OnComplete func(T)
	// OnError fires when a fetch fails. The run is abandoned, nothing is retried.
	OnError func(error)
}

// Poller 单个任务的轮询状态机 idle -> polling -> stopped
type Poller[T types.StatusGetter] struct {
	taskID string
	fetch  FetchFunc[T]
	cb     Callbacks[T]

	mu       sync.Mutex
	state    types.PollState
	interval time.Duration
	run      uint64 // generation of the current run
	cancel   context.CancelFunc
	done     chan struct{}
	seq      uint64 // last issued fetch
	applied  uint64 // last delivered fetch

	deliverMu sync.Mutex
}

func New[T types.StatusGetter](taskID string, fetch FetchFunc[T], cb Callbacks[T]) *Poller[T] {
	done := make(chan struct{})
	close(done)
	return &Poller[T]{
		taskID: taskID,
		fetch:  fetch,
		cb:     cb,
		state:  types.POLL_STATE_IDLE,
		done:   done,
	}
}

func (p *Poller[T]) TaskID() string {
	return p.taskID
}

// Start begins polling: one fetch right away, then one per interval. It is a
// no-op while a run is active and reports whether a new run was started.
func (p *Poller[T]) Start(ctx context.Context, interval time.Duration) bool {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p.mu.Lock()
	if p.state == types.POLL_STATE_POLLING {
		p.mu.Unlock()
		return false
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.run++
	gen := p.run
	done := make(chan struct{})
	p.state = types.POLL_STATE_POLLING
	p.interval = interval
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	safe.Go("poller."+p.taskID, func() {
		defer close(done)
		defer p.finish(gen)
		p.loop(runCtx, gen, interval)
	})
	return true
}

// Stop ends the current run and aborts its in-flight fetch. Idempotent.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	p.stopLocked()
	p.mu.Unlock()
}

func (p *Poller[T]) stopLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.state = types.POLL_STATE_STOPPED
}

func (p *Poller[T]) State() types.PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller[T]) IsPolling() bool {
	return p.State() == types.POLL_STATE_POLLING
}

func (p *Poller[T]) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// Done is closed when the current run has fully exited. Before the first
// Start it is already closed.
func (p *Poller[T]) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Wait blocks until the current run exits or ctx is done.
func (p *Poller[T]) Wait(ctx context.Context) error {
	select {
	case <-p.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish marks a run stopped when it exits on its own, e.g. the parent
// context was cancelled.
func (p *Poller[T]) finish(gen uint64) {
	p.mu.Lock()
	if p.run == gen && p.state == types.POLL_STATE_POLLING {
		p.stopLocked()
	}
	p.mu.Unlock()
}

// loop issues ticks one after another so a fetch never overlaps its predecessor.
func (p *Poller[T]) loop(ctx context.Context, gen uint64, interval time.Duration) {
	if !p.tick(ctx, gen) {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.tick(ctx, gen) {
				return
			}
		}
	}
}

func (p *Poller[T]) tick(ctx context.Context, gen uint64) bool {
	p.mu.Lock()
	if p.run != gen || p.state != types.POLL_STATE_POLLING {
		p.mu.Unlock()
		return false
	}
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	res, err := p.fetch(ctx, p.taskID)
	if err != nil && ctx.Err() != nil {
		// stopped while the request was in flight
		return false
	}
	return p.deliver(gen, seq, res, err)
}

// deliver applies one fetch result. Results from an older run, or older than
// the last delivered one, are dropped.
func (p *Poller[T]) deliver(gen, seq uint64, res T, err error) bool {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	if p.run != gen || p.state != types.POLL_STATE_POLLING || seq <= p.applied {
		p.mu.Unlock()
		slog.Debug("discard stale poll result",
			slog.String("task_id", p.taskID),
			slog.Uint64("seq", seq),
			slog.String("component", "poller.deliver"))
		return false
	}
	p.applied = seq
	terminal := err != nil || res.GetStatus().IsTerminal()
	if terminal {
		p.stopLocked()
	}
	p.mu.Unlock()

	if err != nil {
		slog.Warn("poll task status failed",
			slog.String("task_id", p.taskID),
			slog.String("error", err.Error()),
			slog.String("component", "poller.deliver"))
		if p.cb.OnError != nil {
			p.cb.OnError(err)
		}
		return false
	}

	if p.cb.OnUpdate != nil {
		p.cb.OnUpdate(res)
	}
	if terminal {
		if p.cb.OnComplete != nil {
			p.cb.OnComplete(res)
		}
		return false
	}
	return true
}
