package poll

import (
	"context"
	"sync"
	"time"

	"github.com/five82/nimbus/internal/metrics"
)

// loop is the lifecycle shared by Handle and FanOut: the ticker, the
// single outstanding attempt, the sequence counter and the stop barrier.
type loop struct {
	opts Options

	mu       sync.Mutex
	stopped  bool
	issued   uint64
	settled  uint64
	inFlight chan struct{}

	// pubMu orders publications; halt takes it once after setting stopped so
	// nothing is delivered after Stop returns.
	pubMu sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
}

func newLoop(opts Options) *loop {
	return &loop{
		opts: opts,
		stop: make(chan struct{}),
	}
}

// acquire reserves the next attempt sequence. If an attempt is already
// outstanding it returns seq 0 and that attempt's completion channel.
func (l *loop) acquire() (uint64, <-chan struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return 0, nil, ErrStopped
	}
	if l.inFlight != nil {
		return 0, l.inFlight, nil
	}
	l.issued++
	l.inFlight = make(chan struct{})
	return l.issued, l.inFlight, nil
}

// release frees the in-flight slot held by seq and wakes joined callers.
func (l *loop) release(seq uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.inFlight != nil && l.issued == seq {
		close(l.inFlight)
		l.inFlight = nil
	}
}

// publish runs fn under the publication lock unless the loop has stopped.
func (l *loop) publish(fn func()) bool {
	l.pubMu.Lock()
	defer l.pubMu.Unlock()

	if l.isStopped() {
		return false
	}
	fn()
	return true
}

// settle applies the outcome of attempt seq, then releases its slot. It
// reports false when the result was discarded.
func (l *loop) settle(seq uint64, fn func()) bool {
	l.pubMu.Lock()
	l.mu.Lock()
	fresh := !l.stopped && seq > l.settled
	if fresh {
		l.settled = seq
	}
	l.mu.Unlock()
	if fresh {
		fn()
	}
	l.pubMu.Unlock()

	l.release(seq)
	return fresh
}

func (l *loop) isStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// halt marks the loop inert and waits out any publication in progress.
func (l *loop) halt() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
		close(l.stop)

		l.pubMu.Lock()
		l.pubMu.Unlock() // barrier
	})
}

// run fires tick every period until ctx is cancelled or the loop halts. The
// ticker is fixed-rate: its phase is anchored at start and never reset.
func (l *loop) run(ctx context.Context, tick func()) {
	ticker := time.NewTicker(l.opts.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.halt()
			return
		case <-l.stop:
			return
		case <-ticker.C:
			tick()
		}
	}
}

// skipped records a tick that landed on an outstanding attempt.
func (l *loop) skipped() {
	l.opts.Logger.Debug("previous attempt still outstanding; skipping tick")
	l.opts.Metrics.RecordSkippedTick(l.opts.Name)
}

// await blocks until done closes, the loop halts or ctx is done.
func (l *loop) await(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-l.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *loop) observe(start time.Time, outcome metrics.Outcome) {
	l.opts.Metrics.RecordAttempt(l.opts.Name, outcome, time.Since(start))
}
