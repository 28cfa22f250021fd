package poll

import (
	"context"
	"sync"
	"time"

	"github.com/five82/nimbus/internal/metrics"
)

// FetchFunc performs one fetch attempt.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// State is the snapshot published by a single-source synchronizer.
type State[T any] struct {
	Data    T
	HasData bool
	Loading bool
	Err     *ErrorInfo
	// LastUpdated is the time of the last successful settlement.
	LastUpdated time.Time
	// Seq is the sequence number of the last settled attempt.
	Seq                 uint64
	ConsecutiveFailures int
}

// IsOffline reports whether the source has failed repeatedly.
func (s State[T]) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Handle is a running single-source synchronizer.
type Handle[T any] struct {
	loop     *loop
	ctx      context.Context
	fetch    FetchFunc[T]
	onUpdate func(State[T])

	mu    sync.RWMutex
	state State[T]
}

// Start publishes a loading state, initiates the first attempt without
// blocking, and re-fetches every opts.Period until Stop or ctx is done.
// onUpdate runs on an internal goroutine, one call at a time, and must not
// call back into the handle.
func Start[T any](ctx context.Context, fetch FetchFunc[T], opts Options, onUpdate func(State[T])) *Handle[T] {
	h := &Handle[T]{
		loop:     newLoop(opts.withDefaults()),
		ctx:      ctx,
		fetch:    fetch,
		onUpdate: onUpdate,
	}
	h.loop.opts.Logger.WithField("period", h.loop.opts.Period).Debug("synchronizer started")
	_, _ = h.attempt()
	go h.loop.run(ctx, h.tick)
	return h
}

// Stop cancels the timer and silences any attempt still in flight. It does
// not wait for that attempt; after Stop returns no further update is
// delivered.
func (h *Handle[T]) Stop() {
	h.loop.halt()
}

// RefetchNow starts an attempt immediately without moving the timer phase
// and waits for it to settle. If an attempt is already outstanding the call
// waits for that one instead of starting another.
func (h *Handle[T]) RefetchNow(ctx context.Context) error {
	done, err := h.attempt()
	if err != nil {
		return err
	}
	return h.loop.await(ctx, done)
}

// Latest returns the most recently published state.
func (h *Handle[T]) Latest() State[T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Handle[T]) tick() {
	seq, _, err := h.loop.acquire()
	if err != nil {
		return
	}
	if seq == 0 {
		h.loop.skipped()
		return
	}
	h.launch(seq)
}

// attempt starts a new attempt or joins the outstanding one.
func (h *Handle[T]) attempt() (<-chan struct{}, error) {
	seq, done, err := h.loop.acquire()
	if err != nil {
		return nil, err
	}
	if seq != 0 {
		h.launch(seq)
	}
	return done, nil
}

func (h *Handle[T]) launch(seq uint64) {
	ok := h.loop.publish(func() {
		h.mu.Lock()
		h.state.Loading = true
		snap := h.state
		h.mu.Unlock()
		h.emit(snap)
	})
	if !ok {
		h.loop.release(seq)
		return
	}
	go h.execute(seq)
}

func (h *Handle[T]) execute(seq uint64) {
	log := h.loop.opts.Logger.WithField("seq", seq)
	start := time.Now()
	data, err := h.fetch(h.ctx)

	fresh := h.loop.settle(seq, func() {
		h.mu.Lock()
		if err != nil {
			h.state.Err = Describe(err)
			h.state.ConsecutiveFailures++
		} else {
			h.state.Data = data
			h.state.HasData = true
			h.state.Err = nil
			h.state.LastUpdated = h.loop.opts.Now()
			h.state.ConsecutiveFailures = 0
		}
		h.state.Loading = false
		h.state.Seq = seq
		snap := h.state
		h.mu.Unlock()
		h.emit(snap)
	})

	switch {
	case !fresh:
		h.loop.observe(start, metrics.OutcomeDiscarded)
		log.Debug("discarding result of a stopped synchronizer")
	case err != nil:
		h.loop.observe(start, metrics.OutcomeFailure)
		log.WithError(err).Warn("fetch failed")
	default:
		h.loop.observe(start, metrics.OutcomeSuccess)
	}
}

func (h *Handle[T]) emit(s State[T]) {
	if h.onUpdate != nil {
		h.onUpdate(s)
	}
}
