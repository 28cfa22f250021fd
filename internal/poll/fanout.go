package poll

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/nimbus/internal/metrics"
)

// KeyFetchFunc fetches the value for one key.
type KeyFetchFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

// FanOutState is the combined snapshot of one fan-out round. Keys that
// failed are absent from Data and listed in Failures. Err is set only when
// every key failed, in which case Data still holds the previous round.
type FanOutState[K comparable, T any] struct {
	Keys        []K
	Data        map[K]T
	Failures    map[K]*ErrorInfo
	Loading     bool
	Err         *ErrorInfo
	LastUpdated time.Time
	Round       uint64
}

// FanOut is a running fan-out synchronizer bound to one key set.
type FanOut[K comparable, T any] struct {
	loop     *loop
	ctx      context.Context
	keys     []K
	fetch    KeyFetchFunc[K, T]
	opts     Options
	onUpdate func(FanOutState[K, T])

	mu    sync.RWMutex
	state FanOutState[K, T]
}

// StartFanOut starts a synchronizer that fetches every unique key
// concurrently each round and publishes one combined state. An empty key
// set publishes an empty, settled state and never fetches.
func StartFanOut[K comparable, T any](ctx context.Context, keys []K, fetch KeyFetchFunc[K, T], opts Options, onUpdate func(FanOutState[K, T])) *FanOut[K, T] {
	f := &FanOut[K, T]{
		loop:     newLoop(opts.withDefaults()),
		ctx:      ctx,
		keys:     dedupe(keys),
		fetch:    fetch,
		opts:     opts,
		onUpdate: onUpdate,
	}
	f.state = FanOutState[K, T]{
		Keys: slices.Clone(f.keys),
		Data: map[K]T{},
	}

	if len(f.keys) == 0 {
		f.loop.publish(func() { f.emit(f.snapshot()) })
		return f
	}

	f.loop.opts.Logger.WithField("keys", len(f.keys)).Debug("fan-out started")
	_, _ = f.attempt()
	go f.loop.run(ctx, f.tick)
	return f
}

// Keys returns the deduplicated key set in dispatch order.
func (f *FanOut[K, T]) Keys() []K {
	return slices.Clone(f.keys)
}

// Stop cancels the timer; a round still in flight is never published.
func (f *FanOut[K, T]) Stop() {
	f.loop.halt()
}

// Replace stops this handle and starts a fresh one for keys with the same
// fetch function and options. Results for the old key set are never
// published once Replace returns.
func (f *FanOut[K, T]) Replace(keys []K) *FanOut[K, T] {
	f.Stop()
	return StartFanOut(f.ctx, keys, f.fetch, f.opts, f.onUpdate)
}

// RefetchNow runs a round immediately without moving the timer phase, or
// joins the round already in flight.
func (f *FanOut[K, T]) RefetchNow(ctx context.Context) error {
	if len(f.keys) == 0 {
		if f.loop.isStopped() {
			return ErrStopped
		}
		return nil
	}
	done, err := f.attempt()
	if err != nil {
		return err
	}
	return f.loop.await(ctx, done)
}

// Latest returns the most recently published state.
func (f *FanOut[K, T]) Latest() FanOutState[K, T] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

func (f *FanOut[K, T]) tick() {
	seq, _, err := f.loop.acquire()
	if err != nil {
		return
	}
	if seq == 0 {
		f.loop.skipped()
		return
	}
	f.launch(seq)
}

func (f *FanOut[K, T]) attempt() (<-chan struct{}, error) {
	seq, done, err := f.loop.acquire()
	if err != nil {
		return nil, err
	}
	if seq != 0 {
		f.launch(seq)
	}
	return done, nil
}

func (f *FanOut[K, T]) launch(seq uint64) {
	ok := f.loop.publish(func() {
		f.mu.Lock()
		f.state.Loading = true
		snap := f.snapshotLocked()
		f.mu.Unlock()
		f.emit(snap)
	})
	if !ok {
		f.loop.release(seq)
		return
	}
	go f.execute(seq)
}

type keyResult[T any] struct {
	value T
	err   error
}

func (f *FanOut[K, T]) execute(seq uint64) {
	log := f.loop.opts.Logger.WithField("round", seq)
	start := time.Now()

	results := make([]keyResult[T], len(f.keys))
	var g errgroup.Group
	if n := f.loop.opts.MaxConcurrency; n > 0 {
		g.SetLimit(n)
	}
	for i, key := range f.keys {
		g.Go(func() error {
			v, err := f.fetch(f.ctx, key)
			results[i] = keyResult[T]{value: v, err: err}
			// A failed key must not cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	data := make(map[K]T, len(f.keys))
	failures := make(map[K]*ErrorInfo)
	var errs []error
	for i, key := range f.keys {
		if err := results[i].err; err != nil {
			failures[key] = Describe(err)
			errs = append(errs, fmt.Errorf("%v: %w", key, err))
			continue
		}
		data[key] = results[i].value
	}
	allFailed := len(failures) == len(f.keys)

	fresh := f.loop.settle(seq, func() {
		f.mu.Lock()
		f.state.Failures = failures
		if allFailed {
			f.state.Err = &ErrorInfo{
				Message: fmt.Sprintf("all %d requests failed", len(f.keys)),
				Cause:   errors.Join(errs...),
			}
		} else {
			f.state.Data = data
			f.state.Err = nil
			f.state.LastUpdated = f.loop.opts.Now()
		}
		f.state.Loading = false
		f.state.Round = seq
		snap := f.snapshotLocked()
		f.mu.Unlock()
		f.emit(snap)
	})

	switch {
	case !fresh:
		f.loop.observe(start, metrics.OutcomeDiscarded)
		log.Debug("discarding round of a stopped fan-out")
		return
	case allFailed:
		f.loop.observe(start, metrics.OutcomeFailure)
	default:
		f.loop.observe(start, metrics.OutcomeSuccess)
	}
	f.loop.opts.Metrics.RecordKeyFailures(f.loop.opts.Name, len(failures))
	for key, info := range failures {
		log.WithField("key", key).WithError(info.Cause).Warn("fetch failed")
	}
}

func (f *FanOut[K, T]) snapshot() FanOutState[K, T] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshotLocked()
}

// snapshotLocked copies the state so subscribers never share maps with
// the synchronizer.
func (f *FanOut[K, T]) snapshotLocked() FanOutState[K, T] {
	snap := f.state
	snap.Keys = slices.Clone(f.state.Keys)
	snap.Data = maps.Clone(f.state.Data)
	if snap.Data == nil {
		snap.Data = map[K]T{}
	}
	snap.Failures = maps.Clone(f.state.Failures)
	return snap
}

func (f *FanOut[K, T]) emit(s FanOutState[K, T]) {
	if f.onUpdate != nil {
		f.onUpdate(s)
	}
}

func dedupe[K comparable](keys []K) []K {
	seen := make(map[K]struct{}, len(keys))
	out := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
