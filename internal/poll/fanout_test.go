package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFanOutOmitsFailedKeys(t *testing.T) {
	t.Parallel()

	fetch := func(ctx context.Context, city string) (float64, error) {
		if city == "Atlantis" {
			return 0, errors.New("city not found")
		}
		return float64(len(city)), nil
	}
	onUpdate, updates := collect[FanOutState[string, float64]]()

	f := StartFanOut(context.Background(), []string{"Pune", "Atlantis", "Delhi"}, fetch, quietOptions("cities", time.Hour), onUpdate)
	t.Cleanup(f.Stop)

	first := next(t, updates)
	assert.True(t, first.Loading)
	assert.Empty(t, first.Data)
	assert.Equal(t, []string{"Pune", "Atlantis", "Delhi"}, first.Keys)

	settled := next(t, updates)
	assert.False(t, settled.Loading)
	assert.Nil(t, settled.Err)
	assert.Equal(t, map[string]float64{"Pune": 4, "Delhi": 5}, settled.Data)
	require.Contains(t, settled.Failures, "Atlantis")
	assert.Equal(t, "city not found", settled.Failures["Atlantis"].Message)
	assert.Equal(t, uint64(1), settled.Round)
}

func TestFanOutAllFailedKeepsPreviousRound(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	fetch := func(ctx context.Context, city string) (string, error) {
		if failing.Load() {
			return "", errors.New("timeout")
		}
		return "ok:" + city, nil
	}
	onUpdate, updates := collect[FanOutState[string, string]]()

	f := StartFanOut(context.Background(), []string{"Pune", "Mumbai"}, fetch, quietOptions("cities", time.Hour), onUpdate)
	t.Cleanup(f.Stop)
	next(t, updates)
	good := next(t, updates)
	require.Len(t, good.Data, 2)

	failing.Store(true)
	require.NoError(t, f.RefetchNow(context.Background()))

	loading := next(t, updates)
	assert.True(t, loading.Loading)
	assert.Equal(t, good.Data, loading.Data)

	failed := next(t, updates)
	assert.False(t, failed.Loading)
	require.NotNil(t, failed.Err)
	assert.Equal(t, "all 2 requests failed", failed.Err.Message)
	assert.Equal(t, good.Data, failed.Data)
	assert.Equal(t, good.LastUpdated, failed.LastUpdated)
	assert.Len(t, failed.Failures, 2)
}

func TestFanOutEmptyKeysSettlesImmediately(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	fetch := func(ctx context.Context, city string) (int, error) {
		calls.Add(1)
		return 0, nil
	}
	onUpdate, updates := collect[FanOutState[string, int]]()

	f := StartFanOut(context.Background(), nil, fetch, quietOptions("empty", 10*time.Millisecond), onUpdate)
	t.Cleanup(f.Stop)

	require.Len(t, updates, 1)
	s := <-updates
	assert.False(t, s.Loading)
	assert.Nil(t, s.Err)
	assert.NotNil(t, s.Data)
	assert.Empty(t, s.Data)

	assert.NoError(t, f.RefetchNow(context.Background()))
	assertQuiet(t, updates, 50*time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestFanOutDeduplicatesKeys(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	counts := map[string]int{}
	fetch := func(ctx context.Context, city string) (int, error) {
		mu.Lock()
		counts[city]++
		mu.Unlock()
		return 1, nil
	}
	onUpdate, updates := collect[FanOutState[string, int]]()

	f := StartFanOut(context.Background(), []string{"Pune", "Delhi", "Pune", "Delhi"}, fetch, quietOptions("dedupe", time.Hour), onUpdate)
	t.Cleanup(f.Stop)
	next(t, updates)
	next(t, updates)

	assert.Equal(t, []string{"Pune", "Delhi"}, f.Keys())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{"Pune": 1, "Delhi": 1}, counts)
}

func TestFanOutReplaceDropsStaleRound(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	fetch := func(ctx context.Context, city string) (string, error) {
		if city != "Chennai" {
			<-release
		}
		return city, nil
	}
	onUpdate, updates := collect[FanOutState[string, string]]()

	old := StartFanOut(context.Background(), []string{"Pune", "Mumbai"}, fetch, quietOptions("cities", time.Hour), onUpdate)
	next(t, updates)

	f := old.Replace([]string{"Chennai"})
	t.Cleanup(f.Stop)

	fresh := next(t, updates)
	assert.True(t, fresh.Loading)
	assert.Empty(t, fresh.Data)
	assert.Equal(t, []string{"Chennai"}, fresh.Keys)

	settled := next(t, updates)
	assert.Equal(t, map[string]string{"Chennai": "Chennai"}, settled.Data)

	close(release)
	assertQuiet(t, updates, 100*time.Millisecond)
	assert.ErrorIs(t, old.RefetchNow(context.Background()), ErrStopped)
}

func TestFanOutRespectsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var active, peak atomic.Int32
	fetch := func(ctx context.Context, key int) (int, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return key, nil
	}
	opts := quietOptions("limited", time.Hour)
	opts.MaxConcurrency = 2
	onUpdate, updates := collect[FanOutState[int, int]]()

	f := StartFanOut(context.Background(), []int{1, 2, 3, 4, 5}, fetch, opts, onUpdate)
	t.Cleanup(f.Stop)
	next(t, updates)
	settled := next(t, updates)

	assert.Len(t, settled.Data, 5)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFanOutSnapshotsAreIndependent(t *testing.T) {
	t.Parallel()

	fetch := func(ctx context.Context, city string) (int, error) { return 1, nil }
	onUpdate, updates := collect[FanOutState[string, int]]()

	f := StartFanOut(context.Background(), []string{"Pune"}, fetch, quietOptions("copy", time.Hour), onUpdate)
	t.Cleanup(f.Stop)
	next(t, updates)
	s := next(t, updates)

	s.Data["Pune"] = 42
	s.Keys[0] = "Mumbai"
	latest := f.Latest()
	assert.Equal(t, 1, latest.Data["Pune"])
	assert.Equal(t, []string{"Pune"}, latest.Keys)
}
