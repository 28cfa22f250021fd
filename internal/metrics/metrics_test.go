package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, r *Recorder, family string, labels map[string]string) float64 {
	t.Helper()
	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != family {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func TestRecorderCountsAttemptsByOutcome(t *testing.T) {
	rec := NewRecorder()
	rec.RecordAttempt("current", OutcomeSuccess, 10*time.Millisecond)
	rec.RecordAttempt("current", OutcomeSuccess, 20*time.Millisecond)
	rec.RecordAttempt("current", OutcomeFailure, 5*time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, rec, "nimbus_sync_attempts_total",
		map[string]string{"synchronizer": "current", "outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, rec, "nimbus_sync_attempts_total",
		map[string]string{"synchronizer": "current", "outcome": "failure"}))
}

func TestRecorderSkippedTicksAndKeyFailures(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSkippedTick("cities")
	rec.RecordKeyFailures("cities", 2)
	rec.RecordKeyFailures("cities", 0)

	assert.Equal(t, 1.0, counterValue(t, rec, "nimbus_sync_skipped_ticks_total",
		map[string]string{"synchronizer": "cities"}))
	assert.Equal(t, 2.0, counterValue(t, rec, "nimbus_fanout_key_failures_total",
		map[string]string{"synchronizer": "cities"}))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordAttempt("x", OutcomeSuccess, time.Second)
	rec.RecordSkippedTick("x")
	rec.RecordKeyFailures("x", 3)
	assert.Nil(t, rec.Registry())

	rw := httptest.NewRecorder()
	rec.Handler().ServeHTTP(rw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rw.Code)
}

func TestHandlerExposesMetrics(t *testing.T) {
	rec := NewRecorder()
	rec.RecordAttempt("alerts", OutcomeSuccess, time.Millisecond)

	srv := httptest.NewServer(rec.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `nimbus_sync_attempts_total{outcome="success",synchronizer="alerts"} 1`)
}
