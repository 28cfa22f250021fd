package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cityPayload = `{"name":"Pune","main":{"temp":29.3,"feels_like":31,"humidity":58,"pressure":1008},
"weather":[{"main":"Clouds","description":"scattered clouds"}],"wind":{"speed":4.2},"clouds":{"all":40}}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	p, err := NewProvider(server.URL+"/data/2.5", "secret", time.Second)
	require.NoError(t, err)
	return p
}

func TestProviderFetchCity(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotKey, gotUnits string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("appid")
		gotUnits = r.URL.Query().Get("units")
		_, _ = w.Write([]byte(cityPayload))
	})

	got, err := p.FetchCity(context.Background(), " Pune ")
	require.NoError(t, err)

	assert.Equal(t, "/data/2.5/weather", gotPath)
	assert.Equal(t, "Pune", gotQuery)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "metric", gotUnits)
	assert.Equal(t, CityWeather{
		City:        "Pune",
		Temperature: 29.3,
		FeelsLike:   31,
		Humidity:    58,
		Pressure:    1008,
		Condition:   "Clouds",
		Description: "scattered clouds",
		WindSpeed:   4.2,
		Clouds:      40,
	}, got)
}

func TestProviderRejectsIncompletePayload(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Pune","main":{"temp":20},"weather":[]}`))
	})

	_, err := p.FetchCity(context.Background(), "Pune")
	require.Error(t, err)
	assert.True(t, errdefs.IsDataLoss(err))
}

func TestProviderMissingKey(t *testing.T) {
	t.Parallel()

	p, err := NewProvider("", "  ", time.Second)
	require.NoError(t, err)
	_, err = p.FetchCity(context.Background(), "Pune")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestProviderCircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 6; i++ {
		_, err := p.FetchCity(context.Background(), "Pune")
		require.Error(t, err)
		assert.True(t, errdefs.IsUnavailable(err))
	}
	_, err := p.FetchCity(context.Background(), "Pune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, int32(6), hits.Load())
}

func TestProviderNotFoundDoesNotTripCircuit(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	for i := 0; i < 10; i++ {
		_, err := p.FetchCity(context.Background(), "Atlantis")
		require.Error(t, err)
	}
	assert.Equal(t, int32(10), hits.Load())
}

func TestProviderFetchForecastAggregatesDays(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entry := func(at time.Time, lo, hi, hum float64, main string) string {
		return fmt.Sprintf(`{"dt":%d,"main":{"temp":%v,"temp_min":%v,"temp_max":%v,"humidity":%v},"weather":[{"main":%q}]}`,
			at.Unix(), (lo+hi)/2, lo, hi, hum, main)
	}
	body := `{"city":{"timezone":0},"list":[` +
		entry(day1.Add(3*time.Hour), 22, 25, 60, "Rain") + "," +
		entry(day1.Add(9*time.Hour), 24, 31, 50, "Clouds") + "," +
		entry(day1.Add(15*time.Hour), 23, 29, 70, "Rain") + "," +
		entry(day1.Add(27*time.Hour), 21, 26, 80, "Clear") + "," +
		entry(day1.Add(51*time.Hour), 20, 24, 40, "Snow") + `]}`

	var gotPath string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(body))
	})

	days, err := p.FetchForecast(context.Background(), "Pune", 2)
	require.NoError(t, err)
	assert.Equal(t, "/data/2.5/forecast", gotPath)
	require.Len(t, days, 2)

	assert.Equal(t, 1, days[0].Date.Day())
	assert.Equal(t, 31.0, days[0].High)
	assert.Equal(t, 22.0, days[0].Low)
	assert.Equal(t, 60.0, days[0].Humidity)
	assert.Equal(t, "Rain", days[0].Condition)

	assert.Equal(t, 2, days[1].Date.Day())
	assert.Equal(t, "Clear", days[1].Condition)
}
