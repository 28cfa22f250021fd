package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/five82/nimbus/internal/cities"
	"github.com/five82/nimbus/internal/logging"
	"github.com/five82/nimbus/internal/metrics"
	"github.com/five82/nimbus/internal/poll"
	"github.com/five82/nimbus/internal/state"
	"github.com/five82/nimbus/internal/weather"
)

// DashboardOptions configure the synchronizers behind the dashboard.
type DashboardOptions struct {
	DefaultCity    string
	Period         time.Duration
	ForecastDays   int
	MaxConcurrency int
	Metrics        *metrics.Recorder
	Logger         *logrus.Entry
}

// Dashboard owns one synchronizer per panel and routes their output into
// the store. City edits re-register the fan-out synchronizer.
type Dashboard struct {
	source   weather.Source
	provider weather.CityFetcher
	list     *cities.List
	store    *state.Store
	opts     DashboardOptions
	log      *logrus.Entry

	mu       sync.Mutex
	ctx      context.Context
	current  *poll.Handle[weather.Reading]
	summary  *poll.Handle[weather.DashboardSummary]
	alerts   *poll.Handle[[]weather.Alert]
	forecast *poll.Handle[[]weather.DailyForecast]
	cities   *poll.FanOut[string, weather.CityWeather]
}

// NewDashboard wires the data sources to store. Call Start to begin polling.
func NewDashboard(source weather.Source, provider weather.CityFetcher, list *cities.List, store *state.Store, opts DashboardOptions) *Dashboard {
	if opts.Period <= 0 {
		opts.Period = poll.DefaultPeriod
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = 5
	}
	log := opts.Logger
	if log == nil {
		log = logging.WithComponent("dashboard")
	}
	return &Dashboard{
		source:   source,
		provider: provider,
		list:     list,
		store:    store,
		opts:     opts,
		log:      log,
	}
}

func (d *Dashboard) pollOptions(name string) poll.Options {
	return poll.Options{
		Name:           name,
		Period:         d.opts.Period,
		Logger:         d.log,
		Metrics:        d.opts.Metrics,
		MaxConcurrency: d.opts.MaxConcurrency,
	}
}

// Start launches every synchronizer. Each publishes a loading state before
// Start returns.
func (d *Dashboard) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.ctx = ctx
	d.store.SetDefaultCity(d.opts.DefaultCity)
	d.store.SetCityList(d.list.Cities())

	d.current = poll.Start(ctx, d.source.FetchCurrent, d.pollOptions("current"), d.store.SetCurrent)
	d.summary = poll.Start(ctx, d.source.FetchDashboard, d.pollOptions("summary"), d.store.SetSummary)
	d.alerts = poll.Start(ctx, d.source.FetchAlerts, d.pollOptions("alerts"), d.store.SetAlerts)
	d.forecast = poll.Start(ctx, d.fetchForecast, d.pollOptions("forecast"), d.store.SetForecast)
	d.cities = poll.StartFanOut(ctx, d.list.Cities(), d.provider.FetchCity, d.pollOptions("cities"), d.store.SetCities)
}

func (d *Dashboard) fetchForecast(ctx context.Context) ([]weather.DailyForecast, error) {
	return d.provider.FetchForecast(ctx, d.opts.DefaultCity, d.opts.ForecastDays)
}

// Stop tears down every synchronizer. Results still in flight are dropped.
func (d *Dashboard) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current == nil {
		return
	}
	d.current.Stop()
	d.summary.Stop()
	d.alerts.Stop()
	d.forecast.Stop()
	d.cities.Stop()
}

// Refresh asks the backend to collect new readings, then refetches the
// backend panels without disturbing their timers. The refetch runs even
// when the trigger fails.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	current, summary, alerts := d.current, d.summary, d.alerts
	d.mu.Unlock()
	if current == nil {
		return errors.New("dashboard not started")
	}

	var triggerErr error
	if err := d.source.FetchNow(ctx); err != nil {
		d.log.WithError(err).Warn("fetch-now trigger failed")
		triggerErr = fmt.Errorf("trigger fetch: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return current.RefetchNow(gctx) })
	g.Go(func() error { return summary.RefetchNow(gctx) })
	g.Go(func() error { return alerts.RefetchNow(gctx) })
	return errors.Join(triggerErr, g.Wait())
}

// RefreshCities runs a fan-out round now.
func (d *Dashboard) RefreshCities(ctx context.Context) error {
	d.mu.Lock()
	fan := d.cities
	d.mu.Unlock()
	if fan == nil {
		return errors.New("dashboard not started")
	}
	return fan.RefetchNow(ctx)
}

// AddCity adds a city and restarts the fan-out for the new set. It reports
// false when the city was already listed.
func (d *Dashboard) AddCity(city string) (bool, error) {
	added, err := d.list.Add(city)
	if err != nil || !added {
		return added, err
	}
	d.log.WithField("city", city).Info("city added")
	d.rekey()
	return true, nil
}

// RemoveCity removes a city and restarts the fan-out for the new set.
func (d *Dashboard) RemoveCity(city string) error {
	before := d.list.Len()
	if err := d.list.Remove(city); err != nil {
		return err
	}
	if d.list.Len() == before {
		return nil
	}
	d.log.WithField("city", city).Info("city removed")
	d.rekey()
	return nil
}

// Cities returns the selected cities.
func (d *Dashboard) Cities() []string {
	return d.list.Cities()
}

func (d *Dashboard) rekey() {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := d.list.Cities()
	d.store.SetCityList(keys)
	if d.cities != nil {
		d.cities = d.cities.Replace(keys)
	}
}
