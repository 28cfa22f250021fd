package state

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/five82/nimbus/internal/poll"
	"github.com/five82/nimbus/internal/weather"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	DefaultCity string
	CityList    []string

	Current  poll.State[weather.Reading]
	Summary  poll.State[weather.DashboardSummary]
	Alerts   poll.State[[]weather.Alert]
	Forecast poll.State[[]weather.DailyForecast]
	Cities   poll.FanOutState[string, weather.CityWeather]

	// Version increases on every write so readers can skip redraws.
	Version   uint64
	ChangedAt time.Time
}

// IsOffline returns true when the backend has been unreachable for
// multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.Current.IsOffline() && s.Summary.IsOffline()
}

// Loading reports whether any panel has an attempt in flight.
func (s Snapshot) Loading() bool {
	return s.Current.Loading || s.Summary.Loading || s.Alerts.Loading ||
		s.Forecast.Loading || s.Cities.Loading
}

// Store coordinates concurrent updates to the snapshot. Each setter is
// suitable as a synchronizer callback.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetDefaultCity records the city served by the backend.
func (s *Store) SetDefaultCity(city string) {
	s.update(func(snap *Snapshot) { snap.DefaultCity = city })
}

// SetCityList records the user's selected cities.
func (s *Store) SetCityList(cities []string) {
	s.update(func(snap *Snapshot) { snap.CityList = slices.Clone(cities) })
}

func (s *Store) SetCurrent(v poll.State[weather.Reading]) {
	s.update(func(snap *Snapshot) { snap.Current = v })
}

func (s *Store) SetSummary(v poll.State[weather.DashboardSummary]) {
	s.update(func(snap *Snapshot) { snap.Summary = v })
}

func (s *Store) SetAlerts(v poll.State[[]weather.Alert]) {
	v.Data = slices.Clone(v.Data)
	s.update(func(snap *Snapshot) { snap.Alerts = v })
}

func (s *Store) SetForecast(v poll.State[[]weather.DailyForecast]) {
	v.Data = slices.Clone(v.Data)
	s.update(func(snap *Snapshot) { snap.Forecast = v })
}

func (s *Store) SetCities(v poll.FanOutState[string, weather.CityWeather]) {
	v = cloneFanOut(v)
	s.update(func(snap *Snapshot) { snap.Cities = v })
}

func (s *Store) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.snapshot)
	s.snapshot.Version++
	s.snapshot.ChangedAt = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.CityList = slices.Clone(s.snapshot.CityList)
	snap.Alerts.Data = slices.Clone(s.snapshot.Alerts.Data)
	snap.Forecast.Data = slices.Clone(s.snapshot.Forecast.Data)
	snap.Cities = cloneFanOut(s.snapshot.Cities)
	return snap
}

// Version returns the current write counter without copying.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

func cloneFanOut(v poll.FanOutState[string, weather.CityWeather]) poll.FanOutState[string, weather.CityWeather] {
	v.Keys = slices.Clone(v.Keys)
	v.Data = maps.Clone(v.Data)
	v.Failures = maps.Clone(v.Failures)
	return v
}
