package state

import (
	"errors"
	"testing"

	"github.com/five82/nimbus/internal/poll"
	"github.com/five82/nimbus/internal/weather"
)

func TestStore_SetAndSnapshotClone(t *testing.T) {
	var s Store

	s.SetCityList([]string{"Pune", "Delhi"})
	s.SetAlerts(poll.State[[]weather.Alert]{
		Data:    []weather.Alert{{ID: 1, AlertType: "high_humidity"}},
		HasData: true,
	})
	s.SetCities(poll.FanOutState[string, weather.CityWeather]{
		Keys: []string{"Pune"},
		Data: map[string]weather.CityWeather{"Pune": {City: "Pune", Temperature: 30}},
	})

	snap := s.Snapshot()
	if len(snap.CityList) != 2 || snap.CityList[0] != "Pune" {
		t.Fatalf("CityList = %v, want [Pune Delhi]", snap.CityList)
	}
	if !snap.Alerts.HasData || snap.Alerts.Data[0].ID != 1 {
		t.Fatalf("Alerts = %#v, want one alert", snap.Alerts)
	}
	if snap.Version != 3 {
		t.Fatalf("Version = %d, want 3", snap.Version)
	}

	// Returned snapshot should be independent of the stored one.
	snap.CityList[0] = "Mumbai"
	snap.Alerts.Data[0].ID = 999
	snap.Cities.Data["Pune"] = weather.CityWeather{City: "Pune", Temperature: -1}

	snap2 := s.Snapshot()
	if snap2.CityList[0] != "Pune" {
		t.Fatalf("Snapshot should clone city list; got %q", snap2.CityList[0])
	}
	if snap2.Alerts.Data[0].ID != 1 {
		t.Fatalf("Snapshot should clone alerts; got id %d want 1", snap2.Alerts.Data[0].ID)
	}
	if snap2.Cities.Data["Pune"].Temperature != 30 {
		t.Fatalf("Snapshot should clone city data; got %v", snap2.Cities.Data["Pune"])
	}
}

func TestStore_SetterCopiesInput(t *testing.T) {
	var s Store

	list := []string{"Pune"}
	s.SetCityList(list)
	list[0] = "Thane"

	if got := s.Snapshot().CityList[0]; got != "Pune" {
		t.Fatalf("CityList[0] = %q, want Pune", got)
	}
}

func TestSnapshot_IsOfflineAndLoading(t *testing.T) {
	var s Store
	failed := &poll.ErrorInfo{Message: "down", Cause: errors.New("down")}

	s.SetCurrent(poll.State[weather.Reading]{Err: failed, ConsecutiveFailures: 2})
	if s.Snapshot().IsOffline() {
		t.Fatalf("IsOffline = true with summary healthy")
	}
	s.SetSummary(poll.State[weather.DashboardSummary]{Err: failed, ConsecutiveFailures: 3})
	if !s.Snapshot().IsOffline() {
		t.Fatalf("IsOffline = false, want true")
	}

	if s.Snapshot().Loading() {
		t.Fatalf("Loading = true, want false")
	}
	s.SetForecast(poll.State[[]weather.DailyForecast]{Loading: true})
	if !s.Snapshot().Loading() {
		t.Fatalf("Loading = false, want true")
	}
	if s.Version() != 3 {
		t.Fatalf("Version = %d, want 3", s.Version())
	}
}
