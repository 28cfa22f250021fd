// Package weather contains the HTTP clients the dashboard polls.
//
// # Backend
//
// Client talks to the weather backend, which owns the default city:
//
//   - FetchCurrent reads /api/weather/current and returns the newest reading.
//   - FetchDashboard reads /api/weather/dashboard (daily summary plus an
//     hourly temperature trend).
//   - FetchAlerts reads /api/weather/alerts.
//   - FetchNow posts to /api/weather/fetch-now so the backend collects fresh
//     readings before the next poll.
//
// # Provider
//
// Provider queries OpenWeather directly by city name for the multi-city
// cards and the forecast panel. All calls pass through a single circuit
// breaker so a failing upstream is left alone for a while; individual
// calls are never retried.
//
// # Errors
//
// Failures are classified with containerd/errdefs sentinels:
// TransientFetchError matches errdefs.ErrUnavailable and
// MalformedResponseError matches errdefs.ErrDataLoss. Decoded payloads are
// checked with validator struct tags before they are returned.
package weather
