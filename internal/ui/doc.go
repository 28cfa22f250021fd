// Package ui provides the terminal dashboard for Nimbus.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never fetches anything itself: the
// synchronizers owned by the app package publish into a state.Store, and the
// model copies a snapshot out of that store on its own tick. User actions
// (refresh, add or remove a city) are forwarded to a Controller and run as
// tea.Cmds so the event loop never blocks on the network.
//
// # Panels
//
//   - Header: default city, sync status (live, syncing, offline) and the age
//     of the newest reading
//   - Current: the default city's latest reading with condition icon
//   - Summary: today's average, max and min temperature plus humidity
//   - Trend: a sparkline of the hourly temperatures in the summary
//   - Forecast: five daily cards for the default city
//   - Alerts: the backend's alert list, styled by alert type
//   - Cities: one card per tracked city, with the city manager below it
//
// # Presentation Rules
//
// A panel that has shown data keeps showing it when a later refresh fails;
// the failure is reported underneath as a stale notice. Only a panel that
// has never received data renders a failure indicator, which names the
// retry key.
//
// # Key Bindings
//
//   - r: Refresh the dashboard (trigger a backend fetch, then refetch)
//   - R: Refresh the city cards
//   - a: Add a city (tab completes, up/down picks a suggestion)
//   - x: Remove the selected city
//   - left/right: Select a city card
//   - T: Cycle theme (saved to preferences)
//   - h or ?: Toggle help
//   - e or Ctrl+C: Exit
package ui
