// Package app provides the orchestration layer for the Nimbus application.
//
// # Overview
//
// This package wires configuration, logging, the weather clients, the
// synchronizers and the UI together. It is the composition root; nothing
// else in the module constructs long-lived dependencies.
//
// # Startup
//
//  1. Load .env and the TOML config (package config)
//  2. Point logrus at the log file so the terminal stays with the UI
//  3. Load preferences and the saved city list
//  4. Build the backend Client and the OpenWeather Provider
//  5. Optionally serve prometheus metrics on metrics_addr
//  6. Start the Dashboard, then run the TUI until the user quits
//
// # Dashboard
//
// Dashboard owns one synchronizer per panel:
//
//	current   backend /api/weather/current      poll.Handle
//	summary   backend /api/weather/dashboard    poll.Handle
//	alerts    backend /api/weather/alerts       poll.Handle
//	forecast  provider forecast, default city   poll.Handle
//	cities    provider weather, selected cities poll.FanOut
//
// All of them publish into a shared state.Store. Refresh triggers the
// backend's fetch-now endpoint and then refetches the backend panels.
// AddCity and RemoveCity edit the persisted city list and replace the
// fan-out synchronizer so results for the previous key set are dropped.
//
// # Shutdown
//
// Cancelling the context passed to Run, or quitting the UI, stops every
// synchronizer. In-flight requests are not awaited.
package app
