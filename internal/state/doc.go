// Package state holds the latest published synchronizer output for the UI.
//
// # Overview
//
// Every dashboard panel is fed by its own synchronizer from package poll.
// Synchronizer callbacks write into a Store; the UI reads a Snapshot on its
// own tick. The Store is the only place where those goroutines meet.
//
//	Synchronizers (one per panel):      UI:
//	┌─────────────────────┐            ┌──────────────────┐
//	│ current  → SetCurrent │          │                  │
//	│ summary  → SetSummary │─(mutex)─→│ store.Snapshot() │
//	│ alerts   → SetAlerts  │          │       ↓          │
//	│ forecast → SetForecast│          │   render panels  │
//	│ cities   → SetCities  │          │                  │
//	└─────────────────────┘            └──────────────────┘
//
// # Semantics
//
// The Store does not interpret the states it holds. Staleness rules (data is
// kept when an attempt fails) are applied by the synchronizers before they
// publish, so each setter simply replaces one panel's state.
//
// Version increments on every write. The UI compares it with the version it
// last rendered to avoid rebuilding views that have not changed.
//
// # Defensive Copying
//
// Slices and maps are cloned on the way in and on the way out, so neither a
// synchronizer nor the UI can mutate what the other sees.
//
// The zero Store is ready to use.
package state
