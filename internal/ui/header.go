package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nimbus/internal/state"
)

// syncStatus summarizes the snapshot as one of live, syncing, stale or
// offline.
func syncStatus(s state.Snapshot) string {
	switch {
	case s.IsOffline():
		return "offline"
	case s.Loading():
		return "syncing"
	case s.Current.Err != nil || s.Summary.Err != nil || s.Alerts.Err != nil ||
		s.Forecast.Err != nil || s.Cities.Err != nil:
		return "stale"
	default:
		return "live"
	}
}

// newestUpdate is the most recent successful publication across panels.
func newestUpdate(s state.Snapshot) time.Time {
	var newest time.Time
	for _, t := range []time.Time{
		s.Current.LastUpdated,
		s.Summary.LastUpdated,
		s.Alerts.LastUpdated,
		s.Forecast.LastUpdated,
		s.Cities.LastUpdated,
	} {
		if t.After(newest) {
			newest = t
		}
	}
	return newest
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bar := lipgloss.NewStyle().Background(lipgloss.Color(m.theme.Surface))
	text := styles.Text.Background(lipgloss.Color(m.theme.Surface))
	muted := styles.MutedText.Background(lipgloss.Color(m.theme.Surface))
	sep := bar.Render("  ")

	city := m.snapshot.DefaultCity
	if city == "" {
		city = "no city"
	}
	status := syncStatus(m.snapshot)

	parts := []string{
		styles.Logo.Render("nimbus"),
		text.Bold(true).Render(city),
		styles.SyncStyle(status).Render(strings.ToUpper(status)),
		muted.Render("updated " + since(m.now(), newestUpdate(m.snapshot))),
	}
	if m.period > 0 {
		parts = append(parts, muted.Render("every "+humanizeDuration(m.period)))
	}
	if m.refreshing {
		parts = append(parts, text.Foreground(lipgloss.Color(m.theme.Info)).Render("refreshing…"))
	}

	return bar.
		Width(max(m.width, 0)).
		Padding(0, 1).
		Render(strings.Join(parts, sep))
}
