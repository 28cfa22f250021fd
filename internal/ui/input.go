package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/nimbus/internal/cities"
	"github.com/five82/nimbus/internal/prefs"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.adding {
		return m.handleInputKey(msg)
	}
	if m.showHelp {
		// Any key closes the overlay.
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		name := NextTheme(m.theme.Name)
		m.theme = GetTheme(name)
		return m, m.saveThemeCmd(name)

	case key.Matches(msg, m.keys.Refresh):
		return m.startRefresh(false)

	case key.Matches(msg, m.keys.RefreshCities):
		return m.startRefresh(true)

	case key.Matches(msg, m.keys.AddCity):
		if len(m.snapshot.CityList) >= cities.MaxCities {
			m.setNotice(fmt.Sprintf("maximum %d cities allowed", cities.MaxCities), false)
			return m, nil
		}
		m.adding = true
		m.input.Reset()
		m.updateSuggestions()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.RemoveCity):
		city := m.selectedCity()
		if city == "" {
			return m, nil
		}
		return m, m.removeCityCmd(city)

	case key.Matches(msg, m.keys.Left):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.selected < len(m.snapshot.CityList)-1 {
			m.selected++
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeCityManager()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		city := strings.TrimSpace(m.input.Value())
		if m.suggestIdx >= 0 && m.suggestIdx < len(m.suggestions) {
			city = m.suggestions[m.suggestIdx]
		}
		m.closeCityManager()
		return m, m.addCityCmd(city)

	case key.Matches(msg, m.keys.Complete):
		if len(m.suggestions) > 0 {
			idx := max(m.suggestIdx, 0)
			m.input.SetValue(m.suggestions[idx])
			m.input.CursorEnd()
			m.updateSuggestions()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.suggestIdx >= 0 {
			m.suggestIdx--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.suggestIdx < min(len(m.suggestions), MaxSuggestionsShown)-1 {
			m.suggestIdx++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.updateSuggestions()
	return m, cmd
}

func (m *Model) closeCityManager() {
	m.adding = false
	m.input.Blur()
	m.input.Reset()
	m.suggestions = nil
	m.suggestIdx = -1
}

// updateSuggestions recomputes the list and clears the highlight. An empty
// input suggests nothing.
func (m *Model) updateSuggestions() {
	m.suggestIdx = -1
	term := strings.TrimSpace(m.input.Value())
	if term == "" {
		m.suggestions = nil
		return
	}
	m.suggestions = cities.Suggest(term, m.snapshot.CityList)
}

// rematchSuggestions recomputes the list for a new snapshot, keeping the
// highlight on the same city while it is still offered.
func (m *Model) rematchSuggestions() {
	var highlighted string
	if m.suggestIdx >= 0 && m.suggestIdx < len(m.suggestions) {
		highlighted = m.suggestions[m.suggestIdx]
	}
	m.updateSuggestions()
	if highlighted == "" {
		return
	}
	if idx := slices.Index(m.suggestions, highlighted); idx >= 0 && idx < MaxSuggestionsShown {
		m.suggestIdx = idx
	}
}

func (m Model) startRefresh(citiesOnly bool) (tea.Model, tea.Cmd) {
	if m.refreshing || m.ctrl == nil {
		return m, nil
	}
	m.refreshing = true
	ctx, ctrl := m.ctx, m.ctrl
	return m, func() tea.Msg {
		if citiesOnly {
			return refreshedMsg{cities: true, err: ctrl.RefreshCities(ctx)}
		}
		return refreshedMsg{err: ctrl.Refresh(ctx)}
	}
}

func (m Model) addCityCmd(city string) tea.Cmd {
	ctrl := m.ctrl
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		added, err := ctrl.AddCity(city)
		return cityAddedMsg{city: city, added: added, err: err}
	}
}

func (m Model) removeCityCmd(city string) tea.Cmd {
	ctrl := m.ctrl
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		return cityRemovedMsg{city: city, err: ctrl.RemoveCity(city)}
	}
}

func (m Model) saveThemeCmd(name string) tea.Cmd {
	path := m.prefsPath
	return func() tea.Msg {
		return themeSavedMsg{err: prefs.SaveTheme(path, name)}
	}
}
