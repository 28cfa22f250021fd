package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nimbus/internal/cities"
)

func (m Model) renderCities(width int) string {
	styles := m.theme.Styles()
	fan := m.snapshot.Cities
	list := m.snapshot.CityList
	title := fmt.Sprintf("Cities (%d/%d)", len(list), cities.MaxCities)

	if len(list) == 0 {
		return m.panel(title, styles.FaintText.Render("No cities selected. Press a to add one."), width)
	}

	perRow := max(1, (width-4)/(cardWidth+5))
	var rows, row []string
	for i, city := range list {
		row = append(row, m.cityCard(city, i == m.selected))
		if len(row) == perRow || i == len(list)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	body := strings.Join(rows, "\n")
	if fan.Err != nil {
		if len(fan.Data) > 0 {
			body += "\n" + styles.WarningText.Render("⚠ showing last data: "+fan.Err.Message)
		} else {
			body += "\n" + styles.DangerText.Render("✗ "+fan.Err.Message) + " " +
				styles.MutedText.Render("press R to retry")
		}
	}
	return m.panel(title, body, width)
}

// cityCard renders one tracked city. A city whose fetch failed and that has
// no earlier data shows the failure; one still in flight shows loading.
func (m Model) cityCard(city string, selected bool) string {
	styles := m.theme.Styles()
	fan := m.snapshot.Cities
	box := styles.Panel
	if selected {
		box = styles.Selected
	}

	lines := []string{styles.Text.Bold(true).Render(truncate(city, cardWidth))}
	cw, ok := fan.Data[city]
	switch {
	case ok:
		temp := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.TempColor(cw.Temperature))).
			Bold(true).
			Render(formatTemp(cw.Temperature))
		lines = append(lines,
			ConditionIcon(cw.Condition)+" "+temp,
			styles.MutedText.Render(truncate(titleCase(cw.Description), cardWidth)),
			styles.FaintText.Render(fmt.Sprintf("💧%s  💨%.1f", formatPercent(cw.Humidity), cw.WindSpeed)),
		)
	case fan.Failures[city] != nil:
		lines = append(lines,
			styles.DangerText.Render("unavailable"),
			styles.FaintText.Render(truncate(fan.Failures[city].Message, cardWidth)),
		)
	case fan.Loading:
		lines = append(lines, styles.InfoText.Render("Loading…"))
	default:
		lines = append(lines, styles.FaintText.Render("waiting"))
	}
	return box.Width(cardWidth + 2).MarginRight(1).Render(strings.Join(lines, "\n"))
}

// renderCityManager renders the add-city input with its suggestions.
func (m Model) renderCityManager() string {
	styles := m.theme.Styles()
	lines := []string{
		styles.Title.Render("Add city"),
		m.input.View(),
	}
	shown := m.suggestions
	if len(shown) > MaxSuggestionsShown {
		shown = shown[:MaxSuggestionsShown]
	}
	for i, s := range shown {
		if i == m.suggestIdx {
			lines = append(lines, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Render("  "+s+"  "))
			continue
		}
		lines = append(lines, styles.MutedText.Render("  "+s))
	}
	if strings.TrimSpace(m.input.Value()) != "" && len(m.suggestions) == 0 {
		lines = append(lines, styles.FaintText.Render("  no matching popular city; enter adds it as typed"))
	}
	width := m.width
	if width > 2 {
		return styles.Selected.Width(width - 2).Render(strings.Join(lines, "\n"))
	}
	return styles.Selected.Render(strings.Join(lines, "\n"))
}
