package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/nimbus/internal/poll"
	"github.com/five82/nimbus/internal/weather"
)

// panelState is what the presentation rules need from a synchronizer state.
type panelState struct {
	hasData bool
	loading bool
	err     *poll.ErrorInfo
}

func stateOf[T any](s poll.State[T]) panelState {
	return panelState{hasData: s.HasData, loading: s.Loading, err: s.Err}
}

// placeholder renders a panel that has never received data.
func (m Model) placeholder(ps panelState) string {
	styles := m.theme.Styles()
	switch {
	case ps.err != nil:
		return styles.DangerText.Render("✗ "+ps.err.Message) + "\n" +
			styles.MutedText.Render("press r to retry")
	case ps.loading:
		return styles.InfoText.Render("Loading…")
	default:
		return styles.FaintText.Render("Waiting for first update")
	}
}

// staleNotice is shown under data that a later attempt failed to refresh.
func (m Model) staleNotice(ps panelState) string {
	if !ps.hasData || ps.err == nil {
		return ""
	}
	return m.theme.Styles().WarningText.Render("⚠ showing last data: " + ps.err.Message)
}

func (m Model) panel(title, body string, width int) string {
	styles := m.theme.Styles()
	content := styles.Title.Render(title) + "\n" + body
	if width > 2 {
		return styles.Panel.Width(width - 2).Render(content)
	}
	return styles.Panel.Render(content)
}

func (m Model) panelBody(ps panelState, render func() string) string {
	if !ps.hasData {
		return m.placeholder(ps)
	}
	body := render()
	if notice := m.staleNotice(ps); notice != "" {
		body += "\n" + notice
	}
	return body
}

// renderBody lays out every panel for the current width.
func (m Model) renderBody() string {
	full := m.width
	var top string
	if m.width < LayoutCompactWidth {
		top = lipgloss.JoinVertical(lipgloss.Left,
			m.renderCurrent(full),
			m.renderSummary(full),
		)
	} else {
		left := full / 2
		top = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderCurrent(left),
			m.renderSummary(full-left),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		m.renderTrend(full),
		m.renderForecast(full),
		m.renderAlerts(full),
		m.renderCities(full),
	)
}

func (m Model) renderCurrent(width int) string {
	cur := m.snapshot.Current
	title := "Current"
	if m.snapshot.DefaultCity != "" {
		title = "Current · " + m.snapshot.DefaultCity
	}
	body := m.panelBody(stateOf(cur), func() string {
		styles := m.theme.Styles()
		r := cur.Data
		temp := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.TempColor(r.Temperature))).
			Bold(true).
			Render(formatTemp(r.Temperature))
		lines := []string{
			fmt.Sprintf("%s  %s  %s", ConditionIcon(r.WeatherMain), temp,
				styles.Text.Render(titleCase(r.WeatherDescription))),
			styles.MutedText.Render(fmt.Sprintf("Feels like %s · Min %s · Max %s",
				formatTemp(r.FeelsLike), formatTemp(r.TempMin), formatTemp(r.TempMax))),
			styles.MutedText.Render(fmt.Sprintf("Humidity %s · Wind %.1f m/s · Pressure %.0f hPa",
				formatPercent(r.Humidity), r.WindSpeed, r.Pressure)),
		}
		updated := "Updated " + since(m.now(), cur.LastUpdated)
		if rec := r.RecordedTime(); !rec.IsZero() {
			updated += " · recorded " + rec.Local().Format("15:04")
		}
		lines = append(lines, styles.FaintText.Render(updated))
		return strings.Join(lines, "\n")
	})
	return m.panel(title, body, width)
}

func (m Model) renderSummary(width int) string {
	sum := m.snapshot.Summary
	body := m.panelBody(stateOf(sum), func() string {
		styles := m.theme.Styles()
		d := sum.Data
		lines := []string{
			styles.Text.Render(fmt.Sprintf("Avg %s", formatTempPtr(d.AvgTemperature))),
			styles.Text.Render(fmt.Sprintf("Max %s · Min %s",
				formatTempPtr(d.MaxTemperature), formatTempPtr(d.MinTemperature))),
			styles.MutedText.Render("Avg humidity " + formatPercentPtr(d.AvgHumidity)),
			styles.FaintText.Render(fmt.Sprintf("%d hourly readings · updated %s",
				len(d.TrendData.HourlyTemps), since(m.now(), sum.LastUpdated))),
		}
		return strings.Join(lines, "\n")
	})
	return m.panel("Today", body, width)
}

func (m Model) renderForecast(width int) string {
	fc := m.snapshot.Forecast
	body := m.panelBody(stateOf(fc), func() string {
		styles := m.theme.Styles()
		if len(fc.Data) == 0 {
			return styles.FaintText.Render("No forecast available")
		}
		perRow := max(1, (width-4)/(cardWidth+1))
		var rows, row []string
		for i, day := range fc.Data {
			row = append(row, m.forecastCard(day))
			if len(row) == perRow || i == len(fc.Data)-1 {
				rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
				row = nil
			}
		}
		return strings.Join(rows, "\n")
	})
	return m.panel("Forecast", body, width)
}

func (m Model) forecastCard(day weather.DailyForecast) string {
	styles := m.theme.Styles()
	high := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.TempColor(day.High))).Render(fmt.Sprintf("%.0f°", day.High))
	low := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.TempColor(day.Low))).Render(fmt.Sprintf("%.0f°", day.Low))
	lines := []string{
		styles.Text.Bold(true).Render(day.Date.Format("Mon 02")),
		ConditionIcon(day.Condition) + " " + styles.MutedText.Render(truncate(day.Condition, cardWidth-4)),
		high + styles.FaintText.Render(" / ") + low,
		styles.MutedText.Render("💧 " + formatPercent(day.Humidity)),
	}
	return lipgloss.NewStyle().Width(cardWidth).MarginRight(1).Render(strings.Join(lines, "\n"))
}

func (m Model) renderAlerts(width int) string {
	al := m.snapshot.Alerts
	title := "Alerts"
	if al.HasData && len(al.Data) > 0 {
		title = fmt.Sprintf("Alerts (%d)", len(al.Data))
	}
	body := m.panelBody(stateOf(al), func() string {
		styles := m.theme.Styles()
		if len(al.Data) == 0 {
			return styles.SuccessText.Render("No active alerts")
		}
		var lines []string
		for i, a := range al.Data {
			if i == MaxAlertsShown {
				lines = append(lines, styles.FaintText.Render(fmt.Sprintf("+%d more", len(al.Data)-MaxAlertsShown)))
				break
			}
			lines = append(lines, m.alertLine(a, width-6))
		}
		return strings.Join(lines, "\n")
	})
	return m.panel(title, body, width)
}

func (m Model) alertLine(a weather.Alert, width int) string {
	styles := m.theme.Styles()
	cat := AlertStyle(a.AlertType)
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Bold(true).Render(cat.Label)

	line := cat.Icon + " " + label
	if a.City != "" {
		line += styles.MutedText.Render(" · " + a.City)
	}
	if a.ThresholdValue != nil && a.ActualValue != nil {
		line += styles.FaintText.Render(fmt.Sprintf(" (%.1f / limit %.1f)", *a.ActualValue, *a.ThresholdValue))
	}
	if created := a.CreatedTime(); !created.IsZero() {
		line += styles.FaintText.Render(" · " + since(m.now(), created))
	}
	if msg := strings.TrimSpace(a.Message); msg != "" {
		line += "\n  " + styles.Text.Render(truncate(msg, max(width-2, 10)))
	}
	return line
}
