package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders one block per value scaled between the series min and
// max. A flat series renders at the lowest block.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	var b strings.Builder
	span := hi - lo
	top := len(sparkBlocks) - 1
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v-lo)/span*float64(top) + 0.5)
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func (m Model) renderTrend(width int) string {
	sum := m.snapshot.Summary
	body := m.panelBody(stateOf(sum), func() string {
		styles := m.theme.Styles()
		points := sum.Data.ChartPoints()
		if len(points) < 2 {
			return styles.FaintText.Render("Not enough readings for a trend yet")
		}
		// Keep the most recent points that fit.
		if room := max(width-6, 2); len(points) > room {
			points = points[len(points)-room:]
		}
		temps := make([]float64, len(points))
		lo, hi := points[0].Temperature, points[0].Temperature
		for i, p := range points {
			temps[i] = p.Temperature
			lo = min(lo, p.Temperature)
			hi = max(hi, p.Temperature)
		}
		line := lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.TempColor(temps[len(temps)-1]))).
			Render(sparkline(temps))
		first, last := points[0].Label, points[len(points)-1].Label
		gap := max(len(points)-len(first)-len(last), 1)
		axis := styles.FaintText.Render(first + strings.Repeat(" ", gap) + last)
		rng := styles.MutedText.Render(fmt.Sprintf("low %s · high %s · %d readings",
			formatTemp(lo), formatTemp(hi), len(points)))
		return line + "\n" + axis + "\n" + rng
	})
	return m.panel("Temperature trend", body, width)
}
