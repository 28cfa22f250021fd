package ui

import (
	"fmt"
	"strings"
	"time"
)

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		if mins == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh %dm", hours, mins)
	default:
		return fmt.Sprintf("%dd", int(d.Hours())/24)
	}
}

// since renders the age of t relative to now, or "never" for a zero time.
func since(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t)
	if d < time.Second {
		return "just now"
	}
	return humanizeDuration(d) + " ago"
}

func formatTemp(c float64) string {
	return fmt.Sprintf("%.1f°C", c)
}

func formatTempPtr(c *float64) string {
	if c == nil {
		return "--"
	}
	return formatTemp(*c)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

func formatPercentPtr(v *float64) string {
	if v == nil {
		return "--"
	}
	return formatPercent(*v)
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// titleCase upper-cases the first letter of each word.
func titleCase(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
