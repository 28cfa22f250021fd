package ui

import "strings"

// AlertCategory is how an alert type is presented.
type AlertCategory struct {
	Label string
	Color string
	Icon  string
}

// AlertStyle maps a backend alert type to its presentation. Unknown types
// render with their raw name, a neutral gray and the generic warning icon.
func AlertStyle(alertType string) AlertCategory {
	switch strings.ToLower(strings.TrimSpace(alertType)) {
	case "high_temperature":
		return AlertCategory{Label: "High Temperature", Color: "#ef4444", Icon: "🌡️"}
	case "high_humidity":
		return AlertCategory{Label: "High Humidity", Color: "#3b82f6", Icon: "💧"}
	case "extreme_weather":
		return AlertCategory{Label: "Extreme Weather", Color: "#f59e0b", Icon: "⚠️"}
	default:
		label := strings.TrimSpace(alertType)
		if label == "" {
			label = "Alert"
		}
		return AlertCategory{Label: label, Color: "#6b7280", Icon: "⚠️"}
	}
}

// ConditionIcon maps a weather group such as "Rain" to an icon. Unknown
// groups get the globe.
func ConditionIcon(main string) string {
	switch strings.ToLower(strings.TrimSpace(main)) {
	case "clear":
		return "☀️"
	case "clouds":
		return "☁️"
	case "rain":
		return "🌧️"
	case "drizzle":
		return "🌦️"
	case "thunderstorm":
		return "⛈️"
	case "snow":
		return "❄️"
	case "mist", "fog", "haze":
		return "🌫️"
	default:
		return "🌍"
	}
}
