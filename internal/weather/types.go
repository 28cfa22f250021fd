package weather

import (
	"math"
	"time"
)

// Reading is one current-conditions record from the backend.
type Reading struct {
	ID                 int64   `json:"id"`
	City               string  `json:"city" validate:"required"`
	Temperature        float64 `json:"temperature"`
	FeelsLike          float64 `json:"feels_like"`
	TempMin            float64 `json:"temp_min"`
	TempMax            float64 `json:"temp_max"`
	Humidity           float64 `json:"humidity"`
	Pressure           float64 `json:"pressure"`
	WeatherMain        string  `json:"weather_main"`
	WeatherDescription string  `json:"weather_description"`
	WindSpeed          float64 `json:"wind_speed"`
	Clouds             float64 `json:"clouds"`
	RecordedAt         string  `json:"recorded_at"`
}

// RecordedTime parses RecordedAt; zero when absent or unparseable.
func (r Reading) RecordedTime() time.Time {
	return parseTime(r.RecordedAt)
}

// DashboardSummary aggregates recent readings for the default city.
type DashboardSummary struct {
	ID             int64     `json:"id"`
	City           string    `json:"city"`
	AvgTemperature *float64  `json:"avg_temperature" validate:"required"`
	MaxTemperature *float64  `json:"max_temperature" validate:"required"`
	MinTemperature *float64  `json:"min_temperature" validate:"required"`
	AvgHumidity    *float64  `json:"avg_humidity" validate:"required"`
	TrendData      TrendData `json:"trend_data"`
	ComputedAt     string    `json:"computed_at"`
}

// TrendData holds the recent hourly series.
type TrendData struct {
	HourlyTemps []HourlyTemp `json:"hourly_temps" validate:"dive"`
}

// HourlyTemp is one point of the trend series.
type HourlyTemp struct {
	Time        string  `json:"time" validate:"required"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// ChartPoint is a trend sample ready to plot.
type ChartPoint struct {
	At          time.Time
	Label       string
	Temperature float64
	Humidity    float64
}

// ChartPoints converts the hourly series into plot points with
// temperatures rounded to one decimal and local HH:MM labels.
func (d DashboardSummary) ChartPoints() []ChartPoint {
	if len(d.TrendData.HourlyTemps) == 0 {
		return nil
	}
	points := make([]ChartPoint, 0, len(d.TrendData.HourlyTemps))
	for _, h := range d.TrendData.HourlyTemps {
		at := parseTime(h.Time)
		label := "--:--"
		if !at.IsZero() {
			label = at.Local().Format("15:04")
		}
		points = append(points, ChartPoint{
			At:          at,
			Label:       label,
			Temperature: math.Round(h.Temperature*10) / 10,
			Humidity:    h.Humidity,
		})
	}
	return points
}

// Alert is a threshold breach raised by the backend.
type Alert struct {
	ID             int64    `json:"id"`
	City           string   `json:"city"`
	AlertType      string   `json:"alert_type" validate:"required"`
	Message        string   `json:"message"`
	ThresholdValue *float64 `json:"threshold_value"`
	ActualValue    *float64 `json:"actual_value"`
	CreatedAt      string   `json:"created_at"`
}

// CreatedTime parses CreatedAt; zero when absent or unparseable.
func (a Alert) CreatedTime() time.Time {
	return parseTime(a.CreatedAt)
}

// CityWeather is the provider's current conditions for one city.
type CityWeather struct {
	City        string
	Temperature float64
	FeelsLike   float64
	Humidity    float64
	Pressure    float64
	Condition   string
	Description string
	WindSpeed   float64
	Clouds      float64
}

// DailyForecast summarizes one local day of the provider forecast.
type DailyForecast struct {
	Date      time.Time
	High      float64
	Low       float64
	Humidity  float64
	Condition string
}

const backendTimestampLayout = "2006-01-02T15:04:05.999999999"

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// Backend timestamps without an offset are UTC.
	if t, err := time.ParseInLocation(backendTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
