package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// CityFetcher fetches provider data per city.
type CityFetcher interface {
	FetchCity(ctx context.Context, city string) (CityWeather, error)
	FetchForecast(ctx context.Context, city string, days int) ([]DailyForecast, error)
}

var _ CityFetcher = (*Provider)(nil)

const defaultProviderURL = "https://api.openweathermap.org/data/2.5"

// ErrMissingAPIKey is returned by every Provider call when no key is set.
var ErrMissingAPIKey = errors.New("openweather api key is not configured")

// Provider queries OpenWeather by city name. Calls share one circuit
// breaker; there are no retries.
type Provider struct {
	baseURL   *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
	circuit   *gobreaker.CircuitBreaker
}

// NewProvider builds a Provider. A zero timeout uses the default.
func NewProvider(baseURL, apiKey string, timeout time.Duration) (*Provider, error) {
	base, err := parseBaseURL(baseURL, defaultProviderURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			// A bad city name is the caller's problem, not the upstream's.
			var malformed *MalformedResponseError
			return err == nil || errors.As(err, &malformed) || isNotFound(err)
		},
	})
	return &Provider{
		baseURL:   base,
		apiKey:    strings.TrimSpace(apiKey),
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		circuit:   cb,
	}, nil
}

type currentPayload struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main" validate:"required"`
	Weather []conditionPayload `json:"weather" validate:"required,min=1,dive"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
}

type conditionPayload struct {
	Main        string `json:"main" validate:"required"`
	Description string `json:"description"`
}

// FetchCity returns current conditions for city in metric units.
func (p *Provider) FetchCity(ctx context.Context, city string) (CityWeather, error) {
	city = strings.TrimSpace(city)
	op := "openweather weather " + city
	var payload currentPayload
	if err := p.get(ctx, op, "weather", url.Values{"q": {city}}, &payload); err != nil {
		return CityWeather{}, err
	}
	if err := check(op, payload); err != nil {
		return CityWeather{}, err
	}
	return CityWeather{
		City:        city,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		Condition:   payload.Weather[0].Main,
		Description: payload.Weather[0].Description,
		WindSpeed:   payload.Wind.Speed,
		Clouds:      payload.Clouds.All,
	}, nil
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt" validate:"required"`
		Main struct {
			Temp     float64 `json:"temp"`
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []conditionPayload `json:"weather" validate:"dive"`
	} `json:"list" validate:"required,dive"`
	City struct {
		Timezone int `json:"timezone"`
	} `json:"city"`
}

// FetchForecast returns up to days daily summaries built from the
// provider's 3-hourly forecast, bucketed by the city's local date.
func (p *Provider) FetchForecast(ctx context.Context, city string, days int) ([]DailyForecast, error) {
	city = strings.TrimSpace(city)
	op := "openweather forecast " + city
	var payload forecastPayload
	if err := p.get(ctx, op, "forecast", url.Values{"q": {city}}, &payload); err != nil {
		return nil, err
	}
	if err := check(op, payload); err != nil {
		return nil, err
	}

	zone := time.FixedZone("city", payload.City.Timezone)
	buckets := make(map[string]*dayBucket)
	for _, entry := range payload.List {
		at := time.Unix(entry.Dt, 0).In(zone)
		key := at.Format(time.DateOnly)
		b, ok := buckets[key]
		if !ok {
			day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, zone)
			b = &dayBucket{date: day, high: math.Inf(-1), low: math.Inf(1), conditions: map[string]int{}}
			buckets[key] = b
		}
		b.add(entry.Main.TempMax, entry.Main.TempMin, entry.Main.Humidity, entry.Weather)
	}

	out := make([]DailyForecast, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, b.summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if days > 0 && len(out) > days {
		out = out[:days]
	}
	return out, nil
}

type dayBucket struct {
	date       time.Time
	high, low  float64
	humidity   float64
	samples    int
	conditions map[string]int
	order      []string
}

func (b *dayBucket) add(high, low, humidity float64, weather []conditionPayload) {
	b.high = math.Max(b.high, high)
	b.low = math.Min(b.low, low)
	b.humidity += humidity
	b.samples++
	if len(weather) > 0 {
		main := weather[0].Main
		if _, seen := b.conditions[main]; !seen {
			b.order = append(b.order, main)
		}
		b.conditions[main]++
	}
}

func (b *dayBucket) summary() DailyForecast {
	var condition string
	best := 0
	for _, c := range b.order {
		if n := b.conditions[c]; n > best {
			condition, best = c, n
		}
	}
	return DailyForecast{
		Date:      b.date,
		High:      b.high,
		Low:       b.low,
		Humidity:  math.Round(b.humidity / float64(b.samples)),
		Condition: condition,
	}
}

func (p *Provider) get(ctx context.Context, op, endpoint string, values url.Values, dest any) error {
	if p == nil {
		return fmt.Errorf("provider is nil")
	}
	if p.apiKey == "" {
		return ErrMissingAPIKey
	}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	reqURL := p.baseURL.JoinPath(endpoint)
	reqURL.RawQuery = values.Encode()

	_, err := p.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", p.userAgent)

		resp, err := p.http.Do(req)
		if err != nil {
			return nil, &TransientFetchError{Op: op, Err: fmt.Errorf("execute request: %w", err)}
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &TransientFetchError{Op: op, Status: resp.StatusCode}
		}
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return nil, &MalformedResponseError{Op: op, Reason: "decode response", Err: err}
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &TransientFetchError{Op: op, Err: fmt.Errorf("circuit breaker open: %w", err)}
	}
	return err
}

func isNotFound(err error) bool {
	var transient *TransientFetchError
	return errors.As(err, &transient) && transient.Status == http.StatusNotFound
}
