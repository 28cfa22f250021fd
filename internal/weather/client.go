package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Source is the backend surface the dashboard polls. *Client implements it;
// tests substitute fakes.
type Source interface {
	FetchCurrent(ctx context.Context) (Reading, error)
	FetchDashboard(ctx context.Context) (DashboardSummary, error)
	FetchAlerts(ctx context.Context) ([]Alert, error)
	FetchNow(ctx context.Context) error
}

var _ Source = (*Client)(nil)

const (
	pathCurrent   = "/api/weather/current"
	pathDashboard = "/api/weather/dashboard"
	pathAlerts    = "/api/weather/alerts"
	pathFetchNow  = "/api/weather/fetch-now"

	defaultBaseURL        = "http://localhost:8000"
	defaultUserAgent      = "nimbus/0.1"
	defaultRequestTimeout = 10 * time.Second
)

// Client talks to the weather backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client for baseURL. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL, defaultBaseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchCurrent returns the newest reading for the default city.
func (c *Client) FetchCurrent(ctx context.Context) (Reading, error) {
	if c == nil {
		return Reading{}, fmt.Errorf("client is nil")
	}
	var payload []Reading
	if err := c.do(ctx, http.MethodGet, pathCurrent, &payload); err != nil {
		return Reading{}, err
	}
	if len(payload) == 0 {
		return Reading{}, &MalformedResponseError{Op: pathCurrent, Reason: "no readings in response"}
	}
	if err := check(pathCurrent, payload[0]); err != nil {
		return Reading{}, err
	}
	return payload[0], nil
}

// FetchDashboard returns today's summary and hourly trend.
func (c *Client) FetchDashboard(ctx context.Context) (DashboardSummary, error) {
	if c == nil {
		return DashboardSummary{}, fmt.Errorf("client is nil")
	}
	var payload DashboardSummary
	if err := c.do(ctx, http.MethodGet, pathDashboard, &payload); err != nil {
		return DashboardSummary{}, err
	}
	if err := check(pathDashboard, payload); err != nil {
		return DashboardSummary{}, err
	}
	return payload, nil
}

// FetchAlerts returns recent alerts, newest first as served.
func (c *Client) FetchAlerts(ctx context.Context) ([]Alert, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Alert
	if err := c.do(ctx, http.MethodGet, pathAlerts, &payload); err != nil {
		return nil, err
	}
	for _, a := range payload {
		if err := check(pathAlerts, a); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// FetchNow asks the backend to collect fresh readings immediately.
func (c *Client) FetchNow(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodPost, pathFetchNow, nil)
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransientFetchError{Op: path, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransientFetchError{Op: "api " + path, Status: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &MalformedResponseError{Op: path, Reason: "decode response", Err: err}
	}
	return nil
}

func parseBaseURL(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, errors.New("parse base url: missing host")
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
