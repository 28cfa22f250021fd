package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAPIBaseURL, "")
	t.Setenv(EnvDefaultCity, "")
	t.Setenv(EnvAPIKey, "")
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.DefaultCity != "Pune" {
		t.Fatalf("DefaultCity = %q, want Pune", cfg.DefaultCity)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Fatalf("RefreshInterval = %v, want 5m", cfg.RefreshInterval)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base_url = "  http://10.0.0.5:9999  "
default_city = " Chennai "
refresh_interval = "90s"
request_timeout = "3s"
forecast_days = 3
max_concurrency = 2
log_file = "  ~/nimbus/logs/nimbus.log  "
log_level = "debug"
metrics_addr = "127.0.0.1:9464"
openweather_api_key = "abc"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://10.0.0.5:9999" {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, "http://10.0.0.5:9999")
	}
	if cfg.DefaultCity != "Chennai" {
		t.Fatalf("DefaultCity = %q, want Chennai", cfg.DefaultCity)
	}
	if cfg.RefreshInterval != 90*time.Second || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("durations = %v/%v, want 90s/3s", cfg.RefreshInterval, cfg.RequestTimeout)
	}
	if cfg.ForecastDays != 3 || cfg.MaxConcurrency != 2 {
		t.Fatalf("ForecastDays/MaxConcurrency = %d/%d, want 3/2", cfg.ForecastDays, cfg.MaxConcurrency)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.OpenWeatherAPIKey != "abc" || cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIBaseURL, "http://backend:8000")
	t.Setenv(EnvDefaultCity, "Delhi")
	t.Setenv(EnvAPIKey, "from-env")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`openweather_api_key = "from-file"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://backend:8000" || cfg.DefaultCity != "Delhi" || cfg.OpenWeatherAPIKey != "from-env" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cases := map[string]string{
		"bad duration": `refresh_interval = "soon"`,
		"too fast":     `refresh_interval = "10ms"`,
		"bad url":      `api_base_url = "not a url"`,
		"bad level":    `log_level = "chatty"`,
		"bad days":     `forecast_days = 9`,
		"bad toml":     `api_base_url = [`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("Load(%s) returned nil error", body)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv(missing) = %v, want nil", err)
	}

	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("OPENWEATHER_API_KEY=dotenv-key\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv(EnvAPIKey); got != "dotenv-key" {
		t.Fatalf("%s = %q, want dotenv-key", EnvAPIKey, got)
	}
}
