package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything Nimbus needs to reach its data sources.
type Config struct {
	APIBaseURL        string        `validate:"required,url"`
	OpenWeatherURL    string        `validate:"required,url"`
	OpenWeatherAPIKey string        `validate:"-"`
	DefaultCity       string        `validate:"required"`
	RefreshInterval   time.Duration `validate:"min=1s"`
	RequestTimeout    time.Duration `validate:"min=100ms"`
	ForecastDays      int           `validate:"min=1,max=5"`
	MaxConcurrency    int           `validate:"min=0"`
	LogFile           string
	LogLevel          string `validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	MetricsAddr       string `validate:"omitempty,hostname_port"`
}

// Environment overrides, applied after the file.
const (
	EnvAPIBaseURL  = "NIMBUS_API_BASE_URL"
	EnvDefaultCity = "NIMBUS_DEFAULT_CITY"
	EnvAPIKey      = "OPENWEATHER_API_KEY"
)

const (
	defaultConfigPath      = "~/.config/nimbus/config.toml"
	defaultLogFile         = "~/.local/state/nimbus/nimbus.log"
	defaultAPIBaseURL      = "http://localhost:8000"
	defaultOpenWeatherURL  = "https://api.openweathermap.org/data/2.5"
	defaultCity            = "Pune"
	defaultRefreshInterval = 5 * time.Minute
	defaultRequestTimeout  = 10 * time.Second
	defaultForecastDays    = 5
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:      defaultAPIBaseURL,
		OpenWeatherURL:  defaultOpenWeatherURL,
		DefaultCity:     defaultCity,
		RefreshInterval: defaultRefreshInterval,
		RequestTimeout:  defaultRequestTimeout,
		ForecastDays:    defaultForecastDays,
		LogFile:         mustExpand(defaultLogFile),
		LogLevel:        "info",
	}
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load locates and parses the config, falling back to defaults when missing.
// Environment overrides are applied last and the result is validated.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := parse(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parse(r io.Reader, cfg *Config) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL        string `toml:"api_base_url"`
		OpenWeatherURL    string `toml:"openweather_base_url"`
		OpenWeatherAPIKey string `toml:"openweather_api_key"`
		DefaultCity       string `toml:"default_city"`
		RefreshInterval   string `toml:"refresh_interval"`
		RequestTimeout    string `toml:"request_timeout"`
		ForecastDays      int    `toml:"forecast_days"`
		MaxConcurrency    int    `toml:"max_concurrency"`
		LogFile           string `toml:"log_file"`
		LogLevel          string `toml:"log_level"`
		MetricsAddr       string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.APIBaseURL, raw.APIBaseURL)
	setString(&cfg.OpenWeatherURL, raw.OpenWeatherURL)
	setString(&cfg.OpenWeatherAPIKey, raw.OpenWeatherAPIKey)
	setString(&cfg.DefaultCity, raw.DefaultCity)
	setString(&cfg.LogLevel, raw.LogLevel)
	setString(&cfg.MetricsAddr, raw.MetricsAddr)
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if raw.ForecastDays != 0 {
		cfg.ForecastDays = raw.ForecastDays
	}
	cfg.MaxConcurrency = raw.MaxConcurrency

	if err := setDuration(&cfg.RefreshInterval, "refresh_interval", raw.RefreshInterval); err != nil {
		return err
	}
	if err := setDuration(&cfg.RequestTimeout, "request_timeout", raw.RequestTimeout); err != nil {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.APIBaseURL, os.Getenv(EnvAPIBaseURL))
	setString(&cfg.DefaultCity, os.Getenv(EnvDefaultCity))
	setString(&cfg.OpenWeatherAPIKey, os.Getenv(EnvAPIKey))
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse config: %s: %w", key, err)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
