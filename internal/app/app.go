package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/nimbus/internal/cities"
	"github.com/five82/nimbus/internal/config"
	"github.com/five82/nimbus/internal/logging"
	"github.com/five82/nimbus/internal/metrics"
	"github.com/five82/nimbus/internal/prefs"
	"github.com/five82/nimbus/internal/state"
	"github.com/five82/nimbus/internal/ui"
	"github.com/five82/nimbus/internal/weather"
)

// Options configure the Nimbus application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/nimbus/prefs.toml
	EnvFile    string // empty uses ./.env when present
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the Nimbus TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.RefreshInterval = time.Duration(opts.PollEvery) * time.Second
	}

	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()
	log := logging.WithComponent("app")

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.WithError(err).Warn("using default preferences")
	}
	list, err := cities.Load(prefs.CityStore{Path: opts.PrefsPath})
	if err != nil {
		log.WithError(err).Warn("using default city list")
	}

	client, err := weather.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init weather client: %w", err)
	}
	provider, err := weather.NewProvider(cfg.OpenWeatherURL, cfg.OpenWeatherAPIKey, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init provider: %w", err)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Warnf("%s is not set; city cards and forecast will show errors", config.EnvAPIKey)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	recorder := metrics.NewRecorder()
	if cfg.MetricsAddr != "" {
		if err := serveMetrics(ctx, cfg.MetricsAddr, recorder); err != nil {
			return err
		}
	}

	store := &state.Store{}
	dash := NewDashboard(client, provider, list, store, DashboardOptions{
		DefaultCity:    cfg.DefaultCity,
		Period:         cfg.RefreshInterval,
		ForecastDays:   cfg.ForecastDays,
		MaxConcurrency: cfg.MaxConcurrency,
		Metrics:        recorder,
	})
	dash.Start(ctx)
	defer dash.Stop()

	log.WithFields(logrus.Fields{
		"backend": cfg.APIBaseURL,
		"city":    cfg.DefaultCity,
		"period":  cfg.RefreshInterval,
	}).Info("dashboard started")

	return ui.Run(ui.Options{
		Context:    ctx,
		Store:      store,
		Controller: dash,
		Period:     cfg.RefreshInterval,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
	})
}
