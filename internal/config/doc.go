// Package config loads Nimbus configuration.
//
// # Overview
//
// Configuration lives in a TOML file, by default ~/.config/nimbus/config.toml.
// A missing file is not an error; every field has a default. Blank values in
// the file are treated as unset.
//
// # Resolution order
//
//  1. Built-in defaults (Default)
//  2. The TOML file, if present
//  3. Environment variables: NIMBUS_API_BASE_URL, NIMBUS_DEFAULT_CITY and
//     OPENWEATHER_API_KEY
//
// LoadDotEnv can be called first to populate the environment from a .env
// file; variables already set win.
//
// # Fields
//
//	api_base_url          weather backend (default http://localhost:8000)
//	openweather_base_url  provider API root
//	openweather_api_key   provider key; multi-city cards need it
//	default_city          city served by the backend (default Pune)
//	refresh_interval      poll period as a Go duration (default 5m)
//	request_timeout       per-request HTTP timeout (default 10s)
//	forecast_days         days shown in the forecast panel, 1-5
//	max_concurrency       in-flight provider calls per round, 0 = unbounded
//	log_file              log destination (default ~/.local/state/nimbus/nimbus.log)
//	log_level             logrus level name
//	metrics_addr          host:port for the prometheus endpoint, empty disables
//
// The loaded Config is validated with go-playground/validator struct tags.
package config
