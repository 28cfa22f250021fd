// Package prefs handles Nimbus user preferences persistence.
// Preferences are stored in ~/.config/nimbus/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for Nimbus.
type Prefs struct {
	Theme  string   `toml:"theme"`
	Cities []string `toml:"weather_cities"`
}

const (
	defaultPrefsPath = "~/.config/nimbus/prefs.toml"
	defaultTheme     = "Nightfox"
)

// ErrMalformed marks a prefs file that exists but cannot be parsed.
var ErrMalformed = errors.New("malformed prefs")

// Load reads preferences from the given path, falling back to defaults if
// missing. Unreadable or invalid files also yield defaults, together with
// the error so the caller can log it.
func Load(path string) (Prefs, error) {
	defaults := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return defaults, err
	}
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return defaults, nil
	case err != nil:
		return defaults, fmt.Errorf("read prefs: %w", err)
	}

	p := defaults
	if err := toml.Unmarshal(data, &p); err != nil {
		return defaults, fmt.Errorf("parse %s: %w: %w", resolved, ErrMalformed, err)
	}
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	return p, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}

	return nil
}

// updateMu serializes read-modify-write cycles within the process.
var updateMu sync.Mutex

// Update loads the file, applies fn and saves the result, leaving fields
// fn does not touch as they were on disk. A malformed file is replaced.
// Concurrent calls are applied one at a time.
func Update(path string, fn func(*Prefs)) error {
	updateMu.Lock()
	defer updateMu.Unlock()

	p, err := Load(path)
	if err != nil && !errors.Is(err, ErrMalformed) {
		return err
	}
	fn(&p)
	return Save(path, p)
}

// CityStore persists the selected city list under the weather_cities key.
type CityStore struct {
	Path string
}

// LoadCities returns the saved list, or nil when none was saved.
func (s CityStore) LoadCities() ([]string, error) {
	p, err := Load(s.Path)
	if err != nil {
		return nil, err
	}
	return p.Cities, nil
}

// SaveCities replaces the saved list.
func (s CityStore) SaveCities(cities []string) error {
	return Update(s.Path, func(p *Prefs) {
		p.Cities = append([]string(nil), cities...)
	})
}

// SaveTheme replaces the saved theme name.
func SaveTheme(path, theme string) error {
	return Update(path, func(p *Prefs) {
		p.Theme = theme
	})
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
