// Package prefs persists watch view preferences in
// ~/.config/bearbasic/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the watch view.
type Prefs struct {
	Theme    string
	Interval time.Duration
}

type filePrefs struct {
	Theme    string `toml:"theme"`
	Interval string `toml:"interval,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/bearbasic/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultInterval  = 2 * time.Second
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, Interval: defaultInterval}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Missing or unreadable files and invalid
// values fall back to defaults field by field.
func Load(path string) Prefs {
	p := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return p
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}
	var raw filePrefs
	if err := toml.Unmarshal(data, &raw); err != nil {
		return p
	}

	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		p.Theme = theme
	}
	if d, err := time.ParseDuration(strings.TrimSpace(raw.Interval)); err == nil && d > 0 {
		p.Interval = d
	}
	return p
}

// Save writes p to path atomically, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	raw := filePrefs{Theme: p.Theme}
	if p.Interval > 0 {
		raw.Interval = p.Interval.String()
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultPrefsPath
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
