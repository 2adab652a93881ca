package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	configFileName    = "config.toml"
	defaultProfile    = "default"
	defaultSavedAckMS = 1500
)

var ErrInvalidProfile = errors.New("invalid profile name")

type Config struct {
	// CurrentProfile selects the profile used when --profile/--dir are not given.
	CurrentProfile string `toml:"current_profile,omitempty"`

	// Backend is one of sqlite|files. Empty means sqlite.
	Backend string `toml:"backend,omitempty"`

	// SavedAckMS is how long the "Saved" acknowledgement stays visible.
	SavedAckMS int `toml:"saved_ack_ms,omitempty"`

	TUI TUIConfig `toml:"tui"`
}

type TUIConfig struct {
	// Theme is light|dark|auto.
	Theme string `toml:"theme,omitempty"`
	// Glyphs is unicode|ascii.
	Glyphs string `toml:"glyphs,omitempty"`
}

func (c Config) Profile() string {
	if p := strings.TrimSpace(c.CurrentProfile); p != "" {
		return p
	}
	return defaultProfile
}

func (c Config) SavedAck() time.Duration {
	if c.SavedAckMS <= 0 {
		return defaultSavedAckMS * time.Millisecond
	}
	return time.Duration(c.SavedAckMS) * time.Millisecond
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.shoplist).
	if v := strings.TrimSpace(os.Getenv("SHOPLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shoplist"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig reads config.toml. A missing file yields defaults.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("save config: nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return atomicWriteFile(dir, configFileName+".*.tmp", path, b, 0o600)
}

func NormalizeProfileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidProfile, name)
	}
	return name, nil
}

// ProfileDir returns the storage directory of a profile. Each profile has its
// own independent lists.
func ProfileDir(name string) (string, error) {
	name, err := NormalizeProfileName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profiles", name), nil
}

func ListProfiles() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	out := []string{}
	ents, err := os.ReadDir(filepath.Join(dir, "profiles"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, err
	}
	for _, e := range ents {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
