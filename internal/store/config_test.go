package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SHOPLIST_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Profile() != "default" {
		t.Fatalf("Profile() = %q, want default", cfg.Profile())
	}
	if cfg.SavedAck() != 1500*time.Millisecond {
		t.Fatalf("SavedAck() = %v", cfg.SavedAck())
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPLIST_CONFIG_DIR", dir)

	want := &Config{
		CurrentProfile: "weekend",
		Backend:        BackendFiles,
		SavedAckMS:     800,
		TUI:            TUIConfig{Theme: "dark", Glyphs: "ascii"},
	}
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *got != *want {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range ents {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}

func TestLoadConfig_ParsesHandWrittenTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPLIST_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
current_profile = "office"
backend = "  FILES "
saved_ack_ms = 250

[tui]
theme = "light"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Profile() != "office" || cfg.Backend != BackendFiles || cfg.SavedAck() != 250*time.Millisecond || cfg.TUI.Theme != "light" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestLoadConfig_InvalidTOMLIsAnError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPLIST_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("current_profile = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestProfileDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHOPLIST_CONFIG_DIR", dir)

	got, err := ProfileDir(" home ")
	if err != nil {
		t.Fatalf("ProfileDir: %v", err)
	}
	if got != filepath.Join(dir, "profiles", "home") {
		t.Fatalf("ProfileDir = %q", got)
	}
	for _, bad := range []string{"", "..", "a/b", `a\b`} {
		if _, err := ProfileDir(bad); !errors.Is(err, ErrInvalidProfile) {
			t.Fatalf("ProfileDir(%q): expected ErrInvalidProfile; got %v", bad, err)
		}
	}

	if err := os.MkdirAll(filepath.Join(dir, "profiles", "b"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "profiles", "a"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	names, err := ListProfiles()
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("ListProfiles = %v", names)
	}
}
