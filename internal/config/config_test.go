package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if !slices.Equal(cfg.Board.Columns, []string{"Backlog", "In Progress", "Done"}) {
		t.Fatalf("unexpected default columns %#v", cfg.Board.Columns)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
	if !cfg.UI.RenderMarkdown || cfg.UI.ShowItemIDs {
		t.Fatalf("unexpected ui defaults %#v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default()
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.Title != defaults.Board.Title {
		t.Fatalf("expected default title, got %q", cfg.Board.Title)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[board]
title = "Release"
columns = ["Todo", "Review", "Shipped", "Review"]

[logging]
level = "debug"

[ui]
show_item_ids = true
render_markdown = false

[keys]
yank = "Y"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.Title != "Release" {
		t.Fatalf("unexpected title %q", cfg.Board.Title)
	}
	if !slices.Equal(cfg.Board.Columns, []string{"Todo", "Review", "Shipped", "Review"}) {
		t.Fatalf("expected duplicate column names to be kept, got %#v", cfg.Board.Columns)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected level %q", cfg.Logging.Level)
	}
	if !cfg.UI.ShowItemIDs || cfg.UI.RenderMarkdown {
		t.Fatalf("unexpected ui config %#v", cfg.UI)
	}
	if cfg.Keys.Yank != "Y" || cfg.Keys.AddItem != "n" {
		t.Fatalf("expected partial key override, got %#v", cfg.Keys)
	}
}

func TestLoadRejectsInvalidLoggingLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nlevel = \"loud\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	_, err := Load(path, Default())
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected logging level error, got %v", err)
	}
}

func TestLoadRejectsDuplicateKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[keys]\nyank = \"n\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, Default()); err == nil {
		t.Fatal("expected duplicate key binding error")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[board\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, Default()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Fatal("expected existing config to be kept without force")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Fatalf("WriteDefault(force) error = %v", err)
	}
	cfg, err := Load(path, Config{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !slices.Equal(cfg.Board.Columns, Default().Board.Columns) || cfg.Keys.PickUp != "m" {
		t.Fatalf("unexpected round-trip config %#v", cfg)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
