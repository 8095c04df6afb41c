package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Transfer.TickMs != nil || len(cfg.Categories) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[pairing]
base-url = "http://localhost/pair"
scan-delay-ms = 100

[transfer]
tick-ms = 50
chunk-min = 1.5

[history]
seed-demo = false

[log]
level = "debug"

[[categories]]
id = "music"
name = "Music"
size-mb = 42
items = 300

[[categories]]
id = "notes"
size-mb = 1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Pairing.BaseURL == nil || *cfg.Pairing.BaseURL != "http://localhost/pair" {
		t.Fatalf("base-url not decoded")
	}
	if cfg.Pairing.ScanDelayMs == nil || *cfg.Pairing.ScanDelayMs != 100 {
		t.Fatalf("scan-delay-ms not decoded")
	}
	if cfg.Pairing.ConfirmDelayMs != nil {
		t.Fatalf("unset field should stay nil")
	}
	if cfg.Transfer.TickMs == nil || *cfg.Transfer.TickMs != 50 {
		t.Fatalf("tick-ms not decoded")
	}
	if cfg.Transfer.ChunkMinMB == nil || *cfg.Transfer.ChunkMinMB != 1.5 {
		t.Fatalf("chunk-min not decoded")
	}
	if cfg.History.SeedDemo == nil || *cfg.History.SeedDemo {
		t.Fatalf("seed-demo not decoded")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("log level not decoded")
	}

	items, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Music" || items[1].Name != "notes" {
		t.Fatalf("unexpected catalog: %+v", items)
	}
}

func TestCatalogRejectsInvalidCategories(t *testing.T) {
	cfg := FileConfig{Categories: []CategoryConfig{{ID: "a", SizeMB: 0}}}
	if _, err := cfg.Catalog(); err == nil {
		t.Fatalf("expected error for zero size")
	}
	items, err := FileConfig{}.Catalog()
	if err != nil || len(items) == 0 {
		t.Fatalf("expected built-in catalog, got %v %v", items, err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	if got := DefaultConfigPath(); got != filepath.Join(dir, "datamover", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join(dir, "datamover", "datamover.log") {
		t.Fatalf("unexpected log path %s", got)
	}
}
