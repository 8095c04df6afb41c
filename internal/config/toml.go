// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/datamover/internal/catalog"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Pairing    PairingConfig    `toml:"pairing"`
	Transfer   TransferConfig   `toml:"transfer"`
	History    HistoryConfig    `toml:"history"`
	Log        LogConfig        `toml:"log"`
	Categories []CategoryConfig `toml:"categories"`
}

// PairingConfig maps pairing-related settings.
type PairingConfig struct {
	BaseURL        *string `toml:"base-url"`
	ScanDelayMs    *int    `toml:"scan-delay-ms"`
	ConfirmDelayMs *int    `toml:"confirm-delay-ms"`
}

// TransferConfig maps simulation settings.
type TransferConfig struct {
	TickMs      *int     `toml:"tick-ms"`
	ChunkMinMB  *float64 `toml:"chunk-min"`
	ChunkMaxMB  *float64 `toml:"chunk-max"`
	SpeedMinMBs *float64 `toml:"speed-min"`
	SpeedMaxMBs *float64 `toml:"speed-max"`
}

// HistoryConfig maps history settings.
type HistoryConfig struct {
	SeedDemo *bool `toml:"seed-demo"`
}

// LogConfig maps diagnostic logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// CategoryConfig is one [[categories]] entry replacing the built-in catalog.
type CategoryConfig struct {
	ID     string  `toml:"id"`
	Name   string  `toml:"name"`
	SizeMB float64 `toml:"size-mb"`
	Items  int     `toml:"items"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Catalog returns the configured categories, or the built-in catalog when none are set.
func (c FileConfig) Catalog() ([]catalog.Item, error) {
	if len(c.Categories) == 0 {
		return catalog.Default(), nil
	}
	items := make([]catalog.Item, 0, len(c.Categories))
	for _, cc := range c.Categories {
		name := cc.Name
		if name == "" {
			name = cc.ID
		}
		items = append(items, catalog.Item{ID: cc.ID, Name: name, SizeMB: cc.SizeMB, Items: cc.Items})
	}
	if err := catalog.Validate(items); err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}
	return items, nil
}
