// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config persists the device configuration as a JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the persisted device configuration.
type Config struct {
	// ImageURL is fetched when no cached image exists.
	ImageURL string `json:"image_url"`

	// CacheDir holds the cached image and validation token.
	CacheDir string `json:"cache_dir"`

	// Rotation is the panel rotation in quarter turns, 0..3.
	Rotation int `json:"rotation"`

	// RefreshSeconds is the deep-sleep interval between render cycles.
	RefreshSeconds int `json:"refresh_seconds"`

	// Saturation blends the preview palette between measured panel
	// response (0) and datasheet colors (1).
	Saturation float64 `json:"saturation"`
}

// Default returns the configuration used when nothing is stored.
func Default() *Config {
	return &Config{
		CacheDir:       "/var/lib/spectraframe",
		Rotation:       0,
		RefreshSeconds: 1800,
		Saturation:     0.5,
	}
}

// Load reads the configuration at path. A missing file is not an error;
// defaults are returned so a factory-fresh device can boot.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if c.Rotation < 0 || c.Rotation > 3 {
		return nil, fmt.Errorf("config: rotation %d out of range 0..3", c.Rotation)
	}
	return c, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
