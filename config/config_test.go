// Copyright 2025 The SpectraFrame Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadPartialFile(t *testing.T) {
	// Unset fields keep their defaults.
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"image_url": "http://example.com/frame.jpg"}`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/frame.jpg", c.ImageURL)
	assert.Equal(t, Default().CacheDir, c.CacheDir)
	assert.Equal(t, Default().RefreshSeconds, c.RefreshSeconds)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	want := &Config{
		ImageURL:       "http://example.com/frame.png",
		CacheDir:       "/tmp/frames",
		Rotation:       2,
		RefreshSeconds: 3600,
		Saturation:     0.8,
	}
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadRejectsBadRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rotation": 4}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rotation": `), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
