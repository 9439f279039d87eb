// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate points the home directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{"SKYBOT_BACKEND_URL", "SKYBOT_CHAT_TIMEOUT", "SKYBOT_DEFAULT_CHANNEL",
		"SKYBOT_LOG_LEVEL", "SKYBOT_LOG_FILE", "SKYBOT_THEME"} {
		t.Setenv(k, "")
	}
	return home
}

// =============================================================================
// DEFAULTS & LOADING
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "http://localhost:8000", cfg.Backend.URL)
	require.Equal(t, 120*time.Second, cfg.ChatTimeout())
	require.Equal(t, 300*time.Second, cfg.IngestTimeout())
	require.Equal(t, 10*time.Second, cfg.ListTimeout())
	require.Equal(t, int64(50*1024*1024), cfg.MaxUploadBytes())
	require.Equal(t, "general", cfg.Upload.DefaultChannel)
	require.Equal(t, 500*time.Millisecond, cfg.SettleDelay())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default().Backend, cfg.Backend)
}

func TestLoad_TOMLWithPartialValues(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".skybot")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[backend]
url = "http://rag.internal:9000"
chat_timeout_secs = 30

[upload]
default_channel = "process"
`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://rag.internal:9000", cfg.Backend.URL)
	require.Equal(t, 30*time.Second, cfg.ChatTimeout())
	require.Equal(t, 300, cfg.Backend.IngestTimeoutSecs)
	require.Equal(t, "process", cfg.Upload.DefaultChannel)
	require.Equal(t, "process", cfg.WatchChannel(), "watch channel follows the upload default")
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".skybot")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"),
		[]byte(`{"ui":{"theme":"light","word_wrap":100}}`), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "light", cfg.UI.Theme)
	require.Equal(t, 100, cfg.UI.WordWrap)
}

func TestLoad_BrokenFileReturnsDefaultsAndError(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".skybot")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[backend\nurl="), 0o644))

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, Default().Backend.URL, cfg.Backend.URL)
}

func TestLoadFromPath_UnknownKey(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[backend]\nulr = \"x\"\n"), 0o644))

	_, err := LoadFromPath(path)
	require.ErrorContains(t, err, "backend.ulr")
}

func TestSaveAndReload(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Backend.URL = "https://skybot.example.com"
	cfg.UI.ShowTimestamps = true
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Backend, loaded.Backend)
	require.True(t, loaded.UI.ShowTimestamps)

	jsonPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveJSON(cfg, jsonPath))
	loaded, err = LoadFromPath(jsonPath)
	require.NoError(t, err)
	require.Equal(t, "https://skybot.example.com", loaded.Backend.URL)
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SKYBOT_BACKEND_URL", "http://env:1234")
	t.Setenv("SKYBOT_CHAT_TIMEOUT", "90s")
	t.Setenv("SKYBOT_DEFAULT_CHANNEL", "quality")
	t.Setenv("SKYBOT_LOG_LEVEL", "debug")
	t.Setenv("SKYBOT_LOG_FILE", "-")
	t.Setenv("SKYBOT_THEME", "light")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://env:1234", cfg.Backend.URL)
	require.Equal(t, 90, cfg.Backend.ChatTimeoutSecs)
	require.Equal(t, "quality", cfg.Upload.DefaultChannel)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "-", cfg.LogFile())
	require.Equal(t, "light", cfg.UI.Theme)

	t.Setenv("SKYBOT_CHAT_TIMEOUT", "45")
	cfg.ApplyEnvOverrides()
	require.Equal(t, 45, cfg.Backend.ChatTimeoutSecs)
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("SKYBOT_BACKEND_URL", "localhost:8000")

	_, err := Load()
	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	require.Equal(t, "backend.url", verrs[0].Field)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"bad scheme", func(c *Config) { c.Backend.URL = "ftp://x" }, "backend.url"},
		{"no host", func(c *Config) { c.Backend.URL = "http://" }, "backend.url"},
		{"zero chat timeout", func(c *Config) { c.Backend.ChatTimeoutSecs = 0 }, "backend.chat_timeout_secs"},
		{"huge ingest timeout", func(c *Config) { c.Backend.IngestTimeoutSecs = 7200 }, "backend.ingest_timeout_secs"},
		{"negative rate", func(c *Config) { c.Backend.RequestsPerSecond = -1 }, "backend.requests_per_second"},
		{"upload too big", func(c *Config) { c.Upload.MaxSizeMB = 4096 }, "upload.max_size_mb"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"wrap", func(c *Config) { c.UI.WordWrap = 5 }, "ui.word_wrap"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"settle", func(c *Config) { c.Watch.SettleMS = -1 }, "watch.settle_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			require.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

// =============================================================================
// GET/SET
// =============================================================================

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("backend.url")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000", v)

	require.NoError(t, cfg.Set("backend.chat_timeout_secs", "60"))
	require.Equal(t, 60, cfg.Backend.ChatTimeoutSecs)

	require.NoError(t, cfg.Set("ui.show_timestamps", "yes"))
	require.True(t, cfg.UI.ShowTimestamps)

	require.NoError(t, cfg.Set("backend.requests_per_second", "2.5"))
	require.Equal(t, 2.5, cfg.Backend.RequestsPerSecond)

	_, err = cfg.Get("backend.nope")
	require.Error(t, err)
	_, err = cfg.Get("backend")
	require.Error(t, err)
	require.Error(t, cfg.Set("upload.max_size_mb", "lots"))
	_, err = cfg.Get("")
	require.Error(t, err)
}

func TestGetAllKeys_Resolve(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		_, err := cfg.Get(key)
		require.NoError(t, err, key)
	}
}

func TestGetAllKeys_Order(t *testing.T) {
	keys := GetAllKeys()
	require.Equal(t, "version", keys[0])
	require.Contains(t, keys, "backend.requests_per_second")
	require.Contains(t, keys, "watch.settle_ms")
	require.NotContains(t, keys, "backend")
}

func TestConfig_SetBoolRejectsGarbage(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.Set("ui.show_timestamps", "maybe"))
	require.NoError(t, cfg.Set("ui.show_timestamps", "off"))
	require.False(t, cfg.UI.ShowTimestamps)
	require.NoError(t, cfg.Set("ui.word_wrap", 120))
	require.Equal(t, 120, cfg.UI.WordWrap)
}
