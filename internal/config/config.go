// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the full skybot configuration. Field tags double as the dotted
// keys used by `skybot config get|set`.
type Config struct {
	Version string        `toml:"version" json:"version"`
	Backend BackendConfig `toml:"backend" json:"backend"`
	Upload  UploadConfig  `toml:"upload" json:"upload"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Watch   WatchConfig   `toml:"watch" json:"watch"`
}

// BackendConfig describes how to reach the Skybot backend.
type BackendConfig struct {
	// URL is the backend origin, e.g. http://localhost:8000
	URL string `toml:"url" json:"url"`
	// DocumentsPath is where the backend serves source documents; citation
	// links point here.
	DocumentsPath     string  `toml:"documents_path" json:"documents_path"`
	ChatTimeoutSecs   int     `toml:"chat_timeout_secs" json:"chat_timeout_secs"`
	IngestTimeoutSecs int     `toml:"ingest_timeout_secs" json:"ingest_timeout_secs"`
	ListTimeoutSecs   int     `toml:"list_timeout_secs" json:"list_timeout_secs"`
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"` // 0 disables
}

type UploadConfig struct {
	MaxSizeMB      int    `toml:"max_size_mb" json:"max_size_mb"`
	DefaultChannel string `toml:"default_channel" json:"default_channel"`
}

type UIConfig struct {
	Theme          string `toml:"theme" json:"theme"` // dark, light or auto
	WordWrap       int    `toml:"word_wrap" json:"word_wrap"`
	ShowTimestamps bool   `toml:"show_timestamps" json:"show_timestamps"`
}

type LoggingConfig struct {
	Level string `toml:"level" json:"level"`
	// File is the log destination; "-" means stderr, empty means
	// skybot.log in the config directory.
	File string `toml:"file" json:"file"`
}

// WatchConfig drives `skybot watch`.
type WatchConfig struct {
	// Channel receives watched files; empty means upload.default_channel.
	Channel string `toml:"channel" json:"channel"`
	// SettleMS is how long a file must stay unchanged before it is uploaded.
	SettleMS int `toml:"settle_ms" json:"settle_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Backend: BackendConfig{
			URL:               "http://localhost:8000",
			DocumentsPath:     "/static/documents",
			ChatTimeoutSecs:   120,
			IngestTimeoutSecs: 300,
			ListTimeoutSecs:   10,
		},
		Upload:  UploadConfig{MaxSizeMB: 50, DefaultChannel: "general"},
		UI:      UIConfig{Theme: "dark", WordWrap: 80},
		Logging: LoggingConfig{Level: "info"},
		Watch:   WatchConfig{SettleMS: 500},
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

func (c *Config) ChatTimeout() time.Duration   { return seconds(c.Backend.ChatTimeoutSecs) }
func (c *Config) IngestTimeout() time.Duration { return seconds(c.Backend.IngestTimeoutSecs) }
func (c *Config) ListTimeout() time.Duration   { return seconds(c.Backend.ListTimeoutSecs) }

// MaxUploadBytes is the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxSizeMB) << 20
}

// WatchChannel is the channel `skybot watch` uploads into.
func (c *Config) WatchChannel() string {
	if c.Watch.Channel != "" {
		return c.Watch.Channel
	}
	return c.Upload.DefaultChannel
}

func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Watch.SettleMS) * time.Millisecond
}

// LogFile returns the effective log destination.
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "skybot.log")
}

// String renders the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// ConfigDir is ~/.skybot.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".skybot"), nil
}

func configFile(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPathTOML is the preferred config file, ~/.skybot/config.toml.
func ConfigPathTOML() (string, error) { return configFile("config.toml") }

// ConfigPathJSON is the fallback config file, ~/.skybot/config.json.
func ConfigPathJSON() (string, error) { return configFile("config.json") }
