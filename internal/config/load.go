// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/skybot-tui/internal/util"
)

// decoder fills cfg from the file at path.
type decoder func(cfg *Config, path string) error

// Load reads ~/.skybot/config.toml, else config.json, else nothing, then
// applies SKYBOT_* overrides and validates. A file that exists but cannot
// be decoded is reported alongside the defaults so callers can warn and
// carry on.
func Load() (*Config, error) {
	var loadErr error
	for _, src := range []struct {
		path   func() (string, error)
		decode decoder
		kind   string
	}{
		{ConfigPathTOML, LoadTOML, "TOML"},
		{ConfigPathJSON, LoadJSON, "JSON"},
	} {
		path, err := src.path()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		cfg := Default()
		if err := src.decode(cfg, path); err != nil {
			loadErr = fmt.Errorf("failed to load %s config: %w", src.kind, err)
			continue
		}
		return finish(cfg)
	}

	cfg, err := finish(Default())
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath reads an explicit config file; .json selects JSON, anything
// else is TOML. Unlike Load, a decode error is fatal.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	decode, kind := decoder(LoadTOML), "TOML"
	if strings.HasSuffix(path, ".json") {
		decode, kind = LoadJSON, "JSON"
	}
	if err := decode(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load %s config from %s: %w", kind, path, err)
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg. Misspelled keys are errors.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		keys := make([]string, 0, len(extra))
		for _, k := range extra {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

func orDefault[T comparable](v *T, def T) {
	var zero T
	if *v == zero {
		*v = def
	}
}

// fillDefaults replaces zero values left by a partial file.
func fillDefaults(cfg *Config) {
	d := Default()
	orDefault(&cfg.Version, d.Version)
	orDefault(&cfg.Backend.URL, d.Backend.URL)
	orDefault(&cfg.Backend.DocumentsPath, d.Backend.DocumentsPath)
	orDefault(&cfg.Backend.ChatTimeoutSecs, d.Backend.ChatTimeoutSecs)
	orDefault(&cfg.Backend.IngestTimeoutSecs, d.Backend.IngestTimeoutSecs)
	orDefault(&cfg.Backend.ListTimeoutSecs, d.Backend.ListTimeoutSecs)
	orDefault(&cfg.Upload.MaxSizeMB, d.Upload.MaxSizeMB)
	orDefault(&cfg.Upload.DefaultChannel, d.Upload.DefaultChannel)
	orDefault(&cfg.UI.Theme, d.UI.Theme)
	orDefault(&cfg.UI.WordWrap, d.UI.WordWrap)
	orDefault(&cfg.Logging.Level, d.Logging.Level)
	orDefault(&cfg.Watch.SettleMS, d.Watch.SettleMS)
}

const tomlHeader = `# skybot configuration file
#
# Environment overrides: SKYBOT_BACKEND_URL, SKYBOT_CHAT_TIMEOUT,
# SKYBOT_DEFAULT_CHANNEL, SKYBOT_LOG_LEVEL, SKYBOT_LOG_FILE, SKYBOT_THEME

`

// SaveTOML writes cfg to path with a short header comment.
func SaveTOML(cfg *Config, path string) error {
	buf := bytes.NewBufferString(tomlHeader)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeConfig(path, buf.Bytes())
}

// SaveJSON writes cfg to path as indented JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeConfig(path, append(data, '\n'))
}

func writeConfig(path string, data []byte) error {
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies SKYBOT_* environment variables:
//
//	SKYBOT_BACKEND_URL      backend.url
//	SKYBOT_CHAT_TIMEOUT     backend.chat_timeout_secs (seconds or a duration like "90s")
//	SKYBOT_DEFAULT_CHANNEL  upload.default_channel
//	SKYBOT_LOG_LEVEL        logging.level
//	SKYBOT_LOG_FILE         logging.file
//	SKYBOT_THEME            ui.theme
func (c *Config) ApplyEnvOverrides() {
	for env, dst := range map[string]*string{
		"SKYBOT_BACKEND_URL":     &c.Backend.URL,
		"SKYBOT_DEFAULT_CHANNEL": &c.Upload.DefaultChannel,
		"SKYBOT_LOG_LEVEL":       &c.Logging.Level,
		"SKYBOT_LOG_FILE":        &c.Logging.File,
		"SKYBOT_THEME":           &c.UI.Theme,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("SKYBOT_CHAT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Backend.ChatTimeoutSecs = secs
		} else if d, err := time.ParseDuration(v); err == nil {
			c.Backend.ChatTimeoutSecs = int(d.Round(time.Second) / time.Second)
		}
	}
}
