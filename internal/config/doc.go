// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates and saves skybot settings. TOML is the
// primary format; JSON is accepted as a fallback.
//
// # Key Types
//
//   - Config: main configuration structure
//   - BackendConfig: backend origin, document path, timeouts, rate limit
//   - UploadConfig: size cap and default channel
//   - UIConfig, LoggingConfig, WatchConfig: front-end and tooling settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Command-line flags (applied by the cli package)
//   - Environment variables (SKYBOT_*)
//   - ~/.skybot/config.toml
//   - ~/.skybot/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := skybot.NewClient(cfg.Backend.URL).
//	    WithTimeouts(cfg.ChatTimeout(), cfg.IngestTimeout(), cfg.ListTimeout())
package config
