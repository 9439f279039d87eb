// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError is one bad setting, named by its dotted key.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateErrors collects every bad setting in one pass.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var (
	themes = []string{"dark", "light", "auto"}
	levels = []string{"debug", "info", "warn", "warning", "error"}
)

// Validate reports every out-of-range setting as ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	between := func(field string, v, lo, hi int, unit string) {
		if v < lo || v > hi {
			fail(field, "must be between %d and %d%s, got %d", lo, hi, unit, v)
		}
	}
	oneOf := func(field, v string, allowed []string) {
		if !slices.Contains(allowed, strings.ToLower(v)) {
			fail(field, "invalid value '%s', must be one of: %s", v, strings.Join(allowed, ", "))
		}
	}

	if u, err := url.Parse(c.Backend.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fail("backend.url", "invalid URL '%s', must be an http or https origin", c.Backend.URL)
	}
	between("backend.chat_timeout_secs", c.Backend.ChatTimeoutSecs, 1, 3600, " seconds")
	between("backend.ingest_timeout_secs", c.Backend.IngestTimeoutSecs, 1, 3600, " seconds")
	between("backend.list_timeout_secs", c.Backend.ListTimeoutSecs, 1, 3600, " seconds")
	if c.Backend.RequestsPerSecond < 0 {
		fail("backend.requests_per_second", "cannot be negative")
	}

	between("upload.max_size_mb", c.Upload.MaxSizeMB, 1, 1024, "")

	oneOf("ui.theme", c.UI.Theme, themes)
	between("ui.word_wrap", c.UI.WordWrap, 20, 400, "")

	oneOf("logging.level", c.Logging.Level, levels)

	if c.Watch.SettleMS < 0 {
		fail("watch.settle_ms", "cannot be negative")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
