// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jeranaias/skybot-tui/internal/skybot"
)

// sniffLen is how many leading bytes are used for content detection.
const sniffLen = 3072

// AllowedExtensions lists the document types the backend can ingest, with the
// content type declared when sniffing is inconclusive.
var AllowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".log":  "text/plain",
	".html": "text/html",
	".htm":  "text/html",
}

// extensionOrder is AllowedExtensions in display order.
var extensionOrder = []string{".pdf", ".docx", ".pptx", ".xlsx", ".csv", ".txt", ".md", ".log", ".html", ".htm"}

// ValidationError reports a file whose type is not accepted.
type ValidationError struct {
	Name string
	Ext  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("%s has no file extension; supported types: %s", e.Name, SupportedTypes())
	}
	return fmt.Sprintf("%s files are not supported; supported types: %s", e.Ext, SupportedTypes())
}

// SupportedTypes returns the accepted extensions as a comma-separated list.
func SupportedTypes() string {
	return strings.Join(extensionOrder, ", ")
}

// IsAllowed reports whether name has an accepted extension.
// The comparison is case-insensitive.
func IsAllowed(name string) bool {
	_, ok := AllowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Validate checks name and size locally. It returns *ValidationError for an
// unsupported extension and *skybot.FileTooLargeError when size exceeds limit.
// A non-positive limit disables the size check.
func Validate(name string, size, limit int64) error {
	if !IsAllowed(name) {
		return &ValidationError{Name: name, Ext: strings.ToLower(filepath.Ext(name))}
	}
	if limit > 0 && size > limit {
		return &skybot.FileTooLargeError{Name: name, Size: size, Limit: limit}
	}
	return nil
}

// DetectContentType returns the MIME type declared for an upload. Content
// detection wins unless it only recognizes a generic container, in which case
// the extension decides.
func DetectContentType(name string, head []byte) string {
	declared := AllowedExtensions[strings.ToLower(filepath.Ext(name))]
	if len(head) == 0 && declared != "" {
		return declared
	}

	detected := mimetype.Detect(head).String()
	base, _, _ := strings.Cut(detected, ";")
	switch strings.TrimSpace(base) {
	case "", "application/octet-stream", "application/zip", "text/plain":
		if declared != "" {
			return declared
		}
	}
	if detected == "" {
		return "application/octet-stream"
	}
	return detected
}
