// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLRenderer converts markdown to sanitized HTML. It is safe for
// concurrent use.
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLRenderer creates a renderer with GitHub-flavored markdown.
//
// The sanitizer owns link attributes: fully qualified links get
// target="_blank" and rel="nofollow noopener", relative links get
// rel="nofollow" and stay in the page.
func NewHTMLRenderer() *HTMLRenderer {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	policy := bluemonday.UGCPolicy()
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &HTMLRenderer{md: md, policy: policy}
}

// Render converts markdown to sanitized HTML.
func (r *HTMLRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
