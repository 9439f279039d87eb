// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns chat responses into markdown and renders that
// markdown as sanitized HTML or as ANSI text for terminals.
package render

import (
	"net/url"
	"strings"

	"github.com/jeranaias/skybot-tui/internal/skybot"
)

// DefaultDocumentsPath is where the backend serves source documents.
const DefaultDocumentsPath = "/static/documents"

// Options controls how links in a composed answer are built.
type Options struct {
	// BaseURL is the backend origin used to resolve relative links.
	BaseURL string

	// DocumentsPath is the path, relative to BaseURL, that serves source
	// documents. Empty means DefaultDocumentsPath.
	DocumentsPath string
}

// DedupCitations drops repeated (source, page) pairs, keeping the first
// occurrence of each in order.
func DedupCitations(citations []skybot.Citation) []skybot.Citation {
	if len(citations) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(citations))
	out := make([]skybot.Citation, 0, len(citations))
	for _, c := range citations {
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// Compose builds the markdown shown for a chat response: the answer, then a
// Sources list, then Related Diagrams.
func Compose(resp *skybot.ChatResponse, opts Options) string {
	if resp == nil {
		return skybot.NoResponseAnswer
	}

	var b strings.Builder
	b.WriteString(resp.Answer)

	if citations := DedupCitations(resp.Citations); len(citations) > 0 {
		b.WriteString("\n\n**Sources:**\n")
		for i, c := range citations {
			if i > 0 {
				b.WriteByte('\n')
			}
			label := escapeLinkText(c.Source) + " (Page " + escapeLinkText(c.Page) + ")"
			b.WriteString("- [" + label + "](" + escapeLinkDest(DocumentURL(opts, c)) + ")")
		}
	}

	if len(resp.Images) > 0 {
		b.WriteString("\n\n**Related Diagrams:**\n")
		for _, img := range resp.Images {
			b.WriteString("\n![Diagram](" + escapeLinkDest(ResolveURL(opts.BaseURL, img)) + ")")
		}
	}

	return b.String()
}

// DocumentURL links to the cited page of a source document.
func DocumentURL(opts Options, c skybot.Citation) string {
	docs := opts.DocumentsPath
	if docs == "" {
		docs = DefaultDocumentsPath
	}
	ref := "/" + strings.Trim(docs, "/") + "/" + url.PathEscape(c.Source)
	if c.Page != "" && c.Page != "?" {
		ref += "#page=" + url.QueryEscape(c.Page)
	}
	return ResolveURL(opts.BaseURL, ref)
}

// ResolveURL resolves ref against base. Absolute references, and any
// reference when base is unusable, are returned unchanged.
func ResolveURL(base, ref string) string {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	if r.IsAbs() || base == "" {
		return r.String()
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return r.String()
	}
	return b.ResolveReference(r).String()
}

var linkTextEscaper = strings.NewReplacer(
	`\`, `\\`,
	`[`, `\[`,
	`]`, `\]`,
	"*", `\*`,
	"`", "\\`",
)

func escapeLinkText(s string) string {
	return linkTextEscaper.Replace(s)
}

// Percent-encoded forms of the characters that end or split a markdown link
// destination. The URL still resolves to the same resource.
var linkDestEscaper = strings.NewReplacer(
	" ", "%20",
	"(", "%28",
	")", "%29",
	"<", "%3C",
	">", "%3E",
	"\n", "%0A",
)

func escapeLinkDest(s string) string {
	return linkDestEscaper.Replace(s)
}
