// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/skybot-tui/internal/model"
	"github.com/jeranaias/skybot-tui/internal/render"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page. User text is
// escaped; answers go through the sanitizing Markdown renderer.
type HTMLExporter struct {
	options  *Options
	renderer *render.HTMLRenderer
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts, renderer: render.NewHTMLRenderer()}
}

// Export converts a transcript to HTML format.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}

	theme := e.options.Theme
	if theme != "light" {
		theme = "dark"
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(t.Title))
	sb.WriteString("    <meta name=\"generator\" content=\"skybot\">\n")
	fmt.Fprintf(&sb, "    <meta name=\"date\" content=\"%s\">\n", t.CreatedAt.Format(time.RFC3339))
	sb.WriteString(stylesheet)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", theme)
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		fmt.Fprintf(&sb, "            <h1>%s</h1>\n", html.EscapeString(t.Title))
		sb.WriteString("            <div class=\"metadata\">\n")
		fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Created:</strong> %s</span>\n", formatTimestamp(t.CreatedAt))
		fmt.Fprintf(&sb, "                <span class=\"meta-item\"><strong>Messages:</strong> %d</span>\n", len(t.Messages))
		sb.WriteString("            </div>\n        </header>\n")
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range t.Messages {
		block, err := e.renderMessage(msg)
		if err != nil {
			return nil, err
		}
		sb.WriteString(block)
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	fmt.Fprintf(&sb, "            <p>Exported from <strong>Skybot</strong> on %s</p>\n",
		t.ExportedAt.Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("        </footer>\n    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

func (e *HTMLExporter) renderMessage(msg *model.Message) (string, error) {
	class := "message " + msg.Type.String() + "-message"
	if msg.IsError {
		class += " error-message"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "            <div class=\"%s\">\n", class)
	sb.WriteString("                <div class=\"message-header\">\n")
	fmt.Fprintf(&sb, "                    <span class=\"role-label\">%s</span>\n", html.EscapeString(roleLabel(msg)))
	if e.options.IncludeTimestamps {
		fmt.Fprintf(&sb, "                    <span class=\"timestamp\">%s</span>\n", formatShortTimestamp(msg.Timestamp))
	}
	sb.WriteString("                </div>\n")
	sb.WriteString("                <div class=\"message-content\">\n")

	if msg.IsUser() {
		fmt.Fprintf(&sb, "<p>%s</p>\n", strings.ReplaceAll(html.EscapeString(msg.Content), "\n", "<br>"))
	} else {
		body, err := e.renderer.Render(msg.Content)
		if err != nil {
			return "", fmt.Errorf("render message %s: %w", msg.ID, err)
		}
		sb.WriteString(body)
	}

	sb.WriteString("                </div>\n            </div>\n")
	return sb.String(), nil
}

// =============================================================================
// EMBEDDED CSS
// =============================================================================

const stylesheet = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            --font-mono: "SF Mono", "Monaco", "Inconsolata", "Fira Code", monospace;
        }
        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --user-bg: #1f2335;
            --accent: #7aa2f7;
            --error: #f7768e;
        }
        .light-theme {
            --bg-primary: #f5f5f5;
            --bg-secondary: #ffffff;
            --text-primary: #1f2328;
            --text-muted: #6e7781;
            --border-color: #d0d7de;
            --user-bg: #e3f2fd;
            --accent: #0969da;
            --error: #cf222e;
        }
        body {
            font-family: var(--font-sans);
            background: var(--bg-primary);
            color: var(--text-primary);
            line-height: 1.6;
        }
        .container { max-width: 900px; margin: 0 auto; padding: 2rem 1rem; }
        .header { border-bottom: 1px solid var(--border-color); margin-bottom: 1.5rem; padding-bottom: 1rem; }
        .metadata { color: var(--text-muted); font-size: 0.9rem; display: flex; gap: 1.5rem; }
        .message {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            margin-bottom: 1rem;
            padding: 1rem;
        }
        .user-message { background: var(--user-bg); margin-left: 15%; }
        .system-message { margin-right: 15%; }
        .error-message { border-color: var(--error); }
        .message-header { display: flex; justify-content: space-between; margin-bottom: 0.5rem; }
        .role-label { font-weight: 600; color: var(--accent); }
        .timestamp { color: var(--text-muted); font-size: 0.8rem; }
        .message-content p { margin-bottom: 0.5rem; }
        .message-content ul { margin: 0.5rem 0 0.5rem 1.5rem; }
        .message-content img { max-width: 100%; margin-top: 0.5rem; }
        .message-content a { color: var(--accent); }
        code, pre { font-family: var(--font-mono); }
        pre { background: var(--bg-primary); padding: 0.75rem; border-radius: 4px; overflow-x: auto; }
        .footer { color: var(--text-muted); font-size: 0.8rem; text-align: center; margin-top: 2rem; }
    </style>
`
