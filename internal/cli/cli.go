// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdIngest
	CmdChannels
	CmdWatch
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdIngest:
		return "ingest"
	case CmdChannels:
		return "channels"
	case CmdWatch:
		return "watch"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	default:
		return "help"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Backend    string // --backend overrides backend.url
	ConfigPath string // --config loads this file instead of ~/.skybot
	Verbose    bool   // debug logging to stderr
	JSON       bool

	// Command-specific
	Query      string
	Channel    string
	Path       string // file for ingest, directory for watch
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `skybot - ask questions about your documents

Usage:
  skybot                              Start the terminal UI (default)
  skybot ask "question" [--channel c] Ask a single question
  skybot chat                         Line-mode chat with history
  skybot ingest <file> [--channel c]  Upload one document
  skybot channels                     List backend channels
  skybot watch <dir> [--channel c]    Upload documents as they appear in dir
  skybot config [show|path|init]      Show or create the configuration
  skybot config get <key>             Print one setting
  skybot config set <key> <value>     Change one setting and save
  skybot version                      Show version information
  skybot help                         Show this help

Global Flags:
  --backend URL    Backend origin (default from config, http://localhost:8000)
  --config PATH    Use this config file
  -v, --verbose    Log debug output to stderr
  --json           JSON output for ask and channels

Supported uploads: %s

Examples:
  skybot ask "What is the torque spec for the rotor?"
  skybot ask --channel maintenance "How often is the filter replaced?"
  skybot ingest ./manual.pdf --channel maintenance
  skybot watch ~/Documents/inbox --channel general
  skybot --backend http://skybot.internal:8000 channels --json

Version: %s
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer, supported string) {
	fmt.Fprintf(w, usageText, supported, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "skybot version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask", "a":
		p := NewArgParser(remaining)
		parsed.Channel = p.Flag("channel", "c")
		parsed.Query = strings.Join(p.PositionalFrom(0), " ")
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "ingest", "upload", "i":
		p := NewArgParser(remaining)
		parsed.Channel = p.Flag("channel", "c")
		parsed.Path = p.Positional(0)
		if parsed.Channel == "" && p.PositionalCount() > 1 {
			parsed.Channel = p.Positional(1)
		}
		return CmdIngest, parsed

	case "channels", "ls":
		return CmdChannels, parsed

	case "watch", "w":
		p := NewArgParser(remaining)
		parsed.Channel = p.Flag("channel", "c")
		parsed.Path = p.Positional(0)
		return CmdWatch, parsed

	case "config", "cfg":
		p := NewArgParser(remaining)
		parsed.Subcommand = p.Subcommand()
		parsed.ConfigKey = p.Positional(1)
		parsed.ConfigVal = strings.Join(p.PositionalFrom(2), " ")
		return CmdConfig, parsed

	case "version", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		parsed.Subcommand = cmd
		return CmdHelp, parsed
	}
}

// parseGlobalFlags extracts the flags accepted before or after any command.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--backend", "--config":
			if i+1 < len(args) {
				i++
				if arg == "--backend" {
					parsed.Backend = args[i]
				} else {
					parsed.ConfigPath = args[i]
				}
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--backend="):
				parsed.Backend = strings.TrimPrefix(arg, "--backend=")
			case strings.HasPrefix(arg, "--config="):
				parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsed
}
