// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"slices"
	"strings"
)

// ArgParser splits a command's arguments into flags and positionals.
// Accepted forms: --name value, --name=value, -n value, and bare boolean
// flags. "--" ends flag parsing. A flag named in booleans never consumes
// the next word, so "ask --json what is this" keeps the question intact.
type ArgParser struct {
	values     map[string]string
	switches   map[string]bool
	positional []string
}

// NewArgParser parses raw. booleans lists flag names, without dashes, that
// never take a value.
//
//	p := NewArgParser([]string{"--json", "what", "is", "--channel", "ops"}, "json")
//	p.BoolFlag("json")   // true
//	p.Flag("channel")    // "ops"
//	p.PositionalFrom(0)  // ["what", "is"]
func NewArgParser(raw []string, booleans ...string) *ArgParser {
	p := &ArgParser{
		values:   make(map[string]string),
		switches: make(map[string]bool),
	}
	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		switch {
		case arg == "--":
			p.positional = append(p.positional, raw[i+1:]...)
			return p
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			p.positional = append(p.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		isBool := slices.Contains(booleans, name)
		switch {
		case hasValue && (isBool || value == "true" || value == "false"):
			p.switches[name] = value != "false"
		case hasValue:
			p.values[name] = value
		case !isBool && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-"):
			i++
			p.values[name] = raw[i]
		default:
			p.switches[name] = true
		}
	}
	return p
}

// Subcommand is the first positional argument, or "".
func (p *ArgParser) Subcommand() string { return p.Positional(0) }

// Flag returns the first non-missing value among names, so callers can
// pass a long and a short form.
func (p *ArgParser) Flag(names ...string) string {
	for _, name := range names {
		if v, ok := p.values[strings.TrimLeft(name, "-")]; ok {
			return v
		}
	}
	return ""
}

func (p *ArgParser) FlagOrDefault(name, def string) string {
	if v := p.Flag(name); v != "" {
		return v
	}
	return def
}

// BoolFlag reports whether any of names was given as a switch.
func (p *ArgParser) BoolFlag(names ...string) bool {
	return slices.ContainsFunc(names, func(n string) bool {
		return p.switches[strings.TrimLeft(n, "-")]
	})
}

func (p *ArgParser) Positional(i int) string {
	if i < 0 || i >= len(p.positional) {
		return ""
	}
	return p.positional[i]
}

// PositionalFrom returns the positionals from i on, never nil.
func (p *ArgParser) PositionalFrom(i int) []string {
	if i < 0 || i >= len(p.positional) {
		return []string{}
	}
	return p.positional[i:]
}

func (p *ArgParser) PositionalCount() int { return len(p.positional) }
