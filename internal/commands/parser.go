// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseResult is one line of composer input split into a command and its
// arguments. Plain questions come back with IsCommand false.
type ParseResult struct {
	IsCommand   bool
	Command     *Command // nil when CommandName is not registered
	CommandName string
	Args        []string
	RawInput    string
	RawArgs     string // text after the command name, quotes intact
}

// Parser resolves slash commands against a registry.
type Parser struct {
	registry *Registry
}

func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse splits input into tokens and looks up the command. Channel names
// and file paths with spaces need quoting: /channel add "Project X".
func (p *Parser) Parse(input string) ParseResult {
	line := strings.TrimSpace(input)
	res := ParseResult{RawInput: line, IsCommand: IsCommand(line)}
	if !res.IsCommand {
		return res
	}

	tokens := splitCommandLine(line)
	if len(tokens) == 0 {
		return res
	}
	res.CommandName = tokens[0]
	res.Args = tokens[1:]
	if len(res.Args) == 0 {
		res.Args = nil
	}

	// The name never contains quotes, so the first whitespace ends it.
	if cut := strings.IndexFunc(line, unicode.IsSpace); cut > 0 {
		res.RawArgs = strings.TrimSpace(line[cut:])
	}

	res.Command = p.registry.Get(res.CommandName)
	return res
}

// IsCommand reports whether input is a slash command rather than a question.
func IsCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

// splitCommandLine tokenizes on whitespace. Single or double quotes group a
// token; inside quotes a backslash escapes a quote or another backslash.
// Outside quotes backslashes are literal so Windows paths survive.
func splitCommandLine(input string) []string {
	var (
		tokens  []string
		tok     strings.Builder
		quote   rune
		started bool
	)
	flush := func() {
		if started {
			tokens = append(tokens, tok.String())
			tok.Reset()
			started = false
		}
	}

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0 && r == '\\' && i+1 < len(runes) && strings.ContainsRune(`"'\`, runes[i+1]):
			i++
			tok.WriteRune(runes[i])
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
			started = true
		case quote == 0 && unicode.IsSpace(r):
			flush()
		default:
			tok.WriteRune(r)
			started = true
		}
	}
	flush()
	return tokens
}

// ValidateArgs checks positional args against cmd's definitions: required
// args must be present and enum args must name one of their values.
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}
	for i, def := range cmd.Args {
		if i >= len(args) {
			if def.Required {
				return &ValidationError{Command: cmd.Name, Arg: def.Name, Message: "missing " + def.Name, Expected: cmd.Usage}
			}
			continue
		}
		if !def.accepts(args[i]) {
			return &ValidationError{
				Command:  cmd.Name,
				Arg:      def.Name,
				Message:  "invalid " + def.Name,
				Got:      args[i],
				Expected: strings.Join(def.Values, ", "),
			}
		}
	}
	return nil
}

// accepts reports whether v is allowed for the argument. Only enums are
// checked here; paths and channels are validated by their handlers.
func (d ArgDef) accepts(v string) bool {
	if d.Type != ArgTypeEnum || len(d.Values) == 0 {
		return true
	}
	for _, allowed := range d.Values {
		if strings.EqualFold(v, allowed) {
			return true
		}
	}
	return false
}

// ValidationError is a slash command used with bad arguments.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Command, e.Message)
	if e.Got != "" {
		fmt.Fprintf(&b, " %q", e.Got)
	}
	if e.Expected != "" {
		if e.Got != "" {
			fmt.Fprintf(&b, " (want one of: %s)", e.Expected)
		} else {
			fmt.Fprintf(&b, " (usage: %s)", e.Expected)
		}
	}
	return b.String()
}
