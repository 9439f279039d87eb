// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/jeranaias/skybot-tui/internal/util"
)

// maxFileCompletions caps directory listings in the popup.
const maxFileCompletions = 20

// Completer suggests command names, enum values, channel names and file
// paths for the token under the cursor.
type Completer struct {
	registry *Registry

	// ChannelsFn returns the known channel names. It is called on every
	// completion so newly added channels show up immediately.
	ChannelsFn func() []string
}

func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns ranked suggestions for input up to cursorPos. Plain text
// gets none.
func (c *Completer) Complete(input string, cursorPos int) []Completion {
	if cursorPos < len(input) {
		input = input[:cursorPos]
	}
	input = strings.TrimLeftFunc(input, unicode.IsSpace)
	if !IsCommand(input) {
		return nil
	}

	tokens := splitCommandLine(input)
	// A trailing space means the current token is finished and the next
	// one, still empty, is being typed.
	fresh := strings.HasSuffix(input, " ")
	if fresh {
		tokens = append(tokens, "")
	}
	if len(tokens) <= 1 {
		name := ""
		if len(tokens) == 1 {
			name = tokens[0]
		}
		return c.commandNames(name)
	}

	cmd := c.registry.Get(tokens[0])
	if cmd == nil {
		return nil
	}
	pos := len(tokens) - 2
	if pos >= len(cmd.Args) {
		return nil
	}
	return c.argValues(cmd.Args[pos], tokens[len(tokens)-1])
}

func (c *Completer) commandNames(prefix string) []Completion {
	var out []Completion
	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}
		if hasFoldPrefix(cmd.Name, prefix) {
			out = append(out, Completion{
				Value:       cmd.Name,
				Display:     cmd.Name,
				Description: cmd.Description,
				Score:       rank(cmd.Name, prefix),
			})
		}
		for _, alias := range cmd.Aliases {
			if hasFoldPrefix(alias, prefix) {
				out = append(out, Completion{
					Value:       alias,
					Display:     alias + " -> " + cmd.Name,
					Description: cmd.Description,
					Score:       rank(alias, prefix) - 10,
				})
			}
		}
	}
	sortCompletions(out)
	return out
}

func (c *Completer) argValues(def ArgDef, partial string) []Completion {
	switch def.Type {
	case ArgTypeFile:
		return filePaths(partial)
	case ArgTypeEnum:
		return fromList(def.Values, partial)
	case ArgTypeChannel:
		return fromList(c.channelNames(), partial)
	case ArgTypeFilter:
		return fromList(append([]string{"all"}, c.channelNames()...), partial)
	}
	return nil
}

func (c *Completer) channelNames() []string {
	if c.ChannelsFn == nil {
		return nil
	}
	return c.ChannelsFn()
}

// filePaths lists entries of the directory partial points into. Dotfiles
// are skipped unless the prefix asks for them.
func filePaths(partial string) []Completion {
	dir, prefix := filepath.Split(partial)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []Completion
	for _, entry := range entries {
		name := entry.Name()
		if !hasFoldPrefix(name, prefix) || (strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".")) {
			continue
		}
		comp := Completion{
			Value:   filepath.Join(dir, name),
			Display: name,
			Score:   rank(name, prefix),
		}
		if entry.IsDir() {
			comp.Value += string(os.PathSeparator)
			comp.Description = "directory"
			comp.Score += 5
		} else if info, err := entry.Info(); err == nil {
			comp.Description = util.FormatBytes(info.Size())
		}
		out = append(out, comp)
	}
	sortCompletions(out)
	if len(out) > maxFileCompletions {
		out = out[:maxFileCompletions]
	}
	return out
}

func fromList(values []string, partial string) []Completion {
	var out []Completion
	for _, v := range values {
		if hasFoldPrefix(v, partial) {
			out = append(out, Completion{Value: v, Display: v, Score: rank(v, partial)})
		}
	}
	sortCompletions(out)
	return out
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// rank favors exact matches, then shorter candidates.
func rank(value, partial string) int {
	if strings.EqualFold(value, partial) {
		return 200
	}
	return 170 - len(value) - len(value)/2
}

func sortCompletions(comps []Completion) {
	sort.SliceStable(comps, func(i, j int) bool {
		if comps[i].Score != comps[j].Score {
			return comps[i].Score > comps[j].Score
		}
		return comps[i].Value < comps[j].Value
	})
}

// ApplyCompletion replaces the token being typed at the end of input with
// value.
func ApplyCompletion(input, value string) string {
	if input == "" || strings.HasSuffix(input, " ") {
		return input + value
	}
	idx := strings.LastIndexFunc(input, unicode.IsSpace)
	return input[:idx+1] + value
}

// LineCompletions returns whole-line candidates for the REPL line editor.
func (c *Completer) LineCompletions(line string) []string {
	comps := c.Complete(line, len(line))
	out := make([]string, 0, len(comps))
	for _, comp := range comps {
		out = append(out, ApplyCompletion(line, comp.Value))
	}
	return out
}
