// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Show and edit the configuration file.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/skybot-tui/internal/config"
)

// HandleConfig runs `skybot config [show|path|init|get|set]`. It works
// without a backend, so it takes the writers directly.
func HandleConfig(out io.Writer, args Args) error {
	switch strings.ToLower(args.Subcommand) {
	case "", "show":
		cfg, err := LoadConfig(args)
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse(CmdConfig.String(), cfg).Write(out)
		}
		for _, key := range config.GetAllKeys() {
			val, _ := cfg.Get(key)
			fmt.Fprintf(out, "%-28s %v\n", key, val)
		}
		return nil

	case "path":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		return nil

	case "init":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := saveConfig(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s Wrote %s\n", successLabel("[OK]"), path)
		return nil

	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("key", "skybot config get backend.url")
		}
		cfg, err := LoadConfig(args)
		if err != nil {
			return err
		}
		val, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return &ValidationError{Field: "key", Value: args.ConfigKey, Reason: err.Error()}
		}
		fmt.Fprintln(out, val)
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return ErrMissingArgument("key and value", "skybot config set backend.url http://skybot.internal:8000")
		}
		cfg, err := LoadConfig(Args{ConfigPath: args.ConfigPath})
		if err != nil {
			return err
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return &ValidationError{Field: args.ConfigKey, Value: args.ConfigVal, Reason: err.Error()}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		path, err := configPath(args)
		if err != nil {
			return err
		}
		if err := saveConfig(cfg, path); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s = %s\n", successLabel("[OK]"), args.ConfigKey, args.ConfigVal)
		return nil

	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "must be one of show, path, init, get, set",
			Example: "skybot config show",
		}
	}
}

func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func saveConfig(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
