// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Client configuration command.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Display current configuration
//   get <key>           Print one value
//   set <key> <value>   Set a configuration value
//   reset --yes         Reset to default configuration
//   path                Show configuration file path
//   keys                List every settable key
//
// Examples:
//   jarvis config set server.url https://jarvis.example.com
//   jarvis config set history.max_sessions 50
//   jarvis config set ui.theme light
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/kouponize121/Jarvis-AI/internal/config"
)

// ConfigSetData is returned by "config set".
type ConfigSetData struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Path  string      `json:"path"`
}

// HandleConfig handles "jarvis config".
func HandleConfig(e *Env) error {
	p := e.Args.Parser()
	switch sub := p.Subcommand(); sub {
	case "", "show":
		return e.emit("config", e.Config, func(w io.Writer) {
			printConfig(w, e.Config)
		})

	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "jarvis config get server.url")
		}
		v, err := e.Config.Get(key)
		if err != nil {
			return configKeyErr(key, err)
		}
		return e.emit("config", ConfigSetData{Key: key, Value: v}, func(w io.Writer) {
			fmt.Fprintln(w, v)
		})

	case "set":
		key, value := p.Positional(1), JoinPositionalArgs(p, 2)
		if key == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "jarvis config set server.url http://localhost:8001")
		}
		return configSet(e, key, value)

	case "reset":
		ok, err := e.Confirm("Reset the client configuration to defaults.", p.BoolFlag("yes", "y"))
		if err != nil {
			return err
		}
		if !ok {
			return errCancelled
		}
		if err := config.Save(config.Default()); err != nil {
			return err
		}
		return e.emitMessage("config", "Configuration reset to defaults", 0)

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		return e.emit("config", map[string]string{"path": path}, func(w io.Writer) {
			fmt.Fprintln(w, path)
		})

	case "keys":
		keys := config.GetAllKeys()
		return e.emit("config", keys, func(w io.Writer) {
			for _, k := range keys {
				fmt.Fprintln(w, k)
			}
		})

	default:
		return ErrUnknownSubcommand("config", sub)
	}
}

// configSet changes one key in the file on disk. The --server flag of this
// invocation is not saved.
func configSet(e *Env, key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return configKeyErr(key, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	path, _ := config.ConfigPathTOML()
	v, _ := cfg.Get(key)
	return e.emit("config", ConfigSetData{Key: key, Value: v, Path: path}, func(w io.Writer) {
		fmt.Fprintf(w, "%s %s = %v\n", SuccessStyle.Render("[OK]"), key, v)
	})
}

func configKeyErr(key string, err error) error {
	return &ValidationError{Field: "config key", Value: key, Reason: err.Error(), Example: "jarvis config keys"}
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("Jarvis Configuration"))
	if path, err := config.ConfigPathTOML(); err == nil {
		fmt.Fprintln(w, DimStyle.Render(path))
	}
	section := ""
	for _, key := range config.GetAllKeys() {
		field := key
		if name, rest, ok := strings.Cut(key, "."); ok {
			field = rest
			if name != section {
				section = name
				fmt.Fprintln(w)
				fmt.Fprintln(w, SectionStyle.Render("["+section+"]"))
			}
		}
		v, err := cfg.Get(key)
		if err != nil {
			continue
		}
		shown := fmt.Sprint(v)
		if shown == "" {
			shown = DimStyle.Render("(default)")
		}
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Width(24).Render(field), shown)
	}
}

