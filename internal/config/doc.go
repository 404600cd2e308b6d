// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the jarvis client configuration.
//
// # Configuration Precedence
//
//   - Environment variables (JARVIS_*)
//   - ~/.jarvis/config.toml
//   - ~/.jarvis/config.json
//   - Built-in defaults
//
// JARVIS_HOME moves the whole ~/.jarvis directory, which also holds the
// session file, the transcript database and the log file.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := api.NewClient(cfg.APIBaseURL())
package config
