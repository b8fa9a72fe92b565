// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for proskill.
//
// Configuration is a TOML file with defaults, PROSKILL_* environment
// overrides (via envconfig) and validation.
//
// # Key Types
//
//   - Config: Main configuration structure ([api], [storage], [chat], [ui], [log])
//   - ValidateErrors: Collected field errors, matched by errors.Is(err, ErrInvalid)
//   - Watcher: fsnotify-based live reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (PROSKILL_API_BASE_URL, PROSKILL_LOG_LEVEL, ...)
//   - ~/.proskill/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.New(cfg.API.BaseURL, store, api.WithTimeout(cfg.API.Timeout()))
package config
