// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger shared by proskill packages.
//
// The TUI owns the terminal, so logs go to a file under the data directory
// by default. Line-mode commands may tee to stderr with --verbose.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/proskill-tui/internal/config"
)

// Options controls logger construction.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console, json
	File   string // path, "-" for stderr, "" to discard
	Stderr bool   // also write to stderr
}

// FromConfig derives Options from the loaded configuration.
func FromConfig(cfg *config.Config, verbose bool) (Options, error) {
	file, err := cfg.LogFilePath()
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   file,
		Stderr: verbose,
	}
	if verbose {
		opts.Level = "debug"
	}
	return opts, nil
}

// New builds a logger from opts. With no outputs it returns zap.NewNop().
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var outputs []string
	switch opts.File {
	case "":
	case "-":
		outputs = append(outputs, "stderr")
	default:
		if err := os.MkdirAll(filepath.Dir(opts.File), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		outputs = append(outputs, opts.File)
	}
	if opts.Stderr && opts.File != "-" {
		outputs = append(outputs, "stderr")
	}
	if len(outputs) == 0 {
		return zap.NewNop(), nil
	}

	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(opts.Format, "console") {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Development = false
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = outputs
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.DisableStacktrace = true

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a config level name onto a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
