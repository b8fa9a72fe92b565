// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jeranaias/proskill-tui/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "proskill.log")

	logger, err := New(Options{Level: "info", Format: "json", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("request done", zap.Int("status", 200))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"request done"`) || !strings.Contains(out, `"status":200`) {
		t.Errorf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestNew_NoOutputsIsNop(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("expected a no-op logger")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()

	opts, err := FromConfig(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Level != "debug" || !opts.Stderr {
		t.Errorf("verbose should force debug + stderr, got %+v", opts)
	}
	if opts.File != filepath.Join(cfg.Storage.Dir, "proskill.log") {
		t.Errorf("file = %s", opts.File)
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Error("OrNop should return the given logger")
	}
}
