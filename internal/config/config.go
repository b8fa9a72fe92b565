// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for proskill.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/jeranaias/proskill-tui/internal/util"
)

// EnvPrefix is the prefix for environment overrides (PROSKILL_API_BASE_URL, ...).
const EnvPrefix = "PROSKILL"

// ErrInvalid is matched by every validation failure returned from Load.
var ErrInvalid = errors.New("invalid configuration")

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config is the main configuration structure for proskill.
type Config struct {
	API     APIConfig     `toml:"api" json:"api"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	Chat    ChatConfig    `toml:"chat" json:"chat"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL        string  `toml:"base_url" json:"base_url" split_words:"true"`
	TimeoutSeconds int     `toml:"timeout_seconds" json:"timeout_seconds" split_words:"true"`
	RateLimit      float64 `toml:"rate_limit" json:"rate_limit" split_words:"true"` // requests per second, 0 = unlimited
	RateBurst      int     `toml:"rate_burst" json:"rate_burst" split_words:"true"`
	UserAgent      string  `toml:"user_agent" json:"user_agent" split_words:"true"`
}

// StorageConfig controls where credentials are kept.
type StorageConfig struct {
	// Dir overrides the data directory (default ~/.proskill).
	Dir string `toml:"dir" json:"dir"`
	// DurableDB is the sqlite file holding remembered credentials,
	// relative to Dir unless absolute.
	DurableDB string `toml:"durable_db" json:"durable_db" split_words:"true"`
}

// ChatConfig holds conversation defaults.
type ChatConfig struct {
	AssistantID     int    `toml:"assistant_id" json:"assistant_id" split_words:"true"`
	CharacterID     int    `toml:"character_id" json:"character_id" split_words:"true"`
	AssessmentTitle string `toml:"assessment_title" json:"assessment_title" split_words:"true"`
	PrimingMessage  string `toml:"priming_message" json:"priming_message" split_words:"true"`
	AutoPrime       bool   `toml:"auto_prime" json:"auto_prime" split_words:"true"`
	ErrorReply      string `toml:"error_reply" json:"error_reply" split_words:"true"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Markdown bool   `toml:"markdown" json:"markdown"`
	WordWrap int    `toml:"word_wrap" json:"word_wrap" split_words:"true"`
	Theme    string `toml:"theme" json:"theme"` // auto, dark, light
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `toml:"level" json:"level"`   // debug, info, warn, error
	File   string `toml:"file" json:"file"`     // relative to Storage.Dir unless absolute; "-" for stderr
	Format string `toml:"format" json:"format"` // console, json
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with all default values.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 60,
			RateLimit:      0,
			RateBurst:      1,
			UserAgent:      "proskill-tui",
		},
		Storage: StorageConfig{
			DurableDB: "credentials.db",
		},
		Chat: ChatConfig{
			AssistantID:     1,
			CharacterID:     1,
			AssessmentTitle: "Skill Assessment",
			PrimingMessage:  "Hello, I'm ready to start the skill assessment.",
			AutoPrime:       true,
			ErrorReply:      "Error processing your request",
		},
		UI: UIConfig{
			Markdown: true,
			WordWrap: 80,
			Theme:    "auto",
		},
		Log: LogConfig{
			Level:  "info",
			File:   "proskill.log",
			Format: "console",
		},
	}
}

// Timeout returns the HTTP timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the default proskill data directory (~/.proskill).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".proskill"), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the configured data directory, falling back to Dir().
func (c *Config) DataDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return Dir()
}

// DurableDBPath resolves the sqlite credentials path.
func (c *Config) DurableDBPath() (string, error) {
	return c.resolve(c.Storage.DurableDB)
}

// LogFilePath resolves the log file path. "-" means stderr.
func (c *Config) LogFilePath() (string, error) {
	if c.Log.File == "-" || c.Log.File == "" {
		return c.Log.File, nil
	}
	return c.resolve(c.Log.File)
}

func (c *Config) resolve(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the TOML file at path (the default path when empty), applies
// PROSKILL_* environment overrides and validates the result. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the TOML file at path over the defaults without
// environment overrides or validation. Use it to edit the file in place.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnvOverrides overlays PROSKILL_* environment variables.
// Variables that are not set leave the current value untouched.
func (c *Config) ApplyEnvOverrides() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// Save writes cfg to path as TOML with 0600 permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	var buf bytes.Buffer
	buf.WriteString("# proskill configuration file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// String renders the config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err.Error()
	}
	return buf.String()
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is lets callers match any validation failure with errors.Is(err, ErrInvalid).
func (e ValidateErrors) Is(target error) bool {
	return target == ErrInvalid
}

// Validate checks the configuration and returns ValidateErrors when invalid.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL %q, must be http(s)://host[:port]", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout_seconds", Message: "must not be negative"})
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "api.rate_limit", Message: "must not be negative"})
	}
	if c.API.RateBurst < 0 {
		errs = append(errs, ValidationError{Field: "api.rate_burst", Message: "must not be negative"})
	}
	if c.Storage.DurableDB == "" {
		errs = append(errs, ValidationError{Field: "storage.durable_db", Message: "must not be empty"})
	}
	if strings.TrimSpace(c.Chat.ErrorReply) == "" {
		errs = append(errs, ValidationError{Field: "chat.error_reply", Message: "must not be empty"})
	}
	if c.UI.WordWrap < 0 {
		errs = append(errs, ValidationError{Field: "ui.word_wrap", Message: "must not be negative"})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using its TOML key (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set assigns a configuration value from its string form using its TOML key.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, fmt.Errorf("invalid key %q, expected section.name", key)
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTOMLName(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	if v.Kind() == reflect.Struct {
		return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
	}
	return v, nil
}

func fieldByTOMLName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %v", err)
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %v", err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %v", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("cannot assign to %s", field.Type())
	}
	return nil
}

// Keys returns all configuration keys in dot notation.
func Keys() []string {
	var keys []string
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		section := t.Field(i)
		st := section.Type
		for j := 0; j < st.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+st.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}
