// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser splits command arguments into a subcommand, positionals and
// flags. It handles:
//   - Long flags: --flag value or --flag=value
//   - Boolean flags: --flag (only for names passed to NewArgParser)
//   - Positional arguments: everything else
//
// Declaring the boolean names keeps "--training 5" from swallowing the 5.
type ArgParser struct {
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// NewArgParser parses raw. bools lists the flags that never take a value.
//
// Example:
//
//	p := NewArgParser([]string{"rename", "12", "Q3 review", "--training"}, "training")
//	p.Subcommand()      // "rename"
//	p.Positional(1)     // "12"
//	p.BoolFlag("training") // true
func NewArgParser(raw []string, bools ...string) *ArgParser {
	isBool := make(map[string]bool, len(bools))
	for _, b := range bools {
		isBool[b] = true
	}
	p := &ArgParser{
		flags:     make(map[string]string),
		boolFlags: make(map[string]bool),
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positional = append(p.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		switch {
		case isBool[name]:
			b := true
			if hasValue {
				b, _ = ParseBoolString(value)
			}
			p.boolFlags[name] = b
		case hasValue:
			p.flags[name] = value
		case i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "--"):
			p.flags[name] = raw[i+1]
			i++
		default:
			p.boolFlags[name] = true
		}
	}
	return p
}

// Subcommand returns the first positional argument, lower-cased.
func (p *ArgParser) Subcommand() string {
	return strings.ToLower(p.Positional(0))
}

// Flag returns the value of a string flag, or "".
func (p *ArgParser) Flag(name string) string {
	return p.flags[name]
}

// FlagInt returns a positive integer flag. A missing flag yields def.
func (p *ArgParser) FlagInt(name string, def int) (int, error) {
	v, ok := p.flags[name]
	if !ok {
		return def, nil
	}
	return ParseID(v, "--"+name)
}

// BoolFlag reports whether a boolean flag was set.
func (p *ArgParser) BoolFlag(name string) bool {
	return p.boolFlags[name]
}

// Positional returns the positional argument at index, or "".
// Index 0 is the subcommand.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalFrom joins the positional arguments from index on.
func (p *ArgParser) PositionalFrom(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return strings.Join(p.positional[index:], " ")
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}

// =============================================================================
// HELPERS
// =============================================================================

// ParseID parses a positive integer id.
func ParseID(s, field string) (int, error) {
	if s == "" {
		return 0, &UsageError{Message: field + " is required"}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, &UsageError{Message: fmt.Sprintf("%s must be a positive integer, got %q", field, s)}
	}
	return v, nil
}

// ParseBoolString parses a boolean from true/false, yes/no, y/n, 1/0 or
// on/off.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", s)
}
