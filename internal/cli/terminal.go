// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - terminal detection and password input.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// fdOf returns the descriptor behind f when f is an *os.File.
func fdOf(f interface{}) (int, bool) {
	file, ok := f.(*os.File)
	if !ok {
		return 0, false
	}
	return int(file.Fd()), true
}

// isTerminal reports whether f is an *os.File attached to a terminal.
func isTerminal(f interface{}) bool {
	fd, ok := fdOf(f)
	return ok && term.IsTerminal(fd)
}

const (
	// DefaultTerminalWidth is the fallback width when detection fails
	DefaultTerminalWidth = 80

	// MinTerminalWidth is the minimum width we'll use for wrapping
	MinTerminalWidth = 40
)

// terminalWidth returns the width of the terminal behind w, or
// DefaultTerminalWidth.
func terminalWidth(w io.Writer) int {
	fd, ok := fdOf(w)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorsEnabled     bool
	colorsEnabledOnce sync.Once
)

// ColorsEnabled returns true if colored output should be used.
// NO_COLOR wins over FORCE_COLOR, which wins over TTY detection.
func ColorsEnabled() bool {
	colorsEnabledOnce.Do(func() {
		switch {
		case os.Getenv("NO_COLOR") != "":
			colorsEnabled = false
		case os.Getenv("FORCE_COLOR") != "":
			colorsEnabled = true
		default:
			colorsEnabled = term.IsTerminal(int(os.Stdout.Fd()))
		}
	})
	return colorsEnabled
}

// GetColorProfile returns Ascii when colors are off, the detected profile
// otherwise.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// INTERACTIVE INPUT
// =============================================================================

// Prompter reads answers from the user.
type Prompter struct {
	in  io.Reader
	out io.Writer
	buf *bufio.Reader
}

// NewPrompter prompts on out and reads from in.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, buf: bufio.NewReader(in)}
}

// Line writes prompt and reads one trimmed line.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.buf.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password reads a secret. On a terminal echo is disabled; otherwise the
// next line of input is taken as is, so scripts can pipe a password in.
func (p *Prompter) Password(prompt string) (string, error) {
	if fd, ok := fdOf(p.in); ok && term.IsTerminal(fd) {
		fmt.Fprint(p.out, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	fmt.Fprint(p.out, prompt)
	line, err := p.buf.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
