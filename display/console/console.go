// Package console adapts one-shot output (status, health) to the terminal
// it is written to: width detection and color suppression for NO_COLOR
// (https://no-color.org/) and pipes.
package console

import (
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Overridable for testing.
var (
	getSize    = term.GetSize
	isTerminal = func(fd uintptr) bool { return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) }
)

// DetectSize returns the dimensions of stdout. It asks the TTY first, then
// COLUMNS/LINES, and finally falls back to 80x24.
func DetectSize() (width, height int) {
	if w, h, err := getSize(os.Stdout.Fd()); err == nil && w > 0 && h > 0 {
		return w, h
	}

	width = envInt("COLUMNS")
	height = envInt("LINES")
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	return width, height
}

func envInt(name string) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return 0
	}
	return n
}

// ShouldDisableColor reports whether NO_COLOR is set or stdout is not a
// terminal.
func ShouldDisableColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return !isTerminal(os.Stdout.Fd())
}

// Apply switches lipgloss to plain text when color should be disabled and
// reports whether color remains enabled.
func Apply() bool {
	if ShouldDisableColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return false
	}
	return true
}
