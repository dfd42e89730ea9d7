package ui

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when stdout is not a terminal and $COLUMNS is unset.
const DefaultTermWidth = 100

// DisplayContext describes where listings are printed.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext inspects stdout. Piped output takes its width from
// $COLUMNS so `gme ls | less` keeps a sensible layout.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	d := &DisplayContext{TermWidth: DefaultTermWidth, IsTTY: term.IsTerminal(fd)}
	if d.IsTTY {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			d.TermWidth = w
			return d
		}
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		d.TermWidth = w
	}
	return d
}

// FixedDisplay returns a context with a set width, for tests.
func FixedDisplay(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width}
}
