package diagnostics

import (
	"os"

	"golang.org/x/term"
)

// ShouldColorize reports whether diagnostics written to f should carry ANSI
// colors. Color is used only when f is a terminal; on Windows the console is
// switched to VT processing first, and color is disabled if that fails.
func ShouldColorize(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !term.IsTerminal(int(f.Fd())) {
		return false
	}
	return enableVirtualTerminal(f)
}
