package cli

import (
	"os"

	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// interactive reports whether stdin is attached to a terminal. Banners are
// skipped when commands are piped in.
func interactive() bool {
	return isTerminal(int(os.Stdin.Fd()))
}
