//go:build !windows

package diagnostics

import "os"

// enableVirtualTerminal is a no-op on platforms whose terminals always
// understand VT escape sequences.
func enableVirtualTerminal(_ *os.File) bool {
	return true
}
