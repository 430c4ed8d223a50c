//go:build windows

package main

import "os"

// flushTTYInput is a no-op on Windows; the console input buffer is not
// shared with terminal query replies the way a Unix tty is.
func flushTTYInput(_ *os.File) {}
