//go:build !windows

package main

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// flushTTYInput discards input already queued on tty (terminal query replies,
// keys typed while the config was loading) so the editor does not read them
// as key presses. Failures are ignored.
func flushTTYInput(tty *os.File) {
	fd := int(tty.Fd())
	if fd < 0 {
		return
	}

	// tcflush(fd, TCIFLUSH); TCFLSH is 0x540B on Linux and Darwin.
	const TCFLSH = 0x540B
	_, _, _ = unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(TCFLSH), uintptr(unix.TCIFLUSH))

	// Replies can arrive right after the flush; drain briefly without blocking.
	if err := unix.SetNonblock(fd, true); err != nil {
		return
	}
	defer func() { _ = unix.SetNonblock(fd, false) }()

	deadline := time.Now().Add(100 * time.Millisecond)
	buf := make([]byte, 512)
	for time.Now().Before(deadline) {
		n, err := unix.Read(fd, buf)
		if n > 0 {
			deadline = time.Now().Add(50 * time.Millisecond)
			continue
		}
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		return
	}
}
