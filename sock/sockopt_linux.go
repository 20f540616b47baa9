//go:build linux

// File: sock/sockopt_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sock

import "golang.org/x/sys/unix"

// setNoDelay disables Nagle so small transport writes hit the wire
// without coalescing delay.
func setNoDelay(fd uintptr) error {
	return unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
}
