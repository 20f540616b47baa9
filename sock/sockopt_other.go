//go:build !linux

// File: sock/sockopt_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sock

func setNoDelay(fd uintptr) error { return nil }
