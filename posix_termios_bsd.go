//go:build darwin || freebsd || openbsd || netbsd

package termgrid

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)
