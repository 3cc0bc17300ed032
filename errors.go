package termgrid

import "errors"

// Sentinel errors matching the taxonomy in spec §7. Wrap with %w (or
// pkg/errors.Wrap at a backend boundary, where the teacher idiom favors a
// stack trace) so the underlying OS cause survives errors.Is/As.
var (
	// ErrAlreadyInit is returned by Init when a session is already running.
	ErrAlreadyInit = errors.New("termgrid: already initialized")

	// ErrUninit is returned by any API used before Init or after Close,
	// and by any call made after a fatal backend error drains the session.
	ErrUninit = errors.New("termgrid: not initialized")

	// ErrUnsupported is the sentinel for something the backend cannot
	// drive. The POSIX backend returns it (wrapped) from Init when
	// /dev/tty is not a terminal. Neither backend refuses an output mode:
	// the Windows console approximates RGB and palette modes with its 16
	// colors.
	ErrUnsupported = errors.New("termgrid: output mode unsupported by backend")

	// errInterrupted is not returned to callers as an error value; it is
	// surfaced as an Event{Type: EventInterrupt}. It exists so internal
	// plumbing can use the standard error-channel pattern uniformly.
	errInterrupted = errors.New("termgrid: interrupted")
)
