package termgrid

import "sync"

// The package-level functions below are a thin process-singleton façade
// over Session, kept for callers who want termbox-style global functions
// instead of owning a *Session value. Exactly one process-wide session may
// be active at a time (spec §5: "exactly one active session").
var (
	globalMu  sync.Mutex
	globalSes *Session
)

// Init opens the default backend for the current OS (POSIX tty or Windows
// console) against a new package-global Session. A second call while
// already active returns ErrAlreadyInit.
func Init(opts ...InitOption) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalSes != nil && globalSes.running() {
		return ErrAlreadyInit
	}
	globalSes = NewSession(opts...)
	return globalSes.Init(newPlatformBackend())
}

// Close tears down the package-global Session.
func Close() {
	globalMu.Lock()
	ses := globalSes
	globalMu.Unlock()
	if ses != nil {
		ses.Close()
	}
}

func current() (*Session, error) {
	globalMu.Lock()
	ses := globalSes
	globalMu.Unlock()
	if ses == nil || !ses.running() {
		return nil, ErrUninit
	}
	return ses, nil
}

func SetCell(x, y int, ch rune, fg, bg Attribute) {
	if ses, err := current(); err == nil {
		ses.SetCell(x, y, ch, fg, bg)
	}
}

func SetChar(x, y int, ch rune) {
	if ses, err := current(); err == nil {
		ses.SetChar(x, y, ch)
	}
}

func SetFg(x, y int, fg Attribute) {
	if ses, err := current(); err == nil {
		ses.SetFg(x, y, fg)
	}
}

func SetBg(x, y int, bg Attribute) {
	if ses, err := current(); err == nil {
		ses.SetBg(x, y, bg)
	}
}

func Clear(fg, bg Attribute) {
	if ses, err := current(); err == nil {
		ses.Clear(fg, bg)
	}
}

func Flush() error {
	ses, err := current()
	if err != nil {
		return err
	}
	return ses.Flush()
}

func Sync() error {
	ses, err := current()
	if err != nil {
		return err
	}
	return ses.Sync()
}

func Size() (int, int) {
	ses, err := current()
	if err != nil {
		return 0, 0
	}
	return ses.Size()
}

func SetCursor(x, y int) {
	if ses, err := current(); err == nil {
		ses.SetCursor(x, y)
	}
}

func HideCursor() {
	if ses, err := current(); err == nil {
		ses.HideCursor()
	}
}

func SetInputMode(mode InputMode) InputMode {
	ses, err := current()
	if err != nil {
		return mode
	}
	return ses.SetInputMode(mode)
}

func SetOutputMode(mode OutputMode) OutputMode {
	ses, err := current()
	if err != nil {
		return mode
	}
	return ses.SetOutputMode(mode)
}

func PollEvent() Event {
	ses, err := current()
	if err != nil {
		return Event{Type: EventError, Err: ErrorKindIO}
	}
	return ses.PollEvent()
}

func PollRawEvent(buf []byte) Event {
	ses, err := current()
	if err != nil {
		return Event{Type: EventError, Err: ErrorKindIO}
	}
	return ses.PollRawEvent(buf)
}

func Interrupt() {
	globalMu.Lock()
	ses := globalSes
	globalMu.Unlock()
	if ses != nil {
		ses.Interrupt()
	}
}
