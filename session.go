package termgrid

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type sessionState uint8

const (
	stateUninitialized sessionState = iota
	stateRunning
	stateDraining
)

// backend is implemented once per platform (posixBackend, consoleBackend).
// It owns the OS-level terminal/console resources and the input reader
// task; Session drives it and serializes all access with its own mutex.
type backend interface {
	open(s *Session) error
	close(s *Session)
	size() (w, h int)
	flush(s *Session, fullSync bool) error
	setOutputMode(mode OutputMode) error
	setInputMode(mode InputMode)
}

// Session is the active bracket between Init and Close. All exported
// methods on Session are safe for concurrent use except where noted;
// Interrupt is additionally safe from a signal handler.
type Session struct {
	mu    sync.Mutex
	state sessionState

	back  *cellBuffer
	front *cellBuffer

	cursorX, cursorY int
	clearFg, clearBg Attribute

	inputMode  InputMode
	outputMode OutputMode

	widthFn WidthFunc
	caps    *capTable
	cfg     Config
	log     zerolog.Logger

	pump *eventPump
	be   backend

	altTimeout time.Duration
}

// InitOption customizes Init beyond the Config-supplied defaults.
type InitOption func(*Session)

// WithOutputMode sets the initial output mode (default Normal, or the
// Config file's output_mode when one was loaded).
func WithOutputMode(mode OutputMode) InitOption {
	return func(s *Session) { s.outputMode = mode }
}

// WithWidthFunc overrides the width oracle (default: go-runewidth).
func WithWidthFunc(fn WidthFunc) InitOption {
	return func(s *Session) { s.widthFn = fn }
}

// WithLogger redirects diagnostic logging to w (default: discarded).
func WithLogger(w io.Writer) InitOption {
	return func(s *Session) { s.log = newLogger(w) }
}

// WithConfig supplies an explicit Config, bypassing LoadConfig.
func WithConfig(cfg Config) InitOption {
	return func(s *Session) { s.cfg = cfg }
}

// WithTermOverride forces a $TERM value for capability-table resolution,
// useful in tests and for terminals that misreport themselves.
func WithTermOverride(term string) InitOption {
	return func(s *Session) { s.cfg.TermOverride = term }
}

// NewSession allocates a Session without starting a backend. Most callers
// should use the package-level Init facade instead; NewSession exists for
// callers who want more than one independent session's worth of state in
// the same process (still only one may be "open" against the real
// terminal at a time; the package-level Init facade enforces this for its
// own global session, while Session and backend.open do not check it).
// The starting Config comes from LoadConfig(""), falling back to
// DefaultConfig if the file named by TERMGRID_CONFIG cannot be decoded.
func NewSession(opts ...InitOption) *Session {
	cfg, err := LoadConfig("")
	if err != nil {
		cfg = DefaultConfig()
	}
	s := &Session{
		state:      stateUninitialized,
		widthFn:    defaultWidth,
		cfg:        cfg,
		log:        newLogger(nil),
		outputMode: cfg.outputMode(),
		pump:       newEventPump(),
		cursorX:    -1,
		cursorY:    -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.altTimeout == 0 {
		s.altTimeout = time.Duration(s.cfg.AltEscTimeoutMS) * time.Millisecond
	}
	return s
}

// Init opens the backend, allocates back/front buffers at the terminal's
// current size, and starts the input reader task. Re-entrant calls while
// already running return ErrAlreadyInit.
func (s *Session) Init(be backend) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateRunning {
		return ErrAlreadyInit
	}
	s.be = be
	s.inputMode = InputEsc
	if s.outputMode == ModeCurrent {
		s.outputMode = ModeNormal
	}
	s.caps = loadCapTable(s.cfg.TermOverride)

	if err := s.be.open(s); err != nil {
		s.log.Error().Err(err).Msg("backend open failed")
		return err
	}
	w, h := s.be.size()
	s.back = newCellBuffer(w, h)
	s.front = newCellBuffer(w, h)
	s.state = stateRunning
	s.log.Info().Int("w", w).Int("h", h).Msg("session initialized")
	return nil
}

// Close restores original terminal state and stops the input task. Safe
// to call more than once; a second call is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state != stateRunning {
		s.mu.Unlock()
		return
	}
	s.state = stateUninitialized
	be := s.be
	s.mu.Unlock()

	if be != nil {
		be.close(s)
	}
	s.pump.drain()
	s.log.Info().Msg("session closed")
}

func (s *Session) running() bool {
	return s.state == stateRunning
}

// SetCell writes a rune + attributes into the back buffer. Out-of-bounds
// coordinates are silently ignored (I3). Double-width runes placed at the
// last column are truncated (I4): only the leading cell is written.
func (s *Session) SetCell(x, y int, ch rune, fg, bg Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return
	}
	s.setCellLocked(x, y, ch, fg, bg)
}

func (s *Session) setCellLocked(x, y int, ch rune, fg, bg Attribute) {
	if !s.back.inBounds(x, y) {
		return
	}
	w := s.widthFn(ch)
	if w < 1 {
		w = 1
	}
	if w == 2 && x == s.back.width-1 {
		// I4: a wide rune can't straddle the right edge; only the
		// leading cell is written, no trailing cell to reserve.
		s.back.set(x, y, Cell{Ch: ch, Fg: fg, Bg: bg})
		return
	}
	s.back.set(x, y, Cell{Ch: ch, Fg: fg, Bg: bg})
	if w == 2 {
		s.back.set(x+1, y, Cell{Ch: 0, Fg: fg, Bg: bg})
	}
}

// SetChar, SetFg and SetBg are convenience wrappers over SetCell that
// preserve the other two fields of the existing back-buffer cell.
func (s *Session) SetChar(x, y int, ch rune) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return
	}
	c := s.back.get(x, y)
	s.setCellLocked(x, y, ch, c.Fg, c.Bg)
}

func (s *Session) SetFg(x, y int, fg Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return
	}
	c := s.back.get(x, y)
	s.setCellLocked(x, y, c.Ch, fg, c.Bg)
}

func (s *Session) SetBg(x, y int, bg Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return
	}
	c := s.back.get(x, y)
	s.setCellLocked(x, y, c.Ch, c.Fg, bg)
}

// Clear fills the back buffer only; the front buffer (and hence the
// terminal) is untouched until the next Flush.
func (s *Session) Clear(fg, bg Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return
	}
	s.clearFg, s.clearBg = fg, bg
	s.back.clear(fg, bg)
}

// Flush diffs back against front, emits the minimum output to make the
// terminal match, and copies back into front (I2).
func (s *Session) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return ErrUninit
	}
	if err := s.be.flush(s, false); err != nil {
		s.log.Error().Err(err).Msg("flush failed")
		return err
	}
	s.front.copyFrom(s.back)
	return nil
}

// Sync forces a full repaint regardless of the back/front diff.
func (s *Session) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running() {
		return ErrUninit
	}
	if err := s.be.flush(s, true); err != nil {
		return err
	}
	s.front.copyFrom(s.back)
	return nil
}

// Size returns the last known terminal dimensions.
func (s *Session) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.back.width, s.back.height
}

// SetCursor positions the cursor, effective on the next Flush/Sync.
func (s *Session) SetCursor(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorX, s.cursorY = x, y
}

// HideCursor is shorthand for SetCursor(-1, -1).
func (s *Session) HideCursor() {
	s.SetCursor(-1, -1)
}

// SetInputMode sets (and returns) the input mode; InputCurrent queries
// without changing it.
func (s *Session) SetInputMode(mode InputMode) InputMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode != InputCurrent {
		s.inputMode = mode.normalize()
		if s.be != nil {
			s.be.setInputMode(s.inputMode)
		}
	}
	return s.inputMode
}

// SetOutputMode sets (and returns) the output mode; ModeCurrent queries
// without changing it. Changing the mode invalidates every assumption the
// front buffer made about how attributes render, so the next Flush is
// forced to behave like Sync.
func (s *Session) SetOutputMode(mode OutputMode) OutputMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode != ModeCurrent && mode != s.outputMode {
		if s.be != nil {
			if err := s.be.setOutputMode(mode); err != nil {
				s.log.Warn().Err(err).Msg("output mode unsupported, keeping previous mode")
				return s.outputMode
			}
		}
		s.outputMode = mode
		// Poison every front cell so the next Flush treats the whole
		// screen as changed, equivalent to forcing a Sync.
		for i := range s.front.cells {
			s.front.cells[i] = Cell{Ch: 0, Fg: ^Attribute(0), Bg: ^Attribute(0)}
		}
	}
	return s.outputMode
}

// decodeInput runs the decoder against the session's own capability table
// and current input mode, used by the backend reader tasks so they match
// the live terminal rather than the compiled-in fallback that the
// table-free, exported ParseEvent uses.
func (s *Session) decodeInput(data []byte) (Event, int) {
	s.mu.Lock()
	mode := s.inputMode
	caps := s.caps
	s.mu.Unlock()
	d := &decoder{caps: caps}
	return d.parse(data, mode)
}

// PollEvent blocks until the next event, interrupt, or error.
func (s *Session) PollEvent() Event {
	return s.pump.pop()
}

// PollRawEvent returns the next queued event exactly as PollEvent does.
// It does not write to buf and never returns an EventRaw: the backend
// reader decodes all input bytes before they reach the event queue.
func (s *Session) PollRawEvent(buf []byte) Event {
	if ev, ok := s.pump.tryPop(); ok {
		return ev
	}
	return s.pump.pop()
}

// Interrupt causes any in-flight PollEvent to return EventInterrupt. Safe
// to call from any goroutine, including a signal handler.
func (s *Session) Interrupt() {
	s.pump.pushInterrupt()
}

// postFatal transitions the session to Draining, posts one EventError, and
// marks the pump closed so subsequent API calls see ErrUninit.
func (s *Session) postFatal(kind ErrorKind) {
	s.mu.Lock()
	if s.state == stateRunning {
		s.state = stateDraining
	}
	s.mu.Unlock()
	s.pump.push(Event{Type: EventError, Err: kind})
	s.pump.drain()
	s.mu.Lock()
	s.state = stateUninitialized
	s.mu.Unlock()
}
