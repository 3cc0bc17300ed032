//go:build !windows

package termgrid

import (
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/muesli/cancelreader"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
	"golang.org/x/text/encoding"
)

func newPlatformBackend() backend {
	return &posixBackend{}
}

// posixBackend drives a real terminal via termcap-like escape sequences
// and raw termios, component E of spec §4.E.
type posixBackend struct {
	in, out *os.File
	reader  cancelreader.CancelReader
	orig    *unix.Termios

	sigwinch chan os.Signal
	quit     chan struct{}
	wg       sync.WaitGroup

	compose *posixComposer

	bufMu     sync.Mutex
	buf       []byte
	altTimer  *time.Timer
	legacyDec *encoding.Decoder
}

func (b *posixBackend) open(s *Session) error {
	out, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return errors.Wrap(err, "open /dev/tty for output")
	}
	in, err := os.Open("/dev/tty")
	if err != nil {
		out.Close()
		return errors.Wrap(err, "open /dev/tty for input")
	}
	b.in, b.out = in, out

	if !term.IsTerminal(int(out.Fd())) {
		in.Close()
		out.Close()
		return errors.Wrap(ErrUnsupported, "/dev/tty is not a terminal")
	}

	b.legacyDec = lookupLegacyDecoder(s.cfg.Encoding)

	orig, err := enterRawMode(int(out.Fd()))
	if err != nil {
		in.Close()
		out.Close()
		return errors.Wrap(err, "enter raw mode")
	}
	b.orig = orig

	b.compose = newPosixComposer(out, s.caps)
	b.compose.writeString(s.caps.enterCA)
	b.compose.writeString(s.caps.enterKeypad)
	b.compose.writeString(s.caps.hideCursor)
	b.compose.writeString(s.caps.clearScreen)
	b.compose.flushRaw()

	reader, err := cancelreader.NewReader(in)
	if err != nil {
		reader = &directReader{f: in}
	}
	b.reader = reader

	b.sigwinch = make(chan os.Signal, 4)
	signal.Notify(b.sigwinch, syscall.SIGWINCH)
	b.quit = make(chan struct{})

	b.wg.Add(2)
	go b.readLoop(s)
	go b.resizeLoop(s)

	return nil
}

func (b *posixBackend) close(s *Session) {
	close(b.quit)
	signal.Stop(b.sigwinch)
	if b.reader != nil {
		b.reader.Cancel()
	}
	b.wg.Wait()
	b.bufMu.Lock()
	b.stopAltTimerLocked()
	b.bufMu.Unlock()

	b.compose.writeString(s.caps.sgrReset)
	b.compose.writeString(s.caps.showCurs)
	b.compose.writeString(s.caps.clearScreen)
	b.compose.writeString(s.caps.exitCA)
	b.compose.writeString(s.caps.exitKey)
	if s.inputMode&InputMouse != 0 {
		b.compose.writeString(s.caps.mouseDisable)
	}
	b.compose.flushRaw()

	if b.orig != nil {
		restoreTermios(int(b.out.Fd()), b.orig)
	}
	b.in.Close()
	b.out.Close()
}

func (b *posixBackend) size() (int, int) {
	w, h, err := getWinSize(int(b.out.Fd()))
	if err != nil {
		return 80, 24
	}
	return w, h
}

func (b *posixBackend) setInputMode(mode InputMode) {
	if b.compose == nil {
		return
	}
	// Mouse tracking capability strings are compiled-in (not part of
	// the terminfo table we load), since the enable/disable sequence is
	// the same across the xterm-descended terminal family this decoder
	// targets.
	caps := b.compose.caps
	if mode&InputMouse != 0 {
		b.compose.writeString(caps.mouseEnable)
	} else {
		b.compose.writeString(caps.mouseDisable)
	}
	b.compose.flushRaw()
}

func (b *posixBackend) setOutputMode(mode OutputMode) error {
	return nil
}

func (b *posixBackend) flush(s *Session, fullSync bool) error {
	return b.compose.render(s, fullSync)
}

// readLoop feeds the input reader task: read into a buffer, decode as many
// events as possible with Session.decodeInput, push each to the pump,
// block again.
// A pending incomplete prefix (most commonly a lone ESC that might be the
// start of an Alt-modified key) arms a timer so it isn't held forever
// waiting for bytes that will never come (spec scenario 4, 50ms window).
func (b *posixBackend) readLoop(s *Session) {
	defer b.wg.Done()
	chunk := make([]byte, 128)
	for {
		n, err := b.reader.Read(chunk)
		if n > 0 {
			b.bufMu.Lock()
			b.buf = append(b.buf, transcodeLegacy(b.legacyDec, chunk[:n])...)
			b.drainLocked(s)
			b.bufMu.Unlock()
		}
		if err != nil {
			select {
			case <-b.quit:
				return
			default:
			}
			if errors.Is(err, cancelreader.ErrCanceled) || errors.Is(err, io.EOF) {
				return
			}
			s.postFatal(ErrorKindIO)
			return
		}
	}
}

// drainLocked decodes as many complete events as b.buf currently holds,
// pushing each to the pump, leaving any incomplete trailing prefix in
// place. Callers must hold bufMu.
func (b *posixBackend) drainLocked(s *Session) {
	for len(b.buf) > 0 {
		ev, n := s.decodeInput(b.buf)
		if n == 0 {
			break
		}
		s.pump.push(ev)
		b.buf = b.buf[n:]
	}
	if len(b.buf) > 0 {
		b.resetAltTimerLocked(s)
	} else {
		b.stopAltTimerLocked()
	}
}

// resetAltTimerLocked (re)arms the alt-esc timeout against whatever prefix
// is currently stuck in b.buf. Callers must hold bufMu.
func (b *posixBackend) resetAltTimerLocked(s *Session) {
	if b.altTimer != nil {
		b.altTimer.Stop()
	}
	b.altTimer = time.AfterFunc(s.altTimeout, func() {
		b.bufMu.Lock()
		defer b.bufMu.Unlock()
		b.altTimer = nil
		if len(b.buf) == 0 {
			return
		}
		if b.buf[0] == 0x1b {
			s.pump.push(Event{Type: EventKey, Key: KeyEsc})
			b.buf = b.buf[1:]
			b.drainLocked(s)
			return
		}
		// Some other undecodable prefix (e.g. a truncated UTF-8
		// sequence) that will never complete: drop the lead byte so
		// the reader doesn't stall on it permanently.
		b.buf = b.buf[1:]
		b.drainLocked(s)
	})
}

func (b *posixBackend) stopAltTimerLocked() {
	if b.altTimer != nil {
		b.altTimer.Stop()
		b.altTimer = nil
	}
}

func (b *posixBackend) resizeLoop(s *Session) {
	defer b.wg.Done()
	for {
		select {
		case <-b.quit:
			return
		case <-b.sigwinch:
			w, h := b.size()
			s.mu.Lock()
			s.back.resize(w, h)
			s.front.resize(w, h)
			s.mu.Unlock()
			s.pump.push(Event{Type: EventResize, Width: w, Height: h})
		}
	}
}

// directReader is the fallback used if cancelreader can't wrap /dev/tty on
// this platform; it relies on VMIN=0/VTIME=0 making Read non-blocking-ish,
// same as the original termbox reader goroutine.
type directReader struct{ f *os.File }

func (d *directReader) Read(p []byte) (int, error) { return d.f.Read(p) }
func (d *directReader) Cancel() bool                { return false }
func (d *directReader) Close() error                { return nil }
