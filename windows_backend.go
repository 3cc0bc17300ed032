//go:build windows

package termgrid

import (
	"sync"
	"syscall"
	"unsafe"

	"github.com/erikgeiser/coninput"
)

var (
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procGetConsoleScreenBufferInfo = kernel32.NewProc("GetConsoleScreenBufferInfo")
	procSetConsoleCursorPosition   = kernel32.NewProc("SetConsoleCursorPosition")
	procSetConsoleCursorInfo       = kernel32.NewProc("SetConsoleCursorInfo")
	procWriteConsoleOutputW        = kernel32.NewProc("WriteConsoleOutputW")
	procGetConsoleMode             = kernel32.NewProc("GetConsoleMode")
	procSetConsoleMode             = kernel32.NewProc("SetConsoleMode")
)

const (
	enableExtendedFlags   = 0x0080
	enableWindowInput     = 0x0008
	enableMouseInput      = 0x0010
	enableProcessedInput  = 0x0001
	enableLineInput       = 0x0002
	enableEchoInput       = 0x0004
)

type coord struct{ x, y int16 }
type smallRect struct{ left, top, right, bottom int16 }

type consoleScreenBufferInfo struct {
	size              coord
	cursorPosition    coord
	attributes        uint16
	window            smallRect
	maximumWindowSize coord
}

type charInfo struct {
	char uint16
	attr uint16
}

func newPlatformBackend() backend {
	return &consoleBackend{}
}

// consoleBackend drives the terminal via the Win32 console API (component
// F, spec §4.F): ReadConsoleInput for input, WriteConsoleOutput for
// output, CHAR_INFO cells as the device-side mirror of the cell buffer.
type consoleBackend struct {
	hin, hout syscall.Handle

	origInMode  uint32
	origCursorX int16
	origCursorY int16

	quit chan struct{}
	wg   sync.WaitGroup

	mouseEnabled bool
	altPending   bool
}

func (b *consoleBackend) open(s *Session) error {
	hin, err := syscall.GetStdHandle(syscall.STD_INPUT_HANDLE)
	if err != nil {
		return err
	}
	hout, err := syscall.GetStdHandle(syscall.STD_OUTPUT_HANDLE)
	if err != nil {
		return err
	}
	b.hin, b.hout = hin, hout

	var mode uint32
	if err := getConsoleMode(b.hin, &mode); err == nil {
		b.origInMode = mode
	}
	newMode := uint32(enableExtendedFlags | enableWindowInput)
	setConsoleMode(b.hin, newMode)

	b.quit = make(chan struct{})
	b.wg.Add(1)
	go b.readLoop(s)

	return nil
}

func (b *consoleBackend) close(s *Session) {
	close(b.quit)
	b.wg.Wait()
	setConsoleMode(b.hin, b.origInMode)
}

func (b *consoleBackend) size() (int, int) {
	var info consoleScreenBufferInfo
	if err := getConsoleScreenBufferInfo(b.hout, &info); err != nil {
		return 80, 24
	}
	return int(info.window.right-info.window.left) + 1,
		int(info.window.bottom-info.window.top) + 1
}

func (b *consoleBackend) setInputMode(mode InputMode) {
	newMode := uint32(enableExtendedFlags | enableWindowInput)
	if mode&InputMouse != 0 {
		newMode |= enableMouseInput
		b.mouseEnabled = true
	} else {
		b.mouseEnabled = false
	}
	setConsoleMode(b.hin, newMode)
}

func (b *consoleBackend) setOutputMode(mode OutputMode) error {
	// Legacy CHAR_INFO attributes cannot carry 24-bit RGB; RGB mode is
	// approximated by nearest-16-color mapping in the composer rather
	// than rejected outright, matching spec §4.F's "emulated ... by
	// nearest-16-color mapping" clause.
	return nil
}

func (b *consoleBackend) flush(s *Session, fullSync bool) error {
	return renderConsole(b, s, fullSync)
}

// readLoop calls ReadConsoleInputW via the coninput helper, translating
// each typed record (KEY_EVENT, MOUSE_EVENT, WINDOW_BUFFER_SIZE_EVENT) to
// the same event shapes the POSIX decoder produces.
func (b *consoleBackend) readLoop(s *Session) {
	defer b.wg.Done()
	for {
		select {
		case <-b.quit:
			return
		default:
		}

		records, err := coninput.ReadConsoleInput(b.hin, 16)
		if err != nil {
			s.postFatal(ErrorKindIO)
			return
		}
		for _, rec := range records {
			switch e := rec.Unwrap().(type) {
			case coninput.KeyEventRecord:
				if ev, ok := b.translateKey(s, e); ok {
					for i := uint16(0); i < e.RepeatCount; i++ {
						s.pump.push(ev)
					}
				}
			case coninput.WindowBufferSizeEventRecord:
				w, h := int(e.Size.X), int(e.Size.Y)
				s.mu.Lock()
				s.back.resize(w, h)
				s.front.resize(w, h)
				s.mu.Unlock()
				s.pump.push(Event{Type: EventResize, Width: w, Height: h})
			case coninput.MouseEventRecord:
				if b.mouseEnabled {
					s.pump.push(b.translateMouse(e))
				}
			}
		}
	}
}

func (b *consoleBackend) translateKey(s *Session, e coninput.KeyEventRecord) (Event, bool) {
	if !e.KeyDown {
		return Event{}, false
	}
	ev := Event{Type: EventKey}
	s.mu.Lock()
	mode := s.inputMode
	s.mu.Unlock()

	ctrl := e.ControlKeyState&(coninput.LEFT_CTRL_PRESSED|coninput.RIGHT_CTRL_PRESSED) != 0
	alt := e.ControlKeyState&(coninput.LEFT_ALT_PRESSED|coninput.RIGHT_ALT_PRESSED) != 0
	if mode&InputAlt != 0 && alt {
		ev.Mod = ModAlt
	}

	if key, ok := vkToKey[e.VirtualKeyCode]; ok {
		ev.Key = key
		return ev, true
	}
	if ctrl && e.Char >= 'a' && e.Char <= 'z' {
		ev.Key = Key(e.Char - 'a' + 1)
		return ev, true
	}
	if e.Char != 0 {
		ev.Ch = e.Char
		return ev, true
	}
	return Event{}, false
}

func (b *consoleBackend) translateMouse(e coninput.MouseEventRecord) Event {
	button := MouseNone
	switch {
	case e.ButtonState&coninput.FROM_LEFT_1ST_BUTTON_PRESSED != 0:
		button = MouseLeft
	case e.ButtonState&coninput.RIGHTMOST_BUTTON_PRESSED != 0:
		button = MouseRight
	case e.ButtonState == 0:
		button = MouseRelease
	}
	if e.EventFlags&coninput.MOUSE_WHEELED != 0 {
		if int32(e.ButtonState) > 0 {
			button = MouseWheelUp
		} else {
			button = MouseWheelDown
		}
	}
	return Event{Type: EventMouse, MouseButton: button, X: int(e.MousePositon.X), Y: int(e.MousePositon.Y)}
}

var vkToKey = map[uint16]Key{
	0x70: KeyF1, 0x71: KeyF2, 0x72: KeyF3, 0x73: KeyF4,
	0x74: KeyF5, 0x75: KeyF6, 0x76: KeyF7, 0x77: KeyF8,
	0x78: KeyF9, 0x79: KeyF10, 0x7A: KeyF11, 0x7B: KeyF12,
	0x2D: KeyInsert, 0x2E: KeyDelete, 0x24: KeyHome, 0x23: KeyEnd,
	0x21: KeyPgUp, 0x22: KeyPgDn,
	0x26: KeyArrowUp, 0x28: KeyArrowDown, 0x25: KeyArrowLeft, 0x27: KeyArrowRight,
	0x08: KeyBackspace, 0x09: KeyTab, 0x0D: KeyEnter, 0x1B: KeyEsc, 0x20: KeySpace,
}

func getConsoleScreenBufferInfo(h syscall.Handle, info *consoleScreenBufferInfo) error {
	r, _, e := procGetConsoleScreenBufferInfo.Call(uintptr(h), uintptr(unsafe.Pointer(info)))
	if r == 0 {
		return e
	}
	return nil
}

func setConsoleCursorPosition(h syscall.Handle, pos coord) error {
	r, _, e := procSetConsoleCursorPosition.Call(uintptr(h), uintptr(*(*int32)(unsafe.Pointer(&pos))))
	if r == 0 {
		return e
	}
	return nil
}

func setConsoleCursorVisible(h syscall.Handle, visible bool) error {
	type cursorInfo struct {
		size    uint32
		visible int32
	}
	v := int32(0)
	if visible {
		v = 1
	}
	info := cursorInfo{size: 100, visible: v}
	r, _, e := procSetConsoleCursorInfo.Call(uintptr(h), uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return e
	}
	return nil
}

func getConsoleMode(h syscall.Handle, mode *uint32) error {
	r, _, e := procGetConsoleMode.Call(uintptr(h), uintptr(unsafe.Pointer(mode)))
	if r == 0 {
		return e
	}
	return nil
}

func setConsoleMode(h syscall.Handle, mode uint32) error {
	r, _, e := procSetConsoleMode.Call(uintptr(h), uintptr(mode))
	if r == 0 {
		return e
	}
	return nil
}

func writeConsoleOutput(h syscall.Handle, buf []charInfo, size, coordPos coord, region *smallRect) error {
	r, _, e := procWriteConsoleOutputW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(*(*int32)(unsafe.Pointer(&size))),
		uintptr(*(*int32)(unsafe.Pointer(&coordPos))),
		uintptr(unsafe.Pointer(region)),
	)
	if r == 0 {
		return e
	}
	return nil
}
