package termgrid

// EventType distinguishes the variants carried by Event.
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventMouse
	EventInterrupt
	EventRaw
	EventError
)

// Mod is a modifier bitmask attached to Key and Mouse events.
type Mod uint8

const (
	ModNone Mod = 0
	ModAlt  Mod = 1 << iota
	ModMotion
)

// Key identifies a named (non-printable, or function) key. Printable input
// is carried in Event.Ch instead, with Key left at KeyRune.
type Key uint16

const (
	KeyRune Key = 0 // Ch holds the scalar; ignore Key
)

// Control-character keys, numbered by their ASCII code point so that a raw
// control byte converts to its Key with a simple cast.
const (
	KeyCtrlTilde      Key = 0x00
	KeyCtrlA          Key = 0x01
	KeyCtrlB          Key = 0x02
	KeyCtrlC          Key = 0x03
	KeyCtrlD          Key = 0x04
	KeyCtrlE          Key = 0x05
	KeyCtrlF          Key = 0x06
	KeyCtrlG          Key = 0x07
	KeyBackspace      Key = 0x08
	KeyCtrlH          Key = 0x08
	KeyTab            Key = 0x09
	KeyCtrlI          Key = 0x09
	KeyCtrlJ          Key = 0x0A
	KeyCtrlK          Key = 0x0B
	KeyCtrlL          Key = 0x0C
	KeyEnter          Key = 0x0D
	KeyCtrlM          Key = 0x0D
	KeyCtrlN          Key = 0x0E
	KeyCtrlO          Key = 0x0F
	KeyCtrlP          Key = 0x10
	KeyCtrlQ          Key = 0x11
	KeyCtrlR          Key = 0x12
	KeyCtrlS          Key = 0x13
	KeyCtrlT          Key = 0x14
	KeyCtrlU          Key = 0x15
	KeyCtrlV          Key = 0x16
	KeyCtrlW          Key = 0x17
	KeyCtrlX          Key = 0x18
	KeyCtrlY          Key = 0x19
	KeyCtrlZ          Key = 0x1A
	KeyEsc            Key = 0x1B
	KeyCtrlLsqBracket Key = 0x1B
	KeyCtrlBackslash  Key = 0x1C
	KeyCtrlRsqBracket Key = 0x1D
	KeyCtrlSlash      Key = 0x1F
	KeyCtrlUnderscore Key = 0x1F
	KeySpace          Key = 0x20
	KeyBackspace2     Key = 0x7F
	KeyCtrl8          Key = 0x7F
)

// Named keys outside the ASCII control range, numbered from a high base so
// they never collide with a Unicode scalar carried in Event.Ch.
const (
	keyBase Key = 0xF000 + iota
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
)

// MouseButton identifies the button (or wheel impulse) of a Mouse event.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseRelease
	MouseWheelUp
	MouseWheelDown
)

// ErrorKind classifies the cause of an EventError.
type ErrorKind uint8

const (
	ErrorKindNone ErrorKind = iota
	ErrorKindIO
	ErrorKindUnsupported
)

// Event is the tagged union delivered by PollEvent. Exactly one of the
// payload groups below is meaningful, selected by Type.
type Event struct {
	Type EventType

	// EventKey
	Mod Mod
	Key Key
	Ch  rune

	// EventResize
	Width  int
	Height int

	// EventMouse
	MouseButton MouseButton
	X, Y        int

	// EventRaw
	Raw []byte
	N   int

	// EventError
	Err ErrorKind
}
