package termgrid

import "unicode/utf8"

// decoder wraps a capTable so ParseEvent has a function-key table to match
// against. A package-level decoder using the compiled xterm fallback backs
// the exported, table-free ParseEvent; Session.PollEvent instead uses the
// table loaded for its own backend's $TERM.
type decoder struct {
	caps *capTable
}

var defaultDecoder = &decoder{caps: func() *capTable { t := &capTable{}; t.loadXtermFallback(); return t }()}

// ParseEvent is a pure function: bytes -> (Event, N). N is the number of
// bytes consumed; N==0 means "need more bytes" (incomplete input), which is
// not an error (spec §7). It uses the compiled-in xterm capability table;
// Session.PollEvent uses the table resolved for the live terminal instead.
func ParseEvent(data []byte, mode InputMode) (Event, int) {
	return defaultDecoder.parse(data, mode)
}

func (d *decoder) parse(data []byte, mode InputMode) (Event, int) {
	if len(data) == 0 {
		return Event{Type: EventNone}, 0
	}
	mode = mode.normalize()

	if data[0] == 0x1b {
		// 4. Lone ESC: with exactly one byte in hand, none of the
		// mouse/function-key/Alt-rune rules below can possibly match (they
		// all require at least one more byte), so resolve it here rather
		// than falling into the capability table's partial-match
		// short-circuit, which would otherwise swallow it as "need more
		// bytes" forever -- ESC is a prefix of every arrow/function
		// sequence the table knows about.
		if len(data) == 1 {
			if mode&InputEsc != 0 {
				// Caller (event pump) may still be waiting to see if more
				// bytes arrive to form a longer sequence; only the pump,
				// which owns the alt-timeout, can decide a bare ESC is
				// final. As a pure function we report it immediately,
				// since we were handed exactly what's available.
				return Event{Type: EventKey, Key: KeyEsc}, 1
			}
			// InputAlt with no follow-up byte: same situation, the event
			// pump's timeout resolves it to a lone KeyEsc (spec scenario 4).
			return Event{Type: EventNone}, 0
		}

		// 1. CSI mouse, legacy or SGR, takes precedence over everything.
		if mode&InputMouse != 0 {
			if ev, n, incomplete := parseSGRMouse(data); n > 0 {
				return ev, n
			} else if incomplete {
				return Event{Type: EventNone}, 0
			}
			if ev, n, incomplete := parseLegacyMouse(data); n > 0 {
				return ev, n
			} else if incomplete {
				return Event{Type: EventNone}, 0
			}
		}

		// 2. Known function/cursor key sequence, longest match wins.
		if key, n, partial := d.caps.match(data); n > 0 {
			return Event{Type: EventKey, Key: key}, n
		} else if partial {
			return Event{Type: EventNone}, 0
		}

		// 3. Alt-modified rune.
		if mode&InputAlt != 0 {
			if r, size := decodeRune(data[1:]); r != utf8.RuneError || size <= 1 {
				if size == 0 {
					return Event{Type: EventNone}, 0
				}
				return Event{Type: EventKey, Mod: ModAlt, Ch: r}, 1 + size
			}
		}
	}

	// 5. A single UTF-8 scalar, or a named control key for 0x00-0x1F.
	if data[0] <= 0x1f {
		return Event{Type: EventKey, Key: Key(data[0])}, 1
	}
	if data[0] == 0x7f {
		return Event{Type: EventKey, Key: KeyBackspace2}, 1
	}
	r, size := decodeRune(data)
	if size == 0 {
		return Event{Type: EventNone}, 0
	}
	return Event{Type: EventKey, Ch: r}, size
}

// decodeRune decodes one UTF-8 scalar from the front of data. It returns
// size==0 if data holds a valid but incomplete prefix of a multi-byte rune
// (the caller should wait for more bytes), and size==1 with RuneError for a
// genuinely invalid leading byte (the caller consumes it as a replacement).
func decodeRune(data []byte) (rune, int) {
	if len(data) == 0 {
		return utf8.RuneError, 0
	}
	if data[0] < utf8.RuneSelf {
		return rune(data[0]), 1
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size == 1 {
		if !utf8.FullRune(data) {
			return utf8.RuneError, 0
		}
		return utf8.RuneError, 1
	}
	return r, size
}
