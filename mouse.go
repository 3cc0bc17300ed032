package termgrid

// parseSGRMouse looks for an SGR mouse record ("\x1b[<b;x;y" followed by
// 'M' or 'm') at the start of data. It mirrors the state machine shape used
// by terminal libraries in this family, rewritten as a pure scanner: no
// bytes are consumed from a shared buffer, the caller is simply told how
// many bytes to skip.
//
// Returns n=0, incomplete=true if data is a prefix of a well-formed
// record; n=0, incomplete=false if data can never become one; otherwise
// the decoded event with n=len(consumed), incomplete=false.
func parseSGRMouse(data []byte) (ev Event, n int, incomplete bool) {
	if len(data) < 3 || data[0] != 0x1b || data[1] != '[' || data[2] != '<' {
		if len(data) < 3 && isPrefixOf(data, []byte("\x1b[<")) {
			return Event{}, 0, true
		}
		return Event{}, 0, false
	}

	i := 3
	btn, x, y, ok := 0, 0, 0, false
	var final byte

	btn, i, ok = scanInt(data, i)
	if !ok {
		return Event{}, 0, i >= len(data)
	}
	if i >= len(data) || data[i] != ';' {
		return Event{}, 0, i >= len(data)
	}
	i++
	x, i, ok = scanInt(data, i)
	if !ok {
		return Event{}, 0, i >= len(data)
	}
	if i >= len(data) || data[i] != ';' {
		return Event{}, 0, i >= len(data)
	}
	i++
	y, i, ok = scanInt(data, i)
	if !ok {
		return Event{}, 0, i >= len(data)
	}
	if i >= len(data) {
		return Event{}, 0, true
	}
	final = data[i]
	if final != 'M' && final != 'm' {
		return Event{}, 0, false
	}
	i++

	release := final == 'm'
	button, mod := decodeMouseButton(btn, release)
	x--
	y--
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return Event{Type: EventMouse, MouseButton: button, Mod: mod, X: x, Y: y}, i, false
}

// parseLegacyMouse parses the older "\x1b[M" + 3 raw bytes encoding, where
// button/x/y are each a single byte offset by 32 (so coordinates saturate
// past column/row 223 -- see spec §9 Open Questions; SGR mode should be
// preferred whenever the terminal advertises it).
func parseLegacyMouse(data []byte) (ev Event, n int, incomplete bool) {
	prefix := []byte("\x1b[M")
	if len(data) < len(prefix) {
		if isPrefixOf(data, prefix) {
			return Event{}, 0, true
		}
		return Event{}, 0, false
	}
	if string(data[:len(prefix)]) != string(prefix) {
		return Event{}, 0, false
	}
	if len(data) < len(prefix)+3 {
		return Event{}, 0, true
	}
	btn := int(data[3])
	x := int(data[4]) - 32 - 1
	y := int(data[5]) - 32 - 1
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	button, mod := decodeMouseButton(btn, false)
	return Event{Type: EventMouse, MouseButton: button, Mod: mod, X: x, Y: y}, len(prefix) + 3, false
}

// decodeMouseButton maps the raw xterm button/modifier byte to our
// MouseButton + Mod pair, same bit layout as the SGR/legacy encodings
// (bit6 = wheel, bits 2-4 = shift/meta/ctrl, low 2 bits = button index,
// 3 = release in the legacy encoding).
func decodeMouseButton(btn int, sgrRelease bool) (MouseButton, Mod) {
	mod := ModNone
	if btn&0x04 != 0 {
		mod |= ModMotion
	}
	if btn&0x20 != 0 {
		mod |= ModMotion
	}

	low := btn & 0x43
	var button MouseButton
	switch {
	case sgrRelease:
		button = MouseRelease
	case low == 0x40:
		button = MouseWheelUp
	case low == 0x41:
		button = MouseWheelDown
	default:
		switch btn & 0x3 {
		case 0:
			button = MouseLeft
		case 1:
			button = MouseMiddle
		case 2:
			button = MouseRight
		case 3:
			button = MouseRelease
		}
	}
	return button, mod
}

func isPrefixOf(short, long []byte) bool {
	if len(short) > len(long) {
		return false
	}
	return string(long[:len(short)]) == string(short)
}

// scanInt scans a run of decimal digits starting at i, returning the value,
// the index just past it, and whether at least one digit was consumed.
func scanInt(data []byte, i int) (val, next int, ok bool) {
	start := i
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		val = val*10 + int(data[i]-'0')
		i++
	}
	return val, i, i > start
}
