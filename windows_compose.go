//go:build windows

package termgrid

const (
	fgBlue      = 0x0001
	fgGreen     = 0x0002
	fgRed       = 0x0004
	fgIntensity = 0x0008
	bgBlue      = 0x0010
	bgGreen     = 0x0020
	bgRed       = 0x0040
	bgIntensity = 0x0080
)

// ansiToConsoleFg/Bg map the 8 base ANSI colors (palette index 0-7, after
// subtracting the named-color base) to Win32 console attribute bits; the
// bright/intensity variants just OR in the intensity bit.
var ansiToConsoleFg = [8]uint16{
	0, fgRed, fgGreen, fgRed | fgGreen, fgBlue, fgRed | fgBlue, fgGreen | fgBlue, fgRed | fgGreen | fgBlue,
}
var ansiToConsoleBg = [8]uint16{
	0, bgRed, bgGreen, bgRed | bgGreen, bgBlue, bgRed | bgBlue, bgGreen | bgBlue, bgRed | bgGreen | bgBlue,
}

// attrToConsole converts a cell's fg/bg Attribute pair into a Win32 console
// attribute word. Any output mode beyond Normal is reduced to the nearest
// 16-color entry first (spec §4.F: "emulated ... by nearest-16-color
// mapping where RGB is not natively supported").
func attrToConsole(fg, bg Attribute, mode OutputMode) uint16 {
	fgIdx, fgBright := toConsoleIndex(fg, mode)
	bgIdx, bgBright := toConsoleIndex(bg, mode)

	attr := ansiToConsoleFg[fgIdx] | ansiToConsoleBg[bgIdx]
	if fgBright || fg.Has(Bold) {
		attr |= fgIntensity
	}
	if bgBright {
		attr |= bgIntensity
	}
	if fg.Has(Reverse) || bg.Has(Reverse) {
		attr = (attr&0x0F)<<4 | (attr&0xF0)>>4
	}
	return attr
}

func toConsoleIndex(a Attribute, mode OutputMode) (idx int, bright bool) {
	if a.IsDefault() {
		return 7, false
	}
	if mode == ModeNormal && !a.IsRGB() {
		palette := (int(a) & 0xff) - 1
		if palette < 0 {
			palette = 7
		}
		return palette % 8, palette >= 8
	}
	r, g, b := AttributeToRGB(a)
	reduced := reduceRGB(r, g, b, ModeNormal)
	palette := (int(reduced) & 0xff) - 1
	if palette < 0 {
		palette = 7
	}
	return palette % 8, palette >= 8
}

// renderConsole rebuilds the whole screen from back as CHAR_INFO cells and
// issues it in a single WriteConsoleOutputW call whenever any cell differs
// from front (or fullSync is set); with no difference it writes nothing
// but the cursor state.
func renderConsole(b *consoleBackend, s *Session, fullSync bool) error {
	back, front := s.back, s.front
	w, h := back.width, back.height
	if w == 0 || h == 0 {
		return nil
	}

	dirty := fullSync
	if !dirty {
		dirty = !back.equal(front)
	}
	if dirty {
		buf := make([]charInfo, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				cell := back.get(x, y)
				ch := cell.Ch
				if ch == 0 {
					ch = ' '
				}
				buf[y*w+x] = charInfo{
					char: uint16(ch),
					attr: attrToConsole(cell.Fg, cell.Bg, s.outputMode),
				}
			}
		}
		region := smallRect{left: 0, top: 0, right: int16(w - 1), bottom: int16(h - 1)}
		if err := writeConsoleOutput(b.hout, buf, coord{int16(w), int16(h)}, coord{0, 0}, &region); err != nil {
			return err
		}
	}

	if s.cursorX < 0 || s.cursorY < 0 || s.cursorX >= w || s.cursorY >= h {
		setConsoleCursorVisible(b.hout, false)
	} else {
		setConsoleCursorVisible(b.hout, true)
		setConsoleCursorPosition(b.hout, coord{int16(s.cursorX), int16(s.cursorY)})
	}
	return nil
}
