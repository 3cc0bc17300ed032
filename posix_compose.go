//go:build !windows

package termgrid

import (
	"bufio"
	"fmt"
	"os"
)

// posixComposer keeps a running (cursor, fg, bg) shadow of what the
// terminal was last told, so Flush only emits the bytes needed to move the
// cursor and change attributes when they actually differ from the last
// cell painted -- the minimality requirement in spec §4.C/§4.E.
type posixComposer struct {
	w    *bufio.Writer
	caps *capTable

	cx, cy   int
	curFg    Attribute
	curBg    Attribute
	curStyle Attribute
	styled   bool

	// Cursor state actually told to the terminal on the last render, kept
	// separate from cx,cy (which only track the write-head position within
	// a single paint pass and are reset every call). Flush must not repeat
	// a hide/show/move the terminal is already in (P1 idempotence).
	cursorKnown  bool
	cursorHidden bool
	cursorAtX    int
	cursorAtY    int
}

func newPosixComposer(out *os.File, caps *capTable) *posixComposer {
	return &posixComposer{
		w:    bufio.NewWriter(out),
		caps: caps,
		cx:   -1, cy: -1,
	}
}

func (c *posixComposer) writeString(s string) {
	if s != "" {
		c.w.WriteString(s)
	}
}

func (c *posixComposer) flushRaw() {
	c.w.Flush()
}

// render paints every cell that differs between back and front (or every
// cell, if fullSync requests it) in row-major order (spec §5 ordering
// guarantee), then positions the cursor.
func (c *posixComposer) render(s *Session, fullSync bool) error {
	c.cx, c.cy = -1, -1
	back, front := s.back, s.front
	mode := s.outputMode
	painted := false

	for y := 0; y < back.height; y++ {
		for x := 0; x < back.width; x++ {
			cell := back.get(x, y)
			if !fullSync && cell == front.get(x, y) {
				continue
			}
			if cell.Ch == 0 {
				// Right-hand half of a wide rune; nothing to paint
				// on its own.
				continue
			}
			c.moveTo(x, y)
			c.applyStyle(cell.Fg, cell.Bg, mode)
			c.w.WriteRune(cell.Ch)
			w := s.widthFn(cell.Ch)
			if w < 1 {
				w = 1
			}
			c.cx += w
			painted = true
		}
	}

	// Painting any cell leaves the terminal's real cursor wherever the
	// last write landed, not at the user-visible position, so the cursor
	// must be repositioned even if that position is unchanged from last
	// time. Otherwise, only emit hide/show/move when the desired state
	// actually differs from what was last told to the terminal.
	hide := s.cursorX < 0 || s.cursorY < 0 || s.cursorX >= back.width || s.cursorY >= back.height
	changed := fullSync || painted || !c.cursorKnown || hide != c.cursorHidden ||
		(!hide && (s.cursorX != c.cursorAtX || s.cursorY != c.cursorAtY))
	if changed {
		if hide {
			c.writeString(c.caps.hideCursor)
		} else {
			c.moveTo(s.cursorX, s.cursorY)
			c.writeString(c.caps.showCurs)
		}
		c.cursorKnown = true
		c.cursorHidden = hide
		c.cursorAtX, c.cursorAtY = s.cursorX, s.cursorY
	}

	return c.w.Flush()
}

func (c *posixComposer) moveTo(x, y int) {
	if c.cx == x && c.cy == y {
		return
	}
	fmt.Fprintf(c.w, "\x1b[%d;%dH", y+1, x+1)
	c.cx, c.cy = x, y
}

// applyStyle emits SGR sequences only when fg or bg differs from the last
// cell painted; it then writes a reset followed by every style bit and
// color of the new pair, not just the bits that changed.
func (c *posixComposer) applyStyle(fg, bg Attribute, mode OutputMode) {
	if fg == c.curFg && bg == c.curBg && c.styled {
		return
	}
	c.w.WriteString("\x1b[0m")
	style := fg.Style() | bg.Style()
	if style.Has(Bold) {
		c.w.WriteString("\x1b[1m")
	}
	if style.Has(Dim) {
		c.w.WriteString("\x1b[2m")
	}
	if style.Has(Cursive) {
		c.w.WriteString("\x1b[3m")
	}
	if style.Has(Underline) {
		c.w.WriteString("\x1b[4m")
	}
	if style.Has(Blink) {
		c.w.WriteString("\x1b[5m")
	}
	if style.Has(Reverse) {
		c.w.WriteString("\x1b[7m")
	}
	if style.Has(Hidden) {
		c.w.WriteString("\x1b[8m")
	}

	c.writeFgBg(fg, bg, mode)
	c.curFg, c.curBg = fg, bg
	c.styled = true
}

func (c *posixComposer) writeFgBg(fg, bg Attribute, mode OutputMode) {
	if !fg.IsDefault() {
		c.writeColor(fg, mode, true)
	}
	if !bg.IsDefault() {
		c.writeColor(bg, mode, false)
	}
}

func (c *posixComposer) writeColor(a Attribute, mode OutputMode, isFg bool) {
	base := 38
	if !isFg {
		base = 48
	}
	// An RGB-flagged Attribute painted under anything but ModeRGB has no
	// direct palette index -- its low bytes are the raw RGB payload, not
	// a palette entry -- so it must go through the color reducer first.
	if mode != ModeRGB && a.IsRGB() {
		r, g, b := AttributeToRGB(a)
		a = reduceRGB(r, g, b, mode)
	}
	switch mode {
	case ModeRGB:
		if a.IsRGB() {
			r, g, b := AttributeToRGB(a)
			fmt.Fprintf(c.w, "\x1b[%d;2;%d;%d;%dm", base, r, g, b)
			return
		}
		fallthrough
	case Mode256, Mode216, ModeGrayscale:
		idx := int(a) & 0xff
		fmt.Fprintf(c.w, "\x1b[%d;5;%dm", base, idx)
	default: // ModeNormal
		idx := (int(a) & 0xff) - 1
		if idx < 0 {
			idx = 0
		}
		sgr := 30
		if !isFg {
			sgr = 40
		}
		if idx >= 8 {
			// bright variants: SGR 90-97/100-107
			fmt.Fprintf(c.w, "\x1b[%dm", sgr+60+(idx-8))
		} else {
			fmt.Fprintf(c.w, "\x1b[%dm", sgr+idx)
		}
	}
}
