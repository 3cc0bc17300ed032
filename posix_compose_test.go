//go:build !windows

package termgrid

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComposerSession(w, h int) (*posixComposer, *Session, *os.File, *os.File) {
	r, wr, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	caps := &capTable{}
	caps.loadXtermFallback()
	c := newPosixComposer(wr, caps)
	s := &Session{
		back:    newCellBuffer(w, h),
		front:   newCellBuffer(w, h),
		widthFn: defaultWidth,
		caps:    caps,
	}
	s.cursorX, s.cursorY = -1, -1
	return c, s, r, wr
}

func drainPipe(t *testing.T, r, w *os.File) []byte {
	t.Helper()
	w.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return data
}

func TestComposerRenderIsIdempotentOnSecondFlush(t *testing.T) {
	c, s, r, wr := newComposerSession(4, 1)
	s.back.set(0, 0, Cell{Ch: 'a', Fg: ColorRed})
	s.cursorX, s.cursorY = 1, 0

	require.NoError(t, c.render(s, false))
	first := drainPipe(t, r, wr)
	assert.NotEmpty(t, first, "first render of a dirty cell must emit bytes")

	// front now mirrors what was painted; a second render with no backing
	// change and the same cursor position must be a complete no-op (P1).
	s.front.set(0, 0, s.back.get(0, 0))

	r2, wr2, err := os.Pipe()
	require.NoError(t, err)
	c.w = bufio.NewWriter(wr2)

	require.NoError(t, c.render(s, false))
	second := drainPipe(t, r2, wr2)
	assert.Empty(t, second, "an unchanged second Flush must emit zero bytes")
}

func TestComposerMovesCursorWhenPositionChangesWithNoRepaint(t *testing.T) {
	c, s, r, wr := newComposerSession(4, 1)
	s.back.set(0, 0, Cell{Ch: 'a', Fg: ColorRed})
	s.cursorX, s.cursorY = 0, 0
	require.NoError(t, c.render(s, false))
	drainPipe(t, r, wr)
	s.front.set(0, 0, s.back.get(0, 0))

	r2, wr2, err := os.Pipe()
	require.NoError(t, err)
	c.w = bufio.NewWriter(wr2)
	s.cursorX = 2

	require.NoError(t, c.render(s, false))
	out := drainPipe(t, r2, wr2)
	assert.NotEmpty(t, out, "moving the cursor with no cell repaint must still emit bytes")
}

func TestComposerWriteColorReducesRGBUnder256(t *testing.T) {
	c, _, r, wr := newComposerSession(1, 1)
	rgb := RGBToAttribute(255, 0, 0)

	c.writeColor(rgb, Mode256, true)
	c.flushRaw()
	out := drainPipe(t, r, wr)

	reduced := reduceRGB(255, 0, 0, Mode256)
	want := fmt.Sprintf("\x1b[38;5;%dm", int(reduced)&0xff)
	assert.Equal(t, want, string(out))
}
