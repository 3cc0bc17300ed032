package termgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend stands in for posixBackend/consoleBackend in tests: it never
// touches a real terminal, just records flush calls and reports a fixed size.
type fakeBackend struct {
	w, h       int
	flushes    int
	lastFull   bool
	outputMode OutputMode
}

func (f *fakeBackend) open(s *Session) error { return nil }
func (f *fakeBackend) close(s *Session)      {}
func (f *fakeBackend) size() (int, int)      { return f.w, f.h }
func (f *fakeBackend) flush(s *Session, fullSync bool) error {
	f.flushes++
	f.lastFull = fullSync
	return nil
}
func (f *fakeBackend) setOutputMode(mode OutputMode) error { f.outputMode = mode; return nil }
func (f *fakeBackend) setInputMode(mode InputMode)         {}

func newTestSession(w, h int) (*Session, *fakeBackend) {
	s := NewSession()
	fb := &fakeBackend{w: w, h: h}
	_ = s.Init(fb)
	return s, fb
}

func TestSessionInitSizesBuffers(t *testing.T) {
	s, _ := newTestSession(10, 5)
	defer s.Close()
	w, h := s.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 5, h)
}

func TestSessionDoubleInitFails(t *testing.T) {
	s, fb := newTestSession(10, 5)
	defer s.Close()
	err := s.Init(fb)
	assert.ErrorIs(t, err, ErrAlreadyInit)
}

// P1: after a Flush nothing is left to diff, so a second Flush with no
// intervening change has nothing to paint; it still reaches the backend.
// The byte-level check of P1 is in posix_compose_test.go.
func TestFlushIdempotent(t *testing.T) {
	s, fb := newTestSession(3, 3)
	defer s.Close()
	s.SetCell(0, 0, 'x', Default, Default)
	require.NoError(t, s.Flush())
	assert.True(t, s.back.equal(s.front))
	firstCount := fb.flushes
	require.NoError(t, s.Flush())
	assert.Equal(t, firstCount+1, fb.flushes)
}

// P2: after Flush, front == back.
func TestFlushMakesFrontEqualBack(t *testing.T) {
	s, _ := newTestSession(3, 3)
	defer s.Close()
	s.SetCell(1, 1, 'y', ColorRed, ColorBlue)
	require.NoError(t, s.Flush())
	assert.True(t, s.back.equal(s.front))
}

// P4: out-of-bounds SetCell is a no-op.
func TestSetCellOutOfBoundsNoop(t *testing.T) {
	s, _ := newTestSession(3, 3)
	defer s.Close()
	before := make([]Cell, len(s.back.cells))
	copy(before, s.back.cells)
	s.SetCell(-1, 0, 'x', Default, Default)
	s.SetCell(100, 100, 'x', Default, Default)
	assert.Equal(t, before, s.back.cells)
}

// I4: a double-width rune at the last column is truncated, not split.
func TestSetCellWideRuneAtLastColumn(t *testing.T) {
	s, _ := newTestSession(3, 3)
	defer s.Close()
	s.SetCell(2, 0, '中', Default, Default) // CJK wide rune
	c := s.back.get(2, 0)
	assert.Equal(t, '中', c.Ch)
}

func TestSetCellWideRuneReservesTrailingCell(t *testing.T) {
	s, _ := newTestSession(3, 3)
	defer s.Close()
	s.SetCell(0, 0, '中', Default, Default)
	trailing := s.back.get(1, 0)
	assert.Equal(t, rune(0), trailing.Ch)
}

func TestSyncForcesFullRepaint(t *testing.T) {
	s, fb := newTestSession(3, 3)
	defer s.Close()
	require.NoError(t, s.Sync())
	assert.True(t, fb.lastFull)
}

func TestClearOnlyTouchesBackBuffer(t *testing.T) {
	s, _ := newTestSession(2, 2)
	defer s.Close()
	require.NoError(t, s.Flush())
	s.Clear(ColorGreen, ColorBlack)
	assert.False(t, s.back.equal(s.front))
	c := s.back.get(0, 0)
	assert.Equal(t, ColorGreen, c.Fg)
}

func TestSetOutputModePoisonsFrontBuffer(t *testing.T) {
	s, _ := newTestSession(2, 2)
	defer s.Close()
	require.NoError(t, s.Flush())
	assert.True(t, s.back.equal(s.front))
	s.SetOutputMode(Mode256)
	assert.False(t, s.back.equal(s.front))
}

func TestSetInputModeNormalizesEscAltXOR(t *testing.T) {
	s, _ := newTestSession(2, 2)
	defer s.Close()
	got := s.SetInputMode(InputEsc | InputAlt)
	assert.Equal(t, InputEsc, got)
}

func TestOperationsOnUninitializedSessionAreNoopOrError(t *testing.T) {
	s := NewSession()
	s.SetCell(0, 0, 'x', Default, Default) // must not panic
	err := s.Flush()
	assert.ErrorIs(t, err, ErrUninit)
}

func TestHideCursorIsMinusOne(t *testing.T) {
	s, _ := newTestSession(2, 2)
	defer s.Close()
	s.HideCursor()
	assert.Equal(t, -1, s.cursorX)
	assert.Equal(t, -1, s.cursorY)
}

func TestInterruptDeliversThroughPollEvent(t *testing.T) {
	s, _ := newTestSession(2, 2)
	defer s.Close()
	s.Interrupt()
	ev := s.PollEvent()
	assert.Equal(t, EventInterrupt, ev.Type)
}
