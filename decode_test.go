package termgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Seed scenario 2: ESC [ A with Esc mode, mouse off -> ArrowUp, N=3.
func TestDecodeArrowUp(t *testing.T) {
	ev, n := ParseEvent([]byte("\x1b[A"), InputEsc)
	require.Equal(t, 3, n)
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, KeyArrowUp, ev.Key)
}

func TestDecodeArrowUpPrefixIsIncomplete(t *testing.T) {
	ev, n := ParseEvent([]byte("\x1b["), InputEsc)
	assert.Equal(t, 0, n)
	assert.Equal(t, EventNone, ev.Type)
}

// Seed scenario 3: SGR mouse record -> left click at (9,19).
func TestDecodeSGRMouse(t *testing.T) {
	ev, n := ParseEvent([]byte("\x1b[<0;10;20M"), InputEsc|InputMouse)
	require.Equal(t, 11, n)
	assert.Equal(t, EventMouse, ev.Type)
	assert.Equal(t, MouseLeft, ev.MouseButton)
	assert.Equal(t, 9, ev.X)
	assert.Equal(t, 19, ev.Y)
}

// Seed scenario 5: ESC a with Alt mode -> Key{mod:Alt, ch:'a'}.
func TestDecodeAltRune(t *testing.T) {
	ev, n := ParseEvent([]byte("\x1ba"), InputAlt)
	require.Equal(t, 2, n)
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, ModAlt, ev.Mod)
	assert.Equal(t, 'a', ev.Ch)
}

// Seed scenario 1 (decoder half): lone ESC in Esc mode is a Key{Esc}.
func TestDecodeLoneEsc(t *testing.T) {
	ev, n := ParseEvent([]byte("\x1b"), InputEsc)
	require.Equal(t, 1, n)
	assert.Equal(t, KeyEsc, ev.Key)
}

func TestDecodeControlBytesAreNamedKeys(t *testing.T) {
	ev, n := ParseEvent([]byte{0x0D}, InputEsc)
	require.Equal(t, 1, n)
	assert.Equal(t, KeyEnter, ev.Key)

	ev, n = ParseEvent([]byte{0x09}, InputEsc)
	require.Equal(t, 1, n)
	assert.Equal(t, KeyTab, ev.Key)
}

func TestDecodePrintableRune(t *testing.T) {
	ev, n := ParseEvent([]byte("x"), InputEsc)
	require.Equal(t, 1, n)
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, 'x', ev.Ch)
}

func TestDecodeUTF8Multibyte(t *testing.T) {
	// 'é' = U+00E9, UTF-8: 0xC3 0xA9
	ev, n := ParseEvent([]byte{0xC3, 0xA9}, InputEsc)
	require.Equal(t, 2, n)
	assert.Equal(t, rune(0xE9), ev.Ch)
}

func TestDecodeUTF8IncompletePrefix(t *testing.T) {
	_, n := ParseEvent([]byte{0xC3}, InputEsc)
	assert.Equal(t, 0, n)
}

func TestDecodeEmptyIsIncomplete(t *testing.T) {
	ev, n := ParseEvent(nil, InputEsc)
	assert.Equal(t, 0, n)
	assert.Equal(t, EventNone, ev.Type)
}

func TestInputModeXOR(t *testing.T) {
	// Esc and Alt both requested: Esc wins per spec (upstream left the
	// combination undefined; this spec mandates XOR).
	m := (InputEsc | InputAlt).normalize()
	assert.Equal(t, InputEsc, m)
}

func TestLegacyMouseParse(t *testing.T) {
	// button=0 (left), x=10+32, y=20+32
	raw := []byte{0x1b, '[', 'M', 0, 10 + 32, 20 + 32}
	ev, n, incomplete := parseLegacyMouse(raw)
	require.False(t, incomplete)
	require.Equal(t, len(raw), n)
	assert.Equal(t, MouseLeft, ev.MouseButton)
	assert.Equal(t, 9, ev.X)
	assert.Equal(t, 19, ev.Y)
}
