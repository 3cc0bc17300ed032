package termgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellBufferClearIsUniform(t *testing.T) {
	b := newCellBuffer(4, 3)
	b.clear(ColorRed, ColorBlue)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			c := b.get(x, y)
			assert.Equal(t, Cell{Ch: ' ', Fg: ColorRed, Bg: ColorBlue}, c)
		}
	}
}

func TestCellBufferOutOfBoundsIsNoop(t *testing.T) {
	b := newCellBuffer(2, 2)
	b.clear(Default, Default)
	before := append([]Cell(nil), b.cells...)
	b.set(-1, 0, Cell{Ch: 'x'})
	b.set(0, -1, Cell{Ch: 'x'})
	b.set(2, 0, Cell{Ch: 'x'})
	b.set(0, 2, Cell{Ch: 'x'})
	assert.Equal(t, before, b.cells)
}

func TestCellBufferResizePreservesIntersection(t *testing.T) {
	b := newCellBuffer(3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			b.set(x, y, Cell{Ch: rune('a' + y*3 + x)})
		}
	}
	b.resize(2, 2)
	require.Equal(t, 2, b.width)
	require.Equal(t, 2, b.height)
	assert.Equal(t, Cell{Ch: 'a'}, b.get(0, 0))
	assert.Equal(t, Cell{Ch: 'b'}, b.get(1, 0))
	assert.Equal(t, Cell{Ch: 'd'}, b.get(0, 1))
	assert.Equal(t, Cell{Ch: 'e'}, b.get(1, 1))
}

func TestCellBufferResizeGrowsWithDefaults(t *testing.T) {
	b := newCellBuffer(1, 1)
	b.set(0, 0, Cell{Ch: 'z', Fg: ColorGreen})
	b.resize(2, 2)
	assert.Equal(t, Cell{Ch: 'z', Fg: ColorGreen}, b.get(0, 0))
	assert.Equal(t, Cell{Ch: ' '}, b.get(1, 1))
}

func TestCellBufferEqual(t *testing.T) {
	a := newCellBuffer(2, 2)
	b := newCellBuffer(2, 2)
	assert.True(t, a.equal(b))
	b.set(0, 0, Cell{Ch: 'x'})
	assert.False(t, a.equal(b))
}
