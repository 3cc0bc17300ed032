package termgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRGBRoundTrip(t *testing.T) {
	a := RGBToAttribute(150, 100, 50)
	r, g, b := AttributeToRGB(a)
	assert.Equal(t, byte(150), r)
	assert.Equal(t, byte(100), g)
	assert.Equal(t, byte(50), b)
	assert.True(t, a.IsRGB())
}

func TestStyleOrIsAssociativeAndCommutative(t *testing.T) {
	a := ColorRed | Bold | Underline
	bOrder := Underline | Bold | ColorRed
	assert.Equal(t, a, bOrder)
}

func TestDefaultPreservedUnderStyle(t *testing.T) {
	a := Default | Bold
	assert.True(t, a.IsDefault())
	assert.True(t, a.Has(Bold))
}

func TestColor256RangeDistinctFromCube(t *testing.T) {
	cube := ColorCube216(5, 0, 0)
	assert.False(t, cube.IsDefault())
	r, g, b := AttributeToRGB(cube)
	assert.True(t, r > g && r > b)
}

func TestGrayscaleEndpoints(t *testing.T) {
	black := ColorGrayscale(0)
	white := ColorGrayscale(25)
	r0, g0, b0 := AttributeToRGB(black)
	r1, g1, b1 := AttributeToRGB(white)
	assert.True(t, r0 < r1 && g0 < g1 && b0 < b1)
}

func TestReduceRGBIdentityInRGBMode(t *testing.T) {
	a := reduceRGB(10, 20, 30, ModeRGB)
	r, g, b := AttributeToRGB(a)
	assert.Equal(t, byte(10), r)
	assert.Equal(t, byte(20), g)
	assert.Equal(t, byte(30), b)
}

func TestReduceRGBPicksClosestGray(t *testing.T) {
	a := reduceRGB(200, 200, 200, ModeGrayscale)
	r, g, b := AttributeToRGB(a)
	assert.InDelta(t, r, g, 1)
	assert.InDelta(t, g, b, 1)
	// Ramp levels are 8+10k; 198 (entry 251) is the nearest to 200.
	assert.Equal(t, byte(198), r)
}
