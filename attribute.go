package termgrid

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Attribute is an opaque token combining a color and a set of style bits.
// The low bits carry the color payload, the high bits carry style flags.
// The encoding is stable within a build but is not part of the wire format
// and must never be persisted across versions.
type Attribute uint64

const (
	colorPayloadBits = 24
	colorPayloadMask = Attribute(1<<colorPayloadBits - 1)
	colorRGBFlag     = Attribute(1) << colorPayloadBits
	colorValidFlag   = Attribute(1) << (colorPayloadBits + 1)
	styleShift       = 32
)

// Default is the sentinel color meaning "whatever the terminal already
// shows" -- no SGR color sequence is emitted for it.
const Default Attribute = 0

// 16-color palette, numbered to match the classic ANSI SGR 30-37 order.
// Each constant already carries the valid-color flag.
const (
	ColorBlack Attribute = Attribute(iota+1) | colorValidFlag
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightBlack
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// Style bits, ORed onto a color Attribute. They are associative and
// commutative, and OR onto Default without disturbing the sentinel.
const (
	Bold Attribute = 1 << (styleShift + iota)
	Underline
	Reverse
	Blink
	Dim
	Cursive
	Hidden
	Brightness
)

// Color256 returns the Attribute for one of the 256 palette colors
// (0-15 named, 16-231 the 6x6x6 cube, 232-255 grayscale ramp).
func Color256(n int) Attribute {
	return Attribute(n&0xff) | colorValidFlag
}

// ColorCube216 returns the Attribute for entry (r,g,b) of the 6x6x6 color
// cube, each component in [0,5].
func ColorCube216(r, g, b int) Attribute {
	idx := 16 + 36*clamp6(r) + 6*clamp6(g) + clamp6(b)
	return Color256(idx)
}

// ColorGrayscale returns the Attribute for step n (0-25) of the 26-step
// grayscale ramp used by xterm-256color (palette entries 232-255, plus
// black/white at the extremes of the ramp).
func ColorGrayscale(n int) Attribute {
	if n < 0 {
		n = 0
	}
	if n > 25 {
		n = 25
	}
	if n == 0 {
		return Color256(16)
	}
	if n == 25 {
		return Color256(231)
	}
	return Color256(232 + (n - 1))
}

// RGBToAttribute encodes a 24-bit color.
func RGBToAttribute(r, g, b byte) Attribute {
	payload := Attribute(r)<<16 | Attribute(g)<<8 | Attribute(b)
	return payload | colorRGBFlag | colorValidFlag
}

// AttributeToRGB is the inverse of RGBToAttribute. If the Attribute does not
// carry an RGB payload, it is first resolved to its nearest RGB equivalent.
func AttributeToRGB(a Attribute) (r, g, b byte) {
	color := a.color()
	if color&colorRGBFlag != 0 {
		payload := color & colorPayloadMask
		return byte(payload >> 16), byte(payload >> 8), byte(payload)
	}
	return paletteRGB(int(color & 0xff))
}

// IsRGB reports whether the color carries a raw RGB payload.
func (a Attribute) IsRGB() bool {
	return a.color()&colorRGBFlag != 0
}

// IsDefault reports whether the color component is the Default sentinel.
func (a Attribute) IsDefault() bool {
	return a.color()&colorValidFlag == 0
}

// Style returns just the style bits of a, discarding the color.
func (a Attribute) Style() Attribute {
	return a &^ (colorPayloadMask | colorRGBFlag | colorValidFlag)
}

// Has reports whether style bit s is set on a.
func (a Attribute) Has(s Attribute) bool {
	return a&s == s
}

func (a Attribute) color() Attribute {
	return a & (colorPayloadMask | colorRGBFlag | colorValidFlag)
}

func clamp6(v int) int {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// reduceRGB projects an arbitrary RGB triple onto the color space legal for
// the given OutputMode, using perceptual (Lab) distance rather than naive
// Euclidean RGB distance so the picked approximation looks closer to a
// human eye. RGB mode is the identity projection.
func reduceRGB(r, g, b byte, mode OutputMode) Attribute {
	switch mode {
	case ModeRGB:
		return RGBToAttribute(r, g, b)
	case ModeGrayscale:
		return nearestGrayscale(r, g, b)
	case Mode216:
		return nearestCube(r, g, b)
	case Mode256:
		return nearestPalette(r, g, b, 0, 255)
	default: // ModeNormal
		// The 16 named colors are 1-indexed (payload = ANSI index + 1,
		// 0 reserved for Default); Color256 is 0-indexed, so the index
		// found here is re-encoded in the named-constant convention
		// rather than handed to Color256 directly.
		idx := nearestPaletteIndex(r, g, b, 0, 15)
		return Attribute(idx+1) | colorValidFlag
	}
}

func targetColor(r, g, b byte) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// nearestPaletteIndex returns the xterm 256-color palette entry in [lo,hi]
// closest to (r,g,b) by Lab distance.
func nearestPaletteIndex(r, g, b byte, lo, hi int) int {
	target := targetColor(r, g, b)
	best := lo
	bestDist := -1.0
	for i := lo; i <= hi; i++ {
		pr, pg, pb := paletteRGB(i)
		c := targetColor(pr, pg, pb)
		d := target.DistanceLab(c)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func nearestPalette(r, g, b byte, lo, hi int) Attribute {
	return Color256(nearestPaletteIndex(r, g, b, lo, hi))
}

func nearestCube(r, g, b byte) Attribute {
	return nearestPalette(r, g, b, 16, 231)
}

func nearestGrayscale(r, g, b byte) Attribute {
	return nearestPalette(r, g, b, 232, 255)
}

// paletteRGB returns the canonical RGB value xterm assigns to 256-color
// palette index n.
func paletteRGB(n int) (byte, byte, byte) {
	if n < 16 {
		return ansi16RGB[n][0], ansi16RGB[n][1], ansi16RGB[n][2]
	}
	if n < 232 {
		n -= 16
		r := cubeLevel(n / 36 % 6)
		g := cubeLevel(n / 6 % 6)
		b := cubeLevel(n % 6)
		return r, g, b
	}
	v := byte(8 + (n-232)*10)
	return v, v, v
}

func cubeLevel(i int) byte {
	if i == 0 {
		return 0
	}
	return byte(55 + i*40)
}

var ansi16RGB = [16][3]byte{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}
