package termgrid

// InputMode is a bitmask controlling how the decoder treats ambiguous byte
// sequences. InputEsc and InputAlt are mutually exclusive (spec mandates
// XOR where the upstream project left the combination undefined);
// InputMouse is independent of either.
type InputMode uint8

const (
	// InputCurrent is a sentinel meaning "leave the mode unchanged",
	// used with SetInputMode to query the current value.
	InputCurrent InputMode = 0

	InputEsc   InputMode = 1 << iota
	InputAlt
	InputMouse
)

func (m InputMode) normalize() InputMode {
	// If neither Esc nor Alt was requested, Esc is the sane default;
	// if both were (illegal per spec), Esc wins and Alt is dropped.
	if m&InputEsc != 0 {
		return (m &^ InputAlt)
	}
	if m&InputAlt != 0 {
		return m
	}
	return m | InputEsc
}

// OutputMode selects the color space used to interpret Attribute values
// when composing bytes (POSIX) or console attributes (Windows).
type OutputMode uint8

const (
	// ModeCurrent is a sentinel meaning "leave the mode unchanged", used
	// with SetOutputMode to query the current value.
	ModeCurrent OutputMode = iota
	ModeNormal
	Mode256
	Mode216
	ModeGrayscale
	ModeRGB
)
