package termgrid

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// legacyEncodings maps the handful of non-UTF-8 locale encodings a real
// terminal might still use (selected via Config.Encoding) to their
// transcoders. Every one of these is ASCII-compatible in the 0x00-0x7F
// range, so escape sequences and control bytes pass through untouched --
// only bytes 0x80-0xFF are ever remapped.
var legacyEncodings = map[string]encoding.Encoding{
	"ISO-8859-1":  charmap.ISO8859_1,
	"ISO-8859-2":  charmap.ISO8859_2,
	"ISO-8859-15": charmap.ISO8859_15,
	"WINDOWS-1252": charmap.Windows1252,
	"CP437":       charmap.CodePage437,
}

// lookupLegacyDecoder resolves a Config.Encoding name to a decoder, or nil
// for "" and "UTF-8" (the default, no transcoding needed).
func lookupLegacyDecoder(name string) *encoding.Decoder {
	if name == "" || name == "UTF-8" {
		return nil
	}
	enc, ok := legacyEncodings[name]
	if !ok {
		return nil
	}
	return enc.NewDecoder()
}

// transcodeLegacy runs raw bytes through dec, returning the input
// unmodified if transcoding fails rather than dropping the input on the
// floor -- a garbled glyph beats a lost keystroke.
func transcodeLegacy(dec *encoding.Decoder, raw []byte) []byte {
	if dec == nil {
		return raw
	}
	out, err := dec.Bytes(raw)
	if err != nil {
		return raw
	}
	return out
}
