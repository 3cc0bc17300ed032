package termgrid

import (
	"io"

	"github.com/rs/zerolog"
)

// newLogger builds the per-Session logger. The default sink discards
// everything: a terminal UI library must never write to an arbitrary
// stream while it owns the screen, since that output would corrupt the
// very display it's trying to draw. Callers that want diagnostics pass
// WithLogger(w) to Init to redirect to a file or pipe instead.
func newLogger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = io.Discard
	}
	return zerolog.New(w).With().Timestamp().Str("component", "termgrid").Logger()
}
