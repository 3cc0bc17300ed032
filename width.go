package termgrid

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"
)

// WidthFunc is the external width oracle collaborator: given a rune, it
// reports how many terminal columns it occupies (0, 1, or 2). The library
// never computes this itself; it only consumes the function.
type WidthFunc func(r rune) int

var eastAsianWidth = false

// defaultWidth is the go-runewidth backed implementation used when no
// WidthFunc override is supplied to Init. Runes in the genuinely ambiguous
// East Asian category (§4.F's ambiguous-width rule) are resolved against
// the SetEastAsianWidth toggle instead of runewidth's own locale guess,
// since x/text/width's Unicode-table classification is narrower and more
// conservative than runewidth's heuristic.
func defaultWidth(r rune) int {
	if width.LookupRune(r).Kind() == width.EastAsianAmbiguous {
		if eastAsianWidth {
			return 2
		}
		return 1
	}
	return runewidth.RuneWidth(r)
}

// SetEastAsianWidth toggles whether the default width oracle treats East
// Asian ambiguous-width runes as 2 columns (CJK locales/consoles) or 1
// (everything else). Mirrors the Windows backend's code-page driven
// ambiguous-width rule from spec §4.F, but is also useful on POSIX when
// $LANG indicates a CJK locale.
func SetEastAsianWidth(eastAsian bool) {
	eastAsianWidth = eastAsian
	runewidth.DefaultCondition.EastAsianWidth = eastAsian
}
