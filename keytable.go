package termgrid

import (
	"os"
	"sort"

	"github.com/xo/terminfo"
)

// capTable is the escape-sequence-to-Key table consulted by the decoder.
// It is built once per Session from the terminfo database for $TERM, with
// a compiled-in xterm-256color fallback when terminfo lookup fails -- the
// "compile-time table with runtime fallback" design note in spec §9.
type capTable struct {
	// entries is sorted longest-sequence-first so the decoder's longest
	// match wins without having to scan the whole table per byte.
	entries []capEntry

	enterCA, exitCA       string
	enterKeypad, exitKey  string
	hideCursor, showCurs  string
	clearScreen           string
	sgrReset              string
	mouseEnable           string
	mouseDisable          string
}

type capEntry struct {
	seq []byte
	key Key
}

// loadCapTable attempts a terminfo lookup for termType (empty uses $TERM),
// falling back to the compiled xterm table on any failure so the backend
// never fails to start merely because the terminfo database is missing
// (common in minimal containers).
func loadCapTable(termType string) *capTable {
	if termType == "" {
		termType = os.Getenv("TERM")
	}
	t := &capTable{}
	ti, err := terminfo.Load(termType)
	if err != nil {
		t.loadXtermFallback()
		return t
	}
	t.fromTerminfo(ti)
	return t
}

func (t *capTable) fromTerminfo(ti *terminfo.Terminfo) {
	add := func(key Key, cap terminfo.CapString) {
		if s := ti.GetStringI(int(cap)); s != "" {
			t.entries = append(t.entries, capEntry{seq: []byte(s), key: key})
		}
	}
	add(KeyArrowUp, terminfo.CursorUp)
	add(KeyArrowDown, terminfo.CursorDown)
	add(KeyArrowLeft, terminfo.CursorLeft)
	add(KeyArrowRight, terminfo.CursorRight)
	add(KeyInsert, terminfo.KeyIC)
	add(KeyDelete, terminfo.KeyDC)
	add(KeyHome, terminfo.KeyHome)
	add(KeyEnd, terminfo.KeyEnd)
	add(KeyPgUp, terminfo.KeyPrevious)
	add(KeyPgDn, terminfo.KeyNext)
	add(KeyF1, terminfo.KeyF1)
	add(KeyF2, terminfo.KeyF2)
	add(KeyF3, terminfo.KeyF3)
	add(KeyF4, terminfo.KeyF4)
	add(KeyF5, terminfo.KeyF5)
	add(KeyF6, terminfo.KeyF6)
	add(KeyF7, terminfo.KeyF7)
	add(KeyF8, terminfo.KeyF8)
	add(KeyF9, terminfo.KeyF9)
	add(KeyF10, terminfo.KeyF10)
	add(KeyF11, terminfo.KeyF11)
	add(KeyF12, terminfo.KeyF12)

	t.enterCA = ti.GetStringI(int(terminfo.EnterCaMode))
	t.exitCA = ti.GetStringI(int(terminfo.ExitCaMode))
	t.enterKeypad = ti.GetStringI(int(terminfo.KeypadXmit))
	t.exitKey = ti.GetStringI(int(terminfo.KeypadLocal))
	t.hideCursor = ti.GetStringI(int(terminfo.CursorInvisible))
	t.showCurs = ti.GetStringI(int(terminfo.CursorNormal))
	t.clearScreen = ti.GetStringI(int(terminfo.ClearScreen))
	t.sgrReset = ti.GetStringI(int(terminfo.ExitAttributeMode))

	if t.hideCursor == "" {
		t.hideCursor = "\x1b[?25l"
	}
	if t.showCurs == "" {
		t.showCurs = "\x1b[?25h"
	}
	t.mouseEnable = "\x1b[?1000;1002;1006h"
	t.mouseDisable = "\x1b[?1000;1002;1006l"

	t.sortEntries()
}

// loadXtermFallback fills in the table that a plain xterm-256color
// terminal is known to support, used whenever terminfo is unavailable.
func (t *capTable) loadXtermFallback() {
	t.entries = []capEntry{
		{[]byte("\x1b[A"), KeyArrowUp},
		{[]byte("\x1b[B"), KeyArrowDown},
		{[]byte("\x1b[C"), KeyArrowRight},
		{[]byte("\x1b[D"), KeyArrowLeft},
		{[]byte("\x1bOA"), KeyArrowUp},
		{[]byte("\x1bOB"), KeyArrowDown},
		{[]byte("\x1bOC"), KeyArrowRight},
		{[]byte("\x1bOD"), KeyArrowLeft},
		{[]byte("\x1b[2~"), KeyInsert},
		{[]byte("\x1b[3~"), KeyDelete},
		{[]byte("\x1b[H"), KeyHome},
		{[]byte("\x1b[F"), KeyEnd},
		{[]byte("\x1b[1~"), KeyHome},
		{[]byte("\x1b[4~"), KeyEnd},
		{[]byte("\x1b[5~"), KeyPgUp},
		{[]byte("\x1b[6~"), KeyPgDn},
		{[]byte("\x1bOP"), KeyF1},
		{[]byte("\x1bOQ"), KeyF2},
		{[]byte("\x1bOR"), KeyF3},
		{[]byte("\x1bOS"), KeyF4},
		{[]byte("\x1b[15~"), KeyF5},
		{[]byte("\x1b[17~"), KeyF6},
		{[]byte("\x1b[18~"), KeyF7},
		{[]byte("\x1b[19~"), KeyF8},
		{[]byte("\x1b[20~"), KeyF9},
		{[]byte("\x1b[21~"), KeyF10},
		{[]byte("\x1b[23~"), KeyF11},
		{[]byte("\x1b[24~"), KeyF12},
	}
	t.enterCA = "\x1b[?1049h"
	t.exitCA = "\x1b[?1049l"
	t.enterKeypad = "\x1b[?1h\x1b="
	t.exitKey = "\x1b[?1l\x1b>"
	t.hideCursor = "\x1b[?25l"
	t.showCurs = "\x1b[?25h"
	t.clearScreen = "\x1b[H\x1b[2J"
	t.sgrReset = "\x1b[0m"
	t.mouseEnable = "\x1b[?1000;1002;1006h"
	t.mouseDisable = "\x1b[?1000;1002;1006l"
	t.sortEntries()
}

func (t *capTable) sortEntries() {
	sort.Slice(t.entries, func(i, j int) bool {
		return len(t.entries[i].seq) > len(t.entries[j].seq)
	})
}

// match finds the longest table entry that is a prefix of data. It returns
// (key, n, false) on a full match, (0, 0, true) if no entry matches yet but
// data is a prefix of some entry (it could still match with more bytes),
// and (0, 0, false) if nothing could possibly match.
func (t *capTable) match(data []byte) (key Key, n int, partial bool) {
	for _, e := range t.entries {
		if len(e.seq) <= len(data) {
			if string(data[:len(e.seq)]) == string(e.seq) {
				return e.key, len(e.seq), false
			}
			continue
		}
		if string(e.seq[:len(data)]) == string(data) {
			partial = true
		}
	}
	return 0, 0, partial
}
