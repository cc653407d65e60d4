// Package symbols provides interned, case-insensitive VHDL identifiers.
//
// Identifiers in the language compare without regard to case, while
// diagnostics should echo the spelling the designer actually wrote. The
// table therefore folds names for identity but remembers the first-seen
// spelling for display. Extended identifiers (backslash-delimited) and
// operator symbols keep their spelling as-is.
package symbols

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/cases"
)

// Symbol identifies one interned name. Two symbols are the same identifier
// iff their IDs are equal.
type Symbol uint32

// NoSymbol marks the absence of a symbol reference.
const NoSymbol Symbol = 0

// IsValid reports whether the symbol refers to an interned name.
func (s Symbol) IsValid() bool { return s != NoSymbol }

// Table interns names and owns their display spellings.
type Table struct {
	byID   []string
	index  map[string]Symbol
	folder cases.Caser
}

// NewTable creates an empty symbol table.
func NewTable() *Table {
	return &Table{
		byID:   []string{""}, // index 0 reserved for NoSymbol
		index:  make(map[string]Symbol),
		folder: cases.Fold(),
	}
}

// fold produces the identity key for a name. Extended identifiers and
// character literals are case-sensitive and keep their exact spelling.
func (t *Table) fold(name string) string {
	if strings.HasPrefix(name, `\`) || strings.HasPrefix(name, "'") {
		return name
	}
	return t.folder.String(name)
}

// Intern inserts a name and returns its symbol, reusing the existing entry
// for any spelling that folds to the same identifier.
func (t *Table) Intern(name string) Symbol {
	key := t.fold(name)
	if sym, ok := t.index[key]; ok {
		return sym
	}

	n, err := safecast.Conv[uint32](len(t.byID))
	if err != nil {
		panic(fmt.Errorf("symbol table overflow: %w", err))
	}
	sym := Symbol(n)
	t.byID = append(t.byID, name)
	t.index[key] = sym
	return sym
}

// Get returns the symbol for a name without interning it.
func (t *Table) Get(name string) (Symbol, bool) {
	sym, ok := t.index[t.fold(name)]
	return sym, ok
}

// Name returns the display spelling recorded for sym.
func (t *Table) Name(sym Symbol) string {
	if int(sym) >= len(t.byID) {
		return ""
	}
	return t.byID[sym]
}

// Len reports the number of interned names, the NoSymbol sentinel included.
func (t *Table) Len() int {
	return len(t.byID)
}
