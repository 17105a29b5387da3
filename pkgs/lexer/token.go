package lexer

import (
	"fmt"

	"github.com/aledsdavies/dial/pkgs/vocab"
)

// Coded id widths. A plain id is two characters; a logic code adds two,
// and a sub-logic code after it adds two more.
const (
	PlainIDLength    = 2
	LogicIDLength    = 4
	SubLogicIDLength = 6
)

// Token is a marker resolved at a buffer position together with the
// number of payload characters it consumes after the marker
type Token struct {
	Kind      vocab.TokenKind
	Marker    rune
	Label     string
	Length    int
	Ambiguous bool
}

// String returns a compact debug form, e.g. action[5+4]
func (t Token) String() string {
	s := fmt.Sprintf("%s[%c+%d]", t.Label, t.Marker, t.Length)
	if t.Ambiguous {
		s += "?"
	}
	return s
}
