package vocab

import (
	"context"
	"fmt"
)

// Handler is bound to a shortcut or phrase and invoked on dispatch.
// Shortcuts without payload receive nil args, shortcuts with payload receive
// exactly one arg, phrases receive their ordered payload list. The returned
// value is passed through to the caller unexamined.
type Handler func(ctx context.Context, args []string) (any, error)

// TokenKind distinguishes the two disjoint token tables
type TokenKind uint8

const (
	KindObject TokenKind = iota
	KindInteraction
)

// String returns a human-readable kind name
func (k TokenKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindInteraction:
		return "interaction"
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// Token describes a one-character marker followed by a payload.
// Coded marks the single object token whose payload length is resolved
// from the buffer (plain, logic-coded or sub-logic-coded id).
type Token struct {
	Kind   TokenKind
	Marker rune
	Label  string
	Length int
	Coded  bool
}

// Shortcut binds a fixed prefix, plus a fixed-length payload, to a handler
type Shortcut struct {
	Prefix  string
	Length  int
	Label   string
	Handler Handler

	prefix []rune
}

// PrefixLen returns the prefix length in characters
func (s Shortcut) PrefixLen() int {
	return len(s.prefix)
}

// Expected returns the total number of characters the shortcut consumes
func (s Shortcut) Expected() int {
	return len(s.prefix) + s.Length
}

// Payload slices the payload that follows the prefix in buf. It may be
// shorter than Length (or empty) when buf is incomplete.
func (s Shortcut) Payload(buf []rune) string {
	start := len(s.prefix)
	if start >= len(buf) {
		return ""
	}
	end := start + s.Length
	if end > len(buf) {
		end = len(buf)
	}
	return string(buf[start:end])
}

// Phrase binds a space-joined sequence of token labels to a handler
type Phrase struct {
	Key     string
	Handler Handler
}

// LogicType is a 2-character code that extends a coded token's id
type LogicType struct {
	Code  string
	Label string
	Subs  []string
}

// SubLogicType is a 2-character code valid only under the logic types listing it
type SubLogicType struct {
	Code  string
	Label string
}
