package lexer

import (
	"strings"

	"github.com/aledsdavies/dial/pkgs/invariant"
	"github.com/aledsdavies/dial/pkgs/vocab"
)

// Resolver decides which token a marker starts and how long its payload is.
// It is the single source of truth for token lengths: the evaluator and the
// translator both walk buffers through it.
type Resolver struct {
	vocab *vocab.Registry
}

// NewResolver creates a resolver over a vocabulary
func NewResolver(reg *vocab.Registry) *Resolver {
	invariant.NotNil(reg, "registry")
	return &Resolver{vocab: reg}
}

// Resolve returns the token whose marker sits at buf[pos].
//
// Objects take precedence over interactions. When the marker is registered
// in both tables the object reading is used only if its whole payload is
// already present after the marker; otherwise the interaction reading wins.
func (r *Resolver) Resolve(buf []rune, pos int) (Token, bool) {
	invariant.InRange(pos, 0, len(buf)-1, "pos")

	marker := buf[pos]
	inter, isInter := r.vocab.Interaction(marker)

	if obj, isObj := r.vocab.Object(marker); isObj {
		tok := Token{Kind: vocab.KindObject, Marker: marker, Label: obj.Label, Length: obj.Length}
		if obj.Coded {
			tok.Length, tok.Ambiguous = r.CodedLength(buf, pos)
		}
		if !isInter || len(buf)-(pos+1) >= tok.Length {
			return tok, true
		}
	}

	if isInter {
		return Token{Kind: vocab.KindInteraction, Marker: marker, Label: inter.Label, Length: inter.Length}, true
	}
	return Token{}, false
}

// CodedLength resolves the payload length of the coded token at buf[pos].
//
// The two characters after the marker are a plain id unless they form a
// registered logic code. A logic code is followed by an id (4 characters),
// or by a sub-logic code valid for it and an id (6 characters). With only
// 2 or 3 characters available the reading stays at 2 and is reported as
// ambiguous, since a longer coded id may still be typed.
//
// With exactly 4 characters available the sub-logic code is not checked.
// This boundary differs from the 5-character case and callers may depend on
// it, so it is kept as is.
func (r *Resolver) CodedLength(buf []rune, pos int) (length int, ambiguous bool) {
	remaining := len(buf) - (pos + 1)
	if remaining < 2 {
		return PlainIDLength, false
	}

	logic := string(buf[pos+1 : pos+3])
	if !r.vocab.IsValidLogicType(logic) {
		return PlainIDLength, false
	}

	switch {
	case remaining >= 5:
		sub := string(buf[pos+3 : pos+5])
		if r.vocab.IsValidSubLogicType(logic, sub) {
			return SubLogicIDLength, false
		}
		return LogicIDLength, false
	case remaining == 4:
		return LogicIDLength, false
	default:
		return PlainIDLength, true
	}
}

// Normalize strips spaces from a buffer made only of ASCII digits and
// spaces. Any other composition is returned unchanged.
func Normalize(buffer string) string {
	if buffer == "" {
		return buffer
	}
	for _, c := range buffer {
		if c != ' ' && (c < '0' || c > '9') {
			return buffer
		}
	}
	return strings.ReplaceAll(buffer, " ", "")
}
