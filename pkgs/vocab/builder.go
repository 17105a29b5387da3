package vocab

import (
	"fmt"
	"strings"
	"unicode/utf8"

	dialerrors "github.com/aledsdavies/dial/pkgs/errors"
)

// CodeLength is the width of logic and sub-logic type codes
const CodeLength = 2

// Builder accumulates vocabulary definitions and validates them on Build.
// Problems are collected rather than returned one by one so that a broken
// vocabulary file reports everything wrong with it at once.
type Builder struct {
	reg      *Registry
	problems []error
	built    bool
}

// NewBuilder creates an empty vocabulary builder
func NewBuilder() *Builder {
	return &Builder{
		reg: &Registry{
			objects:       make(map[rune]Token),
			interactions:  make(map[rune]Token),
			phrases:       make(map[string]Phrase),
			logicTypes:    make(map[string]LogicType),
			subLogicTypes: make(map[string]SubLogicType),
		},
	}
}

func (b *Builder) problem(format string, args ...interface{}) {
	b.problems = append(b.problems, fmt.Errorf(format, args...))
}

// Object registers an object token with a fixed payload length
func (b *Builder) Object(marker rune, label string, length int) *Builder {
	b.addToken(b.reg.objects, Token{Kind: KindObject, Marker: marker, Label: label, Length: length})
	return b
}

// CodedObject registers the object token whose payload length is resolved
// dynamically. At most one coded object may exist.
func (b *Builder) CodedObject(marker rune, label string) *Builder {
	for _, tok := range b.reg.objects {
		if tok.Coded {
			b.problem("coded object %q already registered as %q", string(marker), string(tok.Marker))
			return b
		}
	}
	b.addToken(b.reg.objects, Token{Kind: KindObject, Marker: marker, Label: label, Length: CodeLength, Coded: true})
	return b
}

// Interaction registers an interaction token
func (b *Builder) Interaction(marker rune, label string, length int) *Builder {
	b.addToken(b.reg.interactions, Token{Kind: KindInteraction, Marker: marker, Label: label, Length: length})
	return b
}

func (b *Builder) addToken(table map[rune]Token, tok Token) {
	switch {
	case tok.Marker == ' ' || tok.Marker == utf8.RuneError:
		b.problem("%s %q: invalid marker", tok.Kind, tok.Label)
		return
	case tok.Label == "" || strings.ContainsAny(tok.Label, " \t"):
		b.problem("%s %q: label must be a single non-empty word", tok.Kind, string(tok.Marker))
		return
	case tok.Length < 0:
		b.problem("%s %q: negative payload length %d", tok.Kind, tok.Label, tok.Length)
		return
	}
	if prev, exists := table[tok.Marker]; exists {
		b.problem("%s marker %q registered twice (%s, %s)", tok.Kind, string(tok.Marker), prev.Label, tok.Label)
		return
	}
	table[tok.Marker] = tok
}

// Shortcut appends a shortcut command. Registration order is significant:
// the first matching entry wins during evaluation.
func (b *Builder) Shortcut(prefix string, length int, label string, handler Handler) *Builder {
	switch {
	case prefix == "":
		b.problem("shortcut %q: empty prefix", label)
		return b
	case length < 0:
		b.problem("shortcut %q: negative payload length %d", prefix, length)
		return b
	case label == "":
		b.problem("shortcut %q: empty label", prefix)
		return b
	}
	if _, exists := b.reg.Shortcut(prefix); exists {
		b.problem("shortcut prefix %q registered twice", prefix)
		return b
	}
	b.reg.shortcuts = append(b.reg.shortcuts, Shortcut{
		Prefix:  prefix,
		Length:  length,
		Label:   label,
		Handler: handler,
		prefix:  []rune(prefix),
	})
	return b
}

// Phrase registers a phrase command. The key is normalized to single spaces.
// A nil handler keeps the phrase in the grammar without binding it.
func (b *Builder) Phrase(key string, handler Handler) *Builder {
	key = strings.Join(strings.Fields(key), " ")
	if key == "" {
		b.problem("phrase: empty key")
		return b
	}
	if _, exists := b.reg.phrases[key]; exists {
		b.problem("phrase %q registered twice", key)
		return b
	}
	b.reg.phrases[key] = Phrase{Key: key, Handler: handler}
	b.reg.phraseOrder = append(b.reg.phraseOrder, key)
	return b
}

// LogicType registers a logic type and the sub-logic codes valid under it
func (b *Builder) LogicType(code, label string, subs ...string) *Builder {
	if utf8.RuneCountInString(code) != CodeLength {
		b.problem("logic type %q: code must be %d characters", code, CodeLength)
		return b
	}
	if _, exists := b.reg.logicTypes[code]; exists {
		b.problem("logic type %q registered twice", code)
		return b
	}
	b.reg.logicTypes[code] = LogicType{Code: code, Label: label, Subs: append([]string(nil), subs...)}
	b.reg.logicOrder = append(b.reg.logicOrder, code)
	return b
}

// SubLogicType registers a sub-logic type
func (b *Builder) SubLogicType(code, label string) *Builder {
	if utf8.RuneCountInString(code) != CodeLength {
		b.problem("sub-logic type %q: code must be %d characters", code, CodeLength)
		return b
	}
	if _, exists := b.reg.subLogicTypes[code]; exists {
		b.problem("sub-logic type %q registered twice", code)
		return b
	}
	b.reg.subLogicTypes[code] = SubLogicType{Code: code, Label: label}
	b.reg.subOrder = append(b.reg.subOrder, code)
	return b
}

// Build validates cross-references and returns the immutable registry
func (b *Builder) Build() (*Registry, error) {
	if b.built {
		return nil, dialerrors.NewInvalidError([]error{fmt.Errorf("builder already used")})
	}
	b.built = true

	labels := make(map[string]bool)
	for _, tok := range b.reg.objects {
		labels[tok.Label] = true
	}
	for _, tok := range b.reg.interactions {
		labels[tok.Label] = true
	}
	for _, key := range b.reg.phraseOrder {
		for _, word := range strings.Fields(key) {
			if !labels[word] {
				b.problem("phrase %q: unknown token label %q", key, word)
			}
		}
	}

	if len(b.problems) > 0 {
		return nil, dialerrors.NewInvalidError(b.problems)
	}
	return b.reg, nil
}
