package parser

import (
	"strings"

	"github.com/aledsdavies/dial/pkgs/invariant"
	"github.com/aledsdavies/dial/pkgs/lexer"
	"github.com/aledsdavies/dial/pkgs/vocab"
)

// Parser evaluates and translates keypad buffers against a vocabulary.
// It holds no mutable state; every method is a pure function of its
// buffer and the registry, so one Parser can serve any number of sessions.
type Parser struct {
	vocab    *vocab.Registry
	resolver *lexer.Resolver
}

// New creates a parser for the given vocabulary
func New(reg *vocab.Registry) *Parser {
	invariant.NotNil(reg, "registry")
	return &Parser{
		vocab:    reg,
		resolver: lexer.NewResolver(reg),
	}
}

// Registry returns the vocabulary the parser reads
func (p *Parser) Registry() *vocab.Registry {
	return p.vocab
}

// Evaluate reports how far the buffer is from a dispatchable command.
//
// Shortcuts are consulted first, in registration order, and the first entry
// that decides the buffer wins. A buffer equal to one prefix still waits
// while a later prefix extends it. Otherwise the buffer is walked token by
// token until the accumulated labels form a phrase.
// Unrecognized input never fails: it reports one more character needed.
func (p *Parser) Evaluate(buffer string) ParseState {
	buf := []rune(lexer.Normalize(buffer))
	if len(buf) == 0 {
		return ParseState{}
	}

	m := p.vocab.MatchShortcut(buf)
	if m.Extending != nil {
		return ParseState{Remaining: m.Pending(buf)}
	}
	if sc := m.Resolved; sc != nil {
		if expected := sc.Expected(); len(buf) < expected {
			return ParseState{Remaining: expected - len(buf)}
		}
		return ParseState{Complete: true}
	}

	return p.evaluatePhrase(buf)
}

func (p *Parser) evaluatePhrase(buf []rune) ParseState {
	var labels []string
	ambiguous := false

	for pos := 0; pos < len(buf); {
		tok, ok := p.resolver.Resolve(buf, pos)
		if !ok {
			return ParseState{Remaining: 1}
		}
		labels = append(labels, tok.Label)
		ambiguous = ambiguous || tok.Ambiguous

		available := len(buf) - (pos + 1)
		if available < tok.Length {
			return ParseState{Remaining: tok.Length - available}
		}

		next := pos + 1 + tok.Length
		invariant.Invariant(next > pos, "phrase walk stalled at %d", pos)
		pos = next

		if _, ok := p.vocab.Phrase(strings.Join(labels, " ")); ok {
			if pos == len(buf) {
				return ParseState{Complete: true, Ambiguous: ambiguous}
			}
			return ParseState{Remaining: 1}
		}
	}

	return ParseState{Remaining: 1}
}

// Translate decomposes a buffer into a command. It is meant for buffers
// Evaluate reported complete, or for an ambiguous minimal reading the caller
// chose to accept; on other buffers it returns the best partial reading.
//
// A shortcut match wins and carries at most one payload, which is empty when
// no payload characters were typed. Otherwise the buffer is walked with the
// same token resolution Evaluate uses, stopping at the first unrecognized
// marker.
func (p *Parser) Translate(buffer string) ParsedCommand {
	buf := []rune(lexer.Normalize(buffer))
	if len(buf) == 0 {
		return ParsedCommand{}
	}

	if sc := p.vocab.MatchShortcut(buf).Resolved; sc != nil {
		cmd := ParsedCommand{
			Name:     sc.Label,
			Prefix:   sc.Prefix,
			Shortcut: true,
			Consumed: min(len(buf), sc.Expected()),
		}
		if payload := sc.Payload(buf); payload != "" {
			cmd.Payloads = []string{payload}
		}
		return cmd
	}

	var labels, payloads []string
	pos := 0
	for pos < len(buf) {
		tok, ok := p.resolver.Resolve(buf, pos)
		if !ok {
			break
		}
		end := min(pos+1+tok.Length, len(buf))
		labels = append(labels, tok.Label)
		if tok.Length > 0 {
			payloads = append(payloads, string(buf[pos+1:end]))
		}
		pos = end
	}

	return ParsedCommand{
		Name:     strings.Join(labels, " "),
		Payloads: payloads,
		Consumed: pos,
	}
}
