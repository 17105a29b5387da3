package engine

import (
	"context"

	"github.com/aledsdavies/dial/pkgs/invariant"
	"github.com/aledsdavies/dial/pkgs/parser"
)

// Session owns the buffer of one interactive input stream.
// It is not safe for concurrent use; each front end keeps its own.
type Session struct {
	dispatcher *Dispatcher
	buf        []rune
}

// NewSession starts an idle session on a dispatcher
func NewSession(d *Dispatcher) *Session {
	invariant.NotNil(d, "dispatcher")
	return &Session{dispatcher: d}
}

// Dispatcher returns the dispatcher the session submits to
func (s *Session) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Append adds one character to the buffer
func (s *Session) Append(r rune) {
	s.buf = append(s.buf, r)
}

// Backspace removes the last character, reporting whether there was one
func (s *Session) Backspace() bool {
	if len(s.buf) == 0 {
		return false
	}
	s.buf = s.buf[:len(s.buf)-1]
	return true
}

// Reset empties the buffer
func (s *Session) Reset() {
	s.buf = s.buf[:0]
}

// Buffer returns the current buffer
func (s *Session) Buffer() string {
	return string(s.buf)
}

// State evaluates the current buffer
func (s *Session) State() parser.ParseState {
	return s.dispatcher.parser.Evaluate(string(s.buf))
}

// Phase reports the unforced phase of the current buffer
func (s *Session) Phase() Phase {
	return PhaseOf(s.State(), false)
}

// Submit processes the buffer and resets it after a dispatch, including one
// whose handler failed.
func (s *Session) Submit(ctx context.Context, force bool) (Result, error) {
	buffer := string(s.buf)
	res, err := s.dispatcher.Process(ctx, buffer, force)
	if res.Dispatched {
		s.dispatcher.logger.Debug("[SESSION] Buffer reset after dispatch", "buffer", buffer)
		s.Reset()
	}
	return res, err
}

// Feed appends a keypad character and processes the buffer without force.
// Characters other than digits and spaces are ignored.
func (s *Session) Feed(ctx context.Context, r rune) (Result, error) {
	if r != ' ' && (r < '0' || r > '9') {
		return Result{State: s.State()}, nil
	}
	s.Append(r)
	return s.Submit(ctx, false)
}
