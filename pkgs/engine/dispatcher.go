package engine

import (
	"context"
	"log/slog"

	dialerrors "github.com/aledsdavies/dial/pkgs/errors"
	"github.com/aledsdavies/dial/pkgs/invariant"
	"github.com/aledsdavies/dial/pkgs/lexer"
	"github.com/aledsdavies/dial/pkgs/parser"
	"github.com/aledsdavies/dial/pkgs/vocab"
)

// Result describes the outcome of processing a buffer.
// Dispatched is true when the buffer was consumed, including silent no-op
// completions where no handler is bound; the caller should then reset it.
type Result struct {
	Dispatched bool
	Value      any
	Command    parser.ParsedCommand
	State      parser.ParseState
}

// Phase reports the state machine phase the result was decided in
func (r Result) Phase(force bool) Phase {
	return PhaseOf(r.State, force)
}

// Dispatcher turns complete buffers into handler invocations
type Dispatcher struct {
	vocab  *vocab.Registry
	parser *parser.Parser
	logger *slog.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithLogger sets the debug logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a dispatcher over a vocabulary
func NewDispatcher(reg *vocab.Registry, opts ...Option) *Dispatcher {
	invariant.NotNil(reg, "registry")

	d := &Dispatcher{
		vocab:  reg,
		parser: parser.New(reg),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Parser returns the parser the dispatcher evaluates with
func (d *Dispatcher) Parser() *parser.Parser {
	return d.parser
}

// Registry returns the dispatcher's vocabulary
func (d *Dispatcher) Registry() *vocab.Registry {
	return d.vocab
}

// Process evaluates the buffer and, when it is complete, invokes the bound
// handler.
//
// Incomplete and idle buffers are not dispatched. A buffer complete only
// under an ambiguous reading is dispatched only when force is set. A
// complete command with no bound handler is a successful no-op. The only
// error returned is one produced by the handler itself, and the result
// still reports Dispatched.
func (d *Dispatcher) Process(ctx context.Context, buffer string, force bool) (Result, error) {
	state := d.parser.Evaluate(buffer)
	res := Result{State: state}

	d.logger.Debug("[DISPATCH] Evaluated",
		"buffer", buffer,
		"remaining", state.Remaining,
		"ambiguous", state.Ambiguous,
		"complete", state.Complete)

	if state.Remaining != 0 || !state.Complete {
		return res, nil
	}
	if state.Ambiguous && !force {
		d.logger.Debug("[DISPATCH] Holding ambiguous reading", "buffer", buffer)
		return res, nil
	}

	cmd := d.parser.Translate(buffer)
	res.Command = cmd
	res.Dispatched = true

	var handler vocab.Handler
	var args []string
	if cmd.Shortcut {
		sc, ok := d.vocab.Shortcut(cmd.Prefix)
		invariant.Invariant(ok, "translated shortcut %q is not registered", cmd.Prefix)
		handler = sc.Handler
		if sc.Length > 0 {
			payload := cmd.Payload()
			if payload == "" {
				payload = buffer
			}
			args = []string{payload}
		}
	} else {
		consumed := len([]rune(lexer.Normalize(buffer)))
		invariant.Postcondition(cmd.Consumed == consumed,
			"translation consumed %d of %d characters the evaluator accepted", cmd.Consumed, consumed)
		if phrase, ok := d.vocab.Phrase(cmd.Name); ok {
			handler = phrase.Handler
			args = cmd.Payloads
		}
	}

	d.logger.Debug("[DISPATCH] Dispatching",
		"command", cmd.Name,
		"payloads", args,
		"shortcut", cmd.Shortcut,
		"force", force)

	if handler == nil {
		d.logger.Debug("[DISPATCH] No handler bound, completing without value", "command", cmd.Name)
		return res, nil
	}

	value, err := handler(ctx, args)
	res.Value = value
	if err != nil {
		return res, dialerrors.NewHandlerError(cmd.Name, err)
	}
	return res, nil
}
