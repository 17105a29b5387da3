package engine

import (
	"fmt"

	"github.com/aledsdavies/dial/pkgs/parser"
)

// Phase is where a buffer stands in the recognition state machine.
// Transitions are driven only by buffer edits and the force flag.
type Phase int

const (
	PhaseIdle             Phase = iota // Empty buffer
	PhaseAccumulating                  // More characters needed
	PhasePendingAmbiguous              // Complete only under an ambiguous reading, waiting for force
	PhaseDispatchable                  // Ready to dispatch
)

// String returns a human-readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAccumulating:
		return "accumulating"
	case PhasePendingAmbiguous:
		return "pending-ambiguous"
	case PhaseDispatchable:
		return "dispatchable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// PhaseOf classifies an evaluation result
func PhaseOf(state parser.ParseState, force bool) Phase {
	switch {
	case state.Remaining > 0:
		return PhaseAccumulating
	case !state.Complete:
		return PhaseIdle
	case state.Ambiguous && !force:
		return PhasePendingAmbiguous
	default:
		return PhaseDispatchable
	}
}
