package parser

import (
	"fmt"
	"strings"
)

// ParseState is the answer to the three per-keystroke questions: how many
// characters are still needed, whether the complete reading is ambiguous,
// and whether the buffer is complete.
//
// The zero value is the idle state of an empty buffer. It has Remaining 0
// but is not complete.
type ParseState struct {
	Remaining int
	Ambiguous bool
	Complete  bool
}

// String renders the state for debugging and CLI output
func (s ParseState) String() string {
	return fmt.Sprintf("remaining=%d ambiguous=%t complete=%t", s.Remaining, s.Ambiguous, s.Complete)
}

// ParsedCommand is the structured decomposition of a complete buffer.
//
// For a shortcut, Name is the shortcut label, Prefix the matched prefix and
// Payloads holds at most one entry. For a phrase, Name is the space-joined
// token labels and Payloads the payload of every token with a non-zero
// length, in buffer order. Consumed is the number of buffer characters the
// decomposition accounts for.
type ParsedCommand struct {
	Name     string
	Prefix   string
	Payloads []string
	Shortcut bool
	Consumed int
}

// Payload returns the single shortcut payload, or "" when there is none
func (c ParsedCommand) Payload() string {
	if len(c.Payloads) == 0 {
		return ""
	}
	return c.Payloads[0]
}

// String renders the command as name(payload, ...)
func (c ParsedCommand) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(c.Payloads, ", "))
}

// Segment is one recognized piece of a buffer, used for display.
// For a token, Marker is the marker character; for a shortcut it is the
// whole prefix. Label is empty for characters that could not be resolved.
type Segment struct {
	Label    string
	Marker   string
	Payload  string
	Shortcut bool
	Complete bool
}

// Text returns the buffer characters covered by the segment
func (s Segment) Text() string {
	return s.Marker + s.Payload
}
