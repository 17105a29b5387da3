package parser

import (
	"strings"

	"github.com/aledsdavies/dial/pkgs/lexer"
)

// SegmentSeparator joins segments in Format output
const SegmentSeparator = " - "

// Describe splits a buffer into display segments. The last segment may be
// incomplete while it is still being typed. Characters that no token or
// shortcut accounts for end up in a trailing segment with an empty label.
func (p *Parser) Describe(buffer string) []Segment {
	buf := []rune(lexer.Normalize(buffer))
	if len(buf) == 0 {
		return nil
	}

	m := p.vocab.MatchShortcut(buf)
	if sc := m.Extending; sc != nil {
		return []Segment{{Label: sc.Label, Marker: string(buf), Shortcut: true}}
	}
	if sc := m.Resolved; sc != nil {
		segs := []Segment{{
			Label:    sc.Label,
			Marker:   sc.Prefix,
			Payload:  sc.Payload(buf),
			Shortcut: true,
			Complete: len(buf) >= sc.Expected(),
		}}
		if len(buf) > sc.Expected() {
			segs = append(segs, Segment{Marker: string(buf[sc.Expected():])})
		}
		return segs
	}

	var segs []Segment
	for pos := 0; pos < len(buf); {
		tok, ok := p.resolver.Resolve(buf, pos)
		if !ok {
			segs = append(segs, Segment{Marker: string(buf[pos:])})
			break
		}
		end := min(pos+1+tok.Length, len(buf))
		segs = append(segs, Segment{
			Label:    tok.Label,
			Marker:   string(tok.Marker),
			Payload:  string(buf[pos+1 : end]),
			Complete: end == pos+1+tok.Length,
		})
		pos = end
	}
	return segs
}

// Format renders a buffer as its segments joined by " - ", for example
// "8012502" as "801 - 2 - 502" and the shortcut "2501" as "25 - 01".
func (p *Parser) Format(buffer string) string {
	var parts []string
	for _, seg := range p.Describe(buffer) {
		if seg.Shortcut {
			parts = append(parts, seg.Marker)
			if seg.Payload != "" {
				parts = append(parts, seg.Payload)
			}
			continue
		}
		parts = append(parts, seg.Text())
	}
	return strings.Join(parts, SegmentSeparator)
}
