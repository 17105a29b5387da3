package vocab

import "slices"

// ShortcutMatch is the result of scanning the shortcut table for a buffer.
//
// Extending is the first entry, in table order, whose prefix strictly extends
// the buffer (the user is still typing a prefix). Resolved is the entry the
// buffer resolves against once its prefix is complete. Both may be set: a
// buffer equal to "9" resolves against "9" while "98" still extends it.
type ShortcutMatch struct {
	Extending *Shortcut
	Resolved  *Shortcut
}

// Pending returns how many characters are still needed to finish typing
// the extending prefix, or 0 when no prefix extends the buffer.
func (m ShortcutMatch) Pending(buf []rune) int {
	if m.Extending == nil {
		return 0
	}
	return m.Extending.PrefixLen() - len(buf)
}

// MatchShortcut scans the shortcut table in registration order and stops at
// the first entry that decides the buffer.
//
// An entry whose prefix strictly extends buf is reported through Extending.
// An entry whose prefix buf starts with resolves the buffer, whether the
// payload is still being typed or buf runs past it. An entry whose prefix
// equals buf is held back while the scan looks for a later entry that
// extends it; an entry held back this way hides later shorter prefixes.
func (r *Registry) MatchShortcut(buf []rune) ShortcutMatch {
	var m ShortcutMatch
	if len(buf) == 0 {
		return m
	}

	var exact *Shortcut
	for i := range r.shortcuts {
		sc := r.shortcuts[i]
		p := sc.prefix
		switch {
		case len(p) > len(buf) && hasPrefix(p, buf):
			m.Extending = &sc
			m.Resolved = exact
			return m
		case len(p) == len(buf) && hasPrefix(p, buf):
			if exact == nil {
				exact = &sc
			}
		case exact == nil && hasPrefix(buf, p):
			m.Resolved = &sc
			return m
		}
	}

	m.Resolved = exact
	return m
}

func hasPrefix(s, prefix []rune) bool {
	return len(s) >= len(prefix) && slices.Equal(s[:len(prefix)], prefix)
}
