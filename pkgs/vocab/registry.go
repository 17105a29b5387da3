package vocab

import (
	"slices"
	"sort"
)

// Registry is the read-only vocabulary consumed by the recognizer.
// It is built once by a Builder and never mutated afterwards, so it can be
// shared between sessions without locking.
type Registry struct {
	objects       map[rune]Token
	interactions  map[rune]Token
	shortcuts     []Shortcut
	phrases       map[string]Phrase
	phraseOrder   []string
	logicTypes    map[string]LogicType
	logicOrder    []string
	subLogicTypes map[string]SubLogicType
	subOrder      []string
}

// Object retrieves an object token by marker
func (r *Registry) Object(marker rune) (Token, bool) {
	tok, exists := r.objects[marker]
	return tok, exists
}

// Interaction retrieves an interaction token by marker
func (r *Registry) Interaction(marker rune) (Token, bool) {
	tok, exists := r.interactions[marker]
	return tok, exists
}

// Phrase retrieves a phrase command by its space-joined key
func (r *Registry) Phrase(key string) (Phrase, bool) {
	p, exists := r.phrases[key]
	return p, exists
}

// Shortcut retrieves a shortcut command by its exact prefix
func (r *Registry) Shortcut(prefix string) (Shortcut, bool) {
	for _, sc := range r.shortcuts {
		if sc.Prefix == prefix {
			return sc, true
		}
	}
	return Shortcut{}, false
}

// Shortcuts returns the shortcut table in registration order
func (r *Registry) Shortcuts() []Shortcut {
	return slices.Clone(r.shortcuts)
}

// Phrases returns the phrase table in registration order
func (r *Registry) Phrases() []Phrase {
	out := make([]Phrase, 0, len(r.phraseOrder))
	for _, key := range r.phraseOrder {
		out = append(out, r.phrases[key])
	}
	return out
}

// Objects returns the object tokens sorted by marker
func (r *Registry) Objects() []Token {
	return sortedTokens(r.objects)
}

// Interactions returns the interaction tokens sorted by marker
func (r *Registry) Interactions() []Token {
	return sortedTokens(r.interactions)
}

// LogicTypes returns the logic types in registration order
func (r *Registry) LogicTypes() []LogicType {
	out := make([]LogicType, 0, len(r.logicOrder))
	for _, code := range r.logicOrder {
		lt := r.logicTypes[code]
		lt.Subs = slices.Clone(lt.Subs)
		out = append(out, lt)
	}
	return out
}

// SubLogicTypes returns the sub-logic types in registration order
func (r *Registry) SubLogicTypes() []SubLogicType {
	out := make([]SubLogicType, 0, len(r.subOrder))
	for _, code := range r.subOrder {
		out = append(out, r.subLogicTypes[code])
	}
	return out
}

// IsValidLogicType reports whether code is a registered logic type
func (r *Registry) IsValidLogicType(code string) bool {
	_, exists := r.logicTypes[code]
	return exists
}

// IsValidSubLogicType reports whether sub is a registered sub-logic type
// that is also listed under the given logic type
func (r *Registry) IsValidSubLogicType(logic, sub string) bool {
	if _, exists := r.subLogicTypes[sub]; !exists {
		return false
	}
	lt, exists := r.logicTypes[logic]
	if !exists {
		return false
	}
	return slices.Contains(lt.Subs, sub)
}

// Labels returns every dispatchable name: shortcut labels in table order
// followed by phrase keys in table order
func (r *Registry) Labels() []string {
	out := make([]string, 0, len(r.shortcuts)+len(r.phraseOrder))
	for _, sc := range r.shortcuts {
		out = append(out, sc.Label)
	}
	return append(out, r.phraseOrder...)
}

func sortedTokens(m map[rune]Token) []Token {
	out := make([]Token, 0, len(m))
	for _, tok := range m {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Marker < out[j].Marker
	})
	return out
}
