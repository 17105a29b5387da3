package vocab

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"
)

// canonicalVocabulary is the intermediate form used for fingerprinting.
// Tokens are sorted by marker; shortcuts and phrases keep registration
// order because order changes how buffers are recognized.
type canonicalVocabulary struct {
	Version       uint8
	Objects       []canonicalToken
	Interactions  []canonicalToken
	Shortcuts     []canonicalShortcut
	Phrases       []string
	LogicTypes    []LogicType
	SubLogicTypes []SubLogicType
}

type canonicalToken struct {
	Marker string
	Label  string
	Length int
	Coded  bool
}

type canonicalShortcut struct {
	Prefix string
	Length int
	Label  string
}

func (r *Registry) canonicalize() *canonicalVocabulary {
	cv := &canonicalVocabulary{
		Version:       1,
		Phrases:       append([]string(nil), r.phraseOrder...),
		LogicTypes:    r.LogicTypes(),
		SubLogicTypes: r.SubLogicTypes(),
	}
	for _, tok := range r.Objects() {
		cv.Objects = append(cv.Objects, canonicalToken{string(tok.Marker), tok.Label, tok.Length, tok.Coded})
	}
	for _, tok := range r.Interactions() {
		cv.Interactions = append(cv.Interactions, canonicalToken{string(tok.Marker), tok.Label, tok.Length, tok.Coded})
	}
	for _, sc := range r.shortcuts {
		cv.Shortcuts = append(cv.Shortcuts, canonicalShortcut{sc.Prefix, sc.Length, sc.Label})
	}
	return cv
}

// MarshalBinary produces a deterministic CBOR encoding of the grammar.
// Handlers are not encoded.
func (r *Registry) MarshalBinary() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	data, err := encMode.Marshal(r.canonicalize())
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// Fingerprint returns the hex SHA3-256 digest of the canonical encoding.
// Two registries with the same fingerprint recognize buffers identically.
func (r *Registry) Fingerprint() (string, error) {
	data, err := r.MarshalBinary()
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
