package vocab

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	dialerrors "github.com/aledsdavies/dial/pkgs/errors"
)

// SupportedMajor is the vocabulary document major version this build reads
const SupportedMajor = "v1"

// Document is the on-disk form of a vocabulary. Shortcuts are a YAML
// sequence so their registration order survives a round trip.
type Document struct {
	Version       string             `yaml:"version"`
	Objects       []TokenSpec        `yaml:"objects,omitempty"`
	Interactions  []TokenSpec        `yaml:"interactions,omitempty"`
	Shortcuts     []ShortcutSpec     `yaml:"shortcuts,omitempty"`
	Phrases       []string           `yaml:"phrases,omitempty"`
	LogicTypes    []LogicTypeSpec    `yaml:"logic_types,omitempty"`
	SubLogicTypes []SubLogicTypeSpec `yaml:"sub_logic_types,omitempty"`
}

// TokenSpec describes an object or interaction token
type TokenSpec struct {
	Marker string `yaml:"marker"`
	Label  string `yaml:"label"`
	Length int    `yaml:"length,omitempty"`
	Coded  bool   `yaml:"coded,omitempty"`
}

// ShortcutSpec describes a shortcut command
type ShortcutSpec struct {
	Prefix string `yaml:"prefix"`
	Label  string `yaml:"label"`
	Length int    `yaml:"length,omitempty"`
}

// LogicTypeSpec describes a logic type and its valid sub-logic codes
type LogicTypeSpec struct {
	Code  string   `yaml:"code"`
	Label string   `yaml:"label"`
	Subs  []string `yaml:"subs,omitempty"`
}

// SubLogicTypeSpec describes a sub-logic type
type SubLogicTypeSpec struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

// LoadFile reads and validates a vocabulary document from disk
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dialerrors.NewReadError(path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		if de, ok := err.(*dialerrors.DialError); ok {
			de.WithContext("path", path)
		}
		return nil, err
	}
	return doc, nil
}

// LoadRegistry reads a vocabulary document from disk and builds it
func LoadRegistry(path string, bind Binder) (*Registry, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	reg, err := doc.Build(bind)
	if err != nil {
		if de, ok := err.(*dialerrors.DialError); ok {
			de.WithContext("path", path)
		}
		return nil, err
	}
	return reg, nil
}

// Load reads and validates a vocabulary document
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, dialerrors.NewReadError("<reader>", err)
	}
	return Parse(data)
}

// Parse decodes YAML, validates it against the vocabulary schema and checks
// the document version
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, dialerrors.NewParseError("invalid YAML", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, dialerrors.NewSchemaError(err)
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, dialerrors.NewParseError("cannot decode vocabulary", err)
	}

	if err := checkVersion(doc.Version); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkVersion(version string) error {
	v := version
	// semver.IsValid requires the "v" prefix
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Major(v) != SupportedMajor {
		return dialerrors.NewVersionError(version, SupportedMajor)
	}
	return nil
}

// Build turns the document into a registry, binding handlers through bind.
// bind may be nil to register every command without a handler.
func (d *Document) Build(bind Binder) (*Registry, error) {
	if bind == nil {
		bind = func(string) Handler { return nil }
	}

	b := NewBuilder()
	for _, spec := range d.Objects {
		marker, ok := singleRune(spec.Marker)
		if !ok {
			b.problem("object %q: marker %q must be one character", spec.Label, spec.Marker)
			continue
		}
		if spec.Coded {
			b.CodedObject(marker, spec.Label)
			continue
		}
		b.Object(marker, spec.Label, spec.Length)
	}
	for _, spec := range d.Interactions {
		marker, ok := singleRune(spec.Marker)
		if !ok {
			b.problem("interaction %q: marker %q must be one character", spec.Label, spec.Marker)
			continue
		}
		if spec.Coded {
			b.problem("interaction %q: only objects can be coded", spec.Label)
			continue
		}
		b.Interaction(marker, spec.Label, spec.Length)
	}
	for _, spec := range d.Shortcuts {
		b.Shortcut(spec.Prefix, spec.Length, spec.Label, bind(spec.Label))
	}
	for _, key := range d.Phrases {
		b.Phrase(key, bind(strings.Join(strings.Fields(key), " ")))
	}
	for _, spec := range d.SubLogicTypes {
		b.SubLogicType(spec.Code, spec.Label)
	}
	for _, spec := range d.LogicTypes {
		b.LogicType(spec.Code, spec.Label, spec.Subs...)
	}
	return b.Build()
}

// Encode writes the document as YAML
func (d *Document) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode vocabulary: %w", err)
	}
	return enc.Close()
}

// DocumentOf exports a registry's grammar. Handlers are not part of the
// document and must be bound again on Build.
func DocumentOf(r *Registry, version string) *Document {
	doc := &Document{Version: version}
	for _, tok := range r.Objects() {
		doc.Objects = append(doc.Objects, tokenSpec(tok))
	}
	for _, tok := range r.Interactions() {
		doc.Interactions = append(doc.Interactions, tokenSpec(tok))
	}
	for _, sc := range r.shortcuts {
		doc.Shortcuts = append(doc.Shortcuts, ShortcutSpec{Prefix: sc.Prefix, Label: sc.Label, Length: sc.Length})
	}
	doc.Phrases = append(doc.Phrases, r.phraseOrder...)
	for _, lt := range r.LogicTypes() {
		doc.LogicTypes = append(doc.LogicTypes, LogicTypeSpec{Code: lt.Code, Label: lt.Label, Subs: lt.Subs})
	}
	for _, st := range r.SubLogicTypes() {
		doc.SubLogicTypes = append(doc.SubLogicTypes, SubLogicTypeSpec{Code: st.Code, Label: st.Label})
	}
	return doc
}

func tokenSpec(tok Token) TokenSpec {
	spec := TokenSpec{Marker: string(tok.Marker), Label: tok.Label, Length: tok.Length, Coded: tok.Coded}
	if tok.Coded {
		spec.Length = 0
	}
	return spec
}

func singleRune(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, r != utf8.RuneError
}
