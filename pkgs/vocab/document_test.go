package vocab

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dialerrors "github.com/aledsdavies/dial/pkgs/errors"
)

const sampleDocument = `
version: v1.2.0
objects:
  - marker: "8"
    label: attr
    length: 2
  - marker: "5"
    label: action
    coded: true
interactions:
  - marker: "2"
    label: add
  - marker: "1"
    label: act
shortcuts:
  - prefix: "25"
    label: create_action
    length: 2
  - prefix: "07"
    label: drop_log
phrases:
  - attr add action
  - action act
logic_types:
  - code: "26"
    label: habit
    subs: ["01"]
sub_logic_types:
  - code: "01"
    label: daily
`

func TestParseDocument(t *testing.T) {
	doc, err := Parse([]byte(sampleDocument))
	require.NoError(t, err)

	assert.Equal(t, "v1.2.0", doc.Version)
	require.Len(t, doc.Shortcuts, 2)
	assert.Equal(t, "07", doc.Shortcuts[1].Prefix)

	reg, err := doc.Build(nil)
	require.NoError(t, err)

	action, ok := reg.Object('5')
	require.True(t, ok)
	assert.True(t, action.Coded)
	assert.True(t, reg.IsValidSubLogicType("26", "01"))
	assert.Equal(t, []string{"create_action", "drop_log", "attr add action", "action act"}, reg.Labels())
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		errType  string
	}{
		{
			name:     "not yaml",
			document: "version: [",
			errType:  dialerrors.ErrVocabularyParse,
		},
		{
			name:     "missing version",
			document: "objects: []",
			errType:  dialerrors.ErrVocabularySchema,
		},
		{
			name:     "unquoted prefix decodes as number",
			document: "version: v1.0.0\nshortcuts:\n  - prefix: 07\n    label: drop_log\n",
			errType:  dialerrors.ErrVocabularySchema,
		},
		{
			name:     "two character marker",
			document: "version: v1.0.0\nobjects:\n  - marker: \"47\"\n    label: sequence\n",
			errType:  dialerrors.ErrVocabularySchema,
		},
		{
			name:     "unknown field",
			document: "version: v1.0.0\ncommands: []\n",
			errType:  dialerrors.ErrVocabularySchema,
		},
		{
			name:     "unsupported major version",
			document: "version: v2.0.0\n",
			errType:  dialerrors.ErrVocabularyVersion,
		},
		{
			name:     "version is not semver",
			document: "version: latest\n",
			errType:  dialerrors.ErrVocabularyVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.document))
			require.Error(t, err)
			assert.True(t, dialerrors.IsErrorType(err, tt.errType), "got %v", err)
		})
	}
}

func TestSchemaValidatesNumbers(t *testing.T) {
	tests := []struct {
		name   string
		length string
		valid  bool
	}{
		{"integer", "2", true},
		{"zero", "0", true},
		{"fraction", "1.5", false},
		{"negative", "-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			document := "version: v1.0.0\nshortcuts:\n  - prefix: \"25\"\n    label: create_action\n    length: " + tt.length + "\n"
			_, err := Parse([]byte(document))
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dialerrors.IsErrorType(err, dialerrors.ErrVocabularySchema), "got %v", err)
		})
	}
}

func TestVersionWithoutPrefix(t *testing.T) {
	doc, err := Parse([]byte("version: 1.4.2\n"))
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", doc.Version)
}

func TestDocumentBuildProblems(t *testing.T) {
	doc := &Document{
		Version: "v1.0.0",
		Interactions: []TokenSpec{
			{Marker: "2", Label: "add", Coded: true},
		},
		Phrases: []string{"attr add"},
	}
	_, err := doc.Build(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only objects can be coded")
	assert.Contains(t, err.Error(), `unknown token label "attr"`)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o600))

	doc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Objects, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, dialerrors.IsErrorType(err, dialerrors.ErrVocabularyRead))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: v9.0.0\n"), 0o600))
	_, err = LoadFile(bad)
	var de *dialerrors.DialError
	require.ErrorAs(t, err, &de)
	got, _ := de.GetContext("path")
	assert.Equal(t, bad, got)
}

func TestLoadReader(t *testing.T) {
	doc, err := Load(strings.NewReader(sampleDocument))
	require.NoError(t, err)
	assert.Len(t, doc.Phrases, 2)
}

func TestDocumentRoundTripKeepsFingerprint(t *testing.T) {
	reg, err := Default(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DocumentOf(reg, "v1.0.0").Encode(&buf))

	doc, err := Parse(buf.Bytes())
	require.NoError(t, err, "exported document should validate:\n%s", buf.String())

	rebuilt, err := doc.Build(nil)
	require.NoError(t, err)

	want, err := reg.Fingerprint()
	require.NoError(t, err)
	got, err := rebuilt.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFingerprintSensitiveToShortcutOrder(t *testing.T) {
	first, err := NewBuilder().Shortcut("9", 0, "a", nil).Shortcut("98", 0, "b", nil).Build()
	require.NoError(t, err)
	second, err := NewBuilder().Shortcut("98", 0, "b", nil).Shortcut("9", 0, "a", nil).Build()
	require.NoError(t, err)

	a, err := first.Fingerprint()
	require.NoError(t, err)
	b, err := second.Fingerprint()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)

	again, err := first.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, a, again, "fingerprint must be deterministic")
}
