package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/dial/pkgs/vocab"
)

// testRegistry mirrors the shape of the default vocabulary with a logic
// type registered, so the coded-action rule is reachable.
func testRegistry(t *testing.T) *vocab.Registry {
	t.Helper()
	reg, err := vocab.NewBuilder().
		Object('8', "attr", 2).
		CodedObject('5', "action").
		Object('3', "shop_item", 1).
		Object('7', "log", 0).
		Interaction('2', "add", 0).
		Interaction('1', "act", 0).
		Shortcut("9", 0, "nine", nil).
		Shortcut("98", 0, "list_attr", nil).
		Shortcut("25", 2, "create_action", nil).
		Phrase("attr add action", nil).
		Phrase("action act", nil).
		Phrase("shop_item act", nil).
		SubLogicType("01", "daily").
		LogicType("26", "habit", "01").
		Build()
	require.NoError(t, err)
	return reg
}

func TestEvaluate(t *testing.T) {
	p := New(testRegistry(t))

	tests := []struct {
		name   string
		buffer string
		want   ParseState
	}{
		{"empty buffer is idle", "", ParseState{}},
		{"only spaces normalize to idle", "  ", ParseState{}},

		{"shorter shortcut waits for longer prefix", "9", ParseState{Remaining: 1}},
		{"earlier shorter shortcut completes", "98", ParseState{Complete: true}},
		{"shortcut prefix being typed", "2", ParseState{Remaining: 1}},
		{"shortcut payload missing", "25", ParseState{Remaining: 2}},
		{"shortcut payload partial", "250", ParseState{Remaining: 1}},
		{"shortcut with payload", "2501", ParseState{Complete: true}},
		{"shortcut with spaces", "25 01", ParseState{Complete: true}},

		{"object payload missing", "8", ParseState{Remaining: 2}},
		{"object payload partial", "80", ParseState{Remaining: 1}},
		{"single token is not a phrase", "801", ParseState{Remaining: 1}},
		{"two tokens are not a phrase", "8012", ParseState{Remaining: 1}},
		{"action payload missing", "80125", ParseState{Remaining: 2}},
		{"phrase complete", "8012502", ParseState{Complete: true}},
		{"phrase with spaces", "801 2 502", ParseState{Complete: true}},
		{"trailing characters after phrase", "80125021", ParseState{Remaining: 1}},
		{"unknown character keeps waiting", "x", ParseState{Remaining: 1}},
		{"unknown marker mid buffer", "8019", ParseState{Remaining: 1}},
		{"non digit buffer is not normalized", "801 x", ParseState{Remaining: 1}},

		{"plain action id", "5011", ParseState{Complete: true}},
		{"logic code read as minimal id is ambiguous", "5261", ParseState{Complete: true, Ambiguous: true}},
		{"logic code id", "52601", ParseState{Remaining: 1}},
		{"sub-logic code needs its id", "526011", ParseState{Remaining: 1}},
		{"sub-logic coded action", "52601111", ParseState{Complete: true}},
		{"fixed single payload", "311", ParseState{Complete: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Evaluate(tt.buffer)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Evaluate(%q) mismatch (-want +got):\n%s", tt.buffer, diff)
			}
		})
	}
}

func TestEvaluateCodedBoundaryWithoutSubLogicTypes(t *testing.T) {
	reg, err := vocab.NewBuilder().
		CodedObject('5', "action").
		Interaction('1', "act", 0).
		Phrase("action act", nil).
		LogicType("26", "habit").
		Build()
	require.NoError(t, err)
	p := New(reg)

	// four characters after the marker read as logic code plus id
	assert.Equal(t, ParseState{Complete: true}, p.Evaluate("526011"))
	assert.Equal(t, []string{"2601"}, p.Translate("526011").Payloads)
}

func TestEvaluateShortcutOrder(t *testing.T) {
	tests := []struct {
		name      string
		shortcuts []string
		want      int
	}{
		{"short prefix first", []string{"25", "247"}, 1},
		{"long prefix first", []string{"247", "25"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := vocab.NewBuilder()
			for _, prefix := range tt.shortcuts {
				b.Shortcut(prefix, 0, "s"+prefix, nil)
			}
			reg, err := b.Build()
			require.NoError(t, err)

			got := New(reg).Evaluate("2")
			assert.Equal(t, ParseState{Remaining: tt.want}, got)
		})
	}
}

func TestShortcutTableOrderDecidesReading(t *testing.T) {
	reg, err := vocab.NewBuilder().
		Shortcut("2", 2, "two", nil).
		Shortcut("25", 2, "create_action", nil).
		Shortcut("9", 0, "nine", nil).
		Shortcut("987", 0, "list_days", nil).
		Build()
	require.NoError(t, err)
	p := New(reg)

	assert.Equal(t, ParseState{Complete: true}, p.Evaluate("98"))
	assert.Equal(t, "nine", p.Translate("98").Name)

	assert.Equal(t, ParseState{Complete: true}, p.Evaluate("2501"))
	got := p.Translate("2501")
	want := ParsedCommand{Name: "two", Prefix: "2", Payloads: []string{"50"}, Shortcut: true, Consumed: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Translate mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateShortcutsBeatPhrases(t *testing.T) {
	reg, err := vocab.NewBuilder().
		Object('8', "attr", 2).
		Interaction('2', "add", 0).
		Phrase("add attr", nil).
		Shortcut("28", 0, "create_attr", nil).
		Build()
	require.NoError(t, err)
	p := New(reg)

	assert.Equal(t, ParseState{Complete: true}, p.Evaluate("28"))
	assert.True(t, p.Translate("28").Shortcut)
	// past the shortcut the buffer overflows it rather than falling back to phrases
	assert.Equal(t, ParseState{Complete: true}, p.Evaluate("2801"))
}

func TestEvaluateIsPure(t *testing.T) {
	p := New(testRegistry(t))

	for _, buffer := range []string{"", "9", "25", "8012502", "5261", "x", "80125021"} {
		first := p.Evaluate(buffer)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, p.Evaluate(buffer), "buffer %q", buffer)
		}
	}
}

func TestEvaluateConverges(t *testing.T) {
	p := New(testRegistry(t))
	const maxPayload = 6

	for _, command := range []string{"8012502", "2501", "98", "5011", "52601111", "311"} {
		t.Run(command, func(t *testing.T) {
			runes := []rune(command)
			prev := ParseState{}
			for i := 1; i < len(runes); i++ {
				state := p.Evaluate(string(runes[:i]))
				assert.False(t, state.Complete, "prefix %q completed early", string(runes[:i]))
				assert.Positive(t, state.Remaining, "prefix %q", string(runes[:i]))
				assert.LessOrEqual(t, state.Remaining, prev.Remaining+maxPayload)
				prev = state
			}
			final := p.Evaluate(command)
			assert.True(t, final.Complete)
			assert.Zero(t, final.Remaining)
		})
	}
}

func TestTranslate(t *testing.T) {
	p := New(testRegistry(t))

	tests := []struct {
		name   string
		buffer string
		want   ParsedCommand
	}{
		{
			name:   "empty buffer",
			buffer: "",
			want:   ParsedCommand{},
		},
		{
			name:   "phrase with payloads",
			buffer: "8012502",
			want:   ParsedCommand{Name: "attr add action", Payloads: []string{"01", "02"}, Consumed: 7},
		},
		{
			name:   "shortcut with payload",
			buffer: "2501",
			want:   ParsedCommand{Name: "create_action", Prefix: "25", Payloads: []string{"01"}, Shortcut: true, Consumed: 4},
		},
		{
			name:   "shortcut without typed payload",
			buffer: "25",
			want:   ParsedCommand{Name: "create_action", Prefix: "25", Shortcut: true, Consumed: 2},
		},
		{
			name:   "earlier shorter shortcut wins",
			buffer: "98",
			want:   ParsedCommand{Name: "nine", Prefix: "9", Shortcut: true, Consumed: 1},
		},
		{
			name:   "minimal coded reading",
			buffer: "5261",
			want:   ParsedCommand{Name: "action act", Payloads: []string{"26"}, Consumed: 4},
		},
		{
			name:   "sub-logic coded id",
			buffer: "52601111",
			want:   ParsedCommand{Name: "action act", Payloads: []string{"260111"}, Consumed: 8},
		},
		{
			name:   "stops at unknown marker",
			buffer: "801x2",
			want:   ParsedCommand{Name: "attr", Payloads: []string{"01"}, Consumed: 3},
		},
		{
			name:   "partial payload",
			buffer: "80",
			want:   ParsedCommand{Name: "attr", Payloads: []string{"0"}, Consumed: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Translate(tt.buffer)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Translate(%q) mismatch (-want +got):\n%s", tt.buffer, diff)
			}
		})
	}
}

func TestTranslateRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	p := New(reg)

	byLabel := map[string]vocab.Token{}
	for _, tok := range append(reg.Objects(), reg.Interactions()...) {
		byLabel[tok.Label] = tok
	}

	for _, buffer := range []string{"8012502", "5011", "5261", "52601111", "311"} {
		t.Run(buffer, func(t *testing.T) {
			require.True(t, p.Evaluate(buffer).Complete)
			cmd := p.Translate(buffer)
			require.False(t, cmd.Shortcut)

			payloads := cmd.Payloads
			length := 0
			for _, label := range splitLabels(cmd.Name) {
				tok, ok := byLabel[label]
				require.True(t, ok, "label %q", label)
				length++
				if tok.Length == 0 && !tok.Coded {
					continue
				}
				require.NotEmpty(t, payloads)
				payload := payloads[0]
				payloads = payloads[1:]
				if !tok.Coded {
					assert.Len(t, payload, tok.Length)
				}
				length += len(payload)
			}
			assert.Empty(t, payloads, "unclaimed payloads")
			assert.Equal(t, len(buffer), length)
			assert.Equal(t, len(buffer), cmd.Consumed)
		})
	}
}

func splitLabels(name string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == ' ' {
			out = append(out, name[start:i])
			start = i + 1
		}
	}
	return out
}

func TestEndToEndScenarioGrammar(t *testing.T) {
	reg, err := vocab.NewBuilder().
		Object('8', "attr", 2).
		CodedObject('5', "action").
		Interaction('2', "add", 0).
		Phrase("attr add action", nil).
		Shortcut("25", 2, "create_action", nil).
		Build()
	require.NoError(t, err)
	p := New(reg)

	assert.Equal(t, ParseState{Complete: true}, p.Evaluate("8012502"))
	assert.Equal(t, ParsedCommand{Name: "attr add action", Payloads: []string{"01", "02"}, Consumed: 7}, p.Translate("8012502"))

	assert.Equal(t, ParseState{Complete: true}, p.Evaluate("2501"))
	assert.Equal(t, "01", p.Translate("2501").Payload())
}

func TestParsedCommandString(t *testing.T) {
	cmd := ParsedCommand{Name: "attr add action", Payloads: []string{"01", "02"}}
	assert.Equal(t, "attr add action(01, 02)", cmd.String())
	assert.Equal(t, "", ParsedCommand{}.Payload())
	assert.Equal(t, "remaining=1 ambiguous=false complete=false", ParseState{Remaining: 1}.String())
}
