package keypad

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"

	"github.com/aledsdavies/dial/pkgs/engine"
	"github.com/aledsdavies/dial/pkgs/vocab"
)

// Screen rows
const (
	rowTitle = iota
	rowBuffer
	rowState
	rowSegments
	rowStatus
	rowHelp
)

const helpText = "digits type   Enter accept as typed   Backspace delete   Esc quit"

// Options configures a Keypad
type Options struct {
	UseColor bool
	// FoldWidth maps full-width digits to ASCII before they reach the buffer
	FoldWidth bool
	Logger    *slog.Logger
}

// Keypad is a terminal front end driving one engine session
type Keypad struct {
	screen  tcell.Screen
	session *engine.Session
	opts    Options
	status  string
}

// New creates a keypad on an initialized screen
func New(screen tcell.Screen, reg *vocab.Registry, opts Options) *Keypad {
	k := &Keypad{screen: screen, opts: opts}
	k.session = k.newSession(reg)
	return k
}

func (k *Keypad) newSession(reg *vocab.Registry) *engine.Session {
	return engine.NewSession(engine.NewDispatcher(reg, engine.WithLogger(k.opts.Logger)))
}

// Session returns the active session
func (k *Keypad) Session() *engine.Session {
	return k.session
}

// Status returns the last status line
func (k *Keypad) Status() string {
	return k.status
}

// Reload is one outcome of watching the vocabulary file: either a new
// registry or the error that kept the edited file from loading.
type Reload struct {
	Registry *vocab.Registry
	Err      error
}

// ApplyReload swaps in a reloaded registry, or reports a rejected one on
// the status line while the current session carries on.
func (k *Keypad) ApplyReload(r Reload) {
	if r.Err != nil {
		k.status = "vocabulary reload rejected: " + r.Err.Error()
		return
	}
	k.SetRegistry(r.Registry)
}

// SetRegistry swaps the vocabulary. The typed buffer is discarded since it
// may not mean the same thing under the new grammar.
func (k *Keypad) SetRegistry(reg *vocab.Registry) {
	k.session = k.newSession(reg)
	k.status = "vocabulary reloaded"
}

// HandleEvent applies a terminal event and reports whether to quit
func (k *Keypad) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return k.HandleKey(ctx, ev.Key(), ev.Rune())
	case *tcell.EventResize:
		k.screen.Sync()
	}
	return false
}

// HandleKey applies one key press and reports whether to quit
func (k *Keypad) HandleKey(ctx context.Context, key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		res, err := k.session.Submit(ctx, true)
		k.report(res, err)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		k.session.Backspace()
	case tcell.KeyRune:
		if k.opts.FoldWidth {
			r = fold(r)
		}
		res, err := k.session.Feed(ctx, r)
		k.report(res, err)
	}
	return false
}

func (k *Keypad) report(res engine.Result, err error) {
	switch {
	case err != nil:
		k.status = "error: " + err.Error()
	case res.Dispatched && res.Value == nil:
		k.status = res.Command.String() + " (no-op)"
	case res.Dispatched:
		k.status = fmt.Sprintf("%s -> %v", res.Command, res.Value)
	}
}

// fold maps full-width and other wide forms of a rune to their narrow form
func fold(r rune) rune {
	folded := []rune(width.Fold.String(string(r)))
	if len(folded) != 1 {
		return r
	}
	return folded[0]
}

// Draw renders the session onto the screen
func (k *Keypad) Draw() {
	k.screen.Clear()

	p := k.session.Dispatcher().Parser()
	buffer := k.session.Buffer()
	state := k.session.State()
	phase := engine.PhaseOf(state, false)

	k.text(0, rowTitle, "dial", k.style(tcell.ColorTeal).Bold(true))
	k.text(0, rowBuffer, "> "+p.Format(buffer)+"_", k.style(tcell.ColorYellow))
	k.text(0, rowState, fmt.Sprintf("%s  %s", phase, state), k.style(phaseColor(phase)))

	var labels []string
	for _, seg := range p.Describe(buffer) {
		label := seg.Label
		if label == "" {
			label = "?"
		}
		if !seg.Complete {
			label += "..."
		}
		labels = append(labels, label)
	}
	k.text(0, rowSegments, strings.Join(labels, " "), k.style(tcell.ColorWhite))
	k.text(0, rowStatus, k.status, k.style(tcell.ColorGreen))
	k.text(0, rowHelp, helpText, k.style(tcell.ColorGray))

	k.screen.Show()
}

func phaseColor(phase engine.Phase) tcell.Color {
	switch phase {
	case engine.PhaseAccumulating:
		return tcell.ColorYellow
	case engine.PhasePendingAmbiguous:
		return tcell.ColorPurple
	case engine.PhaseDispatchable:
		return tcell.ColorGreen
	default:
		return tcell.ColorGray
	}
}

func (k *Keypad) style(fg tcell.Color) tcell.Style {
	if !k.opts.UseColor {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(fg)
}

// text writes s starting at column x, advancing by display width
func (k *Keypad) text(x, y int, s string, style tcell.Style) {
	w, _ := k.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		k.screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}

// Run draws and handles events until the user quits or ctx is done.
// Each value received on reloads goes through ApplyReload. The caller owns
// the screen's Init and Fini.
func (k *Keypad) Run(ctx context.Context, reloads <-chan Reload) error {
	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		for {
			ev := k.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-stop:
				return
			}
		}
	}()

	k.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-reloads:
			k.ApplyReload(r)
		case ev := <-events:
			if k.HandleEvent(ctx, ev) {
				return nil
			}
		}
		k.Draw()
	}
}
