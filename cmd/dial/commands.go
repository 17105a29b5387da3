package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/aledsdavies/dial/internal/keypad"
	"github.com/aledsdavies/dial/internal/watch"
	"github.com/aledsdavies/dial/pkgs/engine"
	"github.com/aledsdavies/dial/pkgs/parser"
	"github.com/aledsdavies/dial/pkgs/vocab"
)

// exportVersion is written into exported vocabulary documents
const exportVersion = "v1.0.0"

// maxSuggestions limits "did you mean" output
const maxSuggestions = 3

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <buffer>",
		Short: "Report how far a buffer is from a complete command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(nil)
			if err != nil {
				return err
			}
			state := parser.New(reg).Evaluate(args[0])

			fmt.Fprintf(a.stdout, "remaining: %d\n", state.Remaining)
			fmt.Fprintf(a.stdout, "ambiguous: %t\n", state.Ambiguous)
			fmt.Fprintf(a.stdout, "complete:  %t\n", state.Complete)
			fmt.Fprintf(a.stdout, "phase:     %s\n", engine.PhaseOf(state, false))
			return nil
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <buffer>",
		Short: "Decompose a buffer into its command and payloads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(nil)
			if err != nil {
				return err
			}
			p := parser.New(reg)
			buffer := args[0]
			useColor := a.useColor()

			fmt.Fprintf(a.stdout, "segments: %s\n", colorize(p.Format(buffer), colorYellow, useColor))
			state := p.Evaluate(buffer)
			if !state.Complete {
				fmt.Fprintf(a.stdout, "incomplete: %d more character(s)\n", state.Remaining)
				return nil
			}

			c := p.Translate(buffer)
			kind := "phrase"
			if c.Shortcut {
				kind = "shortcut"
			}
			fmt.Fprintf(a.stdout, "command:  %s\n", colorize(c.Name, colorCyan, useColor))
			fmt.Fprintf(a.stdout, "kind:     %s\n", kind)
			fmt.Fprintf(a.stdout, "payloads: %s\n", strings.Join(c.Payloads, ", "))
			if state.Ambiguous {
				fmt.Fprintf(a.stdout, "%s\n", colorize("ambiguous: minimal coded reading", colorYellow, useColor))
			}
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run <buffer>",
		Short: "Dispatch a buffer against echo handlers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(echoBinder)
			if err != nil {
				return err
			}
			d := engine.NewDispatcher(reg, engine.WithLogger(a.logger()))
			buffer := args[0]
			useColor := a.useColor()

			res, err := d.Process(cmd.Context(), buffer, force)
			if err != nil {
				return err
			}

			switch res.Phase(force) {
			case engine.PhaseIdle:
				fmt.Fprintln(a.stdout, "idle: empty buffer")
			case engine.PhaseAccumulating:
				fmt.Fprintf(a.stdout, "pending: %d more character(s)\n", res.State.Remaining)
				a.suggest(d.Parser(), buffer)
			case engine.PhasePendingAmbiguous:
				c := d.Parser().Translate(buffer)
				fmt.Fprintf(a.stdout, "%s: complete only as %s; use --force to accept\n",
					colorize("ambiguous", colorYellow, useColor), c)
			default:
				if res.Value == nil {
					fmt.Fprintf(a.stdout, "%s: %s\n", colorize("no-op", colorGray, useColor), res.Command)
					return nil
				}
				fmt.Fprintf(a.stdout, "%s: %v\n", colorize("dispatched", colorGreen, useColor), res.Value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Accept an ambiguous minimal reading")
	return cmd
}

// suggest prints the closest commands to what the buffer reads as so far
func (a *app) suggest(p *parser.Parser, buffer string) {
	name := p.Translate(buffer).Name
	if name == "" {
		return
	}
	matches := rankLabels(name, p.Registry().Labels())
	if len(matches) == 0 {
		return
	}
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	fmt.Fprintf(a.stdout, "did you mean: %s\n", strings.Join(matches, ", "))
}

func newVocabCmd(a *app) *cobra.Command {
	var export bool

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Show the active vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(nil)
			if err != nil {
				return err
			}
			if export {
				return vocab.DocumentOf(reg, exportVersion).Encode(a.stdout)
			}

			fp, err := reg.Fingerprint()
			if err != nil {
				return err
			}
			useColor := a.useColor()
			out := a.stdout

			fmt.Fprintln(out, colorize("objects", colorCyan, useColor))
			for _, tok := range reg.Objects() {
				length := fmt.Sprintf("%d", tok.Length)
				if tok.Coded {
					length = "coded"
				}
				fmt.Fprintf(out, "  %c  %-12s %s\n", tok.Marker, tok.Label, length)
			}
			fmt.Fprintln(out, colorize("interactions", colorCyan, useColor))
			for _, tok := range reg.Interactions() {
				fmt.Fprintf(out, "  %c  %-12s %d\n", tok.Marker, tok.Label, tok.Length)
			}
			fmt.Fprintln(out, colorize("shortcuts", colorCyan, useColor))
			for _, sc := range reg.Shortcuts() {
				fmt.Fprintf(out, "  %-4s %-16s %d\n", sc.Prefix, sc.Label, sc.Length)
			}
			fmt.Fprintln(out, colorize("phrases", colorCyan, useColor))
			for _, ph := range reg.Phrases() {
				fmt.Fprintf(out, "  %s\n", ph.Key)
			}
			if logic := reg.LogicTypes(); len(logic) > 0 {
				fmt.Fprintln(out, colorize("logic types", colorCyan, useColor))
				for _, lt := range logic {
					fmt.Fprintf(out, "  %s  %-12s %s\n", lt.Code, lt.Label, strings.Join(lt.Subs, " "))
				}
			}
			if subs := reg.SubLogicTypes(); len(subs) > 0 {
				fmt.Fprintln(out, colorize("sub-logic types", colorCyan, useColor))
				for _, st := range subs {
					fmt.Fprintf(out, "  %s  %s\n", st.Code, st.Label)
				}
			}
			fmt.Fprintf(out, "fingerprint: %s\n", fp)
			return nil
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "Write the vocabulary as a YAML document")
	return cmd
}

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search shortcut labels and phrases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(nil)
			if err != nil {
				return err
			}
			matches := rankLabels(args[0], reg.Labels())
			if len(matches) == 0 {
				fmt.Fprintln(a.stdout, "no matches")
				return nil
			}
			for _, m := range matches {
				fmt.Fprintln(a.stdout, m)
			}
			return nil
		},
	}
}

func newKeypadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keypad",
		Short: "Interactive keypad session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(echoBinder)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var reloads chan keypad.Reload
			if a.vocabPath != "" && a.cfg.Watch {
				fp, err := reg.Fingerprint()
				if err != nil {
					return err
				}
				// the screen owns the terminal, so reload outcomes go to the
				// status line instead of the logger
				w, err := watch.New(a.vocabPath, echoBinder, fp, nil)
				if err != nil {
					return err
				}
				defer w.Close()

				reloads = make(chan keypad.Reload)
				send := func(r keypad.Reload) {
					select {
					case reloads <- r:
					case <-ctx.Done():
					}
				}
				go func() {
					err := w.Run(ctx,
						func(reg *vocab.Registry) { send(keypad.Reload{Registry: reg}) },
						func(err error) { send(keypad.Reload{Err: err}) },
					)
					if err != nil {
						send(keypad.Reload{Err: err})
					}
				}()
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}
			defer screen.Fini()

			k := keypad.New(screen, reg, keypad.Options{
				UseColor:  shouldUseColor(a.noColor, os.Stdout),
				FoldWidth: a.cfg.NormalizeWidth,
			})
			return k.Run(ctx, reloads)
		},
	}
}
