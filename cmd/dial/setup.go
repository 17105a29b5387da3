package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/term"

	"github.com/aledsdavies/dial/pkgs/vocab"
)

// ANSI colors for plain (non-interactive) output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// colorize wraps text in ANSI color codes if color is enabled
func colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + colorReset
}

// shouldUseColor respects --no-color, NO_COLOR and whether w is a terminal
func shouldUseColor(noColorFlag bool, w io.Writer) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// newLogger creates the CLI's debug logger: plain text on w without time
// or level noise
func newLogger(w io.Writer, debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// echoBinder binds every command to a handler that describes the call
func echoBinder(name string) vocab.Handler {
	return func(_ context.Context, args []string) (any, error) {
		if len(args) == 0 {
			return name, nil
		}
		return fmt.Sprintf("%s %s", name, strings.Join(args, " ")), nil
	}
}

// loadRegistry builds the configured vocabulary
func (a *app) loadRegistry(bind vocab.Binder) (*vocab.Registry, error) {
	if a.vocabPath == "" {
		return vocab.Default(bind)
	}
	return vocab.LoadRegistry(a.vocabPath, bind)
}

func (a *app) logger() *slog.Logger {
	return newLogger(a.stderr, a.debug)
}

func (a *app) useColor() bool {
	return shouldUseColor(a.noColor, a.stdout)
}

// rankLabels returns the labels matching query, closest first
func rankLabels(query string, labels []string) []string {
	ranks := fuzzy.RankFindFold(query, labels)
	sort.Stable(ranks)

	out := make([]string, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.Target)
	}
	return out
}
