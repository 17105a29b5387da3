package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/dial/internal/config"
	dialerrors "github.com/aledsdavies/dial/pkgs/errors"
)

// Exit codes
const (
	exitOK         = 0
	exitUsage      = 1
	exitVocabulary = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps failures to exit codes
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	rootCmd := newRootCmd(cfg, stdout, stderr)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	for _, t := range []string{
		dialerrors.ErrVocabularyRead,
		dialerrors.ErrVocabularyParse,
		dialerrors.ErrVocabularySchema,
		dialerrors.ErrVocabularyVersion,
		dialerrors.ErrVocabularyInvalid,
	} {
		if dialerrors.IsErrorType(err, t) {
			return exitVocabulary
		}
	}
	return exitUsage
}

// app carries the resolved settings shared by every subcommand
type app struct {
	cfg       config.Config
	vocabPath string
	debug     bool
	noColor   bool
	stdout    io.Writer
	stderr    io.Writer
}

func newRootCmd(cfg config.Config, stdout, stderr io.Writer) *cobra.Command {
	a := &app{cfg: cfg, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           "dial",
		Short:         "Recognize keypad digit streams as commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// Flags default to the environment so that an explicit flag wins
	rootCmd.PersistentFlags().StringVarP(&a.vocabPath, "vocab", "v", cfg.Vocabulary, "Path to a YAML vocabulary (default: built-in)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", cfg.Debug, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", cfg.NoColor, "Disable colored output")

	rootCmd.AddCommand(
		newEvalCmd(a),
		newParseCmd(a),
		newRunCmd(a),
		newVocabCmd(a),
		newFindCmd(a),
		newKeypadCmd(a),
	)
	return rootCmd
}
