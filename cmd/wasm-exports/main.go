// Command wasm-exports prints the exports of a WebAssembly module with
// their type signatures, one per line.
//
// Usage:
//
//	wasm-exports [flags] <file.wasm>
//
// Flags:
//
//	--compile           also compile the module with wazero
//	--threads           enable the threads proposal for the compile check
//	--memory-limit N    cap memories at N pages during the compile check
//	-v, --verbose       debug logging on stderr
//	-i, --interactive   browse exports interactively
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/wasm-exports/engine"
	"github.com/wippyai/wasm-exports/inspect"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var version = "<unknown>"

var stderrStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FF6B6B"))

// usageError marks command line mistakes, which exit with exitUsage.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type options struct {
	memoryLimit uint32
	compile     bool
	threads     bool
	verbose     bool
	interactive bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := configureCLI(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(stderr, "Error: %v\n", uerr)
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	}
	reportError(stderr, err)
	return exitError
}

func configureCLI(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	command := &cobra.Command{
		Use:           "wasm-exports [flags] <file.wasm>",
		Short:         "List WebAssembly module exports",
		Long:          "wasm-exports - print each export of a WebAssembly module with its type signature",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{fmt.Errorf("expected exactly one module path, got %d", len(args))}
			}
			if opts.memoryLimit > 1<<16 {
				return &usageError{fmt.Errorf("memory limit %d exceeds 65536 pages", opts.memoryLimit)}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectModule(cmd.Context(), args[0], opts, stdout, stderr)
		},
	}
	command.SetOut(stdout)
	command.SetErr(stderr)
	command.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	flags := command.Flags()
	flags.BoolVar(&opts.compile, "compile", false, "also compile the module with wazero")
	flags.BoolVar(&opts.threads, "threads", false, "enable the threads proposal for --compile")
	flags.Uint32Var(&opts.memoryLimit, "memory-limit", 0, "memory limit in pages for --compile (0 = default)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "interactive mode with TUI")

	return command
}

func inspectModule(ctx context.Context, path string, opts *options, stdout, stderr io.Writer) error {
	log := newLogger(opts.verbose, stderr)
	defer func() { _ = log.Sync() }()
	inspect.SetLogger(log.Named("inspect"))
	engine.SetLogger(log.Named("engine"))

	exports, err := inspect.LoadFile(ctx, path, &inspect.Config{
		Compile:          opts.compile,
		EnableThreads:    opts.threads,
		MemoryLimitPages: opts.memoryLimit,
	})
	if err != nil {
		return err
	}

	if opts.interactive {
		if !isTerminal(stdout) {
			return errors.New("--interactive requires a terminal on stdout")
		}
		return runInteractive(path, exports)
	}

	out := bufio.NewWriter(stdout)
	writeErr := inspect.WriteExports(out, exports)
	// flush what was written even when a later line failed
	if flushErr := out.Flush(); writeErr == nil {
		writeErr = flushErr
	}
	if writeErr != nil {
		return writeErr
	}

	log.Debug("done", zap.String("path", path), zap.Int("exports", len(exports)))
	return nil
}

func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

func reportError(stderr io.Writer, err error) {
	msg := fmt.Sprintf("Error: %v", err)
	if isTerminal(stderr) {
		msg = stderrStyle.Render(msg)
	}
	fmt.Fprintln(stderr, msg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
