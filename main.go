package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/chazu/rodjoint/pkg/assembly"
	"go.uber.org/zap"
)

// ExitError carries a process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Renderer choices for --renderer.
const (
	RendererAuto     = "auto"
	RendererOpenSCAD = "openscad"
	RendererNative   = "native"
)

// Options are the parsed command line.
type Options struct {
	OutDir     string
	ConfigPath string
	ScriptPath string
	Fast       bool
	Renderer   string
	Workers    int
	Watch      bool
	Verbose    bool
	Parts      []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run is main without the process concerns, for tests.
func run(ctx context.Context, out io.Writer, args []string) error {
	opts, shouldExit, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	log, err := newLogger(opts.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	app := NewApp(*opts, log)
	if opts.Watch {
		return app.Watch(ctx)
	}
	rep, err := app.Generate(ctx)
	if rep != nil {
		fmt.Fprintf(out, "wrote %d solid models and %d meshes to %s\n",
			len(rep.ScadFiles), len(rep.Meshes), opts.OutDir)
	}
	return err
}

// parseFlags processes command-line arguments. It returns the options, a
// boolean indicating the program should exit cleanly, or an ExitError.
func parseFlags(args []string, output io.Writer) (*Options, bool, error) {
	fs := flag.NewFlagSet("rodjoint", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
rodjoint - parametric rod joints, cradles and fasteners for 3D printing.

Usage:
  rodjoint [options]

Writes one OpenSCAD file per part, main.scad and assembly.yaml to the output
directory, and one STL mesh per part when a renderer is available.

Options:
`)
		fs.PrintDefaults()
	}

	opts := &Options{}
	var partsFlag string
	fs.StringVar(&opts.OutDir, "out", "build", "Output directory.")
	fs.StringVar(&opts.ConfigPath, "config", "", "HCL parameter file.")
	fs.StringVar(&opts.ScriptPath, "script", "", "Build script evaluated after the parameter file.")
	fs.BoolVar(&opts.Fast, "fast", false, "Skip mesh rendering, write solid models only.")
	fs.StringVar(&opts.Renderer, "renderer", RendererAuto, "Mesh renderer: 'auto', 'openscad' or 'native'.")
	fs.IntVar(&opts.Workers, "workers", runtime.NumCPU(), "Number of parts rendered concurrently.")
	fs.BoolVar(&opts.Watch, "watch", false, "Regenerate whenever the parameter file or script changes.")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Log per-part progress.")
	fs.StringVar(&partsFlag, "parts", "", "Comma separated builders to run, default all.")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", fs.Arg(0))}
	}

	switch opts.Renderer {
	case RendererAuto, RendererOpenSCAD, RendererNative:
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid renderer: must be 'auto', 'openscad' or 'native'"}
	}
	if opts.Workers < 1 {
		return nil, false, &ExitError{Code: 2, Message: "workers must be at least 1"}
	}
	if opts.OutDir == "" {
		return nil, false, &ExitError{Code: 2, Message: "out must not be empty"}
	}
	if opts.Watch && opts.ConfigPath == "" && opts.ScriptPath == "" {
		return nil, false, &ExitError{Code: 2, Message: "watch requires --config or --script"}
	}
	for _, p := range strings.Split(partsFlag, ",") {
		if p = strings.TrimSpace(p); p != "" {
			opts.Parts = append(opts.Parts, p)
		}
	}
	if _, err := assembly.Select(opts.Parts...); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return opts, false, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
