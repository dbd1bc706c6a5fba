package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/rodjoint/pkg/assembly"
	"github.com/chazu/rodjoint/pkg/config"
	"github.com/chazu/rodjoint/pkg/engine"
	"github.com/chazu/rodjoint/pkg/export"
	"github.com/chazu/rodjoint/pkg/parts"
	"github.com/chazu/rodjoint/pkg/render"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// App runs generations for one set of options.
type App struct {
	opts   Options
	engine *engine.Engine
	log    *zap.Logger

	// onGenerate is called after every generation in watch mode.
	onGenerate func(*export.Report, error)
}

// NewApp creates an App. A nil logger discards output.
func NewApp(opts Options, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		opts:   opts,
		engine: engine.NewEngine(),
		log:    log,
	}
}

// Generate loads parameters, evaluates the script, builds the selected
// parts and exports them. Parts that fail to render are kept as solid
// models; the report is returned together with an error naming them.
func (a *App) Generate(ctx context.Context) (*export.Report, error) {
	cfg, entries, err := a.plan()
	if err != nil {
		return nil, err
	}

	asm, err := assembly.BuildParallel(ctx, cfg, entries)
	if err != nil {
		return nil, err
	}

	d := &export.Driver{
		OutDir:   a.opts.OutDir,
		Renderer: a.renderer(),
		Workers:  a.opts.Workers,
		Verbose:  a.opts.Verbose,
		Logger:   a.log,
	}
	rep, err := d.Export(ctx, asm)
	if err != nil {
		return nil, err
	}
	if rep.Failed() {
		names := make([]string, len(rep.Failures))
		for i, f := range rep.Failures {
			names[i] = f.Part
		}
		return rep, fmt.Errorf("%d of %d parts failed to render: %v", len(names), asm.Len(), names)
	}
	return rep, nil
}

// plan resolves the parameters and builders for one generation: defaults,
// then the parameter file, then the script, then --parts.
func (a *App) plan() (parts.Config, []assembly.Entry, error) {
	cfg := parts.DefaultConfig()
	if a.opts.ConfigPath != "" {
		c, err := config.Load(a.opts.ConfigPath)
		if err != nil {
			return parts.Config{}, nil, err
		}
		cfg = c
	}

	if a.opts.ScriptPath == "" {
		entries, err := assembly.Select(a.opts.Parts...)
		if err != nil {
			return parts.Config{}, nil, err
		}
		return cfg, entries, nil
	}

	src, err := os.ReadFile(a.opts.ScriptPath)
	if err != nil {
		return parts.Config{}, nil, fmt.Errorf("failed to read script: %w", err)
	}
	p, evalErrs, err := a.engine.Evaluate(string(src), cfg)
	if err != nil {
		return parts.Config{}, nil, fmt.Errorf("%s: %w", a.opts.ScriptPath, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = fmt.Errorf("%s: %w", a.opts.ScriptPath, e)
		}
		return parts.Config{}, nil, errors.Join(errs...)
	}
	entries, err := p.Entries()
	if len(a.opts.Parts) > 0 {
		entries, err = assembly.Select(a.opts.Parts...)
	}
	if err != nil {
		return parts.Config{}, nil, err
	}
	return p.Config, entries, nil
}

// renderer resolves --fast and --renderer. A missing openscad disables
// rendering instead of failing the run.
func (a *App) renderer() render.Renderer {
	if a.opts.Fast {
		a.log.Debug("rendering disabled by --fast")
		return nil
	}
	switch a.opts.Renderer {
	case RendererNative:
		return render.NewNative()
	case RendererOpenSCAD:
		r, err := render.LookupOpenSCAD()
		if err != nil {
			a.log.Warn("openscad requested but not available, writing solid models only", zap.Error(err))
			return nil
		}
		return r
	default:
		r, err := render.LookupOpenSCAD()
		if err != nil {
			a.log.Debug("no renderer found, writing solid models only", zap.Error(err))
			return nil
		}
		return r
	}
}

// Watch generates once, then again whenever the parameter file or the
// script changes, until ctx is done. Generation errors are logged and do
// not stop watching.
func (a *App) Watch(ctx context.Context) error {
	files := make(map[string]bool)
	for _, p := range []string{a.opts.ConfigPath, a.opts.ScriptPath} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = true
	}
	if len(files) == 0 {
		return &ExitError{Code: 2, Message: "watch requires --config or --script"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	// Directories are watched so editors that replace the file on save
	// are still seen.
	dirs := make(map[string]bool)
	for f := range files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
		a.log.Debug("watching directory", zap.String("dir", dir))
	}

	a.regenerate(ctx)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			a.log.Info("stopping watch")
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !files[filepath.Clean(event.Name)] {
				continue
			}
			a.log.Info("source changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()))
			pending = time.After(watchDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.Error("file watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			a.regenerate(ctx)
		}
	}
}

func (a *App) regenerate(ctx context.Context) {
	rep, err := a.Generate(ctx)
	if err != nil {
		a.log.Error("generation failed", zap.Error(err))
	}
	if a.onGenerate != nil {
		a.onGenerate(rep, err)
	}
}
