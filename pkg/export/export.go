// Package export writes an assembly to disk: one OpenSCAD file per part, a
// combined main.scad, an assembly.yaml manifest and, when a renderer is
// configured, one mesh per part.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chazu/rodjoint/pkg/assembly"
	"github.com/chazu/rodjoint/pkg/csg"
	"github.com/chazu/rodjoint/pkg/parts"
	"github.com/chazu/rodjoint/pkg/render"
	"github.com/chazu/rodjoint/pkg/scad"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Output file names inside OutDir.
const (
	MainFile     = "main.scad"
	ManifestFile = "assembly.yaml"
)

// DefaultSpacing separates parts laid out side by side in main.scad.
const DefaultSpacing = 10.0

// Driver exports assemblies. A nil Renderer produces text output only.
type Driver struct {
	OutDir   string
	Renderer render.Renderer
	Workers  int
	Spacing  float64
	Verbose  bool
	Logger   *zap.Logger
}

// Failure records a part whose mesh could not be rendered.
type Failure struct {
	Part string
	Err  error
}

// Report summarizes one export.
type Report struct {
	ScadFiles      []string
	MainFile       string
	ManifestFile   string
	Meshes         []string
	Failures       []Failure
	BoundsWarnings []string // parts whose solid exceeds the declared box
	RenderSkipped  bool
	Elapsed        time.Duration
}

// Failed reports whether any part failed to render.
func (r *Report) Failed() bool { return len(r.Failures) > 0 }

func (d *Driver) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// progress logs per-part progress at info level when verbose, debug
// otherwise.
func (d *Driver) progress(msg string, fields ...zap.Field) {
	if d.Verbose {
		d.logger().Info(msg, fields...)
		return
	}
	d.logger().Debug(msg, fields...)
}

// Export writes every part of asm. Render failures are logged and
// reported but never remove text artifacts or abort the export; only I/O
// errors and cancellation are returned as errors.
func (d *Driver) Export(ctx context.Context, asm *assembly.Assembly) (*Report, error) {
	start := time.Now()
	log := d.logger()
	tasks := asm.Tasks()

	if err := os.MkdirAll(d.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create %s: %w", d.OutDir, err)
	}

	rep := &Report{RenderSkipped: d.Renderer == nil}
	scadPaths := make([]string, len(tasks))
	for i, t := range tasks {
		p, err := d.writePart(t)
		if err != nil {
			return nil, err
		}
		scadPaths[i] = p
		rep.ScadFiles = append(rep.ScadFiles, p)

		if w := checkBounds(t); w != "" {
			rep.BoundsWarnings = append(rep.BoundsWarnings, t.Name)
			log.Warn("declared bounding box smaller than solid extent",
				zap.String("part", t.Name),
				zap.String("declared", t.Box.String()),
				zap.String("solid", w))
		}
	}

	offsets := Layout(tasks, d.spacing())
	mainPath, err := d.writeMain(tasks, offsets)
	if err != nil {
		return nil, err
	}
	rep.MainFile = mainPath

	meshes := make([]string, len(tasks))
	if d.Renderer != nil {
		if err := d.renderAll(ctx, tasks, scadPaths, meshes, rep); err != nil {
			return nil, err
		}
	} else {
		log.Debug("rendering skipped, writing solid models only")
	}

	manifestPath := filepath.Join(d.OutDir, ManifestFile)
	if err := writeManifest(manifestPath, d.rendererName(), tasks, offsets, d.OutDir, scadPaths, meshes); err != nil {
		return nil, err
	}
	rep.ManifestFile = manifestPath

	rep.Elapsed = time.Since(start)
	log.Info("export complete",
		zap.String("out", d.OutDir),
		zap.Int("parts", len(tasks)),
		zap.Int("meshes", len(rep.Meshes)),
		zap.Int("failures", len(rep.Failures)),
		zap.Duration("elapsed", rep.Elapsed))
	return rep, nil
}

func (d *Driver) spacing() float64 {
	if d.Spacing > 0 {
		return d.Spacing
	}
	return DefaultSpacing
}

func (d *Driver) rendererName() string {
	if d.Renderer == nil {
		return ""
	}
	return d.Renderer.Name()
}

func (d *Driver) writePart(t parts.PartTask) (string, error) {
	var buf bytes.Buffer
	if err := scad.WritePart(&buf, t.Name, t.Solid); err != nil {
		return "", fmt.Errorf("export: %s: %w", t.Name, err)
	}
	path := filepath.Join(d.OutDir, t.Name+".scad")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	d.progress("wrote solid model", zap.String("part", t.Name), zap.String("path", path))
	return path, nil
}

func (d *Driver) writeMain(tasks []parts.PartTask, offsets []csg.Vec3) (string, error) {
	placements := make([]scad.Placement, len(tasks))
	for i, t := range tasks {
		placements[i] = scad.Placement{Name: t.Name, Solid: t.Solid, Offset: offsets[i]}
	}
	var buf bytes.Buffer
	if err := scad.WriteAssembly(&buf, placements); err != nil {
		return "", fmt.Errorf("export: %s: %w", MainFile, err)
	}
	path := filepath.Join(d.OutDir, MainFile)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

// renderAll renders every part concurrently, at most Workers at a time.
// meshes[i] is set for every part that rendered.
func (d *Driver) renderAll(ctx context.Context, tasks []parts.PartTask, scadPaths, meshes []string, rep *Report) error {
	log := d.logger()
	workers := d.Workers
	if workers <= 0 {
		workers = 1
	}

	var mu sync.Mutex
	failures := make([]error, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := filepath.Join(d.OutDir, t.Name+d.Renderer.Ext())
			began := time.Now()
			if err := d.Renderer.Render(gctx, t, scadPaths[i], out); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("render failed", zap.String("part", t.Name), zap.Error(err))
				mu.Lock()
				failures[i] = err
				mu.Unlock()
				return nil
			}
			d.progress("rendered mesh",
				zap.String("part", t.Name),
				zap.String("renderer", d.Renderer.Name()),
				zap.Duration("took", time.Since(began)))
			mu.Lock()
			meshes[i] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("export: render: %w", err)
	}

	for i, t := range tasks {
		if failures[i] != nil {
			rep.Failures = append(rep.Failures, Failure{Part: t.Name, Err: failures[i]})
		}
		if meshes[i] != "" {
			rep.Meshes = append(rep.Meshes, meshes[i])
		}
	}
	return nil
}

// Layout places parts side by side along X: each part starts where the
// previous declared width plus spacing ends.
func Layout(tasks []parts.PartTask, spacing float64) []csg.Vec3 {
	offsets := make([]csg.Vec3, len(tasks))
	x := 0.0
	for i, t := range tasks {
		offsets[i] = csg.Vec3{X: x}
		x += t.Box.Width + spacing
	}
	return offsets
}

// checkBounds compares the declared box with the analytic extent of the
// solid. It returns the analytic size when the declared box is too small.
func checkBounds(t parts.PartTask) string {
	b, ok := csg.Bounds(t.Solid)
	if !ok || t.Box.Contains(b) {
		return ""
	}
	s := b.Size()
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", s.X, s.Y, s.Z)
}
