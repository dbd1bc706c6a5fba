package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/chazu/rodjoint/pkg/csg"
	"github.com/chazu/rodjoint/pkg/parts"
	"github.com/hschendel/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Renderer = (*OpenSCAD)(nil)
	_ Renderer = (*Native)(nil)
)

func cubeTask() parts.PartTask {
	return parts.PartTask{
		Solid: csg.Cube(10, 10, 10, false).Sub(csg.Cyl(2, 10.1, false).Translate(5, 5, -0.05)),
		Box:   parts.BoundingBox{Width: 10, Depth: 10, Height: 10},
		Name:  "block",
	}
}

func TestNativeCells(t *testing.T) {
	n := NewNative()
	tests := []struct {
		name string
		box  parts.BoundingBox
		want int
	}{
		{"small part clamps to minimum", parts.BoundingBox{Width: 2, Depth: 2, Height: 2}, DefaultMinCells},
		{"medium part", parts.BoundingBox{Width: 20, Depth: 20, Height: 20}, 40},
		{"long bolt clamps to maximum", parts.BoundingBox{Width: 15, Depth: 15, Height: 400}, DefaultMaxCells},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Cells(tt.box))
		})
	}
}

func TestNativeRenderWritesSTL(t *testing.T) {
	n := NewNative()
	n.MaxCells = 40
	out := filepath.Join(t.TempDir(), "block.stl")

	require.NoError(t, n.Render(context.Background(), cubeTask(), "", out))

	solid, err := stl.ReadFile(out)
	require.NoError(t, err)
	assert.NotEmpty(t, solid.Triangles)
}

func TestNativeRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewNative().Render(ctx, cubeTask(), "", filepath.Join(t.TempDir(), "x.stl"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNativeRenderKernelError(t *testing.T) {
	task := cubeTask()
	task.Solid = csg.Hull(csg.Cube(1, 1, 1, false), csg.Cube(1, 1, 1, false).Up(2))
	err := NewNative().Render(context.Background(), task, "", filepath.Join(t.TempDir(), "x.stl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block")
}

func TestLookupOpenSCADMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := LookupOpenSCAD()
	assert.True(t, errors.Is(err, ErrRendererUnavailable))
}

// fakeOpenSCAD installs a shell script named openscad on PATH.
func fakeOpenSCAD(t *testing.T, script string) *OpenSCAD {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, OpenSCADBinary), []byte("#!/bin/sh\n"+script), 0o755))
	t.Setenv("PATH", dir)
	o, err := LookupOpenSCAD()
	require.NoError(t, err)
	return o
}

func TestOpenSCADRender(t *testing.T) {
	o := fakeOpenSCAD(t, `while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then shift; echo "solid fake" > "$1"; fi
  shift
done
`)
	out := filepath.Join(t.TempDir(), "block.stl")
	require.NoError(t, o.Render(context.Background(), cubeTask(), "block.scad", out))
	assert.FileExists(t, out)
}

func TestOpenSCADRenderFailure(t *testing.T) {
	o := fakeOpenSCAD(t, "echo 'ERROR: Parser error' >&2\nexit 1\n")
	err := o.Render(context.Background(), cubeTask(), "block.scad", filepath.Join(t.TempDir(), "x.stl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR: Parser error")
}
