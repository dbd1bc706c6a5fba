// Package render turns exported parts into mesh files. Two renderers are
// available: the external OpenSCAD binary, which renders the generated
// .scad source, and an in-process renderer that tessellates the CSG tree
// with sdfx.
package render

import (
	"context"
	"errors"

	"github.com/chazu/rodjoint/pkg/parts"
)

// ErrRendererUnavailable is returned when a renderer cannot run on this
// machine. Callers degrade to text-only output.
var ErrRendererUnavailable = errors.New("renderer unavailable")

// Renderer produces one mesh file per part.
type Renderer interface {
	// Name identifies the renderer in logs and manifests.
	Name() string
	// Ext is the output file extension, including the dot.
	Ext() string
	// Render writes the mesh for task to outPath. scadPath is the part's
	// already written OpenSCAD source.
	Render(ctx context.Context, task parts.PartTask, scadPath, outPath string) error
}
