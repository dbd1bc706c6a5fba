package render

import (
	"context"
	"fmt"

	"github.com/chazu/rodjoint/pkg/kernel"
	"github.com/chazu/rodjoint/pkg/kernel/sdfx"
	"github.com/chazu/rodjoint/pkg/parts"
	"github.com/chazu/rodjoint/pkg/tessellate"
	"github.com/hschendel/stl"
)

// Native mesh resolution defaults.
const (
	DefaultCellSize = 0.5 // mm per marching cell
	DefaultMinCells = 32
	DefaultMaxCells = 300
)

// Native tessellates parts in-process and writes binary STL. It does not
// need the OpenSCAD source.
type Native struct {
	Kernel   kernel.Kernel
	CellSize float64
	MinCells int
	MaxCells int
}

// NewNative returns a renderer on the sdfx kernel with default resolution.
func NewNative() *Native {
	return &Native{
		Kernel:   sdfx.New(),
		CellSize: DefaultCellSize,
		MinCells: DefaultMinCells,
		MaxCells: DefaultMaxCells,
	}
}

func (n *Native) Name() string { return "native" }
func (n *Native) Ext() string  { return ".stl" }

// Cells picks the marching cube resolution for a declared bounding box.
func (n *Native) Cells(box parts.BoundingBox) int {
	size := n.CellSize
	if size <= 0 {
		size = DefaultCellSize
	}
	cells := int(box.MaxExtent() / size)
	if cells < n.MinCells {
		cells = n.MinCells
	}
	if n.MaxCells > 0 && cells > n.MaxCells {
		cells = n.MaxCells
	}
	return cells
}

// Render tessellates task.Solid and writes it to outPath.
func (n *Native) Render(ctx context.Context, task parts.PartTask, _, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mesh, err := tessellate.Mesh(task.Solid, n.Kernel, task.Name, n.Cells(task.Box))
	if err != nil {
		return fmt.Errorf("render: native %s: %w", task.Name, err)
	}
	if mesh.IsEmpty() {
		return fmt.Errorf("render: native %s: empty mesh", task.Name)
	}
	solid := ToSTL(mesh)
	if err := solid.WriteFile(outPath); err != nil {
		return fmt.Errorf("render: write %s: %w", outPath, err)
	}
	return nil
}

// ToSTL converts a mesh to a binary STL solid named after its part.
func ToSTL(m *kernel.Mesh) *stl.Solid {
	s := &stl.Solid{
		Name:      m.PartName,
		Triangles: make([]stl.Triangle, m.TriangleCount()),
	}
	for i := range s.Triangles {
		tri := m.Triangle(i)
		t := &s.Triangles[i]
		for j := 0; j < 3; j++ {
			t.Vertices[j] = stl.Vec3(tri[j])
		}
		// Flat shading: every vertex of a triangle carries the face normal.
		n := m.Indices[i*3] * 3
		t.Normal = stl.Vec3{m.Normals[n], m.Normals[n+1], m.Normals[n+2]}
	}
	return s
}
