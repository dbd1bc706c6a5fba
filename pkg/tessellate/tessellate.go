// Package tessellate walks a CSG tree and lowers it to a geometry kernel,
// producing a kernel solid or a triangle mesh for one part.
package tessellate

import (
	"fmt"
	"strconv"

	"github.com/chazu/rodjoint/pkg/csg"
	"github.com/chazu/rodjoint/pkg/kernel"
)

// Error annotates a kernel failure with the location of the node that
// caused it.
type Error struct {
	Path csg.Path
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("tessellate: %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Solid lowers the tree rooted at n to a kernel solid. The tessellator is
// read-only and never mutates the tree.
func Solid(n *csg.Node, k kernel.Kernel) (kernel.Solid, error) {
	if n == nil {
		return nil, fmt.Errorf("tessellate: nil tree")
	}
	return walkNode(k, n, csg.Path{n.Name()})
}

// Mesh lowers n and meshes it with the given number of marching cells along
// the longest axis. The mesh is tagged with name.
func Mesh(n *csg.Node, k kernel.Kernel, name string, cells int) (*kernel.Mesh, error) {
	solid, err := Solid(n, k)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid, cells)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for part %s: %w", name, err)
	}
	mesh.PartName = name
	return mesh, nil
}

// walkNode recursively lowers a node and its children.
func walkNode(k kernel.Kernel, n *csg.Node, path csg.Path) (kernel.Solid, error) {
	switch n.Kind {
	case csg.KindPrimitive:
		return handlePrimitive(k, n, path)
	case csg.KindBoolean:
		return handleBoolean(k, n, path)
	case csg.KindTransform:
		return handleTransform(k, n, path)
	default:
		return nil, &Error{Path: path, Err: fmt.Errorf("unknown node kind: %v", n.Kind)}
	}
}

// handlePrimitive creates geometry for a leaf node.
func handlePrimitive(k kernel.Kernel, n *csg.Node, path csg.Path) (kernel.Solid, error) {
	var (
		solid kernel.Solid
		err   error
	)
	switch d := n.Data.(type) {
	case csg.Cylinder:
		solid, err = k.Cylinder(d.Height, d.R1, d.R2, d.Center, resolution(d.Res))
	case csg.Box:
		solid, err = k.Box(d.Size.X, d.Size.Y, d.Size.Z, d.Center)
	case csg.Extrude:
		var p kernel.Profile
		p, err = profile(k, d.Profile)
		if err == nil {
			solid, err = k.Extrude(p, d.Height, d.Scale, d.Center)
		}
	case csg.ThreadedRod:
		solid, err = k.ThreadedRod(d.Diameter, d.Length, d.Pitch, d.Internal, d.Slop, resolution(d.Res))
	default:
		err = fmt.Errorf("primitive has unsupported data type %T", n.Data)
	}
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return solid, nil
}

// handleBoolean lowers all children, then combines them.
func handleBoolean(k kernel.Kernel, n *csg.Node, path csg.Path) (kernel.Solid, error) {
	b, ok := n.Data.(csg.Boolean)
	if !ok {
		return nil, &Error{Path: path, Err: fmt.Errorf("boolean node has unexpected data type %T", n.Data)}
	}
	if len(n.Children) == 0 {
		return nil, &Error{Path: path, Err: fmt.Errorf("%s has no children", b.Op)}
	}
	solids, err := children(k, n, path)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case csg.OpUnion:
		return k.Union(solids...), nil
	case csg.OpDifference:
		return k.Difference(solids[0], solids[1:]...), nil
	case csg.OpIntersection:
		return k.Intersection(solids...), nil
	case csg.OpHull:
		s, err := k.Hull(solids...)
		if err != nil {
			return nil, &Error{Path: path, Err: err}
		}
		return s, nil
	default:
		return nil, &Error{Path: path, Err: fmt.Errorf("unknown boolean op %v", b.Op)}
	}
}

// handleTransform lowers the single child and applies the transform.
func handleTransform(k kernel.Kernel, n *csg.Node, path csg.Path) (kernel.Solid, error) {
	td, ok := n.Data.(csg.Transform)
	if !ok {
		return nil, &Error{Path: path, Err: fmt.Errorf("transform node has unexpected data type %T", n.Data)}
	}
	if len(n.Children) != 1 {
		return nil, &Error{Path: path, Err: fmt.Errorf("%s has %d children, want 1", td.Op, len(n.Children))}
	}
	solids, err := children(k, n, path)
	if err != nil {
		return nil, err
	}
	s, v := solids[0], td.V
	if v.IsZero() && td.Op != csg.OpScale {
		return s, nil
	}

	switch td.Op {
	case csg.OpTranslate:
		return k.Translate(s, v.X, v.Y, v.Z), nil
	case csg.OpRotate:
		return k.Rotate(s, v.X, v.Y, v.Z), nil
	case csg.OpScale:
		return k.Scale(s, v.X, v.Y, v.Z), nil
	default:
		return nil, &Error{Path: path, Err: fmt.Errorf("unknown transform op %v", td.Op)}
	}
}

func children(k kernel.Kernel, n *csg.Node, path csg.Path) ([]kernel.Solid, error) {
	solids := make([]kernel.Solid, len(n.Children))
	for i, c := range n.Children {
		if c == nil {
			return nil, &Error{Path: path, Err: fmt.Errorf("child %d is nil", i)}
		}
		childPath := append(path[:len(path):len(path)], strconv.Itoa(i), c.Name())
		s, err := walkNode(k, c, childPath)
		if err != nil {
			return nil, err
		}
		solids[i] = s
	}
	return solids, nil
}

func profile(k kernel.Kernel, p csg.Profile) (kernel.Profile, error) {
	switch pr := p.(type) {
	case csg.Polygon:
		pts := make([][2]float64, len(pr.Points))
		for i, v := range pr.Points {
			pts[i] = [2]float64{v.X, v.Y}
		}
		return k.Polygon(pts)
	case csg.Torx:
		return k.TorxProfile(pr.Size, resolution(pr.Res))
	default:
		return nil, fmt.Errorf("unsupported profile %T", p)
	}
}

func resolution(r csg.Resolution) kernel.Resolution {
	return kernel.Resolution{Fa: r.Fa, Fs: r.Fs, Fn: r.Fn}
}
