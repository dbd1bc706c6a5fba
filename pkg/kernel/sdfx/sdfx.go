// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/rodjoint/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution when the
// caller does not pick one.
const DefaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// sdfxProfile wraps an sdf.SDF2 to implement kernel.Profile.
type sdfxProfile struct {
	s sdf.SDF2
}

// Bounds returns the 2D bounding rectangle.
func (p *sdfxProfile) Bounds() (min, max [2]float64) {
	bb := p.s.BoundingBox()
	return [2]float64{bb.Min.X, bb.Min.Y}, [2]float64{bb.Max.X, bb.Max.Y}
}

// SdfxKernel implements kernel.Kernel using sdfx. SDFs represent smooth
// surfaces, so facet resolutions are ignored.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// raise lifts a solid centered on the origin so that its base sits on z=0.
func raise(s sdf.SDF3, height float64, center bool) sdf.SDF3 {
	if center {
		return s
	}
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2}))
}

// Box creates a box with the given dimensions. sdf.Box3D centers the box at
// the origin; uncentered boxes are shifted so their minimum corner sits on
// the origin.
func (k *SdfxKernel) Box(x, y, z float64, center bool) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	if center {
		return wrap(s), nil
	}
	m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// Cylinder creates a cylinder, or a frustum when r1 != r2.
func (k *SdfxKernel) Cylinder(height, r1, r2 float64, center bool, _ kernel.Resolution) (kernel.Solid, error) {
	var (
		s   sdf.SDF3
		err error
	)
	if r1 == r2 {
		s, err = sdf.Cylinder3D(height, r1, 0)
	} else {
		s, err = sdf.Cone3D(height, r1, r2, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder h=%g r1=%g r2=%g: %w", height, r1, r2, err)
	}
	return wrap(raise(s, height, center)), nil
}

// Extrude sweeps a profile along Z, scaling the top by scale.
func (k *SdfxKernel) Extrude(p kernel.Profile, height, scale float64, center bool) (kernel.Solid, error) {
	prof, ok := p.(*sdfxProfile)
	if !ok {
		return nil, fmt.Errorf("sdfx: extrude: foreign profile %T", p)
	}
	if height <= 0 {
		return nil, fmt.Errorf("sdfx: extrude: height %g must be positive", height)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("sdfx: extrude: scale %g must be positive", scale)
	}
	var s sdf.SDF3
	if scale == 1 {
		s = sdf.Extrude3D(prof.s, height)
	} else {
		s = sdf.ScaleExtrude3D(prof.s, height, v2.Vec{X: scale, Y: scale})
	}
	return wrap(raise(s, height, center)), nil
}

// ThreadedRod creates a plastic buttress threaded rod centered on the
// origin. Internal rods are nut cutters: their radius grows by slop.
func (k *SdfxKernel) ThreadedRod(diameter, length, pitch float64, internal bool, slop float64, _ kernel.Resolution) (kernel.Solid, error) {
	radius := diameter / 2
	if internal {
		radius += slop
	}
	thread, err := sdf.PlasticButtressThread(radius, pitch)
	if err != nil {
		return nil, fmt.Errorf("sdfx: buttress thread d=%g pitch=%g: %w", diameter, pitch, err)
	}
	s, err := sdf.Screw3D(thread, length, 0, pitch, 1)
	if err != nil {
		return nil, fmt.Errorf("sdfx: screw l=%g: %w", length, err)
	}
	return wrap(s), nil
}

// Polygon creates a closed polygon profile.
func (k *SdfxKernel) Polygon(points [][2]float64) (kernel.Profile, error) {
	vs := make([]v2.Vec, len(points))
	for i, p := range points {
		vs[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, fmt.Errorf("sdfx: polygon: %w", err)
	}
	return &sdfxProfile{s: s}, nil
}

// TorxProfile creates the 2D mask of a torx drive.
func (k *SdfxKernel) TorxProfile(size int, _ kernel.Resolution) (kernel.Profile, error) {
	s, err := torxMask(size)
	if err != nil {
		return nil, err
	}
	return &sdfxProfile{s: s}, nil
}

// Union returns the union of all solids.
func (k *SdfxKernel) Union(s ...kernel.Solid) kernel.Solid {
	if len(s) == 1 {
		return s[0]
	}
	parts := make([]sdf.SDF3, len(s))
	for i, x := range s {
		parts[i] = unwrap(x)
	}
	return wrap(sdf.Union3D(parts...))
}

// Difference returns a minus every solid in b.
func (k *SdfxKernel) Difference(a kernel.Solid, b ...kernel.Solid) kernel.Solid {
	if len(b) == 0 {
		return a
	}
	return wrap(sdf.Difference3D(unwrap(a), unwrap(k.Union(b...))))
}

// Intersection returns the common volume of all solids.
func (k *SdfxKernel) Intersection(s ...kernel.Solid) kernel.Solid {
	acc := unwrap(s[0])
	for _, x := range s[1:] {
		acc = sdf.Intersect3D(acc, unwrap(x))
	}
	return wrap(acc)
}

// Hull is not available for signed distance fields.
func (k *SdfxKernel) Hull(s ...kernel.Solid) (kernel.Solid, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return nil, fmt.Errorf("sdfx: hull of %d solids: %w", len(s), kernel.ErrUnsupported)
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale scales a solid per axis. Non-uniform scales distort the distance
// field but keep its sign, which is all marching cubes needs.
func (k *SdfxKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	if x == y && y == z {
		return wrap(sdf.ScaleUniform3D(unwrap(s), x))
	}
	return wrap(sdf.Transform3D(unwrap(s), sdf.Scale3d(v3.Vec{X: x, Y: y, Z: z})))
}

// ToMesh converts a solid to a triangle mesh using marching cubes with the
// given number of cells along the longest axis.
func (k *SdfxKernel) ToMesh(s kernel.Solid, cells int) (*kernel.Mesh, error) {
	if s == nil {
		return nil, errors.New("sdfx: nil solid")
	}
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
