// Package kernel defines the abstract geometry kernel interface.
// Implementations provide primitive solids, boolean operations and
// meshing behind this interface so that part composition never depends on
// a particular CAD backend.
package kernel

import "errors"

// ErrUnsupported is returned by kernels for operations they cannot build.
var ErrUnsupported = errors.New("kernel: operation not supported")

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Profile is an opaque handle to a 2D shape that can be extruded.
type Profile interface {
	// Bounds returns the 2D bounding rectangle.
	Bounds() (min, max [2]float64)
}

// Resolution mirrors OpenSCAD's $fa/$fs/$fn facet controls. Kernels that
// represent smooth surfaces may ignore it.
type Resolution struct {
	Fa, Fs float64
	Fn     int
}

// Kernel is the abstract geometry kernel interface. All operations are pure:
// they return new solids and never modify their inputs. Invalid parameters
// are reported as errors, never as partially built solids.
type Kernel interface {
	// Primitives
	Box(x, y, z float64, center bool) (Solid, error)
	Cylinder(height, r1, r2 float64, center bool, res Resolution) (Solid, error)
	Extrude(p Profile, height, scale float64, center bool) (Solid, error)
	ThreadedRod(diameter, length, pitch float64, internal bool, slop float64, res Resolution) (Solid, error)

	// Profiles
	Polygon(points [][2]float64) (Profile, error)
	TorxProfile(size int, res Resolution) (Profile, error)

	// Boolean operations
	Union(s ...Solid) Solid
	Difference(a Solid, b ...Solid) Solid
	Intersection(s ...Solid) Solid
	Hull(s ...Solid) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid, cells int) (*Mesh, error)
}
