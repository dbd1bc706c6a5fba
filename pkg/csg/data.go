package csg

// ---------------------------------------------------------------------------
// Vectors and resolution
// ---------------------------------------------------------------------------

// Vec3 is a 3D vector in millimetres (or degrees for rotations).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Vec2 is a 2D profile point.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Resolution controls facet generation, with the same meaning as OpenSCAD's
// $fa (minimum angle, degrees), $fs (minimum segment length, mm) and $fn
// (fixed segment count, 0 = derive from Fa/Fs).
type Resolution struct {
	Fa float64 `json:"fa,omitempty"`
	Fs float64 `json:"fs,omitempty"`
	Fn int     `json:"fn,omitempty"`
}

// IsZero reports whether the kernel default resolution should be used.
func (r Resolution) IsZero() bool {
	return r.Fa == 0 && r.Fs == 0 && r.Fn == 0
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// Cylinder is a right circular cylinder or frustum along Z. With Center
// unset its base sits on z=0.
type Cylinder struct {
	Height float64    `json:"height"`
	R1     float64    `json:"r1"` // bottom radius
	R2     float64    `json:"r2"` // top radius
	Center bool       `json:"center"`
	Res    Resolution `json:"res"`
}

func (Cylinder) nodeData() {}

// Box is a rectangular prism. With Center unset its minimum corner sits on
// the origin.
type Box struct {
	Size   Vec3 `json:"size"`
	Center bool `json:"center"`
}

func (Box) nodeData() {}

// Extrude sweeps a 2D profile along Z, scaling it linearly from 1 at the
// bottom to Scale at the top.
type Extrude struct {
	Profile Profile `json:"profile"`
	Height  float64 `json:"height"`
	Scale   float64 `json:"scale"`
	Center  bool    `json:"center"`
}

func (Extrude) nodeData() {}

// ThreadedRod is a buttress-threaded rod centered on the origin along Z.
// Internal rods are cutters for nut threads and carry Slop clearance.
type ThreadedRod struct {
	Diameter float64    `json:"diameter"`
	Length   float64    `json:"length"`
	Pitch    float64    `json:"pitch"`
	Internal bool       `json:"internal"`
	Slop     float64    `json:"slop,omitempty"`
	Res      Resolution `json:"res"`
}

func (ThreadedRod) nodeData() {}

// ---------------------------------------------------------------------------
// Combinators
// ---------------------------------------------------------------------------

// BooleanOp enumerates n-ary combinators.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
	OpHull
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	case OpHull:
		return "hull"
	default:
		return "unknown"
	}
}

// Boolean combines the node's children. For OpDifference the first child is
// the base and every following child is subtracted from it.
type Boolean struct {
	Op BooleanOp `json:"op"`
}

func (Boolean) nodeData() {}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// TransformOp enumerates affine transforms.
type TransformOp int

const (
	OpTranslate TransformOp = iota
	OpRotate                // Euler angles in degrees, applied X then Y then Z
	OpScale
)

func (op TransformOp) String() string {
	switch op {
	case OpTranslate:
		return "translate"
	case OpRotate:
		return "rotate"
	case OpScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Transform applies an affine transform to its single child.
type Transform struct {
	Op TransformOp `json:"op"`
	V  Vec3        `json:"v"`
}

func (Transform) nodeData() {}

// ---------------------------------------------------------------------------
// 2D profiles
// ---------------------------------------------------------------------------

// Profile is the interface for 2D shapes consumed by Extrude.
type Profile interface {
	profile() // marker method restricting implementations to this package
}

// Polygon is a simple closed polygon.
type Polygon struct {
	Points []Vec2 `json:"points"`
}

func (Polygon) profile() {}

// Torx is the 2D mask of a torx drive of the given size (T10, T60, ...).
type Torx struct {
	Size int        `json:"size"`
	Res  Resolution `json:"res"`
}

func (Torx) profile() {}
