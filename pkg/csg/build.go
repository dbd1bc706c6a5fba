package csg

// ---------------------------------------------------------------------------
// Primitive constructors
// ---------------------------------------------------------------------------

// Cyl returns a straight cylinder of radius r and height h.
func Cyl(r, h float64, center bool) *Node {
	return newNode(KindPrimitive, Cylinder{Height: h, R1: r, R2: r, Center: center})
}

// Cone returns a frustum with bottom radius r1 and top radius r2.
func Cone(r1, r2, h float64, center bool) *Node {
	return newNode(KindPrimitive, Cylinder{Height: h, R1: r1, R2: r2, Center: center})
}

// Cube returns a box of the given size.
func Cube(x, y, z float64, center bool) *Node {
	return newNode(KindPrimitive, Box{Size: Vec3{X: x, Y: y, Z: z}, Center: center})
}

// LinearExtrude sweeps p along Z for height h, scaling the top by scale.
func LinearExtrude(p Profile, h, scale float64, center bool) *Node {
	if pg, ok := p.(Polygon); ok {
		pts := make([]Vec2, len(pg.Points))
		copy(pts, pg.Points)
		p = Polygon{Points: pts}
	}
	return newNode(KindPrimitive, Extrude{Profile: p, Height: h, Scale: scale, Center: center})
}

// ButtressRod returns an external buttress-threaded rod.
func ButtressRod(d, l, pitch float64, res Resolution) *Node {
	return newNode(KindPrimitive, ThreadedRod{Diameter: d, Length: l, Pitch: pitch, Res: res})
}

// ButtressHole returns an internal buttress thread cutter with the given
// slop clearance.
func ButtressHole(d, l, pitch, slop float64, res Resolution) *Node {
	return newNode(KindPrimitive, ThreadedRod{Diameter: d, Length: l, Pitch: pitch, Internal: true, Slop: slop, Res: res})
}

// WithRes returns a copy of a cylinder or threaded rod leaf with the given
// resolution. Other nodes are returned unchanged.
func (n *Node) WithRes(res Resolution) *Node {
	switch d := n.Data.(type) {
	case Cylinder:
		d.Res = res
		return newNode(n.Kind, d, n.Children...)
	case ThreadedRod:
		d.Res = res
		return newNode(n.Kind, d, n.Children...)
	}
	return n
}

// ---------------------------------------------------------------------------
// Combinators
// ---------------------------------------------------------------------------

// Union returns the union of all nodes.
func Union(nodes ...*Node) *Node {
	return newNode(KindBoolean, Boolean{Op: OpUnion}, nodes...)
}

// Difference subtracts every cutter from base.
func Difference(base *Node, cutters ...*Node) *Node {
	return newNode(KindBoolean, Boolean{Op: OpDifference}, append([]*Node{base}, cutters...)...)
}

// Intersection returns the common volume of all nodes.
func Intersection(nodes ...*Node) *Node {
	return newNode(KindBoolean, Boolean{Op: OpIntersection}, nodes...)
}

// Hull returns the convex hull of all nodes.
func Hull(nodes ...*Node) *Node {
	return newNode(KindBoolean, Boolean{Op: OpHull}, nodes...)
}

// Add is shorthand for Union(n, others...).
func (n *Node) Add(others ...*Node) *Node {
	return Union(append([]*Node{n}, others...)...)
}

// Sub is shorthand for Difference(n, cutters...).
func (n *Node) Sub(cutters ...*Node) *Node {
	return Difference(n, cutters...)
}

// ---------------------------------------------------------------------------
// Transforms
// ---------------------------------------------------------------------------

// Translate moves n by (x, y, z).
func (n *Node) Translate(x, y, z float64) *Node {
	return newNode(KindTransform, Transform{Op: OpTranslate, V: Vec3{X: x, Y: y, Z: z}}, n)
}

// Up moves n along +Z.
func (n *Node) Up(z float64) *Node {
	return n.Translate(0, 0, z)
}

// Down moves n along -Z.
func (n *Node) Down(z float64) *Node {
	return n.Translate(0, 0, -z)
}

// Rotate rotates n by Euler angles in degrees.
func (n *Node) Rotate(x, y, z float64) *Node {
	return newNode(KindTransform, Transform{Op: OpRotate, V: Vec3{X: x, Y: y, Z: z}}, n)
}

// Scale scales n per axis.
func (n *Node) Scale(x, y, z float64) *Node {
	return newNode(KindTransform, Transform{Op: OpScale, V: Vec3{X: x, Y: y, Z: z}}, n)
}
