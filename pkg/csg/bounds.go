package csg

import "math"

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min, Max Vec3
}

// Size returns the extents of the box.
func (b Box3) Size() Vec3 {
	return Vec3{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

func (b Box3) union(o Box3) Box3 {
	return Box3{
		Min: Vec3{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

func (b Box3) intersect(o Box3) (Box3, bool) {
	r := Box3{
		Min: Vec3{X: math.Max(b.Min.X, o.Min.X), Y: math.Max(b.Min.Y, o.Min.Y), Z: math.Max(b.Min.Z, o.Min.Z)},
		Max: Vec3{X: math.Min(b.Max.X, o.Max.X), Y: math.Min(b.Max.Y, o.Max.Y), Z: math.Min(b.Max.Z, o.Max.Z)},
	}
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y || r.Min.Z > r.Max.Z {
		return Box3{}, false
	}
	return r, true
}

func (b Box3) corners() [8]Vec3 {
	var cs [8]Vec3
	for i := range cs {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		cs[i] = c
	}
	return cs
}

func boxOf(pts []Vec3) Box3 {
	b := Box3{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b = b.union(Box3{Min: p, Max: p})
	}
	return b
}

// Bounds returns a conservative axis-aligned bounding box of the tree,
// computed from node parameters alone. Differences take the bounds of their
// base, so the result can be looser than the real solid but never tighter.
// ok is false when the tree is empty.
func Bounds(n *Node) (b Box3, ok bool) {
	if n == nil {
		return Box3{}, false
	}
	switch d := n.Data.(type) {
	case Cylinder:
		r := math.Max(d.R1, d.R2)
		return zSpan(r, r, d.Height, d.Center), true
	case Box:
		return zSpan(d.Size.X/2, d.Size.Y/2, d.Size.Z, d.Center), true
	case Extrude:
		hx, hy := profileHalfExtents(d.Profile)
		s := math.Max(1, d.Scale)
		return zSpan(hx*s, hy*s, d.Height, d.Center), true
	case ThreadedRod:
		r := d.Diameter / 2
		if d.Internal {
			r += d.Slop
		}
		return zSpan(r, r, d.Length, true), true
	case Boolean:
		return booleanBounds(d.Op, n.Children)
	case Transform:
		if len(n.Children) != 1 {
			return Box3{}, false
		}
		cb, ok := Bounds(n.Children[0])
		if !ok {
			return Box3{}, false
		}
		return transformBounds(d, cb), true
	}
	return Box3{}, false
}

func booleanBounds(op BooleanOp, children []*Node) (Box3, bool) {
	if len(children) == 0 {
		return Box3{}, false
	}
	switch op {
	case OpDifference:
		return Bounds(children[0])
	case OpIntersection:
		acc, ok := Bounds(children[0])
		if !ok {
			return Box3{}, false
		}
		for _, c := range children[1:] {
			cb, ok := Bounds(c)
			if !ok {
				return Box3{}, false
			}
			if acc, ok = acc.intersect(cb); !ok {
				return Box3{}, false
			}
		}
		return acc, true
	default: // union, hull
		var acc Box3
		found := false
		for _, c := range children {
			cb, ok := Bounds(c)
			if !ok {
				continue
			}
			if !found {
				acc, found = cb, true
				continue
			}
			acc = acc.union(cb)
		}
		return acc, found
	}
}

func transformBounds(t Transform, b Box3) Box3 {
	cs := b.corners()
	pts := cs[:]
	for i, p := range pts {
		switch t.Op {
		case OpTranslate:
			pts[i] = p.Add(t.V)
		case OpScale:
			pts[i] = Vec3{X: p.X * t.V.X, Y: p.Y * t.V.Y, Z: p.Z * t.V.Z}
		case OpRotate:
			pts[i] = RotatePoint(p, t.V)
		}
	}
	return boxOf(pts)
}

// RotatePoint rotates p by Euler angles (degrees) about X, then Y, then Z.
func RotatePoint(p, deg Vec3) Vec3 {
	rx, ry, rz := deg.X*math.Pi/180, deg.Y*math.Pi/180, deg.Z*math.Pi/180
	// X
	y := p.Y*math.Cos(rx) - p.Z*math.Sin(rx)
	z := p.Y*math.Sin(rx) + p.Z*math.Cos(rx)
	p.Y, p.Z = y, z
	// Y
	x := p.X*math.Cos(ry) + p.Z*math.Sin(ry)
	z = -p.X*math.Sin(ry) + p.Z*math.Cos(ry)
	p.X, p.Z = x, z
	// Z
	x = p.X*math.Cos(rz) - p.Y*math.Sin(rz)
	y = p.X*math.Sin(rz) + p.Y*math.Cos(rz)
	p.X, p.Y = x, y
	return p
}

func zSpan(hx, hy, h float64, center bool) Box3 {
	z0, z1 := 0.0, h
	if center {
		z0, z1 = -h/2, h/2
	}
	return Box3{Min: Vec3{X: -hx, Y: -hy, Z: z0}, Max: Vec3{X: hx, Y: hy, Z: z1}}
}

func profileHalfExtents(p Profile) (hx, hy float64) {
	switch pr := p.(type) {
	case Torx:
		if dims, ok := LookupTorx(pr.Size); ok {
			return dims.Outer / 2, dims.Outer / 2
		}
	case Polygon:
		for _, v := range pr.Points {
			hx = math.Max(hx, math.Abs(v.X))
			hy = math.Max(hy, math.Abs(v.Y))
		}
	}
	return hx, hy
}
