package parts

import "github.com/chazu/rodjoint/pkg/csg"

// JointHalf builds one half of the rotating pipe joint. The bottom rotation
// washer and the top capped washer are unioned into one solid, separated by
// the compression gap.
func JointHalf(cfg Config) []PartTask {
	j := newJoint(cfg)
	r := cfg.PipeRadius
	return []PartTask{{
		Solid: csg.Union(j.bottom(), j.top()),
		Box:   BoundingBox{Width: 2 * r, Depth: 2 * r, Height: 2 * r},
		Name:  NameJointHalf,
	}}
}

// joint holds the derived dimensions shared by both halves. Rods run along
// Y at x = ±offset, their axis centered in the gap.
type joint struct {
	cfg Config

	rw, tw, gap float64 // rotation washer, top washer and gap heights
	axisZ       float64
	offset      float64
	trimR       float64 // radius of the planar trim cylinders
	trimH       float64 // height of the planar trim cylinders
}

func newJoint(cfg Config) joint {
	rw, tw, g := cfg.RotationWasherHeight(), cfg.TopWasherHeight(), cfg.GapHeight
	return joint{
		cfg:    cfg,
		rw:     rw,
		tw:     tw,
		gap:    g,
		axisZ:  rw + g/2,
		offset: cfg.RodOffset(),
		trimR:  2 * cfg.PlateRadius,
		trimH:  rw + g + tw + 2*cfg.collarRadius(),
	}
}

func (c Config) collarRadius() float64 {
	return c.PipeRadius + c.RotateHeight + c.CollarWall
}

func (j joint) height() float64 { return j.rw + j.gap + j.tw }

// acrossY lays a centered cylinder along Y at the rod position x.
func (j joint) acrossY(n *csg.Node, x float64) *csg.Node {
	return n.Rotate(90, 0, 0).Translate(x, 0, j.axisZ)
}

func (j joint) pockets() []*csg.Node {
	pf := j.cfg.PreviewFix
	p := csg.Cyl(j.cfg.PipeRadius+j.cfg.PocketClearance, 2*j.cfg.PlateRadius+4*pf, true)
	return []*csg.Node{j.acrossY(p, j.offset), j.acrossY(p, -j.offset)}
}

func (j joint) bore() *csg.Node {
	pf := j.cfg.PreviewFix
	return csg.Cyl(j.cfg.Diameter/2, j.height()+2*pf, false).Down(pf)
}

func (j joint) bottom() *csg.Node {
	washer := csg.Cyl(j.cfg.PlateRadius, j.rw, false)
	return washer.Sub(append(j.pockets(), j.bore())...)
}

func (j joint) top() *csg.Node {
	cfg, pf := j.cfg, j.cfg.PreviewFix
	r := cfg.Diameter / 2

	washer := csg.Cone(cfg.PlateRadius, cfg.TopRadius, j.tw, false).Up(j.rw + j.gap)
	collar := csg.Cyl(cfg.collarRadius(), 2*cfg.PlateRadius, true)
	body := csg.Union(washer, j.acrossY(collar, j.offset), j.acrossY(collar, -j.offset))

	// Trim cutters reach pf into the washer so no cut face lies on a
	// washer face.
	gapDisk := csg.Cyl(j.trimR, j.gap+2*pf, false).Up(j.rw - pf)
	bottomCut := csg.Cyl(j.trimR, j.trimH, false).Up(j.rw - j.trimH)
	topCut := csg.Cyl(j.trimR, j.trimH, false).Up(j.height() - pf)
	// Narrow at the seat, wide at the insertion face.
	slop := csg.Cone(r+cfg.BoreSlopNarrow, r+cfg.BoreSlopWide, j.tw+2*pf, false).Up(j.rw + j.gap - pf)

	cutters := []*csg.Node{gapDisk, bottomCut, topCut, j.bore()}
	cutters = append(cutters, j.pockets()...)
	cutters = append(cutters, slop)
	return body.Sub(cutters...)
}
