package parts

import "github.com/chazu/rodjoint/pkg/csg"

// Nut chamfer sections: each stacked torx extrude is scaled in XY and
// tapered toward its top.
const (
	nutBodyScale     = 2.0
	nutBodyTaper     = 1.17
	nutLowerRimScale = 2.34
	nutLowerRimTaper = 0.9625
	nutUpperRimScale = 2.25
	nutUpperRimTaper = 0.8
)

// MiddleBolt builds the floated bolt, its torx nut and the keyed washer.
// All three share the loose declared box (d, d, bolt length).
func MiddleBolt(cfg Config) []PartTask {
	d, l := cfg.Diameter, cfg.BoltLength
	box := BoundingBox{Width: d, Depth: d, Height: l}
	flat := FlatFaceBox(cfg)

	return []PartTask{
		{Solid: floatedBolt(cfg, flat), Box: box, Name: NameMiddleBolt},
		{Solid: nut(cfg), Box: box, Name: NameNut},
		{Solid: washer(cfg, flat), Box: box, Name: NameWasher},
	}
}

// FlatFaceBox is the prism that flattens two opposite sides of the bolt
// thread. The washer bore is keyed to the same prism.
func FlatFaceBox(cfg Config) *csg.Node {
	d, l := cfg.Diameter, cfg.BoltLength
	return csg.Cube(0.75*d, d, l, true).Up(l / 2)
}

func threadRes(cfg Config) csg.Resolution {
	return csg.Resolution{Fa: cfg.ThreadFa, Fs: cfg.ThreadFs}
}

func floatedBolt(cfg Config, flat *csg.Node) *csg.Node {
	d, l, pf := cfg.Diameter, cfg.BoltLength, cfg.PreviewFix

	rod := csg.ButtressRod(d, l, cfg.Pitch, threadRes(cfg)).Up(l / 2)
	bore := csg.Cyl(cfg.BoreDiameter/2, l+2*pf, true).
		WithRes(csg.Resolution{Fn: cfg.BoreSegments}).
		Up(l / 2)

	return csg.Intersection(rod.Sub(bore), flat)
}

func washer(cfg Config, flat *csg.Node) *csg.Node {
	d, h, pf := cfg.Diameter, cfg.WasherHeight, cfg.PreviewFix

	disk := csg.Cyl(cfg.WasherRadius(), h, true).Up(h / 2)
	// The keyed bore runs 3*pf taller than the washer so it cuts through
	// both faces once lowered by pf.
	keyed := csg.Intersection(csg.Cyl(d/2, h+3*pf, true).Up(h/2), flat)

	return disk.Sub(keyed.Down(pf))
}

// NutThread is the internal thread cutter subtracted from the nut body.
// Its length is nut length + 3*pf regardless of diameter or pitch.
func NutThread(cfg Config) *csg.Node {
	nl, pf := cfg.NutLength, cfg.PreviewFix
	return csg.ButtressHole(cfg.Diameter, nl+3*pf, cfg.Pitch, cfg.ThreadSlop, threadRes(cfg)).
		Rotate(180, 0, 0).
		Up(nl/2 - pf)
}

func nut(cfg Config) *csg.Node {
	d, nl, c := cfg.Diameter, cfg.NutLength, cfg.NutChamferHeight
	wr := cfg.WasherRadius()
	torx := csg.Torx{Size: cfg.TorxSize, Res: csg.Resolution{Fa: cfg.TorxFa, Fs: cfg.TorxFs}}

	body := csg.Union(
		csg.LinearExtrude(torx, nl-c, nutBodyTaper, false).
			Scale(nutBodyScale, nutBodyScale, 1),
		csg.LinearExtrude(torx, c/2, nutLowerRimTaper, false).
			Scale(nutLowerRimScale, nutLowerRimScale, 1).
			Up(nl-c),
		csg.LinearExtrude(torx, c/2, nutUpperRimTaper, false).
			Scale(nutUpperRimScale, nutUpperRimScale, 1).
			Up(nl-c/2),
		csg.Cone(wr, d/2, cfg.NutSkirtHeight, false).Up(cfg.NutFlangeHeight),
		csg.Cyl(wr, cfg.NutFlangeHeight, false),
	)

	return body.Sub(NutThread(cfg))
}
