package parts

import "github.com/chazu/rodjoint/pkg/csg"

// RodCradle builds the bracket: a base plate, a collar on top of it and the
// rod lying across at RodOffset. The rod is unioned with the bracket, not
// cut from it.
func RodCradle(cfg Config) []PartTask {
	r := cfg.PipeRadius
	base := cfg.CradleBaseHeight

	plate := csg.Cyl(cfg.PlateRadius, base, false)
	plate = plate.Add(csg.Cone(cfg.PlateRadius, cfg.PlateRadius, cfg.CradleCollarHeight, false).Up(base))

	rod := csg.Cyl(r, cfg.RodLength, true).
		Rotate(90, 0, 0).
		Translate(cfg.RodOffset(), 0, base+r)

	return []PartTask{{
		Solid: rod.Add(plate),
		Box:   BoundingBox{Width: 2 * r, Depth: 2 * r, Height: 2 * r},
		Name:  NameRod,
	}}
}
