package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/rodjoint/pkg/csg"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// torxMask builds a six-lobed drive profile: a disk of the point-to-point
// diameter with six circular flutes cut down to the lobe root diameter.
func torxMask(size int) (sdf.SDF2, error) {
	dims, ok := csg.LookupTorx(size)
	if !ok {
		return nil, fmt.Errorf("sdfx: unknown torx size T%d", size)
	}
	body, err := sdf.Circle2D(dims.Outer / 2)
	if err != nil {
		return nil, fmt.Errorf("sdfx: torx T%d body: %w", size, err)
	}

	// Each flute is centered between two lobes, its deepest point on the
	// root circle.
	fluteR := dims.RootRadius
	dist := dims.Inner/2 + fluteR
	flutes := make([]sdf.SDF2, 6)
	for i := range flutes {
		c, err := sdf.Circle2D(fluteR)
		if err != nil {
			return nil, fmt.Errorf("sdfx: torx T%d flute: %w", size, err)
		}
		a := (float64(i)*60 + 30) * math.Pi / 180
		at := v2.Vec{X: dist * math.Cos(a), Y: dist * math.Sin(a)}
		flutes[i] = sdf.Transform2D(c, sdf.Translate2d(at))
	}
	return sdf.Difference2D(body, sdf.Union2D(flutes...)), nil
}
