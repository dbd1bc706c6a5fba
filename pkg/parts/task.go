package parts

import (
	"fmt"

	"github.com/chazu/rodjoint/pkg/csg"
)

// BoundingBox is a builder-declared extent hint (width, depth, height) in
// mm. It is never derived from the solid; exporters use it for layout and
// mesh resolution.
type BoundingBox struct {
	Width  float64 `json:"width" yaml:"width"`
	Depth  float64 `json:"depth" yaml:"depth"`
	Height float64 `json:"height" yaml:"height"`
}

// Valid reports whether every extent is positive.
func (b BoundingBox) Valid() bool {
	return b.Width > 0 && b.Depth > 0 && b.Height > 0
}

// MaxExtent returns the largest of the three extents.
func (b BoundingBox) MaxExtent() float64 {
	return max(b.Width, b.Depth, b.Height)
}

// Contains reports whether an analytic bounding box fits inside the
// declared extents.
func (b BoundingBox) Contains(box csg.Box3) bool {
	const tol = 1e-9
	s := box.Size()
	return s.X <= b.Width+tol && s.Y <= b.Depth+tol && s.Z <= b.Height+tol
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%g, %g, %g)", b.Width, b.Depth, b.Height)
}

// PartTask is one named part ready for export. Name doubles as the model
// object identifier and the artifact base filename.
type PartTask struct {
	Solid *csg.Node
	Box   BoundingBox
	Name  string
}

// Builder produces the parts of one family from a configuration.
type Builder func(cfg Config) []PartTask

// Part names emitted by the builders.
const (
	NameMiddleBolt = "middle_bolt"
	NameNut        = "nut01"
	NameWasher     = "floated_bolt_washer"
	NameRod        = "rod"
	NameJointHalf  = "joint_half"
)
