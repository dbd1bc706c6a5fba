package csg

import (
	"errors"
	"fmt"
	"math"
)

// ValidationError describes an invalid node parameter. A tree with
// validation errors cannot be built by any kernel.
type ValidationError struct {
	Path    Path
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("csg: %s: %s", e.Path, e.Message)
}

// Validate checks every node of the tree for parameters no kernel can
// build: non-positive sizes, negative radii, unknown profiles and malformed
// arity. All problems are reported, joined with errors.Join.
func Validate(n *Node) error {
	if n == nil {
		return errors.New("csg: nil tree")
	}
	var errs []error
	Walk(n, func(path Path, c *Node) bool {
		for _, msg := range checkNode(c) {
			errs = append(errs, ValidationError{Path: path, Message: msg})
		}
		return true
	})
	return errors.Join(errs...)
}

func checkNode(n *Node) []string {
	var msgs []string
	positive := func(name string, v float64) {
		if !finite(v) || v <= 0 {
			msgs = append(msgs, fmt.Sprintf("%s is %.4f, must be positive", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if !finite(v) || v < 0 {
			msgs = append(msgs, fmt.Sprintf("%s is %.4f, must not be negative", name, v))
		}
	}

	switch d := n.Data.(type) {
	case Cylinder:
		positive("height", d.Height)
		nonNegative("r1", d.R1)
		nonNegative("r2", d.R2)
		if d.R1 == 0 && d.R2 == 0 {
			msgs = append(msgs, "r1 and r2 are both zero")
		}
		msgs = append(msgs, checkRes(d.Res)...)
	case Box:
		positive("size x", d.Size.X)
		positive("size y", d.Size.Y)
		positive("size z", d.Size.Z)
	case Extrude:
		positive("height", d.Height)
		nonNegative("scale", d.Scale)
		msgs = append(msgs, checkProfile(d.Profile)...)
	case ThreadedRod:
		positive("diameter", d.Diameter)
		positive("length", d.Length)
		positive("pitch", d.Pitch)
		nonNegative("slop", d.Slop)
		if d.Pitch >= d.Diameter && d.Diameter > 0 {
			msgs = append(msgs, fmt.Sprintf("pitch %.4f must be smaller than diameter %.4f", d.Pitch, d.Diameter))
		}
		msgs = append(msgs, checkRes(d.Res)...)
	case Boolean:
		if len(n.Children) == 0 {
			msgs = append(msgs, fmt.Sprintf("%s has no children", d.Op))
		}
	case Transform:
		if len(n.Children) != 1 {
			msgs = append(msgs, fmt.Sprintf("%s has %d children, want 1", d.Op, len(n.Children)))
		}
		if !finite(d.V.X) || !finite(d.V.Y) || !finite(d.V.Z) {
			msgs = append(msgs, fmt.Sprintf("%s vector is not finite", d.Op))
		}
		if d.Op == OpScale && (d.V.X == 0 || d.V.Y == 0 || d.V.Z == 0) {
			msgs = append(msgs, "scale factor is zero")
		}
	case nil:
		msgs = append(msgs, "node has no data")
	}

	if n.Kind == KindPrimitive && len(n.Children) > 0 {
		msgs = append(msgs, "primitive has children")
	}
	return msgs
}

func checkProfile(p Profile) []string {
	switch pr := p.(type) {
	case Torx:
		if _, ok := LookupTorx(pr.Size); !ok {
			return []string{fmt.Sprintf("unknown torx size T%d", pr.Size)}
		}
		return checkRes(pr.Res)
	case Polygon:
		if len(pr.Points) < 3 {
			return []string{fmt.Sprintf("polygon has %d points, need at least 3", len(pr.Points))}
		}
		return nil
	case nil:
		return []string{"extrude has no profile"}
	}
	return nil
}

func checkRes(r Resolution) []string {
	var msgs []string
	if r.Fa < 0 || r.Fs < 0 || r.Fn < 0 {
		msgs = append(msgs, "resolution must not be negative")
	}
	return msgs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
