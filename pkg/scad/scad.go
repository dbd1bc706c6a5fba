// Package scad serializes CSG trees to OpenSCAD source using the BOSL2
// library for threads and torx drives. Output is deterministic: the same
// tree always produces byte-identical text.
package scad

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/rodjoint/pkg/csg"
)

// Header includes the BOSL2 modules every part file depends on.
const Header = `include <BOSL2/std.scad>
include <BOSL2/threading.scad>
include <BOSL2/screw_drive.scad>
`

const indentUnit = "  "

// Format returns the OpenSCAD statement for the tree rooted at n.
func Format(n *csg.Node) (string, error) {
	p := &printer{}
	if err := p.node(n, 0); err != nil {
		return "", err
	}
	return p.b.String(), nil
}

// Module returns a module definition named name whose body is n.
func Module(name string, n *csg.Node) (string, error) {
	p := &printer{}
	fmt.Fprintf(&p.b, "module %s() {\n", name)
	if err := p.node(n, 1); err != nil {
		return "", fmt.Errorf("scad: module %s: %w", name, err)
	}
	p.b.WriteString("}\n")
	return p.b.String(), nil
}

// WritePart writes a standalone file for one part: the includes, the
// part's module and a call to it.
func WritePart(w io.Writer, name string, n *csg.Node) error {
	mod, err := Module(name, n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n%s();\n", Header, mod, name)
	return err
}

// Placement positions one part in a combined file.
type Placement struct {
	Name   string
	Solid  *csg.Node
	Offset csg.Vec3
}

// WriteAssembly writes every part as a module and instantiates each one at
// its offset.
func WriteAssembly(w io.Writer, placements []Placement) error {
	var b strings.Builder
	b.WriteString(Header)
	for _, pl := range placements {
		mod, err := Module(pl.Name, pl.Solid)
		if err != nil {
			return err
		}
		b.WriteString("\n")
		b.WriteString(mod)
	}
	b.WriteString("\n")
	for _, pl := range placements {
		if pl.Offset.IsZero() {
			fmt.Fprintf(&b, "%s();\n", pl.Name)
			continue
		}
		fmt.Fprintf(&b, "translate(%s) %s();\n", vec3(pl.Offset), pl.Name)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type printer struct {
	b strings.Builder
}

func (p *printer) line(depth int, s string) {
	p.b.WriteString(strings.Repeat(indentUnit, depth))
	p.b.WriteString(s)
	p.b.WriteByte('\n')
}

func (p *printer) node(n *csg.Node, depth int) error {
	if n == nil {
		return fmt.Errorf("scad: nil node")
	}
	switch d := n.Data.(type) {
	case csg.Cylinder:
		p.line(depth, cylinder(d)+";")
	case csg.Box:
		p.line(depth, fmt.Sprintf("cube(%s, center=%t);", vec3(d.Size), d.Center))
	case csg.Extrude:
		prof, err := profile(d.Profile)
		if err != nil {
			return err
		}
		p.line(depth, fmt.Sprintf("linear_extrude(height=%s, center=%t, scale=%s)", num(d.Height), d.Center, num(d.Scale)))
		p.line(depth+1, prof+";")
	case csg.ThreadedRod:
		p.line(depth, threadedRod(d)+";")
	case csg.Boolean:
		p.line(depth, d.Op.String()+"() {")
		for _, c := range n.Children {
			if err := p.node(c, depth+1); err != nil {
				return err
			}
		}
		p.line(depth, "}")
	case csg.Transform:
		if len(n.Children) != 1 {
			return fmt.Errorf("scad: %s has %d children, want 1", d.Op, len(n.Children))
		}
		p.line(depth, fmt.Sprintf("%s(%s)", d.Op, vec3(d.V)))
		return p.node(n.Children[0], depth+1)
	default:
		return fmt.Errorf("scad: unsupported node data %T", n.Data)
	}
	return nil
}

func cylinder(c csg.Cylinder) string {
	args := []string{"h=" + num(c.Height)}
	if c.R1 == c.R2 {
		args = append(args, "r="+num(c.R1))
	} else {
		args = append(args, "r1="+num(c.R1), "r2="+num(c.R2))
	}
	args = append(args, fmt.Sprintf("center=%t", c.Center))
	args = append(args, res(c.Res)...)
	return "cylinder(" + strings.Join(args, ", ") + ")"
}

func threadedRod(t csg.ThreadedRod) string {
	args := []string{
		"d=" + num(t.Diameter),
		"l=" + num(t.Length),
		"pitch=" + num(t.Pitch),
		fmt.Sprintf("internal=%t", t.Internal),
	}
	if t.Internal && t.Slop != 0 {
		args = append(args, "$slop="+num(t.Slop))
	}
	args = append(args, res(t.Res)...)
	return "buttress_threaded_rod(" + strings.Join(args, ", ") + ")"
}

func profile(pr csg.Profile) (string, error) {
	switch p := pr.(type) {
	case csg.Torx:
		args := append([]string{"size=" + strconv.Itoa(p.Size)}, res(p.Res)...)
		return "torx_mask2d(" + strings.Join(args, ", ") + ")", nil
	case csg.Polygon:
		pts := make([]string, len(p.Points))
		for i, v := range p.Points {
			pts[i] = "[" + num(v.X) + ", " + num(v.Y) + "]"
		}
		return "polygon([" + strings.Join(pts, ", ") + "])", nil
	default:
		return "", fmt.Errorf("scad: unsupported profile %T", pr)
	}
}

func res(r csg.Resolution) []string {
	var out []string
	if r.Fa != 0 {
		out = append(out, "$fa="+num(r.Fa))
	}
	if r.Fs != 0 {
		out = append(out, "$fs="+num(r.Fs))
	}
	if r.Fn != 0 {
		out = append(out, "$fn="+strconv.Itoa(r.Fn))
	}
	return out
}

func vec3(v csg.Vec3) string {
	return "[" + num(v.X) + ", " + num(v.Y) + ", " + num(v.Z) + "]"
}

// num formats v in its shortest exact form, never as "-0".
func num(v float64) string {
	if v == 0 || math.IsNaN(v) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
