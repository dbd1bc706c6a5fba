package tessellate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chazu/rodjoint/pkg/csg"
	"github.com/chazu/rodjoint/pkg/kernel"
	"github.com/chazu/rodjoint/pkg/kernel/sdfx"
	"github.com/chazu/rodjoint/pkg/tessellate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recSolid is a named placeholder produced by recordingKernel.
type recSolid struct{ desc string }

func (s *recSolid) BoundingBox() (min, max [3]float64) { return min, max }

type recProfile struct{ desc string }

func (p *recProfile) Bounds() (min, max [2]float64) { return min, max }

// recordingKernel builds nothing; every call returns a solid describing
// the call, so tests can assert the lowering order.
type recordingKernel struct {
	failOn string
}

func (k *recordingKernel) leaf(desc string) (kernel.Solid, error) {
	if desc == k.failOn {
		return nil, errors.New("boom")
	}
	return &recSolid{desc: desc}, nil
}

func join(op string, s ...kernel.Solid) string {
	out := op + "("
	for i, x := range s {
		if i > 0 {
			out += ","
		}
		out += x.(*recSolid).desc
	}
	return out + ")"
}

func (k *recordingKernel) Box(x, y, z float64, _ bool) (kernel.Solid, error) {
	return k.leaf(fmt.Sprintf("box%g", x))
}

func (k *recordingKernel) Cylinder(h, r1, r2 float64, _ bool, _ kernel.Resolution) (kernel.Solid, error) {
	return k.leaf(fmt.Sprintf("cyl%g", r1))
}

func (k *recordingKernel) Extrude(p kernel.Profile, h, scale float64, _ bool) (kernel.Solid, error) {
	return k.leaf("extrude:" + p.(*recProfile).desc)
}

func (k *recordingKernel) ThreadedRod(d, l, pitch float64, internal bool, _ float64, _ kernel.Resolution) (kernel.Solid, error) {
	return k.leaf(fmt.Sprintf("rod%g", d))
}

func (k *recordingKernel) Polygon(pts [][2]float64) (kernel.Profile, error) {
	return &recProfile{desc: fmt.Sprintf("poly%d", len(pts))}, nil
}

func (k *recordingKernel) TorxProfile(size int, _ kernel.Resolution) (kernel.Profile, error) {
	return &recProfile{desc: fmt.Sprintf("T%d", size)}, nil
}

func (k *recordingKernel) Union(s ...kernel.Solid) kernel.Solid {
	return &recSolid{desc: join("u", s...)}
}

func (k *recordingKernel) Difference(a kernel.Solid, b ...kernel.Solid) kernel.Solid {
	return &recSolid{desc: join("d", append([]kernel.Solid{a}, b...)...)}
}

func (k *recordingKernel) Intersection(s ...kernel.Solid) kernel.Solid {
	return &recSolid{desc: join("i", s...)}
}

func (k *recordingKernel) Hull(...kernel.Solid) (kernel.Solid, error) {
	return nil, kernel.ErrUnsupported
}

func (k *recordingKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &recSolid{desc: fmt.Sprintf("t[%g %g %g]%s", x, y, z, s.(*recSolid).desc)}
}

func (k *recordingKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &recSolid{desc: fmt.Sprintf("r[%g %g %g]%s", x, y, z, s.(*recSolid).desc)}
}

func (k *recordingKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	return &recSolid{desc: fmt.Sprintf("s[%g %g %g]%s", x, y, z, s.(*recSolid).desc)}
}

func (k *recordingKernel) ToMesh(kernel.Solid, int) (*kernel.Mesh, error) {
	return &kernel.Mesh{Vertices: []float32{0, 0, 0}}, nil
}

var _ kernel.Kernel = (*recordingKernel)(nil)

func describe(t *testing.T, n *csg.Node) string {
	t.Helper()
	s, err := tessellate.Solid(n, &recordingKernel{})
	require.NoError(t, err)
	return s.(*recSolid).desc
}

func TestLoweringOrder(t *testing.T) {
	tests := []struct {
		name string
		node *csg.Node
		want string
	}{
		{"leaf", csg.Cyl(3, 1, false), "cyl3"},
		{"difference keeps base first", csg.Difference(csg.Cube(4, 4, 4, true), csg.Cyl(1, 5, true), csg.Cyl(2, 5, true)), "d(box4,cyl1,cyl2)"},
		{"translated union", csg.Union(csg.Cyl(1, 1, false), csg.Cube(2, 2, 2, false)).Up(3), "t[0 0 3]u(cyl1,box2)"},
		{"nested transforms apply inside out", csg.Cyl(1, 1, false).Rotate(90, 0, 0).Translate(5, 0, 0), "t[5 0 0]r[90 0 0]cyl1"},
		{"zero translate elided", csg.Cube(1, 1, 1, false).Translate(0, 0, 0), "box1"},
		{"scaled torx extrude", csg.LinearExtrude(csg.Torx{Size: 60}, 3, 1.17, false).Scale(2, 2, 1), "s[2 2 1]extrude:T60"},
		{"polygon extrude", csg.LinearExtrude(csg.Polygon{Points: []csg.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}}, 1, 1, false), "extrude:poly3"},
		{"intersection", csg.Intersection(csg.ButtressRod(15, 10, 2, csg.Resolution{}), csg.Cube(11.25, 15, 10, true)), "i(rod15,box11.25)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(t, tt.node))
		})
	}
}

func TestKernelErrorCarriesPath(t *testing.T) {
	tree := csg.Difference(csg.Cube(4, 4, 4, true), csg.Cyl(7, 1, false).Up(1))
	_, err := tessellate.Solid(tree, &recordingKernel{failOn: "cyl7"})
	require.Error(t, err)

	var te *tessellate.Error
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "difference/1/translate/0/cylinder", te.Path.String())
	assert.Contains(t, err.Error(), "boom")
}

func TestHullErrorPropagates(t *testing.T) {
	_, err := tessellate.Solid(csg.Hull(csg.Cyl(1, 1, false), csg.Cyl(1, 1, false).Up(3)), &recordingKernel{})
	assert.True(t, errors.Is(err, kernel.ErrUnsupported))
}

func TestMalformedTrees(t *testing.T) {
	k := &recordingKernel{}

	_, err := tessellate.Solid(nil, k)
	assert.Error(t, err)

	_, err = tessellate.Solid(csg.Union(), k)
	assert.Error(t, err)

	bad := &csg.Node{Kind: csg.KindTransform, Data: csg.Transform{Op: csg.OpTranslate}}
	_, err = tessellate.Solid(bad, k)
	assert.Error(t, err)
}

func TestTreeIsNotMutated(t *testing.T) {
	tree := csg.Difference(csg.Cyl(5, 10, false), csg.Cyl(1, 12, false).Down(1))
	before := describe(t, tree)
	after := describe(t, tree)
	assert.Equal(t, before, after)
	require.Len(t, tree.Children, 2)
}

func TestMeshNamesPart(t *testing.T) {
	m, err := tessellate.Mesh(csg.Cube(1, 1, 1, false), &recordingKernel{}, "nut01", 10)
	require.NoError(t, err)
	assert.Equal(t, "nut01", m.PartName)
}

func TestMeshWithSdfx(t *testing.T) {
	tree := csg.Difference(
		csg.Cyl(10, 4, false),
		csg.Cyl(2, 4.1, false).Down(0.05),
	)
	m, err := tessellate.Mesh(tree, sdfx.New(), "washer", 40)
	require.NoError(t, err)
	require.False(t, m.IsEmpty())

	min, max := m.Bounds()
	assert.InDelta(t, -10, min[0], 0.5)
	assert.InDelta(t, 10, max[0], 0.5)
	assert.InDelta(t, 0, min[2], 0.5)
	assert.InDelta(t, 4, max[2], 0.5)
}
