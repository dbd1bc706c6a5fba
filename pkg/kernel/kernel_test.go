package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			assert.Equal(t, tt.want, m.VertexCount())
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			assert.Equal(t, tt.want, m.TriangleCount())
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	assert.True(t, (&Mesh{}).IsEmpty())
	assert.False(t, (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty())
}

func TestMeshTriangleAndBounds(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 4, 0, 0, 0, 2, -1, 1, 1, 3},
		Indices:  []uint32{0, 1, 2, 1, 3, 2},
	}
	tri := m.Triangle(1)
	assert.Equal(t, [3]float32{4, 0, 0}, tri[0])
	assert.Equal(t, [3]float32{1, 1, 3}, tri[1])
	assert.Equal(t, [3]float32{0, 2, -1}, tri[2])

	min, max := m.Bounds()
	assert.Equal(t, [3]float32{0, 0, -1}, min)
	assert.Equal(t, [3]float32{4, 2, 3}, max)
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

type stubProfile struct{}

func (stubProfile) Bounds() (min, max [2]float64) { return min, max }

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64, _ bool) (Solid, error) {
	return &stubSolid{maxBB: [3]float64{x, y, z}}, nil
}

func (k *stubKernel) Cylinder(height, r1, r2 float64, _ bool, _ Resolution) (Solid, error) {
	r := max(r1, r2)
	return &stubSolid{
		minBB: [3]float64{-r, -r, 0},
		maxBB: [3]float64{r, r, height},
	}, nil
}

func (k *stubKernel) Extrude(Profile, float64, float64, bool) (Solid, error) {
	return &stubSolid{}, nil
}

func (k *stubKernel) ThreadedRod(float64, float64, float64, bool, float64, Resolution) (Solid, error) {
	return &stubSolid{}, nil
}

func (k *stubKernel) Polygon([][2]float64) (Profile, error)       { return stubProfile{}, nil }
func (k *stubKernel) TorxProfile(int, Resolution) (Profile, error) { return stubProfile{}, nil }

func (k *stubKernel) Union(s ...Solid) Solid            { return s[0] }
func (k *stubKernel) Difference(a Solid, _ ...Solid) Solid { return a }
func (k *stubKernel) Intersection(s ...Solid) Solid     { return s[0] }
func (k *stubKernel) Hull(...Solid) (Solid, error)      { return nil, ErrUnsupported }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }
func (k *stubKernel) Scale(s Solid, _, _, _ float64) Solid     { return s }

func (k *stubKernel) ToMesh(Solid, int) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30, false)
	require.NoError(t, err)
	min, max := s.BoundingBox()
	assert.Equal(t, [3]float64{0, 0, 0}, min)
	assert.Equal(t, [3]float64{10, 20, 30}, max)
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(1, 1, 1, false)
	require.NoError(t, err)
	m, err := k.ToMesh(s, 10)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.IsEmpty(), "stub ToMesh() should return empty mesh")
}
