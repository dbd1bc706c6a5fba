package assembly

import (
	"context"
	"errors"
	"testing"

	"github.com/chazu/rodjoint/pkg/csg"
	"github.com/chazu/rodjoint/pkg/parts"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(name string) parts.PartTask {
	return parts.PartTask{
		Solid: csg.Cube(1, 1, 1, false),
		Box:   parts.BoundingBox{Width: 1, Depth: 1, Height: 1},
		Name:  name,
	}
}

func TestManifestOrder(t *testing.T) {
	assert.Equal(t, []string{"middle_bolt", "rod_cradle", "joint_half"}, Names())
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr error
	}{
		{"all by default", nil, []string{"middle_bolt", "rod_cradle", "joint_half"}, nil},
		{"manifest order wins", []string{"joint_half", "middle_bolt"}, []string{"middle_bolt", "joint_half"}, nil},
		{"repeats collapse", []string{"rod_cradle", "rod_cradle"}, []string{"rod_cradle"}, nil},
		{"unknown", []string{"rod_cradle", "flux_capacitor"}, nil, ErrUnknownBuilder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.in...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, e := range got {
				names[i] = e.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestBuildDefault(t *testing.T) {
	asm, err := Build(parts.DefaultConfig(), Manifest())
	require.NoError(t, err)
	assert.Equal(t, []string{"middle_bolt", "nut01", "floated_bolt_washer", "rod", "joint_half"}, asm.Names())
	assert.Equal(t, 5, asm.Len())

	nut, ok := asm.Part("nut01")
	require.True(t, ok)
	assert.Equal(t, parts.BoundingBox{Width: 15, Depth: 15, Height: 120}, nut.Box)

	_, ok = asm.Part("missing")
	assert.False(t, ok)
}

func TestTasksReturnsCopy(t *testing.T) {
	asm, err := New(task("a"), task("b"))
	require.NoError(t, err)
	got := asm.Tasks()
	got[0].Name = "mutated"
	assert.Equal(t, []string{"a", "b"}, asm.Names())
}

func TestNewRejects(t *testing.T) {
	bad := task("bad_box")
	bad.Box.Height = 0

	broken := task("broken")
	broken.Solid = csg.Cyl(-1, 10, false)

	tests := []struct {
		name    string
		tasks   []parts.PartTask
		wantErr error
		wantMsg string
	}{
		{"duplicate", []parts.PartTask{task("nut01"), task("nut01")}, ErrDuplicateName, "nut01"},
		{"path separator", []parts.PartTask{task("../etc/passwd")}, ErrInvalidName, ""},
		{"empty", []parts.PartTask{task("")}, ErrInvalidName, ""},
		{"space", []parts.PartTask{task("joint half")}, ErrInvalidName, ""},
		{"bad box", []parts.PartTask{bad}, nil, "bounding box"},
		{"bad tree", []parts.PartTask{broken}, nil, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.tasks...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuildDetectsCollisionAcrossBuilders(t *testing.T) {
	entries := append(Manifest(), Entry{Name: "shadow", Build: func(parts.Config) []parts.PartTask {
		return []parts.PartTask{task("rod")}
	}})
	_, err := Build(parts.DefaultConfig(), entries)
	assert.True(t, errors.Is(err, ErrDuplicateName))
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := parts.DefaultConfig()
	cfg.Diameter = -15
	ran := false
	entries := []Entry{{Name: "probe", Build: func(parts.Config) []parts.PartTask {
		ran = true
		return nil
	}}}

	_, err := Build(cfg, entries)
	require.ErrorIs(t, err, parts.ErrInvalidConfig)
	assert.False(t, ran, "builders must not run with an invalid config")

	_, err = BuildParallel(context.Background(), cfg, entries)
	require.ErrorIs(t, err, parts.ErrInvalidConfig)
}

func TestBuildParallelMatchesBuild(t *testing.T) {
	cfg := parts.DefaultConfig()
	seq, err := Build(cfg, Manifest())
	require.NoError(t, err)
	par, err := BuildParallel(context.Background(), cfg, Manifest())
	require.NoError(t, err)

	assert.Equal(t, seq.Names(), par.Names())
	assert.Empty(t, cmp.Diff(seq.Tasks(), par.Tasks()))
}

func TestBuildParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildParallel(ctx, parts.DefaultConfig(), Manifest())
	assert.ErrorIs(t, err, context.Canceled)
}
