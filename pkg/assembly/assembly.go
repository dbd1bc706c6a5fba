// Package assembly holds the static manifest of part builders and turns a
// selection of them into a checked, ordered set of parts ready for export.
package assembly

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/chazu/rodjoint/pkg/csg"
	"github.com/chazu/rodjoint/pkg/parts"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrDuplicateName is returned when two parts share a name; their
	// artifacts would overwrite each other.
	ErrDuplicateName = errors.New("duplicate part name")
	// ErrInvalidName is returned for names that are not safe filenames.
	ErrInvalidName = errors.New("invalid part name")
	// ErrUnknownBuilder is returned when selecting a builder that is not in
	// the manifest.
	ErrUnknownBuilder = errors.New("unknown builder")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// Entry is one named builder in the manifest.
type Entry struct {
	Name  string
	Build parts.Builder
}

// Manifest returns every builder in output order.
func Manifest() []Entry {
	return []Entry{
		{Name: "middle_bolt", Build: parts.MiddleBolt},
		{Name: "rod_cradle", Build: parts.RodCradle},
		{Name: "joint_half", Build: parts.JointHalf},
	}
}

// Names returns the builder names of the manifest in order.
func Names() []string {
	m := Manifest()
	out := make([]string, len(m))
	for i, e := range m {
		out[i] = e.Name
	}
	return out
}

// Select returns the named builders in manifest order. No names selects the
// whole manifest. Repeated names are selected once.
func Select(names ...string) ([]Entry, error) {
	m := Manifest()
	if len(names) == 0 {
		return m, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []Entry
	for _, e := range m {
		if want[e.Name] {
			out = append(out, e)
			delete(want, e.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("assembly: %w %q (have %v)", ErrUnknownBuilder, n, Names())
		}
	}
	return out, nil
}

// Assembly is an ordered, checked set of parts. It is not modified after
// construction.
type Assembly struct {
	tasks []parts.PartTask
	index map[string]int
}

// New checks tasks and returns them as an assembly. Every name must be a
// safe filename and unique, every declared box positive, and every tree
// buildable.
func New(tasks ...parts.PartTask) (*Assembly, error) {
	a := &Assembly{
		tasks: make([]parts.PartTask, 0, len(tasks)),
		index: make(map[string]int, len(tasks)),
	}
	for _, t := range tasks {
		if err := a.add(t); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Assembly) add(t parts.PartTask) error {
	if !validName.MatchString(t.Name) {
		return fmt.Errorf("assembly: %w %q", ErrInvalidName, t.Name)
	}
	if _, exists := a.index[t.Name]; exists {
		return fmt.Errorf("assembly: %w %q", ErrDuplicateName, t.Name)
	}
	if !t.Box.Valid() {
		return fmt.Errorf("assembly: part %s declares non-positive bounding box %v", t.Name, t.Box)
	}
	if err := csg.Validate(t.Solid); err != nil {
		return fmt.Errorf("assembly: part %s: %w", t.Name, err)
	}
	a.index[t.Name] = len(a.tasks)
	a.tasks = append(a.tasks, t)
	return nil
}

// Tasks returns a copy of the parts in order.
func (a *Assembly) Tasks() []parts.PartTask {
	out := make([]parts.PartTask, len(a.tasks))
	copy(out, a.tasks)
	return out
}

// Len returns the number of parts.
func (a *Assembly) Len() int { return len(a.tasks) }

// Part returns the part with the given name.
func (a *Assembly) Part(name string) (parts.PartTask, bool) {
	i, ok := a.index[name]
	if !ok {
		return parts.PartTask{}, false
	}
	return a.tasks[i], true
}

// Names returns the part names in order.
func (a *Assembly) Names() []string {
	out := make([]string, len(a.tasks))
	for i, t := range a.tasks {
		out[i] = t.Name
	}
	return out
}

// Build validates cfg, runs the builders in order and checks the combined
// output. Nothing is written anywhere.
func Build(cfg parts.Config, entries []Entry) (*Assembly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var tasks []parts.PartTask
	for _, e := range entries {
		tasks = append(tasks, e.Build(cfg)...)
	}
	return New(tasks...)
}

// BuildParallel is Build with the builders run concurrently. The result is
// identical to Build, including part order.
func BuildParallel(ctx context.Context, cfg parts.Config, entries []Entry) (*Assembly, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	results := make([][]parts.PartTask, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.Build(cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assembly: build: %w", err)
	}

	var tasks []parts.PartTask
	for _, r := range results {
		tasks = append(tasks, r...)
	}
	return New(tasks...)
}
