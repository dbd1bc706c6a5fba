package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/rodjoint/pkg/csg"
	"github.com/chazu/rodjoint/pkg/parts"
	"gopkg.in/yaml.v3"
)

// Manifest is the content of assembly.yaml. Paths are relative to the
// output directory.
type Manifest struct {
	Renderer string         `yaml:"renderer,omitempty"`
	Main     string         `yaml:"main"`
	Parts    []ManifestPart `yaml:"parts"`
}

// ManifestPart describes one exported part.
type ManifestPart struct {
	Name   string            `yaml:"name"`
	Box    parts.BoundingBox `yaml:"box"`
	Offset [3]float64        `yaml:"offset,flow"`
	Scad   string            `yaml:"scad"`
	Mesh   string            `yaml:"mesh,omitempty"`
}

func writeManifest(path, renderer string, tasks []parts.PartTask, offsets []csg.Vec3, outDir string, scadPaths, meshes []string) error {
	m := Manifest{Renderer: renderer, Main: MainFile}
	for i, t := range tasks {
		mp := ManifestPart{
			Name:   t.Name,
			Box:    t.Box,
			Offset: [3]float64{offsets[i].X, offsets[i].Y, offsets[i].Z},
			Scad:   rel(outDir, scadPaths[i]),
		}
		if meshes[i] != "" {
			mp.Mesh = rel(outDir, meshes[i])
		}
		m.Parts = append(m.Parts, mp)
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("export: encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads an assembly.yaml written by Export.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("export: decode manifest %s: %w", path, err)
	}
	return &m, nil
}

func rel(base, path string) string {
	if r, err := filepath.Rel(base, path); err == nil {
		return r
	}
	return path
}
