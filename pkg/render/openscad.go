package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/chazu/rodjoint/pkg/parts"
)

// OpenSCADBinary is the executable looked up on PATH.
const OpenSCADBinary = "openscad"

// OpenSCAD renders parts by running the openscad binary on their source.
type OpenSCAD struct {
	Path string   // absolute path of the binary
	Args []string // extra arguments placed before the output flag
}

// LookupOpenSCAD probes PATH for the binary.
func LookupOpenSCAD() (*OpenSCAD, error) {
	path, err := exec.LookPath(OpenSCADBinary)
	if err != nil {
		return nil, fmt.Errorf("render: %s: %w: %v", OpenSCADBinary, ErrRendererUnavailable, err)
	}
	return &OpenSCAD{Path: path}, nil
}

func (o *OpenSCAD) Name() string { return "openscad" }
func (o *OpenSCAD) Ext() string  { return ".stl" }

// Render runs `openscad -o outPath scadPath`.
func (o *OpenSCAD) Render(ctx context.Context, task parts.PartTask, scadPath, outPath string) error {
	args := append(append([]string{}, o.Args...), "-o", outPath, scadPath)
	cmd := exec.CommandContext(ctx, o.Path, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("render: openscad %s: %w: %s", task.Name, err, lastLine(out.String()))
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
