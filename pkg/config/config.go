// Package config loads part parameters from an HCL file. Every attribute
// is optional; values present in the file replace the defaults.
//
//	diameter = 0.6 * inch
//	fastener {
//	  bolt_length = 12 * cm
//	}
//
// The variables mm, cm and inch are available in expressions and convert
// to millimetres.
package config

import (
	"fmt"

	"github.com/chazu/rodjoint/pkg/parts"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclFile is the decoded shape of a parameter file.
type hclFile struct {
	Diameter             *float64 `hcl:"diameter,optional"`
	PipeRadius           *float64 `hcl:"pipe_radius,optional"`
	Pitch                *float64 `hcl:"pitch,optional"`
	PreviewFix           *float64 `hcl:"preview_fix,optional"`
	UnprintableThickness *float64 `hcl:"unprintable_thickness,optional"`

	Fastener *fastenerBlock `hcl:"fastener,block"`
	Nut      *nutBlock      `hcl:"nut,block"`
	Cradle   *cradleBlock   `hcl:"cradle,block"`
	Joint    *jointBlock    `hcl:"joint,block"`
}

type fastenerBlock struct {
	BoltLength   *float64 `hcl:"bolt_length,optional"`
	NutLength    *float64 `hcl:"nut_length,optional"`
	WasherHeight *float64 `hcl:"washer_height,optional"`
	WasherRatio  *float64 `hcl:"washer_ratio,optional"`
	BoreDiameter *float64 `hcl:"bore_diameter,optional"`
	ThreadSlop   *float64 `hcl:"thread_slop,optional"`
	ThreadFa     *float64 `hcl:"thread_fa,optional"`
	ThreadFs     *float64 `hcl:"thread_fs,optional"`
	BoreSegments *int     `hcl:"bore_segments,optional"`
}

type nutBlock struct {
	TorxSize      *int     `hcl:"torx_size,optional"`
	TorxFa        *float64 `hcl:"torx_fa,optional"`
	TorxFs        *float64 `hcl:"torx_fs,optional"`
	ChamferHeight *float64 `hcl:"chamfer_height,optional"`
	FlangeHeight  *float64 `hcl:"flange_height,optional"`
	SkirtHeight   *float64 `hcl:"skirt_height,optional"`
}

type cradleBlock struct {
	PlateRadius  *float64 `hcl:"plate_radius,optional"`
	BaseHeight   *float64 `hcl:"base_height,optional"`
	CollarHeight *float64 `hcl:"collar_height,optional"`
	RodLength    *float64 `hcl:"rod_length,optional"`
	RodGap       *float64 `hcl:"rod_gap,optional"`
}

type jointBlock struct {
	TopRadius       *float64 `hcl:"top_radius,optional"`
	RotateHeight    *float64 `hcl:"rotate_height,optional"`
	GapHeight       *float64 `hcl:"gap_height,optional"`
	PocketClearance *float64 `hcl:"pocket_clearance,optional"`
	CollarWall      *float64 `hcl:"collar_wall,optional"`
	BoreSlopWide    *float64 `hcl:"bore_slop_wide,optional"`
	BoreSlopNarrow  *float64 `hcl:"bore_slop_narrow,optional"`
}

// Units are exposed to expressions as variables.
var Units = map[string]float64{
	"mm":   1,
	"cm":   10,
	"inch": 25.4,
}

func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(Units))
	for name, v := range Units {
		vars[name] = cty.NumberFloatVal(v)
	}
	return &hcl.EvalContext{Variables: vars}
}

// Load reads path and overlays it onto the default configuration.
func Load(path string) (parts.Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return parts.Config{}, fmt.Errorf("config: failed to parse %s: %w", path, diags)
	}
	return decode(f, path, parts.DefaultConfig())
}

// Parse decodes HCL source onto base. filename is used in diagnostics.
func Parse(src []byte, filename string, base parts.Config) (parts.Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return parts.Config{}, fmt.Errorf("config: failed to parse %s: %w", filename, diags)
	}
	return decode(f, filename, base)
}

func decode(f *hcl.File, filename string, base parts.Config) (parts.Config, error) {
	var raw hclFile
	if diags := gohcl.DecodeBody(f.Body, evalContext(), &raw); diags.HasErrors() {
		return parts.Config{}, fmt.Errorf("config: failed to decode %s: %w", filename, diags)
	}
	cfg := raw.apply(base)
	if err := cfg.Validate(); err != nil {
		return parts.Config{}, fmt.Errorf("config: %s: %w", filename, err)
	}
	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// apply returns base with every value present in the file replaced.
func (f hclFile) apply(base parts.Config) parts.Config {
	c := base
	set(&c.Diameter, f.Diameter)
	set(&c.PipeRadius, f.PipeRadius)
	set(&c.Pitch, f.Pitch)
	set(&c.PreviewFix, f.PreviewFix)
	set(&c.UnprintableThickness, f.UnprintableThickness)

	if b := f.Fastener; b != nil {
		set(&c.BoltLength, b.BoltLength)
		set(&c.NutLength, b.NutLength)
		set(&c.WasherHeight, b.WasherHeight)
		set(&c.WasherRatio, b.WasherRatio)
		set(&c.BoreDiameter, b.BoreDiameter)
		set(&c.ThreadSlop, b.ThreadSlop)
		set(&c.ThreadFa, b.ThreadFa)
		set(&c.ThreadFs, b.ThreadFs)
		set(&c.BoreSegments, b.BoreSegments)
	}
	if b := f.Nut; b != nil {
		set(&c.TorxSize, b.TorxSize)
		set(&c.TorxFa, b.TorxFa)
		set(&c.TorxFs, b.TorxFs)
		set(&c.NutChamferHeight, b.ChamferHeight)
		set(&c.NutFlangeHeight, b.FlangeHeight)
		set(&c.NutSkirtHeight, b.SkirtHeight)
	}
	if b := f.Cradle; b != nil {
		set(&c.PlateRadius, b.PlateRadius)
		set(&c.CradleBaseHeight, b.BaseHeight)
		set(&c.CradleCollarHeight, b.CollarHeight)
		set(&c.RodLength, b.RodLength)
		set(&c.RodGap, b.RodGap)
	}
	if b := f.Joint; b != nil {
		set(&c.TopRadius, b.TopRadius)
		set(&c.RotateHeight, b.RotateHeight)
		set(&c.GapHeight, b.GapHeight)
		set(&c.PocketClearance, b.PocketClearance)
		set(&c.CollarWall, b.CollarWall)
		set(&c.BoreSlopWide, b.BoreSlopWide)
		set(&c.BoreSlopNarrow, b.BoreSlopNarrow)
	}
	return c
}
