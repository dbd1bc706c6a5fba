package engine

import (
	"strings"
	"testing"

	"github.com/chazu/rodjoint/pkg/parts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(params :pitch 2)`, `(params "__kw_pitch" 2)`},
		{"multiple keywords", `(params :diameter 16 :pitch 1.5)`, `(params "__kw_diameter" 16 "__kw_pitch" 1.5)`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(def rod-gap :rod-gap)`, `(def rod_gap "__kw_rod-gap")`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"comment converted to // style", `;; comment with :keyword`, `// comment with :keyword`},
		{"single semicolon comment", `; simple comment`, `// simple comment`},
		{"hyphen in keyword preserved", `:pipe-radius`, `"__kw_pipe-radius"`},
		{"backtick string preserved", "`a-b :c`", "`a-b :c`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}

func evaluate(t *testing.T, src string) (*Plan, []EvalError) {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(src, parts.DefaultConfig())
	require.NoError(t, err)
	return p, evalErrs
}

func messages(errs []EvalError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return b.String()
}

func TestParamsOverride(t *testing.T) {
	src := `
; heavier fastener
(params :diameter 16 :pipe-radius 12 :bore_segments 24)
(params :pitch 1.5)
`
	p, evalErrs := evaluate(t, src)
	require.Empty(t, evalErrs, messages(evalErrs))

	want := parts.DefaultConfig()
	want.Diameter = 16
	want.PipeRadius = 12
	want.BoreSegments = 24
	want.Pitch = 1.5
	assert.Equal(t, want, p.Config)
}

func TestParamsWithVariables(t *testing.T) {
	src := `
(def factor 2.0)
(params :nut-length (* 10.0 factor))
`
	p, evalErrs := evaluate(t, src)
	require.Empty(t, evalErrs, messages(evalErrs))
	assert.Equal(t, 20.0, p.Config.NutLength)
}

func TestConfigReadsCurrentValue(t *testing.T) {
	src := `
(params :diameter 18.0)
(params :pipe-radius (- (config "diameter") 6.0))
(params :bore-segments (+ (config :bore-segments) 2))
`
	p, evalErrs := evaluate(t, src)
	require.Empty(t, evalErrs, messages(evalErrs))
	assert.Equal(t, 12.0, p.Config.PipeRadius)
	assert.Equal(t, 32, p.Config.BoreSegments)
}

func TestBuildSelectsInManifestOrder(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"strings", `(build "joint_half" "middle_bolt")`, []string{"middle_bolt", "joint_half"}},
		{"keyword", `(build :rod-cradle)`, []string{"rod_cradle"}},
		{"array", `(build ["rod_cradle" "joint_half"])`, []string{"rod_cradle", "joint_half"}},
		{"repeated", "(build \"joint_half\")\n(build \"joint_half\")", []string{"joint_half"}},
		{"none", `(params :pitch 2)`, []string{"middle_bolt", "rod_cradle", "joint_half"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, evalErrs := evaluate(t, tt.src)
			require.Empty(t, evalErrs, messages(evalErrs))
			assert.Equal(t, tt.want, p.Builders)
		})
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown parameter", `(params :radius 3)`, "unknown parameter"},
		{"positional params", `(params 3)`, "expected keyword arguments"},
		{"non-number", `(params :diameter "wide")`, "expected number"},
		{"fractional integer", `(params :torx-size 55.5)`, "expected integer"},
		{"unknown builder", `(build "bracket")`, "unknown builder"},
		{"empty build", `(build)`, "at least one builder"},
		{"config arity", `(config)`, "exactly one parameter"},
		{"config unknown", `(config "radius")`, "unknown parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, evalErrs := evaluate(t, tt.src)
			assert.Nil(t, p)
			require.NotEmpty(t, evalErrs)
			assert.Contains(t, messages(evalErrs), tt.want)
		})
	}
}

func TestParamsDoNotLeakBetweenEvaluations(t *testing.T) {
	eng := NewEngine()
	_, _, err := eng.Evaluate("(params :diameter 20.0)", parts.DefaultConfig())
	require.NoError(t, err)

	p, evalErrs, err := eng.Evaluate("", parts.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	assert.Equal(t, 15.0, p.Config.Diameter)
}
