package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/chazu/rodjoint/pkg/assembly"
	"github.com/chazu/rodjoint/pkg/parts"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateEmptyString(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  "} {
		p, evalErrs, err := NewEngine().Evaluate(src, parts.DefaultConfig())
		require.NoError(t, err)
		require.Empty(t, evalErrs)
		require.NotNil(t, p)
		assert.Empty(t, cmp.Diff(parts.DefaultConfig(), p.Config))
		assert.Equal(t, assembly.Names(), p.Builders)
	}
}

func TestEvaluateKeepsBase(t *testing.T) {
	base := parts.DefaultConfig()
	base.Diameter = 18
	p, evalErrs, err := NewEngine().Evaluate("(+ 1 2)", base)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	assert.Equal(t, 18.0, p.Config.Diameter)
}

func TestEvaluateSyntaxError(t *testing.T) {
	p, evalErrs, err := NewEngine().Evaluate("(+ 1 2", parts.DefaultConfig())
	require.NoError(t, err, "syntax errors are not fatal")
	assert.Nil(t, p)
	require.NotEmpty(t, evalErrs)
	assert.NotEmpty(t, evalErrs[0].Message)
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	p, evalErrs, err := NewEngine().Evaluate("(undefined-fn 1 2)", parts.DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NotEmpty(t, evalErrs)
}

func TestEvaluateInvalidConfigIsEvalError(t *testing.T) {
	p, evalErrs, err := NewEngine().Evaluate("(params :pitch 40)", parts.DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, p)
	require.Len(t, evalErrs, 1)
	assert.Contains(t, evalErrs[0].Message, "pitch must be less than diameter")
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	assert.Equal(t, "line 5: something went wrong", e.Error())

	e2 := EvalError{Message: "no location"}
	assert.Equal(t, "no location", e2.Error())
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	src := "(params :diameter 16)\n(build \"joint_half\")"
	first, evalErrs, err := eng.Evaluate(src, parts.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	for i := 0; i < 4; i++ {
		p, evalErrs, err := eng.Evaluate(src, parts.DefaultConfig())
		require.NoError(t, err)
		require.Empty(t, evalErrs)
		assert.Empty(t, cmp.Diff(first, p), "iteration %d", i)
	}
}

func TestPlanEntries(t *testing.T) {
	p, _, err := NewEngine().Evaluate(`(build "joint_half" "middle_bolt")`, parts.DefaultConfig())
	require.NoError(t, err)
	entries, err := p.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "middle_bolt", entries[0].Name)
	assert.Equal(t, "joint_half", entries[1].Name)
}

func TestEvaluateTimeout(t *testing.T) {
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult) // never sends

	done := make(chan error, 1)
	go func() {
		_, _, err := waitWithTimeout(ch, 1, &mu, &gen)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
	case <-time.After(EvalTimeout + 2*time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2)

	ch := make(chan evalResult, 1)
	ch <- evalResult{plan: &Plan{}}

	_, _, err := waitWithTimeout(ch, 1, &mu, &gen)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "superseded")
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{"error on line format", "Error on line 5: unexpected token\n", 5, "unexpected token"},
		{"no line info", "some generic error", 0, "some generic error"},
		{"line format lowercase", "error on line 12: missing paren", 12, "missing paren"},
		{"short line format", "line 3: bad", 3, "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantLine, errs[0].Line)
			assert.Contains(t, errs[0].Message, tt.wantMsg)
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
