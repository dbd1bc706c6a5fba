// Package engine evaluates build scripts. A script is a zygomys program run
// in a sandbox; its builtins adjust part parameters and choose which
// builders run. The result is a Plan the CLI hands to the assembly.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/rodjoint/pkg/assembly"
	"github.com/chazu/rodjoint/pkg/parts"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError is a non-fatal error in user code, such as a parse error, a
// runtime error or a parameter set that does not validate.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Plan is the outcome of a script: the parameters to build with and the
// selected builders in manifest order.
type Plan struct {
	Config   parts.Config
	Builders []string
}

// Entries resolves the selected builders against the manifest.
func (p *Plan) Entries() ([]assembly.Entry, error) {
	return assembly.Select(p.Builders...)
}

// Engine evaluates scripts. It is safe for concurrent use; each call to
// Evaluate gets a fresh sandbox.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs source on top of base.
//
// Return semantics:
//   - On success: returns plan + nil errors + nil error
//   - On parse/eval failure: returns nil plan + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string, base parts.Config) (*Plan, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source, base)
		ch <- evalResult{plan: p, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string, base parts.Config) (*Plan, []EvalError, error) {
	st := newScriptState(base)

	if strings.TrimSpace(source) != "" {
		env := zygo.NewZlispSandbox()
		defer env.Stop()
		registerBuiltins(env, st)

		if err := env.LoadString(preprocessSource(source)); err != nil {
			return nil, parseZygomysError(err), nil
		}
		if _, err := env.Run(); err != nil {
			return nil, parseZygomysError(err), nil
		}
	}

	if err := st.cfg.Validate(); err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	entries, err := assembly.Select(st.builders...)
	if err != nil {
		return nil, []EvalError{{Message: err.Error()}}, nil
	}
	p := &Plan{Config: st.cfg}
	for _, en := range entries {
		p.Builders = append(p.Builders, en.Name)
	}
	return p, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting the line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
