package engine

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/chazu/rodjoint/pkg/assembly"
	"github.com/chazu/rodjoint/pkg/parts"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: pipe-radius -> pipe_radius
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treated as a flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Script state
// ---------------------------------------------------------------------------

// paramFields maps a parameter name (the json name of a parts.Config
// field) to its field index.
var paramFields = func() map[string]int {
	t := reflect.TypeOf(parts.Config{})
	m := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			m[name] = i
		}
	}
	return m
}()

// paramName normalizes a keyword or string to a parameter name.
func paramName(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}

// scriptState is what builtins mutate during one evaluation.
type scriptState struct {
	cfg      parts.Config
	builders []string
}

func newScriptState(base parts.Config) *scriptState {
	return &scriptState{cfg: base}
}

func (st *scriptState) field(name string) (reflect.Value, error) {
	i, ok := paramFields[paramName(name)]
	if !ok {
		return reflect.Value{}, fmt.Errorf("unknown parameter %q", name)
	}
	return reflect.ValueOf(&st.cfg).Elem().Field(i), nil
}

func (st *scriptState) set(name string, s zygo.Sexp) error {
	f, err := st.field(name)
	if err != nil {
		return err
	}
	v, err := toFloat64(s)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	switch f.Kind() {
	case reflect.Float64:
		f.SetFloat(v)
	case reflect.Int:
		if v != math.Trunc(v) {
			return fmt.Errorf("%s: expected integer, got %g", name, v)
		}
		f.SetInt(int64(v))
	default:
		return fmt.Errorf("%s: unsupported parameter type %s", name, f.Kind())
	}
	return nil
}

func (st *scriptState) get(name string) (zygo.Sexp, error) {
	f, err := st.field(name)
	if err != nil {
		return zygo.SexpNull, err
	}
	if f.Kind() == reflect.Int {
		return &zygo.SexpInt{Val: f.Int()}, nil
	}
	return &zygo.SexpFloat{Val: f.Float()}, nil
}

func (st *scriptState) selectBuilder(s zygo.Sexp) error {
	name, err := toKeywordString(s)
	if err != nil {
		return err
	}
	name = paramName(name)
	if _, err := assembly.Select(name); err != nil {
		return err
	}
	st.builders = append(st.builders, name)
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the script builtins. Source must be
// preprocessed with preprocessSource so keywords are recognizable.
func registerBuiltins(env *zygo.Zlisp, st *scriptState) {

	// (params :diameter 16 :pipe-radius 12)
	env.AddFunction("params", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("params: expected keyword arguments, got %s", pa.positional[0].SexpString(nil))
		}
		for k, v := range pa.kw {
			if err := st.set(k, v); err != nil {
				return zygo.SexpNull, fmt.Errorf("params: %w", err)
			}
		}
		return zygo.SexpNull, nil
	})

	// (build "middle_bolt" :joint-half) or (build ["rod_cradle"])
	env.AddFunction("build", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("build requires at least one builder name")
		}
		for _, a := range args {
			items := []zygo.Sexp{a}
			switch a.(type) {
			case *zygo.SexpPair, *zygo.SexpArray:
				l, err := sexpListToSlice(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("build: %w", err)
				}
				items = l
			}
			for _, it := range items {
				if err := st.selectBuilder(it); err != nil {
					return zygo.SexpNull, fmt.Errorf("build: %w", err)
				}
			}
		}
		return zygo.SexpNull, nil
	})

	// (config "diameter") or (config :pipe-radius)
	env.AddFunction("config", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("config requires exactly one parameter name")
		}
		key, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("config: %w", err)
		}
		v, err := st.get(key)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("config: %w", err)
		}
		return v, nil
	})
}
