package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/stlwrap/pkg/wrap"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites script source before zygomys sees it:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global bindings.
//  2. kebab-case identifiers become snake_case (half-wrap -> half_wrap),
//     since zygomys reads a bare hyphen as subtraction.
//  3. ; line comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		if b[i] == '"' || b[i] == '`' {
			j := skipString(b, i)
			result = append(result, b[i:j]...)
			i = j
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only a hyphen between identifier characters is kebab-case.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

// skipString returns the index just past the string literal starting at i.
// Double-quoted strings honour backslash escapes; backtick strings do not.
func skipString(b []byte, i int) int {
	quote := b[i]
	j := i + 1
	for j < len(b) && b[j] != quote {
		if quote == '"' && b[j] == '\\' && j+1 < len(b) {
			j++
		}
		j++
	}
	if j < len(b) {
		j++
	}
	return j
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

// toInt extracts an integer from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a SexpBool.
func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toAxis converts a keyword or string to a wrap.Axis.
func toAxis(s zygo.Sexp) (wrap.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	return wrap.ParseAxis(name)
}

// toStrategy converts a keyword or string to a wrap.Strategy.
func toStrategy(s zygo.Sexp) (wrap.Strategy, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected strategy keyword (:midpoint, :centroid): %w", err)
	}
	return wrap.ParseStrategy(name)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// jobState collects what a script configures.
type jobState struct {
	cfg    wrap.Config
	called bool
}

// registerBuiltins installs the wrap-job builtins into a zygomys
// environment. Source must go through preprocessSource first so that
// :keyword tokens reach the builtins as recognisable strings.
func registerBuiltins(env *zygo.Zlisp, job *jobState) {
	// (full-wrap) and (half-wrap) name the two supported sweeps.
	env.AddFunction("full_wrap", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: wrap.FullSweep}, nil
	})
	env.AddFunction("half_wrap", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: wrap.HalfSweep}, nil
	})

	// (wrap :axis :x :radius :y :max-length 1.0 :sweep 6.28 :strategy :midpoint
	//       :max-depth 32 :epsilon 1e-9 :refine true)
	// Every keyword is optional; unset ones keep their base value.
	env.AddFunction("wrap", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if job.called {
			return zygo.SexpNull, fmt.Errorf("wrap may only be called once per script")
		}
		a := parseArgs(args)
		if len(a.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("wrap: unexpected positional argument %s", a.positional[0].SexpString(nil))
		}

		cfg := job.cfg
		for kw, v := range a.kw {
			var err error
			switch kw {
			case "axis":
				cfg.WrapAxis, err = toAxis(v)
			case "radius":
				cfg.RadiusAxis, err = toAxis(v)
			case "max-length":
				cfg.MaxEdgeLength, err = toFloat64(v)
			case "sweep":
				cfg.Sweep, err = toFloat64(v)
			case "strategy":
				cfg.Strategy, err = toStrategy(v)
			case "max-depth":
				cfg.MaxDepth, err = toInt(v)
			case "epsilon":
				cfg.Epsilon, err = toFloat64(v)
			case "refine":
				cfg.Refine, err = toBool(v)
			default:
				err = fmt.Errorf("unknown keyword")
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("wrap: %s: %w", kw, err)
			}
		}

		job.cfg = cfg
		job.called = true
		return zygo.SexpNull, nil
	})
}
