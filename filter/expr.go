package filter

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/staffeli/entity"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression  string
	program     *vm.Program
	helperFuncs map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	env := make(map[string]any, len(c.helperFuncs)+1)
	maps.Copy(env, c.helperFuncs)
	env["hasKey"] = func(string) bool { return false }

	// Compile with static environment for validation
	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(), // entity fields are only known at runtime
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &exprFilter{
		expression:  expression,
		program:     program,
		helperFuncs: c.helperFuncs,
	}, nil
}

// Evaluate evaluates the filter against an entity
func (f *exprFilter) Evaluate(e entity.Entity) bool {
	ok, err := f.Match(e)
	return err == nil && ok
}

// Match evaluates the filter and reports runtime errors
func (f *exprFilter) Match(e entity.Entity) (bool, error) {
	result, err := expr.Run(f.program, f.runtimeEnvironment(e))
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Entity:     e.Label(),
			Reason:     "failed to evaluate expression",
			Err:        err,
		}
	}

	// Untyped fields can still yield a non-bool at runtime
	matched, ok := result.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			Entity:     e.Label(),
			Reason:     "expression did not yield a boolean",
			Err:        fmt.Errorf("got %T", result),
		}
	}
	return matched, nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// runtimeEnvironment exposes every top-level field of e by name, the whole
// entity as Entity, and the helpers. Helpers shadow fields of the same name.
func (f *exprFilter) runtimeEnvironment(e entity.Entity) map[string]any {
	env := make(map[string]any, len(e)+len(f.helperFuncs)+2)

	for k, v := range e {
		env[k] = v
	}
	env["Entity"] = map[string]any(e)

	maps.Copy(env, f.helperFuncs)
	env["hasKey"] = func(key string) bool {
		return e.Has(key)
	}

	return env
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["parseTime"] = parseTime
	env["daysSince"] = func(v any) int {
		t := parseTime(v)
		if t.IsZero() {
			return 0
		}
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse("2006-01-02", dateStr)
		return t
	}
	// String helpers
	env["hasSubstr"] = func(str any, substr string) bool {
		return strings.Contains(strings.ToLower(toString(str)), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str any, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(toString(str)), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str any, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(toString(str)), strings.ToLower(suffix))
	}
	env["lower"] = func(str any) string { return strings.ToLower(toString(str)) }
	env["upper"] = func(str any) string { return strings.ToUpper(toString(str)) }
	// Current time
	env["now"] = time.Now
}

// parseTime accepts the ISO 8601 timestamps Canvas returns. Anything else
// yields the zero time.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
