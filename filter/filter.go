package filter

import (
	"github.com/s0up4200/staffeli/entity"
)

// DefaultAssignmentFilter picks the assignments worth fetching submissions
// for.
const DefaultAssignmentFilter = `grading_type != "not_graded"`

var defaultCompiler = NewExprCompiler()

// Compile compiles expression with the default helpers.
func Compile(expression string) (CompiledFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Select returns the entities of list that f matches, in order. The first
// evaluation error aborts the selection.
func Select(list entity.List, f CompiledFilter) (entity.List, error) {
	out := make(entity.List, 0, len(list))
	for _, e := range list {
		ok, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}
