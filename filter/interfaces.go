package filter

import (
	"github.com/s0up4200/staffeli/entity"
)

// Filter defines the basic interface for entity filters
type Filter interface {
	// Evaluate checks if an entity matches the filter criteria. Entities the
	// expression cannot be evaluated on do not match.
	Evaluate(e entity.Entity) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Match is Evaluate with the evaluation error reported
	Match(e entity.Entity) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}
