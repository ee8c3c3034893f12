package filter

import (
	"github.com/s0up4200/cobweb/prepmod"
)

// Filter defines the basic interface for clinic filters
type Filter interface {
	// Evaluate checks if a clinic matches the filter criteria
	Evaluate(clinic prepmod.ClinicRecord) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}
