package filter

import (
	"strings"

	"github.com/s0up4200/cobweb/prepmod"
)

// MatchFunc reports whether a clinic should be kept
type MatchFunc func(prepmod.ClinicRecord) bool

// MatchAll keeps every clinic
func MatchAll(prepmod.ClinicRecord) bool { return true }

// ParseAndCreateFilter compiles an expression and returns a filter function
func ParseAndCreateFilter(expression string) (MatchFunc, error) {
	if strings.TrimSpace(expression) == "" {
		// Empty filter matches everything
		return MatchAll, nil
	}

	compiled, err := NewExprCompiler().Compile(expression)
	if err != nil {
		return nil, err
	}

	return compiled.Evaluate, nil
}

// Apply returns the clinics accepted by match, preserving their order
func Apply(clinics []prepmod.ClinicRecord, match MatchFunc) []prepmod.ClinicRecord {
	if match == nil {
		return clinics
	}

	kept := make([]prepmod.ClinicRecord, 0, len(clinics))
	for _, clinic := range clinics {
		if match(clinic) {
			kept = append(kept, clinic)
		}
	}
	return kept
}
