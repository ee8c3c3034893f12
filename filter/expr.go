package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/cobweb/prepmod"
)

// ClinicDateLayout is the layout of dates embedded in clinic headings
const ClinicDateLayout = "01/02/2006"

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	compiler   *exprCompiler
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// WithClock overrides the time source used by now and daysUntil
func WithClock(now func() time.Time) ExprCompilerOption {
	return func(c *exprCompiler) {
		if now != nil {
			c.now = now
		}
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) Compiler {
	c := &exprCompiler{
		helperFuncs: make(map[string]any),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	now         func() time.Time
}

// Compile compiles an expression into an executable filter. The expression
// is type checked against a clinic environment so unknown fields fail here
// rather than at evaluation time.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.environment(prepmod.ClinicRecord{})),
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
		expression: expression,
		program:    program,
		compiler:   c,
	}, nil
}

// Evaluate evaluates the filter against a clinic. Runtime errors count as
// a non-match.
func (f *exprFilter) Evaluate(clinic prepmod.ClinicRecord) bool {
	result, err := expr.Run(f.program, f.compiler.environment(clinic))
	if err != nil {
		return false
	}

	return result.(bool)
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// environment builds the evaluation environment for a clinic
func (c *exprCompiler) environment(clinic prepmod.ClinicRecord) map[string]any {
	env := make(map[string]any, 24)

	addHelperFunctions(env, c.now)
	maps.Copy(env, c.helperFuncs)

	env["Clinic"] = clinic
	env["Name"] = clinic.Name
	env["Date"] = clinic.Date
	env["Availability"] = clinic.AvailableCount()
	env["AvailabilityText"] = clinic.Availability
	env["HasAvailability"] = clinic.HasAvailability()
	env["RegistrationURL"] = clinic.RegistrationURL

	date, hasDate := clinicDate(clinic)
	env["onOrAfter"] = func(s string) bool {
		bound := parseDate(s)
		return hasDate && !bound.IsZero() && !date.Before(bound)
	}
	env["before"] = func(s string) bool {
		bound := parseDate(s)
		return hasDate && !bound.IsZero() && date.Before(bound)
	}
	env["daysUntil"] = func() int {
		if !hasDate {
			return 0
		}
		today := truncateDay(c.now())
		return int(date.Sub(today).Hours() / 24)
	}

	return env
}

// addHelperFunctions adds the record independent helpers to env
func addHelperFunctions(env map[string]any, now func() time.Time) {
	// Date helpers
	env["parseDate"] = parseDate
	env["now"] = now
	// String helpers, case insensitive. contains, startsWith and endsWith
	// are expr operators, so these use other names.
	env["has"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["beginsWith"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["endsIn"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
}

// parseDate accepts clinic dates (MM/DD/YYYY) and ISO dates. It returns the
// zero time for anything else.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ClinicDateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func clinicDate(clinic prepmod.ClinicRecord) (time.Time, bool) {
	if !clinic.HasDate() {
		return time.Time{}, false
	}
	t, err := time.Parse(ClinicDateLayout, clinic.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
