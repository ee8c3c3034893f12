package filter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/s0up4200/cobweb/prepmod"
)

var (
	gillette = prepmod.ClinicRecord{
		Name:            "Gillette Stadium",
		Date:            "03/01/2021",
		Availability:    "25",
		RegistrationURL: "https://www.maimmunizations.org/appointment/1",
	}
	eastfield = prepmod.ClinicRecord{
		Name:         "Eastfield Mall",
		Date:         "02/20/2021",
		Availability: "0",
	}
	reggie = prepmod.ClinicRecord{
		Name:         "Reggie Lewis Center",
		Availability: "4",
	}
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `has(Name, "mall")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `has(Name, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown field",
			expression: `Venue == "Gillette"`,
			wantErr:    true,
		},
		{
			name:       "non boolean result",
			expression: `Availability + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `HasAvailability && Availability >= 10 && onOrAfter("02/28/2021") && RegistrationURL != ""`,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter.Expression() != tt.expression {
				t.Errorf("Expression() = %q, want %q", filter.Expression(), tt.expression)
			}
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		clinic     prepmod.ClinicRecord
		want       bool
	}{
		{"numeric availability", `Availability >= 10`, gillette, true},
		{"numeric availability below", `Availability >= 10`, reggie, false},
		{"raw availability text", `AvailabilityText == "0"`, eastfield, true},
		{"has availability", `HasAvailability`, eastfield, false},
		{"case insensitive has", `has(Name, "STADIUM")`, gillette, true},
		{"begins with", `beginsWith(Name, "reggie")`, reggie, true},
		{"ends in", `endsIn(Name, "mall")`, eastfield, true},
		{"contains operator", `lower(Name) contains "gillette"`, gillette, true},
		{"starts with operator is case sensitive", `Name startsWith "reggie"`, reggie, false},
		{"documented example", `Availability >= 10 && has(Name, "gillette")`, gillette, true},
		{"documented example below threshold", `Availability >= 10 && has(Name, "gillette")`, reggie, false},
		{"lower", `lower(Name) == "eastfield mall"`, eastfield, true},
		{"upper", `upper(Name) == "REGGIE LEWIS CENTER"`, reggie, true},
		{"on or after same day", `onOrAfter("03/01/2021")`, gillette, true},
		{"on or after iso date", `onOrAfter("2021-02-21")`, eastfield, false},
		{"before", `before("2021-02-21")`, eastfield, true},
		{"undated clinic never matches dates", `onOrAfter("01/01/2000") || before("01/01/3000")`, reggie, false},
		{"unparseable bound", `onOrAfter("someday")`, gillette, false},
		{"record access", `Clinic.Name == Name`, gillette, true},
		{"registration url", `RegistrationURL == ""`, reggie, true},
		{"parse date helper", `parseDate(Date) == parseDate("2021-03-01")`, gillette, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := ParseAndCreateFilter(tt.expression)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := match(tt.clinic); got != tt.want {
				t.Errorf("filter %q on %q = %v, want %v", tt.expression, tt.clinic.Name, got, tt.want)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	clock := func() time.Time { return time.Date(2021, 2, 25, 15, 30, 0, 0, time.UTC) }
	compiler := NewExprCompiler(WithClock(clock))

	filter, err := compiler.Compile(`daysUntil() == 4`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filter.Evaluate(gillette) {
		t.Errorf("expected 4 days until %s", gillette.Date)
	}
	if filter.Evaluate(reggie) {
		t.Errorf("undated clinic should report 0 days")
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isStadium": func(name string) bool { return strings.HasSuffix(name, "Stadium") },
	}))

	filter, err := compiler.Compile(`isStadium(Name)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filter.Evaluate(gillette) || filter.Evaluate(eastfield) {
		t.Errorf("custom function not applied")
	}
}

func TestEmptyFilterMatchesAll(t *testing.T) {
	match, err := ParseAndCreateFilter("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, clinic := range []prepmod.ClinicRecord{gillette, eastfield, reggie, {}} {
		if !match(clinic) {
			t.Errorf("empty filter rejected %q", clinic.Name)
		}
	}
}

func TestApply(t *testing.T) {
	clinics := []prepmod.ClinicRecord{gillette, eastfield, reggie}

	match, err := ParseAndCreateFilter(`HasAvailability`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := Apply(clinics, match)
	if len(got) != 2 || got[0].Name != gillette.Name || got[1].Name != reggie.Name {
		t.Errorf("Apply() = %v, want [%s %s]", got, gillette.Name, reggie.Name)
	}

	if got := Apply(clinics, nil); len(got) != len(clinics) {
		t.Errorf("nil match should keep all clinics, got %d", len(got))
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	err := m.RegisterFilters(map[string]string{
		"plenty": `Availability >= 10`,
		"malls":  `has(Name, "mall")`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := m.ListFilters()
	if len(names) != 2 || names[0] != "malls" || names[1] != "plenty" {
		t.Errorf("ListFilters() = %v", names)
	}

	if _, ok := m.GetFilter("plenty"); !ok {
		t.Errorf("expected preset plenty")
	}

	err = m.RegisterFilters(map[string]string{"broken": `Availability >=`, "ok": `true`})
	var presetErr *PresetError
	if !errors.As(err, &presetErr) || presetErr.Name != "broken" {
		t.Fatalf("expected PresetError for broken, got %v", err)
	}
	if _, ok := m.GetFilter("ok"); ok {
		t.Errorf("no preset should be registered when one fails")
	}
	var compErr *CompilationError
	if !errors.As(err, &compErr) {
		t.Errorf("PresetError should wrap the compilation error")
	}
}

func TestManagerResolve(t *testing.T) {
	m := NewManager()
	if err := m.RegisterFilter("malls", `has(Name, "mall")`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name       string
		expression string
		preset     string
		fallback   string
		want       []string
		wantErr    bool
	}{
		{
			name: "nothing set keeps all",
			want: []string{gillette.Name, eastfield.Name, reggie.Name},
		},
		{
			name:     "default applies",
			fallback: `HasAvailability`,
			want:     []string{gillette.Name, reggie.Name},
		},
		{
			name:     "preset beats default",
			preset:   "malls",
			fallback: `HasAvailability`,
			want:     []string{eastfield.Name},
		},
		{
			name:       "expression beats preset",
			expression: `Availability == 4`,
			preset:     "malls",
			want:       []string{reggie.Name},
		},
		{
			name:    "unknown preset",
			preset:  "stadiums",
			wantErr: true,
		},
		{
			name:       "bad expression",
			expression: `Name ==`,
			wantErr:    true,
		},
	}

	clinics := []prepmod.ClinicRecord{gillette, eastfield, reggie}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := m.Resolve(tt.expression, tt.preset, tt.fallback)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got []string
			for _, c := range Apply(clinics, match) {
				got = append(got, c.Name)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Resolve() kept %v, want %v", got, tt.want)
			}
		})
	}
}
