package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/s0up4200/cobweb/prepmod"
)

// Output formats
const (
	FormatText  = "text"
	FormatTable = "table"
)

// Options controls which clinics are reported
type Options struct {
	// ShowAll includes clinics without availability
	ShowAll bool
}

// Summary is the closing statistics line of a report
type Summary struct {
	Clinics          int
	WithAvailability int
	PagesFetched     int
}

// Summarize counts records for the summary line
func Summarize(records []prepmod.ClinicRecord, pagesFetched int) Summary {
	s := Summary{
		Clinics:      len(records),
		PagesFetched: pagesFetched,
	}
	for _, rec := range records {
		if rec.HasAvailability() {
			s.WithAvailability++
		}
	}
	return s
}

// Formatter renders clinic records for the console
type Formatter interface {
	FormatClinics(records []prepmod.ClinicRecord, options Options) string
	FormatSummary(summary Summary) string
}

// New returns the formatter for the named output format
func New(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewTextFormatter(), nil
	case FormatTable:
		return NewTableFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// TextFormatter prints one block per clinic, the classic cobweb output
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// FormatClinics formats clinics in extraction order. Clinics with
// availability get their count, registration link and a blank separator line.
func (f *TextFormatter) FormatClinics(records []prepmod.ClinicRecord, options Options) string {
	var sb strings.Builder

	for _, rec := range records {
		if rec.HasAvailability() {
			fmt.Fprintf(&sb, "%s has %s available\n", rec.NameAndDate(), rec.Availability)
			if rec.HasRegistrationURL() {
				fmt.Fprintf(&sb, "Register at %s\n", rec.RegistrationURL)
			}
			sb.WriteString("\n")
		} else if options.ShowAll {
			fmt.Fprintf(&sb, "%s has no availability\n", rec.NameAndDate())
		}
	}

	return sb.String()
}

// FormatSummary formats the statistics line
func (f *TextFormatter) FormatSummary(summary Summary) string {
	return formatSummary(summary)
}

// TableFormatter renders clinics as a rounded table
type TableFormatter struct {
	style table.Style
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{style: table.StyleRounded}
}

// FormatClinics formats the reported clinics as a single table. It returns
// an empty string when no clinic qualifies.
func (f *TableFormatter) FormatClinics(records []prepmod.ClinicRecord, options Options) string {
	t := table.NewWriter()
	t.SetStyle(f.style)
	t.AppendHeader(table.Row{"Clinic", "Date", "Available", "Register"})

	var rows int
	for _, rec := range records {
		switch {
		case rec.HasAvailability():
			t.AppendRow(table.Row{rec.Name, rec.Date, rec.Availability, rec.RegistrationURL})
		case options.ShowAll:
			t.AppendRow(table.Row{rec.Name, rec.Date, "none", ""})
		default:
			continue
		}
		rows++
	}

	if rows == 0 {
		return ""
	}
	return t.Render() + "\n\n"
}

// FormatSummary formats the statistics line
func (f *TableFormatter) FormatSummary(summary Summary) string {
	return formatSummary(summary)
}

func formatSummary(s Summary) string {
	return fmt.Sprintf("Found %d clinics, %d with availability (fetched %d pages)\n",
		s.Clinics, s.WithAvailability, s.PagesFetched)
}
