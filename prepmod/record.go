package prepmod

import (
	"regexp"
	"strconv"
)

// clinicNamePattern splits "<name> on <MM/DD/YYYY>" headings.
var clinicNamePattern = regexp.MustCompile(`^(.*) on (\d\d/\d\d/\d\d\d\d)$`)

// ClinicRecord is a single clinic scraped from a search results page.
// Optional fields use the empty string for "absent".
type ClinicRecord struct {
	Name            string
	Date            string
	Availability    string
	ClinicID        string
	RegistrationURL string
}

// Classify splits a raw clinic heading into name and date. When the heading
// does not end in " on MM/DD/YYYY" the whole string is the name and date is empty.
func Classify(raw string) (name, date string) {
	caps := clinicNamePattern.FindStringSubmatch(raw)
	if caps == nil {
		return raw, ""
	}
	return caps[1], caps[2]
}

// NewClinicRecord builds a record from the scraped heading, availability text
// and registration URL.
func NewClinicRecord(rawName, availability, registrationURL string) ClinicRecord {
	name, date := Classify(rawName)
	return ClinicRecord{
		Name:            name,
		Date:            date,
		Availability:    availability,
		RegistrationURL: registrationURL,
	}
}

// HasAvailability reports whether the clinic has open appointments.
func (c ClinicRecord) HasAvailability() bool {
	return c.Availability != "" && c.Availability != "0"
}

// HasDate reports whether a date was split out of the heading
func (c ClinicRecord) HasDate() bool {
	return c.Date != ""
}

// HasRegistrationURL reports whether a registration link was found
func (c ClinicRecord) HasRegistrationURL() bool {
	return c.RegistrationURL != ""
}

// NameAndDate returns "<name> on <date>", or just the name when there is no date.
func (c ClinicRecord) NameAndDate() string {
	if c.Date == "" {
		return c.Name
	}
	return c.Name + " on " + c.Date
}

// AvailableCount parses the availability text. Absent or non-numeric text counts as zero.
func (c ClinicRecord) AvailableCount() int {
	n, err := strconv.Atoi(c.Availability)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
