package prepmod

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const (
	// ClinicSelector locates one container per clinic on a results page.
	ClinicSelector = `body > div.main-container > div.mt-24.border-t.border-gray-200 > div.md\:flex > div.md\:flex-shrink`

	nameSelector     = "p"
	labelSelector    = "p > strong"
	scheduleSelector = "p > a"

	availabilityLabel = "Available Appointments"
)

// Extractor pulls clinic records out of a search results page.
type Extractor struct {
	baseURL string
	logger  zerolog.Logger
}

// NewExtractor creates an extractor that resolves registration links
// against baseURL.
func NewExtractor(baseURL string, logger zerolog.Logger) *Extractor {
	return &Extractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Extract returns one record per clinic container, in page order. Containers
// without a name are logged and skipped; missing availability or links just
// leave those fields empty.
func (e *Extractor) Extract(doc *goquery.Document) []ClinicRecord {
	return e.extract(doc, e.logger)
}

// ExtractPage is Extract with the results page number attached to its logs.
func (e *Extractor) ExtractPage(doc *goquery.Document, page int) []ClinicRecord {
	return e.extract(doc, e.logger.With().Int("page", page).Logger())
}

func (e *Extractor) extract(doc *goquery.Document, logger zerolog.Logger) []ClinicRecord {
	var records []ClinicRecord

	doc.Find(ClinicSelector).Each(func(i int, clinic *goquery.Selection) {
		name, ok := clinicName(clinic)
		if !ok {
			logger.Warn().
				Int("index", i).
				Msg("Clinic without a name, page layout may have changed")
			return
		}

		records = append(records, NewClinicRecord(name, availability(clinic), e.registrationURL(clinic)))
	})

	return records
}

// clinicName is the first text node of the first paragraph, trimmed.
func clinicName(clinic *goquery.Selection) (string, bool) {
	p := clinic.Find(nameSelector).First()
	if p.Length() == 0 {
		return "", false
	}

	text, ok := textPart(p.Get(0), 0)
	if !ok {
		return "", false
	}

	text = strings.TrimSpace(text)
	return text, text != ""
}

// availability finds the "Available Appointments" label and returns the text
// that follows it inside the same paragraph.
func availability(clinic *goquery.Selection) string {
	var value string

	clinic.Find(labelSelector).EachWithBreak(func(_ int, label *goquery.Selection) bool {
		node := label.Get(0)
		if !strings.HasPrefix(joinedText(node), availabilityLabel) {
			return true
		}

		if text, ok := textPart(node.Parent, 1); ok {
			value = strings.TrimSpace(text)
		}
		return false
	})

	return value
}

// registrationURL resolves the last schedule link of the clinic.
func (e *Extractor) registrationURL(clinic *goquery.Selection) string {
	var link string

	clinic.Find(scheduleSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}

		link = e.baseURL + href
		e.logger.Trace().
			Str("label", strings.TrimSpace(joinedText(a.Get(0)))).
			Str("url", link).
			Msg("Schedule link")
	})

	return link
}
